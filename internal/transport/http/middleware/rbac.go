package middleware

import (
	"net/http"

	"github.com/baechuer/account-service/internal/domain"
)

// RequireActive rejects callers whose token says the account is not activated.
// Assumes Auth() middleware has already injected claims into context.
func RequireActive(writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, ok := ClaimsFromContext(r.Context())
			if !ok {
				// Middleware ordering issue (Auth not applied)
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}
			if !c.IsActive {
				writeErr(w, r, domain.ErrInactiveUser())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole allows only callers whose token carries exactly role.
func RequireRole(role domain.Role, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}
			if !domain.IsValidRole(string(role)) {
				// misconfigured route
				writeErr(w, r, domain.ErrForbidden())
				return
			}
			if c.Role != role {
				writeErr(w, r, domain.ErrInsufficientRole(string(role)))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
