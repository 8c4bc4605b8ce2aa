package middleware

import (
	"net/http"

	"github.com/baechuer/account-service/internal/domain"
	"github.com/baechuer/account-service/internal/infrastructure/security"
)

type TokenAuthenticator interface {
	Authenticate(token string) (domain.Claims, error)
}

type WriteErrFunc func(http.ResponseWriter, *http.Request, error)

// Auth reads the access token (bearer header first, then the access cookie),
// decodes it and injects the claims into the request context.
// Claims come from the token alone; the store is not consulted.
func Auth(verifier TokenAuthenticator, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := security.ReadAccessToken(r)
			if !ok {
				writeErr(w, r, domain.ErrTokenMissing())
				return
			}

			claims, err := verifier.Authenticate(raw)
			if err != nil {
				writeErr(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}
