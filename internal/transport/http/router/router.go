package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/account-service/internal/transport/http/docs"
)

type HealthHandler interface {
	Healthz(w http.ResponseWriter, r *http.Request)
	Readyz(w http.ResponseWriter, r *http.Request)
}

type AccountHandler interface {
	// Registration / verification
	Register(w http.ResponseWriter, r *http.Request)
	ResendVerification(w http.ResponseWriter, r *http.Request)
	VerifyLink(w http.ResponseWriter, r *http.Request)
	VerifyPIN(w http.ResponseWriter, r *http.Request)

	// Session
	LoginToken(w http.ResponseWriter, r *http.Request)
	LoginCookie(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	Refresh(w http.ResponseWriter, r *http.Request)
	RefreshCookie(w http.ResponseWriter, r *http.Request)

	// Directory
	Me(w http.ResponseWriter, r *http.Request)
	ListUsers(w http.ResponseWriter, r *http.Request)
	GetUser(w http.ResponseWriter, r *http.Request)
	ListAllUsers(w http.ResponseWriter, r *http.Request)
}

type Deps struct {
	Health  HealthHandler
	Account AccountHandler

	RequestIDMW func(http.Handler) http.Handler
	AuthMW      func(http.Handler) http.Handler
	ActiveMW    func(http.Handler) http.Handler
	AdminMW     func(http.Handler) http.Handler

	// Optional, applied after RequestIDMW in order (access log, metrics, CORS).
	Middlewares []func(http.Handler) http.Handler

	// Optional; served at /metrics when set.
	Metrics http.Handler
}

func New(deps Deps) (http.Handler, error) {
	if deps.Health == nil {
		return nil, fmt.Errorf("nil Health handler")
	}
	if deps.Account == nil {
		return nil, fmt.Errorf("nil Account handler")
	}
	if deps.RequestIDMW == nil {
		return nil, fmt.Errorf("nil RequestID middleware")
	}
	if deps.AuthMW == nil {
		return nil, fmt.Errorf("nil Auth middleware")
	}
	if deps.ActiveMW == nil {
		return nil, fmt.Errorf("nil Active middleware")
	}
	if deps.AdminMW == nil {
		return nil, fmt.Errorf("nil Admin middleware")
	}

	r := chi.NewRouter()
	r.Use(deps.RequestIDMW)
	for _, mw := range deps.Middlewares {
		if mw != nil {
			r.Use(mw)
		}
	}

	// --- API docs ---
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/docs", http.StatusTemporaryRedirect)
	})
	r.Get("/docs", docs.UIHandler)
	r.Get(docs.SpecPath, docs.OpenAPIHandler)

	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	a := deps.Account

	// --- Registration / verification ---
	r.Post("/register", a.Register)
	r.Get("/verify/{token}", a.VerifyLink)
	r.With(deps.AuthMW).Post("/verify", a.VerifyPIN) // ?pin=NNNN
	r.With(deps.AuthMW).Post("/resend_verification_email", a.ResendVerification)

	// --- Session ---
	r.Post("/login_token", a.LoginToken)
	r.Post("/login_cookie", a.LoginCookie)
	r.Post("/logout", a.Logout)
	r.Post("/refresh", a.Refresh)
	r.Post("/refresh_cookie", a.RefreshCookie)

	// --- Directory ---
	r.With(deps.AuthMW).Get("/user/me", a.Me)
	r.Group(func(r chi.Router) {
		r.Use(deps.AuthMW)
		r.Use(deps.ActiveMW)
		r.Get("/users", a.ListUsers)
		r.Get("/users/{id}", a.GetUser)
	})
	r.With(deps.AuthMW, deps.AdminMW).Get("/adminsonly", a.ListAllUsers)

	return r, nil
}
