package http_handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/account-service/internal/domain"
	"github.com/baechuer/account-service/internal/logger"
	"github.com/baechuer/account-service/internal/transport/http/dto"
	"github.com/baechuer/account-service/internal/transport/http/middleware"
	"github.com/baechuer/account-service/internal/transport/http/response"
)

const (
	msgRegistered     = "Register successful, please check your email to activate your account"
	msgResent         = "Please check your email to activate your account"
	activatedTemplate = "Successfully activated %s!"
)

// Register handles POST /register.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	u, err := h.svc.Register(r.Context(), req.Email, req.Username, req.Password)
	middleware.RegistrationsTotal.WithLabelValues(registrationOutcome(err)).Inc()
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("user_id", u.ID).
		Str("username", u.Username).
		Msg("user_registered")

	response.Message(w, msgRegistered)
}

func registrationOutcome(err error) string {
	if domain.KindOf(err) == domain.KindConflict {
		return "conflict"
	}
	return middleware.Outcome(err)
}

// ResendVerification handles POST /resend_verification_email.
func (h *AccountHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	if err := h.svc.ResendVerification(r.Context(), claims.Username); err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("username", claims.Username).
		Msg("verification_resent")

	response.Message(w, msgResent)
}

// VerifyLink handles GET /verify/{token}.
func (h *AccountHandler) VerifyLink(w http.ResponseWriter, r *http.Request) {
	username, err := h.svc.ActivateByLink(r.Context(), chi.URLParam(r, "token"))
	middleware.ActivationsTotal.WithLabelValues("link", middleware.Outcome(err, "token_invalid", "already_activated")).Inc()
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("username", username).
		Str("method", "link").
		Msg("user_activated")

	response.HTML(w, http.StatusOK, activatedMessage(username))
}

// VerifyPIN handles POST /verify?pin=NNNN for the authenticated user.
func (h *AccountHandler) VerifyPIN(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	q := dto.PinQuery{PIN: r.URL.Query().Get("pin")}
	if err := q.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	username, err := h.svc.ActivateByPIN(r.Context(), claims.Username, q.PIN)
	middleware.ActivationsTotal.WithLabelValues("pin", middleware.Outcome(err, "pin_mismatch", "pin_expired", "already_activated")).Inc()
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("username", username).
		Str("method", "pin").
		Msg("user_activated")

	response.HTML(w, http.StatusOK, activatedMessage(username))
}

func activatedMessage(username string) string {
	return fmt.Sprintf(activatedTemplate, username)
}
