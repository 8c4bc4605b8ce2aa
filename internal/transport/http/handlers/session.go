package http_handlers

import (
	"net/http"

	"github.com/baechuer/account-service/internal/application/account"
	"github.com/baechuer/account-service/internal/domain"
	"github.com/baechuer/account-service/internal/infrastructure/security"
	"github.com/baechuer/account-service/internal/logger"
	"github.com/baechuer/account-service/internal/transport/http/dto"
	"github.com/baechuer/account-service/internal/transport/http/middleware"
	"github.com/baechuer/account-service/internal/transport/http/response"
)

const (
	msgLoggedIn       = "Logged in successfully"
	msgLoggedOut      = "Logged out successfully"
	msgCookiesRefresh = "Cookies refreshed"
)

// readLogin accepts the OAuth2 password form (username, password) or a JSON
// body with the same fields.
func readLogin(r *http.Request) (dto.LoginRequest, error) {
	var req dto.LoginRequest
	if response.IsForm(r) {
		vals, err := response.FormValues(r, "username", "password")
		if err != nil {
			return req, err
		}
		req.Username = vals["username"]
		req.Password = vals["password"]
	} else if err := response.DecodeJSON(r, &req); err != nil {
		return req, err
	}
	return req, req.Validate()
}

func (h *AccountHandler) login(w http.ResponseWriter, r *http.Request) (account.TokenPair, bool) {
	req, err := readLogin(r)
	if err != nil {
		response.WriteError(w, r, err)
		return account.TokenPair{}, false
	}

	pair, err := h.svc.Login(r.Context(), req.Username, req.Password)
	middleware.LoginAttemptsTotal.WithLabelValues(middleware.Outcome(err, "invalid_credentials")).Inc()
	if err != nil {
		response.WriteError(w, r, err)
		return account.TokenPair{}, false
	}

	logger.WithCtx(r.Context()).Info().
		Str("username", req.Username).
		Msg("user_logged_in")
	return pair, true
}

// LoginToken handles POST /login_token and returns the pair in the body.
func (h *AccountHandler) LoginToken(w http.ResponseWriter, r *http.Request) {
	pair, ok := h.login(w, r)
	if !ok {
		return
	}
	response.WriteJSON(w, http.StatusOK, tokenResponse(pair))
}

// LoginCookie handles POST /login_cookie and sets the pair as cookies.
func (h *AccountHandler) LoginCookie(w http.ResponseWriter, r *http.Request) {
	pair, ok := h.login(w, r)
	if !ok {
		return
	}
	h.setCookies(w, pair)
	response.Message(w, msgLoggedIn)
}

// Logout handles POST /logout. Tokens stay valid until they expire; only
// the cookies are cleared.
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	security.ClearAccessCookie(w, h.secureCookies)
	security.ClearRefreshCookie(w, h.secureCookies)
	response.Message(w, msgLoggedOut)
}

func (h *AccountHandler) refresh(w http.ResponseWriter, r *http.Request) (account.TokenPair, bool) {
	raw, ok := security.ReadRefreshToken(r)
	if !ok {
		middleware.TokenRefreshTotal.WithLabelValues("missing").Inc()
		response.WriteError(w, r, domain.ErrTokenMissing())
		return account.TokenPair{}, false
	}

	pair, err := h.svc.Refresh(r.Context(), raw)
	middleware.TokenRefreshTotal.WithLabelValues(middleware.Outcome(err, "refresh_token_invalid")).Inc()
	if err != nil {
		response.WriteError(w, r, err)
		return account.TokenPair{}, false
	}
	return pair, true
}

// Refresh handles POST /refresh.
func (h *AccountHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	pair, ok := h.refresh(w, r)
	if !ok {
		return
	}
	response.WriteJSON(w, http.StatusOK, tokenResponse(pair))
}

// RefreshCookie handles POST /refresh_cookie.
func (h *AccountHandler) RefreshCookie(w http.ResponseWriter, r *http.Request) {
	pair, ok := h.refresh(w, r)
	if !ok {
		return
	}
	h.setCookies(w, pair)
	response.Message(w, msgCookiesRefresh)
}

func (h *AccountHandler) setCookies(w http.ResponseWriter, pair account.TokenPair) {
	security.SetAccessCookie(w, pair.AccessToken, h.svc.TokenTTL(domain.PurposeAccess), h.secureCookies)
	security.SetRefreshCookie(w, pair.RefreshToken, h.svc.TokenTTL(domain.PurposeRefresh), h.secureCookies)
}

func tokenResponse(p account.TokenPair) dto.TokenResponse {
	return dto.TokenResponse{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		TokenType:    p.TokenType,
	}
}
