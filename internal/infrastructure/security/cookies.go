package security

import (
	"net/http"
	"strings"
	"time"
)

const (
	AccessCookieName  = "access_token_cookie"
	RefreshCookieName = "refresh_token_cookie"
)

func setTokenCookie(w http.ResponseWriter, name, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure, // prod=true, dev=false
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
	})
}

func clearTokenCookie(w http.ResponseWriter, name string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func SetAccessCookie(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	setTokenCookie(w, AccessCookieName, token, ttl, secure)
}

func SetRefreshCookie(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	setTokenCookie(w, RefreshCookieName, token, ttl, secure)
}

func ClearAccessCookie(w http.ResponseWriter, secure bool) {
	clearTokenCookie(w, AccessCookieName, secure)
}

func ClearRefreshCookie(w http.ResponseWriter, secure bool) {
	clearTokenCookie(w, RefreshCookieName, secure)
}

// BearerToken extracts the token from an "Authorization: Bearer <t>" header.
func BearerToken(r *http.Request) (string, bool) {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if h == "" {
		return "", false
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	tok := strings.TrimSpace(parts[1])
	return tok, tok != ""
}

func cookieToken(r *http.Request, name string) (string, bool) {
	c, err := r.Cookie(name)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

// ReadAccessToken prefers the bearer header and falls back to the access cookie.
func ReadAccessToken(r *http.Request) (string, bool) {
	if tok, ok := BearerToken(r); ok {
		return tok, true
	}
	return cookieToken(r, AccessCookieName)
}

// ReadRefreshToken prefers the bearer header and falls back to the refresh cookie.
func ReadRefreshToken(r *http.Request) (string, bool) {
	if tok, ok := BearerToken(r); ok {
		return tok, true
	}
	return cookieToken(r, RefreshCookieName)
}
