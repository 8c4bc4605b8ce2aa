package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func findCookie(t *testing.T, rr *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()

	res := rr.Result()
	defer res.Body.Close()

	for _, ck := range res.Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	t.Fatalf("expected %s cookie", name)
	return nil
}

func TestSetRefreshCookie_SetsCookieAttributes(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	SetRefreshCookie(rr, "tok123", 10*time.Minute, true)

	c := findCookie(t, rr, RefreshCookieName)
	if c.Value != "tok123" {
		t.Fatalf("expected value tok123, got %q", c.Value)
	}
	if c.Path != "/" {
		t.Fatalf("expected path /, got %q", c.Path)
	}
	if !c.HttpOnly {
		t.Fatalf("expected HttpOnly=true")
	}
	if !c.Secure {
		t.Fatalf("expected Secure=true")
	}
	if c.SameSite != http.SameSiteLaxMode {
		t.Fatalf("expected SameSite=Lax, got %v", c.SameSite)
	}
	if c.MaxAge != 600 {
		t.Fatalf("expected MaxAge=600, got %d", c.MaxAge)
	}
}

func TestSetAccessCookie_DevIsNotSecure(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	SetAccessCookie(rr, "acc", time.Minute, false)

	c := findCookie(t, rr, AccessCookieName)
	if c.Secure {
		t.Fatalf("expected Secure=false")
	}
	if c.MaxAge != 60 {
		t.Fatalf("expected MaxAge=60, got %d", c.MaxAge)
	}
}

func TestClearCookies(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	ClearAccessCookie(rr, false)
	ClearRefreshCookie(rr, false)

	for _, name := range []string{AccessCookieName, RefreshCookieName} {
		c := findCookie(t, rr, name)
		if c.Value != "" {
			t.Fatalf("%s: expected empty value, got %q", name, c.Value)
		}
		if c.MaxAge != -1 {
			t.Fatalf("%s: expected MaxAge=-1, got %d", name, c.MaxAge)
		}
		if !c.HttpOnly {
			t.Fatalf("%s: expected HttpOnly=true", name)
		}
	}
}

func TestReadAccessToken_BearerWinsOverCookie(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("GET", "http://example.com/user/me", nil)
	req.Header.Set("Authorization", "Bearer from-header")
	req.AddCookie(&http.Cookie{Name: AccessCookieName, Value: "from-cookie"})

	v, ok := ReadAccessToken(req)
	if !ok || v != "from-header" {
		t.Fatalf("expected from-header, got %q ok=%v", v, ok)
	}
}

func TestReadAccessToken_FallsBackToCookie(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("GET", "http://example.com/user/me", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookieName, Value: "from-cookie"})

	v, ok := ReadAccessToken(req)
	if !ok || v != "from-cookie" {
		t.Fatalf("expected from-cookie, got %q ok=%v", v, ok)
	}
}

func TestReadRefreshToken_Missing(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("POST", "http://example.com/refresh", nil)
	req.Header.Set("Authorization", "Basic abc")

	if _, ok := ReadRefreshToken(req); ok {
		t.Fatalf("expected no token")
	}
}

func TestReadRefreshToken_NonBearerHeaderFallsBackToCookie(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("POST", "http://example.com/refresh_cookie", nil)
	req.Header.Set("Authorization", "Basic abc")
	req.AddCookie(&http.Cookie{Name: RefreshCookieName, Value: "from-cookie"})

	v, ok := ReadRefreshToken(req)
	if !ok || v != "from-cookie" {
		t.Fatalf("expected from-cookie, got %q ok=%v", v, ok)
	}
}

func TestBearerToken_CaseInsensitiveScheme(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("GET", "http://example.com/", nil)
	req.Header.Set("Authorization", "bearer abc")
	if v, ok := BearerToken(req); !ok || v != "abc" {
		t.Fatalf("expected abc, got %q ok=%v", v, ok)
	}

	req.Header.Set("Authorization", "Bearer ")
	if _, ok := BearerToken(req); ok {
		t.Fatalf("expected empty bearer to be rejected")
	}
}
