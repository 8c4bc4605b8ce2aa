package http_handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/baechuer/account-service/internal/application/account"
	"github.com/baechuer/account-service/internal/domain"
	"github.com/baechuer/account-service/internal/infrastructure/memory"
	"github.com/baechuer/account-service/internal/infrastructure/security"
	"github.com/baechuer/account-service/internal/transport/http/middleware"
)

const testVerifyBase = "http://test.local/verify/"

// testEnv is a fully wired AccountHandler backed by in-memory adapters.
type testEnv struct {
	h      *AccountHandler
	svc    *account.Service
	users  *memory.UserRepo
	outbox *memory.Outbox
	tokens *security.JWTIssuer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := memory.NewUserRepo()
	outbox := memory.NewOutbox()
	tokens := security.NewJWTIssuer("account-test", map[domain.TokenPurpose]security.PurposeConfig{
		domain.PurposeAccess:       {Secret: "access-secret", TTL: 15 * time.Minute},
		domain.PurposeRefresh:      {Secret: "refresh-secret", TTL: 24 * time.Hour},
		domain.PurposeVerification: {Secret: "verify-secret", TTL: time.Hour},
	})
	svc := account.NewService(users, security.NewBcryptHasher(bcrypt.MinCost), tokens, outbox, account.Config{
		VerifyLinkBaseURL: testVerifyBase,
	})

	return &testEnv{
		h:      NewAccountHandler(svc, false),
		svc:    svc,
		users:  users,
		outbox: outbox,
		tokens: tokens,
	}
}

// register goes through the handler and returns the mailed token and PIN.
func (e *testEnv) register(t *testing.T, email, username, password string) (token, pin string) {
	t.Helper()

	req := jsonRequest(t, http.MethodPost, "/register", map[string]string{
		"email": email, "username": username, "password": password,
	})
	rr := serve(e.h.Register, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("register %s: expected 200, got %d body=%s", username, rr.Code, rr.Body.String())
	}

	msg, ok := e.outbox.Last(strings.ToLower(email))
	if !ok {
		t.Fatalf("expected verification email for %s", email)
	}
	return strings.TrimPrefix(msg.Link, testVerifyBase), msg.PIN
}

// claimsFor reads the stored user and returns its current claims snapshot.
func (e *testEnv) claimsFor(t *testing.T, username string) domain.Claims {
	t.Helper()
	u, err := e.users.GetByUsername(context.Background(), username)
	if err != nil {
		t.Fatalf("get %s: %v", username, err)
	}
	return u.Claims()
}

func serve(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

// mustJSONBody marshals v to JSON and returns an io.Reader for request body.
func mustJSONBody(t *testing.T, v any) io.Reader {
	t.Helper()

	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json marshal: %v", err)
	}
	return bytes.NewReader(b)
}

func jsonRequest(t *testing.T, method, target string, v any) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, mustJSONBody(t, v))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// mustReadJSON decodes JSON from r into out.
// It tries to decode directly into out.
// If that fails, it tries {"data": <out>} wrapper.
func mustReadJSON(t *testing.T, r io.Reader, out any) {
	t.Helper()

	raw, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	wrapped := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.Unmarshal(raw, &wrapped); err == nil && len(wrapped.Data) > 0 {
		if err := json.Unmarshal(wrapped.Data, out); err != nil {
			t.Fatalf("decode wrapped.data failed; body=%s err=%v", string(raw), err)
		}
		return
	}

	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("decode json failed; body=%s err=%v", string(raw), err)
	}
}

// readCookie finds cookie by name from response headers.
func readCookie(res *http.Response, name string) *http.Cookie {
	for _, c := range res.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// withClaims injects token claims the way middleware.Auth does.
func withClaims(req *http.Request, c domain.Claims) *http.Request {
	return req.WithContext(middleware.WithClaims(req.Context(), c))
}

// withURLParam injects chi URL param (e.g. /users/{id}) into request context.
func withURLParam(req *http.Request, key, val string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, val)

	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	return req.WithContext(ctx)
}
