package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/baechuer/account-service/internal/domain"
)

func TestRequireActive(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		claims   *domain.Claims
		wantCode string
	}{
		{"no claims", nil, "token_invalid"},
		{"inactive", &domain.Claims{Username: "bob", Role: domain.RoleStandard}, "inactive_user"},
		{"active", &domain.Claims{Username: "bob", Role: domain.RoleStandard, IsActive: true}, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			we := &writeErrRecorder{}
			nx := &nextRecorder{}
			req := httptest.NewRequest(http.MethodGet, "/users", nil)
			if tc.claims != nil {
				req = req.WithContext(WithClaims(req.Context(), *tc.claims))
			}
			RequireActive(we.fn)(nx).ServeHTTP(httptest.NewRecorder(), req)

			if tc.wantCode == "" {
				if we.calls != 0 || nx.calls != 1 {
					t.Fatalf("expected pass-through, err=%v next=%d", we.last, nx.calls)
				}
				return
			}
			if !domain.Is(we.last, tc.wantCode) || nx.calls != 0 {
				t.Fatalf("expected %s, got %v next=%d", tc.wantCode, we.last, nx.calls)
			}
		})
	}
}

func TestRequireRole_Admin(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		claims   *domain.Claims
		wantCode string
	}{
		{"no claims", nil, "token_invalid"},
		{"standard", &domain.Claims{Username: "bob", Role: domain.RoleStandard, IsActive: true}, "insufficient_role"},
		// activation is not required for the admin gate
		{"inactive admin", &domain.Claims{Username: "root", Role: domain.RoleAdmin}, ""},
		{"admin", &domain.Claims{Username: "root", Role: domain.RoleAdmin, IsActive: true}, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			we := &writeErrRecorder{}
			nx := &nextRecorder{}
			req := httptest.NewRequest(http.MethodGet, "/adminsonly", nil)
			if tc.claims != nil {
				req = req.WithContext(WithClaims(req.Context(), *tc.claims))
			}
			RequireRole(domain.RoleAdmin, we.fn)(nx).ServeHTTP(httptest.NewRecorder(), req)

			if tc.wantCode == "" {
				if we.calls != 0 || nx.calls != 1 {
					t.Fatalf("expected pass-through, err=%v next=%d", we.last, nx.calls)
				}
				return
			}
			if !domain.Is(we.last, tc.wantCode) || nx.calls != 0 {
				t.Fatalf("expected %s, got %v next=%d", tc.wantCode, we.last, nx.calls)
			}
		})
	}
}

func TestRequireRole_UnknownRoleIsForbidden(t *testing.T) {
	we := &writeErrRecorder{}
	nx := &nextRecorder{}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithClaims(req.Context(), domain.Claims{Username: "root", Role: domain.RoleAdmin}))

	RequireRole(domain.Role("superuser"), we.fn)(nx).ServeHTTP(httptest.NewRecorder(), req)

	if !domain.Is(we.last, "forbidden") || nx.calls != 0 {
		t.Fatalf("expected forbidden, got %v", we.last)
	}
}
