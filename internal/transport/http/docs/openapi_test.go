package docs

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fetchSpec(t *testing.T) OpenAPISpec {
	t.Helper()

	req := httptest.NewRequest("GET", SpecPath, nil)
	rec := httptest.NewRecorder()
	OpenAPIHandler(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var out OpenAPISpec
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func TestOpenAPIHandler_ReturnsJSON(t *testing.T) {
	req := httptest.NewRequest("GET", SpecPath, nil)
	rec := httptest.NewRecorder()

	OpenAPIHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestOpenAPIHandler_ValidSpec(t *testing.T) {
	spec := fetchSpec(t)

	assert.Equal(t, "3.0.3", spec.OpenAPI)
	assert.Equal(t, "Account Service API", spec.Info.Title)
	assert.NotEmpty(t, spec.Servers)
}

func TestOpenAPIHandler_DocumentsEveryEndpoint(t *testing.T) {
	spec := fetchSpec(t)

	want := map[string]string{
		"/healthz":                   "get",
		"/readyz":                    "get",
		"/register":                  "post",
		"/verify/{token}":            "get",
		"/verify":                    "post",
		"/resend_verification_email": "post",
		"/login_token":               "post",
		"/login_cookie":              "post",
		"/logout":                    "post",
		"/refresh":                   "post",
		"/refresh_cookie":            "post",
		"/user/me":                   "get",
		"/users":                     "get",
		"/users/{id}":                "get",
		"/adminsonly":                "get",
	}
	require.Len(t, spec.Paths, len(want))
	for path, method := range want {
		item, ok := spec.Paths[path].(map[string]interface{})
		require.True(t, ok, "missing path %s", path)
		assert.Contains(t, item, method, path)
	}
}

func TestOpenAPIHandler_ProtectedRoutesDeclareSecurity(t *testing.T) {
	spec := fetchSpec(t)

	protected := map[string]string{
		"/verify":                    "post",
		"/resend_verification_email": "post",
		"/refresh":                   "post",
		"/refresh_cookie":            "post",
		"/user/me":                   "get",
		"/users":                     "get",
		"/users/{id}":                "get",
		"/adminsonly":                "get",
	}
	for path, method := range protected {
		op := spec.Paths[path].(map[string]interface{})[method].(map[string]interface{})
		assert.Contains(t, op, "security", path)
	}

	public := spec.Paths["/register"].(map[string]interface{})["post"].(map[string]interface{})
	assert.NotContains(t, public, "security")

	schemes := spec.Components["securitySchemes"].(map[string]interface{})
	assert.Contains(t, schemes, "BearerAuth")
	assert.Equal(t, "access_token_cookie", schemes["AccessCookie"].(map[string]interface{})["name"])
	assert.Equal(t, "refresh_token_cookie", schemes["RefreshCookie"].(map[string]interface{})["name"])
}

func TestOpenAPIHandler_RefsResolve(t *testing.T) {
	spec := fetchSpec(t)
	schemas := spec.Components["schemas"].(map[string]interface{})

	var walk func(v interface{})
	walk = func(v interface{}) {
		switch n := v.(type) {
		case map[string]interface{}:
			if r, ok := n["$ref"].(string); ok {
				const prefix = "#/components/schemas/"
				require.Contains(t, schemas, r[len(prefix):], r)
			}
			for _, c := range n {
				walk(c)
			}
		case []interface{}:
			for _, c := range n {
				walk(c)
			}
		}
	}
	walk(spec.Paths)
}

func TestResponses_Triples(t *testing.T) {
	got := responses(
		"200", "ok", ref("Message"),
		"503", "down", nil,
	)

	require.Len(t, got, 2)
	assert.Contains(t, got["200"], "content")
	assert.NotContains(t, got["503"], "content")
	assert.Equal(t, "down", got["503"].(map[string]interface{})["description"])
}

func TestUIHandler_ServesSwaggerPage(t *testing.T) {
	req := httptest.NewRequest("GET", "/docs", nil)
	rec := httptest.NewRecorder()

	UIHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `url: "/openapi.json"`)
	assert.Contains(t, rec.Body.String(), "swagger-ui-bundle.js")
}
