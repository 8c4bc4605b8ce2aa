package docs

import "net/http"

// SpecPath is where OpenAPIHandler is mounted; the UI page loads it from there.
const SpecPath = "/openapi.json"

const uiPage = `<!DOCTYPE html>
<html>
<head>
<title>Account Service API</title>
<meta charset="utf-8">
<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
<script>
SwaggerUIBundle({url: "` + SpecPath + `", dom_id: "#swagger-ui", withCredentials: true});
</script>
</body>
</html>
`

// UIHandler serves a Swagger UI page rendering the spec at SpecPath.
func UIHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(uiPage))
}
