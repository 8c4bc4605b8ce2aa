package docs

import (
	"encoding/json"
	"net/http"
)

// OpenAPISpec represents a simplified OpenAPI 3.0 specification
type OpenAPISpec struct {
	OpenAPI    string                 `json:"openapi"`
	Info       Info                   `json:"info"`
	Servers    []Server               `json:"servers"`
	Paths      map[string]interface{} `json:"paths"`
	Components map[string]interface{} `json:"components"`
}

type Info struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Version     string `json:"version"`
}

type Server struct {
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

var spec OpenAPISpec

var (
	bearerOrCookie = []map[string]interface{}{
		{"BearerAuth": []string{}},
		{"AccessCookie": []string{}},
	}
	refreshBearerOrCookie = []map[string]interface{}{
		{"BearerAuth": []string{}},
		{"RefreshCookie": []string{}},
	}
)

func init() {
	spec = OpenAPISpec{
		OpenAPI: "3.0.3",
		Info: Info{
			Title:       "Account Service API",
			Description: "User registration, email verification, JWT sessions and user directory",
			Version:     "1.0.0",
		},
		Servers: []Server{
			{URL: "http://localhost:8080", Description: "Local development server"},
		},
		Components: map[string]interface{}{
			"securitySchemes": map[string]interface{}{
				"BearerAuth":    map[string]interface{}{"type": "http", "scheme": "bearer", "bearerFormat": "JWT"},
				"AccessCookie":  map[string]interface{}{"type": "apiKey", "in": "cookie", "name": "access_token_cookie"},
				"RefreshCookie": map[string]interface{}{"type": "apiKey", "in": "cookie", "name": "refresh_token_cookie"},
			},
			"schemas": map[string]interface{}{
				"Error": object(map[string]interface{}{
					"error": object(map[string]interface{}{
						"code":       str("token_invalid"),
						"message":    str("Invalid token or token expired"),
						"meta":       map[string]interface{}{"type": "object", "additionalProperties": map[string]interface{}{"type": "string"}},
						"request_id": str(""),
					}),
				}),
				"Message": object(map[string]interface{}{
					"message": str("Logged in successfully"),
				}),
				"Token": object(map[string]interface{}{
					"access_token":  str(""),
					"refresh_token": str(""),
					"token_type":    str("bearer"),
				}),
				"User": object(map[string]interface{}{
					"id":        str(""),
					"username":  str("johndoe"),
					"email":     str("user@example.com"),
					"role":      str("standard"),
					"is_active": map[string]interface{}{"type": "boolean"},
				}),
			},
		},
		Paths: map[string]interface{}{
			"/healthz": map[string]interface{}{
				"get": operation("healthz", "Liveness", "Health", nil, responses(
					"200", "Process is up", nil,
				)),
			},
			"/readyz": map[string]interface{}{
				"get": operation("readyz", "Readiness", "Health", nil, responses(
					"200", "User store reachable", nil,
					"503", "User store unavailable", nil,
				)),
			},
			"/register": map[string]interface{}{
				"post": withBody(operation("register", "Register User", "Registration", nil, responses(
					"200", "Account created; verification email sent", ref("Message"),
					"400", "Invalid input", ref("Error"),
					"403", "Username or email already registered", ref("Error"),
				)), "application/json", object(map[string]interface{}{
					"email":    map[string]interface{}{"type": "string", "format": "email", "maxLength": 255, "example": "user@example.com"},
					"username": map[string]interface{}{"type": "string", "minLength": 3, "maxLength": 32, "example": "johndoe"},
					"password": map[string]interface{}{"type": "string", "maxLength": 128, "example": "SecurePass123"},
				}, "email", "username", "password")),
			},
			"/verify/{token}": map[string]interface{}{
				"get": withParams(operation("verifyLink", "Activate by Link", "Registration", nil, htmlResponses(
					"401", "Token invalid or expired",
					"403", "Account already active",
				)), param("token", "path", "Verification token from the email link", true)),
			},
			"/verify": map[string]interface{}{
				"post": withParams(operation("verifyPin", "Activate by PIN", "Registration", bearerOrCookie, htmlResponses(
					"401", "Not authenticated",
					"403", "PIN wrong or expired, or account already active",
				)), param("pin", "query", "Four digit PIN from the email", true)),
			},
			"/resend_verification_email": map[string]interface{}{
				"post": operation("resendVerification", "Resend Verification Email", "Registration", bearerOrCookie, responses(
					"200", "A new link and PIN were sent", ref("Message"),
					"401", "Not authenticated", ref("Error"),
					"403", "Account already active", ref("Error"),
				)),
			},
			"/login_token": map[string]interface{}{
				"post": loginBody(operation("loginToken", "Login (tokens)", "Session", nil, responses(
					"200", "Access and refresh tokens", ref("Token"),
					"400", "Invalid input", ref("Error"),
					"401", "Invalid credentials", ref("Error"),
				))),
			},
			"/login_cookie": map[string]interface{}{
				"post": loginBody(operation("loginCookie", "Login (cookies)", "Session", nil, responses(
					"200", "Tokens set as HttpOnly cookies", ref("Message"),
					"400", "Invalid input", ref("Error"),
					"401", "Invalid credentials", ref("Error"),
				))),
			},
			"/logout": map[string]interface{}{
				"post": operation("logout", "Logout", "Session", nil, responses(
					"200", "Session cookies cleared", ref("Message"),
				)),
			},
			"/refresh": map[string]interface{}{
				"post": operation("refresh", "Refresh (tokens)", "Session", refreshBearerOrCookie, responses(
					"200", "New access and refresh tokens", ref("Token"),
					"401", "Refresh token missing or invalid", ref("Error"),
				)),
			},
			"/refresh_cookie": map[string]interface{}{
				"post": operation("refreshCookie", "Refresh (cookies)", "Session", refreshBearerOrCookie, responses(
					"200", "New tokens set as cookies", ref("Message"),
					"401", "Refresh token missing or invalid", ref("Error"),
				)),
			},
			"/user/me": map[string]interface{}{
				"get": operation("me", "Get Current User", "Users", bearerOrCookie, responses(
					"200", "Current user", data(ref("User")),
					"401", "Not authenticated", ref("Error"),
				)),
			},
			"/users": map[string]interface{}{
				"get": withParams(operation("listUsers", "List Users", "Users", bearerOrCookie, responses(
					"200", "One page of users", data(object(map[string]interface{}{
						"items": map[string]interface{}{"type": "array", "items": ref("User")},
						"skip":  map[string]interface{}{"type": "integer"},
						"limit": map[string]interface{}{"type": "integer"},
					})),
					"400", "Invalid paging parameters", ref("Error"),
					"401", "Not authenticated", ref("Error"),
					"403", "Account not activated", ref("Error"),
				)),
					intParam("skip", "Users to skip"),
					intParam("limit", "Page size, capped by the server"),
				),
			},
			"/users/{id}": map[string]interface{}{
				"get": withParams(operation("getUser", "Get User", "Users", bearerOrCookie, responses(
					"200", "The user", data(ref("User")),
					"401", "Not authenticated", ref("Error"),
					"403", "Account not activated", ref("Error"),
					"404", "No such user", ref("Error"),
				)), param("id", "path", "User id", true)),
			},
			"/adminsonly": map[string]interface{}{
				"get": operation("listAllUsers", "List All Users (admin)", "Admin", bearerOrCookie, responses(
					"200", "Every user with verification state", data(map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"allOf": []interface{}{
								ref("User"),
								object(map[string]interface{}{"pending_verification": map[string]interface{}{"type": "boolean"}}),
							},
						},
					}),
					"401", "Not authenticated", ref("Error"),
					"403", "Admin role required", ref("Error"),
				)),
			},
		},
	}
}

func operation(id, summary, tag string, security []map[string]interface{}, resp map[string]interface{}) map[string]interface{} {
	op := map[string]interface{}{
		"summary":     summary,
		"operationId": id,
		"tags":        []string{tag},
		"responses":   resp,
	}
	if security != nil {
		op["security"] = security
	}
	return op
}

// responses takes (status, description, schema) triples; a nil schema omits
// the content block.
func responses(triples ...interface{}) map[string]interface{} {
	out := map[string]interface{}{}
	for i := 0; i+2 < len(triples); i += 3 {
		code, _ := triples[i].(string)
		desc, _ := triples[i+1].(string)
		r := map[string]interface{}{"description": desc}
		if schema := triples[i+2]; schema != nil {
			r["content"] = map[string]interface{}{
				"application/json": map[string]interface{}{"schema": schema},
			}
		}
		out[code] = r
	}
	return out
}

// htmlResponses documents the activation endpoints, which answer 200 with an
// HTML page and report failures as JSON errors.
func htmlResponses(pairs ...string) map[string]interface{} {
	out := map[string]interface{}{
		"200": map[string]interface{}{
			"description": "Account activated",
			"content": map[string]interface{}{
				"text/html": map[string]interface{}{"schema": map[string]interface{}{"type": "string"}},
			},
		},
	}
	for i := 0; i+1 < len(pairs); i += 2 {
		out[pairs[i]] = map[string]interface{}{
			"description": pairs[i+1],
			"content": map[string]interface{}{
				"application/json": map[string]interface{}{"schema": ref("Error")},
			},
		}
	}
	return out
}

func withBody(op map[string]interface{}, contentType string, schema interface{}) map[string]interface{} {
	op["requestBody"] = map[string]interface{}{
		"required": true,
		"content": map[string]interface{}{
			contentType: map[string]interface{}{"schema": schema},
		},
	}
	return op
}

// loginBody accepts the OAuth2 password form or the same fields as JSON.
func loginBody(op map[string]interface{}) map[string]interface{} {
	schema := object(map[string]interface{}{
		"username": str("johndoe"),
		"password": map[string]interface{}{"type": "string", "format": "password"},
	}, "username", "password")
	op["requestBody"] = map[string]interface{}{
		"required": true,
		"content": map[string]interface{}{
			"application/x-www-form-urlencoded": map[string]interface{}{"schema": schema},
			"application/json":                  map[string]interface{}{"schema": schema},
		},
	}
	return op
}

func withParams(op map[string]interface{}, params ...map[string]interface{}) map[string]interface{} {
	op["parameters"] = params
	return op
}

func param(name, in, desc string, required bool) map[string]interface{} {
	return map[string]interface{}{
		"name":        name,
		"in":          in,
		"description": desc,
		"required":    required,
		"schema":      map[string]interface{}{"type": "string"},
	}
}

func intParam(name, desc string) map[string]interface{} {
	return map[string]interface{}{
		"name":        name,
		"in":          "query",
		"description": desc,
		"schema":      map[string]interface{}{"type": "integer", "minimum": 0},
	}
}

func object(props map[string]interface{}, required ...string) map[string]interface{} {
	o := map[string]interface{}{"type": "object", "properties": props}
	if len(required) > 0 {
		o["required"] = required
	}
	return o
}

func str(example string) map[string]interface{} {
	s := map[string]interface{}{"type": "string"}
	if example != "" {
		s["example"] = example
	}
	return s
}

func ref(name string) map[string]interface{} {
	return map[string]interface{}{"$ref": "#/components/schemas/" + name}
}

// data wraps a schema in the {"data": ...} success envelope.
func data(schema interface{}) map[string]interface{} {
	return object(map[string]interface{}{"data": schema})
}

// OpenAPIHandler returns the OpenAPI specification as JSON
func OpenAPIHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(spec)
}
