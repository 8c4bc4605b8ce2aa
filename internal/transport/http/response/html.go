package response

import (
	"html/template"
	"net/http"
)

var messagePage = template.Must(template.New("message").Parse(
	`<!DOCTYPE html><html><head><meta charset="utf-8"><title>{{.}}</title></head><body><p>{{.}}</p></body></html>
`))

// HTML writes a minimal page whose only content is msg (escaped).
func HTML(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = messagePage.Execute(w, msg)
}
