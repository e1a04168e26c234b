// internal/app/features/errors/render.go
package errors

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
)

// RenderError shows the friendly error page with the given status.
// If backURL is empty it defaults to "/".
func RenderError(w http.ResponseWriter, r *http.Request, status int, title, msg, backURL string) {
	if WantsJSON(r) {
		WriteJSONError(w, status, msg, nil)
		return
	}
	if backURL == "" {
		backURL = "/"
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	templates.Render(w, r, "error_page", pageData{
		Title:   title,
		Message: msg,
		BackURL: backURL,
	})
}

// jsonError is the body of every JSON error response.
type jsonError struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// WriteJSONError writes {"error": msg, "details": [...]} with status.
func WriteJSONError(w http.ResponseWriter, status int, msg string, details []string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(jsonError{Error: msg, Details: details})
}

// WantsJSON treats fetch requests from the import page as API calls.
func WantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}
