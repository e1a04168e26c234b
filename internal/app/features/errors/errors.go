// internal/app/features/errors/errors.go
package errors

import (
	"net/http"
)

// pageData is the basic view model for error pages.
type pageData struct {
	Title   string
	Message string
	BackURL string
}

// Handler is the errors feature handler.
// No DB needed; it just renders templates.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// NotFound renders the "page not found" page. It is installed as the
// router's NotFound handler.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	RenderError(w, r, http.StatusNotFound, "Halaman tidak ditemukan",
		"Halaman yang Anda cari tidak tersedia.", "/")
}

// MethodNotAllowed renders the error page for a wrong HTTP method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	RenderError(w, r, http.StatusMethodNotAllowed, "Permintaan tidak valid",
		"Metode permintaan tidak didukung untuk halaman ini.", "/")
}
