// internal/app/features/jadwal/routes.go
package jadwal

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes mounts under /jadwal/{kode}.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// PAGE (first tab)
	r.Get("/", h.ServePage)

	r.Route("/{kategori}", func(cr chi.Router) {
		// TAB
		cr.Get("/", h.ServePage)

		// SINGLE RECORD
		cr.Post("/", h.HandleCreate)
		cr.Post("/{id}", h.HandleUpdate)
		cr.Post("/{id}/delete", h.HandleDelete)
		cr.Post("/bulk-delete", h.HandleBulkDelete)

		// DOWNLOADS
		cr.Get("/export", h.ServeExport)
		cr.Get("/template", h.ServeTemplate)

		// IMPORT
		cr.Get("/import", h.ServeDraft)
		cr.Method(http.MethodPost, "/import", h.throttled(h.HandleUpload))
		cr.Post("/import/begin", h.HandleBeginEdit)
		cr.Post("/import/edit", h.HandleEdit)
		cr.Post("/import/edit/finish", h.HandleFinishEdit)
		cr.Method(http.MethodPost, "/import/submit", h.throttled(h.HandleSubmit))
		cr.Post("/import/clear", h.HandleClear)
	})

	return r
}
