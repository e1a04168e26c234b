// internal/app/features/home/handler.go
package home

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/dalemusser/jadwalhub/internal/app/system/inputval"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// Handler serves the landing page where a course code is entered.
type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

type openInput struct {
	Kode string `validate:"required,max=32" label:"Kode mata kuliah"`
}

type pageData struct {
	Title string
	Kode  string
	Error string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – landing, GET /?kode=X – open the schedule page of course X          |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	data := pageData{Title: "Jadwal Non-Blok Non-CSR"}
	q := r.URL.Query()
	if !q.Has("kode") {
		templates.Render(w, r, "home", data)
		return
	}

	in := openInput{Kode: strings.TrimSpace(q.Get("kode"))}
	data.Kode = in.Kode
	if res := inputval.Validate(in); res.HasErrors() {
		data.Error = res.First()
		w.WriteHeader(http.StatusBadRequest)
		templates.Render(w, r, "home", data)
		return
	}

	http.Redirect(w, r, "/jadwal/"+url.PathEscape(in.Kode), http.StatusSeeOther)
}
