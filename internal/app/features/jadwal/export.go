// internal/app/features/jadwal/export.go
package jadwal

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/dalemusser/jadwalhub/internal/app/system/refdata"
	"github.com/dalemusser/jadwalhub/internal/app/system/schedimport"
	"github.com/dalemusser/jadwalhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ServeExport downloads the persisted schedules of the tab in the import
// layout.
func (h *Handler) ServeExport(w http.ResponseWriter, r *http.Request) {
	h.serveWorkbook(w, r, "jadwal", schedimport.WriteExport)
}

// ServeTemplate downloads an empty import workbook for the tab with the
// accepted reference values listed on its Info sheet.
func (h *Handler) ServeTemplate(w http.ResponseWriter, r *http.Request) {
	h.serveWorkbook(w, r, "template", schedimport.WriteTemplate)
}

type workbookWriter func(w io.Writer, snap *refdata.Snapshot, c models.ScheduleCategory) error

func (h *Handler) serveWorkbook(w http.ResponseWriter, r *http.Request, prefix string, write workbookWriter) {
	kode := chi.URLParam(r, "kode")
	c, ok := h.category(w, r)
	if !ok {
		return
	}
	snap, ok := h.snapshot(w, r, kode)
	if !ok {
		return
	}

	// Build in memory so a failure can still be answered with an error page.
	var buf bytes.Buffer
	if err := write(&buf, snap, c); err != nil {
		h.ErrLog.LogServerError(w, r, "build workbook failed", err, "Gagal membuat file Excel.", tabURL(kode, c))
		return
	}

	name := fmt.Sprintf("%s-%s-%s.xlsx", prefix, kode, c)
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = buf.WriteTo(w)
}
