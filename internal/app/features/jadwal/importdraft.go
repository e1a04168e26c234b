// internal/app/features/jadwal/importdraft.go
package jadwal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	errorsfeature "github.com/dalemusser/jadwalhub/internal/app/features/errors"
	"github.com/dalemusser/jadwalhub/internal/app/system/limits"
	"github.com/dalemusser/jadwalhub/internal/app/system/metrics"
	"github.com/dalemusser/jadwalhub/internal/app/system/paging"
	"github.com/dalemusser/jadwalhub/internal/app/system/schedimport"
	"github.com/dalemusser/jadwalhub/internal/app/system/scheduledit"
	"github.com/dalemusser/jadwalhub/internal/app/system/submission"
	"github.com/dalemusser/jadwalhub/internal/app/system/timeouts"
	"github.com/dalemusser/jadwalhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// draftRequest is the context every import endpoint works in.
type draftRequest struct {
	kode  string
	c     models.ScheduleCategory
	draft *models.ImportDraft
}

// openDraft resolves the tab and loads its draft, answering the request
// itself when either fails.
func (h *Handler) openDraft(w http.ResponseWriter, r *http.Request) (*draftRequest, bool) {
	kode := chi.URLParam(r, "kode")
	c, ok := h.category(w, r)
	if !ok {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	d, err := h.loadDraft(ctx, r, kode, c)
	if errors.Is(err, errNoSession) {
		errorsfeature.RenderError(w, r, http.StatusBadRequest, "Sesi tidak valid",
			"Sesi tidak ditemukan, silakan muat ulang halaman.", tabURL(kode, c))
		return nil, false
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load import draft failed", err, "Gagal memuat data import.", tabURL(kode, c))
		return nil, false
	}
	return &draftRequest{kode: kode, c: c, draft: d}, true
}

func (h *Handler) saveDraft(w http.ResponseWriter, r *http.Request, dr *draftRequest) bool {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	if err := h.Drafts.Save(ctx, dr.draft); err != nil {
		h.ErrLog.LogServerError(w, r, "save import draft failed", err, "Gagal menyimpan data import.", tabURL(dr.kode, dr.c))
		return false
	}
	return true
}

// writeDraft answers an import endpoint: the draft as JSON for fetch
// requests, a redirect back to the tab otherwise.
func (h *Handler) writeDraft(w http.ResponseWriter, r *http.Request, dr *draftRequest, status int, resp draftResponse) {
	if !errorsfeature.WantsJSON(r) {
		http.Redirect(w, r, tabURL(dr.kode, dr.c), http.StatusSeeOther)
		return
	}
	resp.Draft = newDraftView(dr.draft, dr.draft.Page)
	writeJSON(w, status, resp)
}

// ServeDraft returns the draft of the tab. A "page" parameter moves the
// preview to that page.
func (h *Handler) ServeDraft(w http.ResponseWriter, r *http.Request) {
	dr, ok := h.openDraft(w, r)
	if !ok {
		return
	}
	if query.Get(r, "page") != "" {
		scheduledit.SetPage(dr.draft, paging.ParsePage(r))
		if dr.draft.HasFile() && !h.saveDraft(w, r, dr) {
			return
		}
	}
	h.writeDraft(w, r, dr, http.StatusOK, draftResponse{})
}

// HandleUpload parses the uploaded workbook ("file") into the tab's draft,
// replacing whatever the draft held. A rejected file keeps its name on the
// draft next to the file errors.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	dr, ok := h.openDraft(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxUploadSize)
	if err := r.ParseMultipartForm(limits.MaxUploadSize); err != nil {
		errorsfeature.RenderError(w, r, http.StatusBadRequest, "Upload gagal",
			"File terlalu besar atau tidak dapat dibaca (maksimal 10 MB).", tabURL(dr.kode, dr.c))
		return
	}
	file, hdr, err := r.FormFile("file")
	if err != nil {
		errorsfeature.RenderError(w, r, http.StatusBadRequest, "Upload gagal",
			"Pilih file Excel terlebih dahulu.", tabURL(dr.kode, dr.c))
		return
	}
	defer file.Close()

	snap, ok := h.snapshot(w, r, dr.kode)
	if !ok {
		return
	}

	res := schedimport.Import(file, hdr.Filename, dr.c, snap)

	d := dr.draft
	d.Reset()
	d.LastImported = 0
	d.FileName = hdr.Filename
	d.Rows = res.Rows
	d.CellErrors = res.CellErrors
	d.FileErrors = res.FileErrors
	d.Page = 1

	outcome := "parsed"
	if len(res.FileErrors) > 0 {
		outcome = "rejected"
	}
	metrics.Uploads.WithLabelValues(string(dr.c), outcome).Inc()
	metrics.ValidationErrors.WithLabelValues(string(dr.c)).Add(float64(len(res.CellErrors)))

	if !h.saveDraft(w, r, dr) {
		return
	}
	h.Audit.ImportUploaded(r.Context(), r, dr.kode, string(dr.c), hdr.Filename, len(d.Rows), len(d.CellErrors))
	h.Log.Info("import file parsed",
		zap.String("kode", dr.kode),
		zap.String("kategori", string(dr.c)),
		zap.String("file", hdr.Filename),
		zap.Int("rows", len(d.Rows)),
		zap.Int("cell_errors", len(d.CellErrors)),
		zap.Int("file_errors", len(d.FileErrors)))

	resp := draftResponse{}
	switch {
	case len(d.FileErrors) > 0:
		resp.Error = "File tidak dapat diimport"
	case len(d.CellErrors) > 0:
		resp.Message = fmt.Sprintf("%d baris dibaca, %d kesalahan perlu diperbaiki", len(d.Rows), len(d.CellErrors))
	default:
		resp.Message = fmt.Sprintf("%d baris dibaca tanpa kesalahan", len(d.Rows))
	}
	h.writeDraft(w, r, dr, http.StatusOK, resp)
}

// cellRequest is the body of begin and edit requests.
type cellRequest struct {
	Row   int             `json:"row"`
	Field string          `json:"field"`
	Value json.RawMessage `json:"value,omitempty"`
}

// value reads Value as text; numbers are accepted for the session count.
func (c cellRequest) value() string {
	if len(c.Value) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(c.Value, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(c.Value, &n); err == nil {
		return n.String()
	}
	return ""
}

func decodeCell(w http.ResponseWriter, r *http.Request) (cellRequest, bool) {
	var req cellRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, limits.MaxEditBody)).Decode(&req); err != nil {
		errorsfeature.WriteJSONError(w, http.StatusBadRequest, "Permintaan tidak valid", nil)
		return req, false
	}
	return req, true
}

// editFailure maps a rejected edit target to 400.
func editFailure(w http.ResponseWriter, err error) {
	errorsfeature.WriteJSONError(w, http.StatusBadRequest, err.Error(), nil)
}

// HandleBeginEdit moves the edit cursor to one cell.
func (h *Handler) HandleBeginEdit(w http.ResponseWriter, r *http.Request) {
	dr, ok := h.openDraft(w, r)
	if !ok {
		return
	}
	req, ok := decodeCell(w, r)
	if !ok {
		return
	}
	if err := scheduledit.Begin(dr.draft, req.Row, req.Field); err != nil {
		editFailure(w, err)
		return
	}
	if !h.saveDraft(w, r, dr) {
		return
	}
	h.writeDraft(w, r, dr, http.StatusOK, draftResponse{})
}

// HandleEdit applies one cell edit: the value is normalised and resolved
// like an imported cell and only that cell is checked again.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	dr, ok := h.openDraft(w, r)
	if !ok {
		return
	}
	req, ok := decodeCell(w, r)
	if !ok {
		return
	}
	e, err := scheduledit.Parse(req.Row, req.Field, req.value())
	if err != nil {
		editFailure(w, err)
		return
	}
	snap, ok := h.snapshot(w, r, dr.kode)
	if !ok {
		return
	}
	if err := scheduledit.Apply(dr.draft, snap, e); err != nil {
		editFailure(w, err)
		return
	}
	if !h.saveDraft(w, r, dr) {
		return
	}
	h.writeDraft(w, r, dr, http.StatusOK, draftResponse{})
}

// HandleFinishEdit closes the edit cursor and validates the whole batch
// again, which settles the cross-field rules.
func (h *Handler) HandleFinishEdit(w http.ResponseWriter, r *http.Request) {
	dr, ok := h.openDraft(w, r)
	if !ok {
		return
	}
	snap, ok := h.snapshot(w, r, dr.kode)
	if !ok {
		return
	}
	scheduledit.Finish(dr.draft, snap)
	if !h.saveDraft(w, r, dr) {
		return
	}
	h.writeDraft(w, r, dr, http.StatusOK, draftResponse{})
}

// HandleSubmit imports the draft rows in one backend call. Rows and errors
// stay on the draft whenever the import does not go through.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	dr, ok := h.openDraft(w, r)
	if !ok {
		return
	}
	snap, ok := h.snapshot(w, r, dr.kode)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Batch(), h.Log, "import submit")
	defer cancel()

	rows := len(dr.draft.Rows)
	n, err := h.Submitter.Submit(ctx, dr.draft, snap)
	switch {
	case err == nil:
		if !h.saveDraft(w, r, dr) {
			return
		}
		h.Audit.ImportSubmitted(ctx, r, dr.kode, string(dr.c), n)
		h.writeDraft(w, r, dr, http.StatusOK, draftResponse{Message: fmt.Sprintf("%d jadwal berhasil diimport", n)})

	case errors.Is(err, submission.ErrNothingToSubmit):
		h.writeDraftError(w, r, dr, http.StatusBadRequest, "Tidak ada data untuk diimport")

	case errors.Is(err, submission.ErrDraftInvalid):
		if !h.saveDraft(w, r, dr) {
			return
		}
		h.writeDraftError(w, r, dr, http.StatusUnprocessableEntity,
			fmt.Sprintf("Masih ada %d kesalahan, perbaiki sebelum import", len(dr.draft.CellErrors)))

	case errors.Is(err, submission.ErrRejected):
		if !h.saveDraft(w, r, dr) {
			return
		}
		h.Audit.ImportRejected(ctx, r, dr.kode, string(dr.c), rows, err)
		msg := "Import ditolak server, periksa pesan kesalahan"
		var rj *submission.Rejection
		if errors.As(err, &rj) {
			msg = rj.Message
		}
		h.writeDraftError(w, r, dr, http.StatusUnprocessableEntity, msg)

	default:
		h.Audit.ImportRejected(ctx, r, dr.kode, string(dr.c), rows, err)
		h.ErrLog.LogError(w, r, http.StatusBadGateway, "import submit failed", err, submission.ErrorMessage(err), tabURL(dr.kode, dr.c))
	}
}

func (h *Handler) writeDraftError(w http.ResponseWriter, r *http.Request, dr *draftRequest, status int, msg string) {
	if !errorsfeature.WantsJSON(r) {
		errorsfeature.RenderError(w, r, status, "Import belum dapat diproses", msg, tabURL(dr.kode, dr.c))
		return
	}
	writeJSON(w, status, draftResponse{Error: msg, Draft: newDraftView(dr.draft, dr.draft.Page)})
}

// HandleClear discards the file and everything parsed from it.
func (h *Handler) HandleClear(w http.ResponseWriter, r *http.Request) {
	dr, ok := h.openDraft(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	if err := h.Drafts.Delete(ctx, draftKey(r, dr.kode, dr.c)); err != nil {
		h.ErrLog.LogServerError(w, r, "delete import draft failed", err, "Gagal menghapus data import.", tabURL(dr.kode, dr.c))
		return
	}
	dr.draft.Reset()
	dr.draft.LastImported = 0
	h.Audit.ImportCleared(ctx, r, dr.kode, string(dr.c))
	h.writeDraft(w, r, dr, http.StatusOK, draftResponse{Message: "File dihapus"})
}
