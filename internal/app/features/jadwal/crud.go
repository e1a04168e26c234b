// internal/app/features/jadwal/crud.go
package jadwal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	errorsfeature "github.com/dalemusser/jadwalhub/internal/app/features/errors"
	"github.com/dalemusser/jadwalhub/internal/app/system/backendapi"
	"github.com/dalemusser/jadwalhub/internal/app/system/inputval"
	"github.com/dalemusser/jadwalhub/internal/app/system/limits"
	"github.com/dalemusser/jadwalhub/internal/app/system/refdata"
	"github.com/dalemusser/jadwalhub/internal/app/system/schedimport"
	"github.com/dalemusser/jadwalhub/internal/app/system/schedval"
	"github.com/dalemusser/jadwalhub/internal/app/system/submission"
	"github.com/dalemusser/jadwalhub/internal/app/system/timeouts"
	"github.com/dalemusser/jadwalhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// scheduleInput defines the shape rules of the single record form. What the
// values refer to is checked afterwards against the reference data.
type scheduleInput struct {
	Tanggal    string `validate:"required" label:"Tanggal"`
	JamMulai   string `validate:"required,jam" label:"Jam mulai"`
	JumlahSesi string `validate:"required,number" label:"Jumlah sesi"`
	Materi     string `validate:"max=500" label:"Materi"`
	Agenda     string `validate:"max=500" label:"Agenda"`
	Mahasiswa  string `validate:"max=2000" label:"Mahasiswa"`
}

// rowFromForm parses the posted form the way an uploaded spreadsheet row
// is parsed: form field names are the column keys of the category, and the
// values go through the same normalisation, end time derivation and name
// resolution. Errors come back keyed by field.
func rowFromForm(r *http.Request, c models.ScheduleCategory, snap *refdata.Snapshot) (models.ScheduleRow, *formErrorResponse) {
	schema, _ := schedimport.SchemaFor(c)
	cells := make([]string, len(schema.Columns))
	for i, col := range schema.Columns {
		cells[i] = r.PostFormValue(col.Key)
	}

	in := scheduleInput{
		Tanggal:    strings.TrimSpace(r.PostFormValue(schedimport.ColTanggal)),
		JamMulai:   strings.TrimSpace(r.PostFormValue(schedimport.ColJamMulai)),
		JumlahSesi: strings.TrimSpace(r.PostFormValue(schedimport.ColSesi)),
		Materi:     r.PostFormValue(schedimport.ColMateri),
		Agenda:     r.PostFormValue(schedimport.ColAgenda),
		Mahasiswa:  r.PostFormValue(schedimport.ColMahasiswa),
	}
	if result := inputval.Validate(in); result.HasErrors() {
		return models.ScheduleRow{}, &formErrorResponse{
			Error:   result.First(),
			Details: result.Messages(),
		}
	}

	row := schema.ParseRow(cells)
	v := schedval.New(snap)
	v.Resolve(&row)
	cellErrs := v.ValidateRow(&row, 0)
	if len(cellErrs) == 0 {
		return row, nil
	}

	resp := &formErrorResponse{Error: "Data jadwal belum valid", Fields: make(map[string]string, len(cellErrs))}
	for _, ce := range cellErrs {
		msg := strings.TrimPrefix(ce.Message, fmt.Sprintf("Baris %d: ", ce.Row))
		resp.Details = append(resp.Details, msg)
		resp.Fields[ce.Field] = msg
	}
	return row, resp
}

// HandleCreate adds one schedule from the form.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	kode := chi.URLParam(r, "kode")
	c, ok := h.category(w, r)
	if !ok {
		return
	}
	if err := parseForm(w, r); err != nil {
		errorsfeature.RenderError(w, r, http.StatusBadRequest, "Permintaan tidak valid", "Form tidak dapat dibaca.", tabURL(kode, c))
		return
	}
	snap, ok := h.snapshot(w, r, kode)
	if !ok {
		return
	}

	row, invalid := rowFromForm(r, c, snap)
	if invalid != nil {
		h.writeFormError(w, r, kode, c, invalid)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Backend(), h.Log, "create schedule")
	defer cancel()

	err := h.Backend.Create(ctx, kode, submission.Payload(&row, snap.Slots))
	h.Audit.ScheduleCreated(ctx, r, kode, string(c), err)
	if err != nil {
		h.backendFailure(w, r, kode, c, "create schedule failed", err)
		return
	}
	h.reload(ctx, kode)
	h.Log.Info("schedule created", zap.String("kode", kode), zap.String("kategori", string(c)))
	h.writeDone(w, r, kode, c, http.StatusCreated, "Jadwal berhasil ditambahkan")
}

// HandleUpdate replaces one schedule with the form.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	kode := chi.URLParam(r, "kode")
	c, ok := h.category(w, r)
	if !ok {
		return
	}
	id, ok := h.scheduleID(w, r, kode, c)
	if !ok {
		return
	}
	if err := parseForm(w, r); err != nil {
		errorsfeature.RenderError(w, r, http.StatusBadRequest, "Permintaan tidak valid", "Form tidak dapat dibaca.", tabURL(kode, c))
		return
	}
	snap, ok := h.snapshot(w, r, kode)
	if !ok {
		return
	}
	if s, found := snap.ScheduleByID(id); !found || s.JenisBaris != c {
		errorsfeature.RenderError(w, r, http.StatusNotFound, "Jadwal tidak ditemukan",
			fmt.Sprintf("Jadwal dengan id %d tidak ditemukan.", id), tabURL(kode, c))
		return
	}

	row, invalid := rowFromForm(r, c, snap)
	if invalid != nil {
		h.writeFormError(w, r, kode, c, invalid)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Backend(), h.Log, "update schedule")
	defer cancel()

	err := h.Backend.Update(ctx, kode, id, submission.Payload(&row, snap.Slots))
	h.Audit.ScheduleUpdated(ctx, r, kode, string(c), id, err)
	if err != nil {
		h.backendFailure(w, r, kode, c, "update schedule failed", err)
		return
	}
	h.reload(ctx, kode)
	h.Log.Info("schedule updated", zap.String("kode", kode), zap.Int64("id", id))
	h.writeDone(w, r, kode, c, http.StatusOK, "Jadwal berhasil diperbarui")
}

// HandleDelete removes one schedule.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	kode := chi.URLParam(r, "kode")
	c, ok := h.category(w, r)
	if !ok {
		return
	}
	id, ok := h.scheduleID(w, r, kode, c)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Backend(), h.Log, "delete schedule")
	defer cancel()

	err := h.Backend.Delete(ctx, kode, id)
	h.Audit.ScheduleDeleted(ctx, r, kode, string(c), id, err)
	if err != nil {
		h.backendFailure(w, r, kode, c, "delete schedule failed", err)
		return
	}
	h.reload(ctx, kode)
	h.Log.Info("schedule deleted", zap.String("kode", kode), zap.Int64("id", id))
	h.writeDone(w, r, kode, c, http.StatusOK, "Jadwal berhasil dihapus")
}

func (h *Handler) scheduleID(w http.ResponseWriter, r *http.Request, kode string, c models.ScheduleCategory) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		errorsfeature.RenderError(w, r, http.StatusNotFound, "Jadwal tidak ditemukan", "Id jadwal tidak valid.", tabURL(kode, c))
		return 0, false
	}
	return id, true
}

// backendFailure answers a failed single record call. Rejections the
// user can act on come back as 422 with the backend's messages.
func (h *Handler) backendFailure(w http.ResponseWriter, r *http.Request, kode string, c models.ScheduleCategory, msg string, err error) {
	var ve *backendapi.ValidationError
	switch {
	case errors.As(err, &ve):
		details := ve.Errors
		if len(details) == 0 && ve.Message != "" {
			details = []string{ve.Message}
		}
		h.writeFormError(w, r, kode, c, &formErrorResponse{Error: "Jadwal ditolak server", Details: details})
	case errors.Is(err, backendapi.ErrNotFound):
		errorsfeature.RenderError(w, r, http.StatusNotFound, "Jadwal tidak ditemukan",
			"Jadwal atau mata kuliah tidak ditemukan di server.", tabURL(kode, c))
	default:
		h.ErrLog.LogError(w, r, http.StatusBadGateway, msg, err, submission.ErrorMessage(err), tabURL(kode, c))
	}
}

func (h *Handler) writeFormError(w http.ResponseWriter, r *http.Request, kode string, c models.ScheduleCategory, resp *formErrorResponse) {
	if !errorsfeature.WantsJSON(r) {
		msg := resp.Error
		if len(resp.Details) > 0 {
			msg = strings.Join(resp.Details, "; ")
		}
		errorsfeature.RenderError(w, r, http.StatusUnprocessableEntity, resp.Error, msg, tabURL(kode, c))
		return
	}
	writeJSON(w, http.StatusUnprocessableEntity, resp)
}

// writeDone answers a successful mutation: JSON for fetch requests, a
// redirect back to the tab otherwise.
func (h *Handler) writeDone(w http.ResponseWriter, r *http.Request, kode string, c models.ScheduleCategory, status int, msg string) {
	if !errorsfeature.WantsJSON(r) {
		http.Redirect(w, r, tabURL(kode, c), http.StatusSeeOther)
		return
	}
	writeJSON(w, status, map[string]string{"message": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// parseForm reads the url-encoded form body, capped at limits.MaxFormSize.
func parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxFormSize)
	return r.ParseForm()
}
