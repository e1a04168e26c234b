// internal/app/features/jadwal/handler.go
package jadwal

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	errorsfeature "github.com/dalemusser/jadwalhub/internal/app/features/errors"
	"github.com/dalemusser/jadwalhub/internal/app/store/importdrafts"
	"github.com/dalemusser/jadwalhub/internal/app/system/auditlog"
	"github.com/dalemusser/jadwalhub/internal/app/system/backendapi"
	"github.com/dalemusser/jadwalhub/internal/app/system/draftsession"
	"github.com/dalemusser/jadwalhub/internal/app/system/ratelimit"
	"github.com/dalemusser/jadwalhub/internal/app/system/refdata"
	"github.com/dalemusser/jadwalhub/internal/app/system/submission"
	"github.com/dalemusser/jadwalhub/internal/app/system/timeouts"
	"github.com/dalemusser/jadwalhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// DefaultBulkConcurrency bounds the delete calls a bulk delete keeps in
// flight when no limit is configured.
const DefaultBulkConcurrency = 4

// Backend is the part of the schedule backend the single-record
// operations use.
type Backend interface {
	Create(ctx context.Context, kode string, p backendapi.Payload) error
	Update(ctx context.Context, kode string, id int64, p backendapi.Payload) error
	Delete(ctx context.Context, kode string, id int64) error
}

// RefData hands out the reference snapshot of a course.
type RefData interface {
	Get(ctx context.Context, kode string) (*refdata.Snapshot, error)
	Reload(ctx context.Context, kode string) (*refdata.Snapshot, error)
}

// DraftStore persists import drafts.
type DraftStore interface {
	Load(ctx context.Context, k importdrafts.Key) (*models.ImportDraft, error)
	Save(ctx context.Context, d *models.ImportDraft) error
	Delete(ctx context.Context, k importdrafts.Key) error
}

// Submitter sends a corrected draft to the backend.
type Submitter interface {
	Submit(ctx context.Context, d *models.ImportDraft, snap *refdata.Snapshot) (int, error)
}

// Handler is the dependency container of the schedule page: the single
// record form, bulk delete, and the spreadsheet import with its correction
// loop.
type Handler struct {
	Backend   Backend
	RefData   RefData
	Drafts    DraftStore
	Submitter Submitter
	Audit     *auditlog.Logger
	ErrLog    *errorsfeature.ErrorLogger
	Log       *zap.Logger

	// BulkConcurrency bounds concurrent delete calls; 0 means
	// DefaultBulkConcurrency.
	BulkConcurrency int

	// ImportLimiter throttles uploads and submissions per draft session.
	// Nil disables throttling.
	ImportLimiter *ratelimit.Limiter
}

// NewHandler constructs a schedule page Handler.
func NewHandler(backend Backend, ref RefData, drafts DraftStore, sub Submitter, audit *auditlog.Logger, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Backend:         backend,
		RefData:         ref,
		Drafts:          drafts,
		Submitter:       sub,
		Audit:           audit,
		ErrLog:          errLog,
		Log:             logger,
		BulkConcurrency: DefaultBulkConcurrency,
	}
}

func (h *Handler) bulkLimit() int {
	if h.BulkConcurrency > 0 {
		return h.BulkConcurrency
	}
	return DefaultBulkConcurrency
}

// tabURL is the page of one category tab.
func tabURL(kode string, c models.ScheduleCategory) string {
	return fmt.Sprintf("/jadwal/%s/%s", kode, c)
}

// category reads the {kategori} URL parameter. An unknown category is
// answered with 404.
func (h *Handler) category(w http.ResponseWriter, r *http.Request) (models.ScheduleCategory, bool) {
	c, ok := models.ParseCategory(chi.URLParam(r, "kategori"))
	if !ok {
		errorsfeature.RenderError(w, r, http.StatusNotFound, "Halaman tidak ditemukan",
			"Kategori jadwal tidak dikenal.", "/jadwal/"+chi.URLParam(r, "kode"))
		return "", false
	}
	return c, true
}

// snapshot returns the course's reference data, answering the request
// itself when it cannot be had.
func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request, kode string) (*refdata.Snapshot, bool) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Backend(), h.Log, "load reference data")
	defer cancel()

	snap, err := h.RefData.Get(ctx, kode)
	if err == nil {
		return snap, true
	}
	if errors.Is(err, backendapi.ErrNotFound) {
		errorsfeature.RenderError(w, r, http.StatusNotFound, "Mata kuliah tidak ditemukan",
			fmt.Sprintf("Mata kuliah %s tidak ditemukan di server.", kode), "/")
		return nil, false
	}
	h.ErrLog.LogError(w, r, http.StatusBadGateway, "load reference data failed", err, submission.ErrorMessage(err), "/")
	return nil, false
}

// reload refreshes the reference data after a mutation. A failed reload
// only costs freshness; the old snapshot stays in place.
func (h *Handler) reload(ctx context.Context, kode string) {
	if _, err := h.RefData.Reload(ctx, kode); err != nil {
		h.Log.Warn("reload after mutation failed", zap.String("kode", kode), zap.Error(err))
	}
}

// throttled wraps the import calls that parse a workbook or reach the
// backend with ImportLimiter, keyed by draft session.
func (h *Handler) throttled(next http.HandlerFunc) http.Handler {
	if h.ImportLimiter == nil {
		return next
	}
	return ratelimit.Middleware(h.ImportLimiter, func(r *http.Request) string {
		return draftsession.ID(r.Context())
	}, func(w http.ResponseWriter, r *http.Request) {
		errorsfeature.RenderError(w, r, http.StatusTooManyRequests, "Terlalu banyak permintaan",
			"Terlalu banyak upload atau import dalam waktu singkat. Coba lagi sebentar lagi.", "")
	})(next)
}
