// internal/app/features/jadwal/bulkdelete.go
package jadwal

import (
	"fmt"
	"net/http"

	errorsfeature "github.com/dalemusser/jadwalhub/internal/app/features/errors"
	"github.com/dalemusser/jadwalhub/internal/app/system/normalize"
	"github.com/dalemusser/jadwalhub/internal/app/system/submission"
	"github.com/dalemusser/jadwalhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// HandleBulkDelete deletes every selected schedule ("ids", repeated or
// comma separated). One delete call per id runs concurrently, bounded by
// BulkConcurrency, and all of them settle before answering: one failure
// does not stop the others. The reference data is reloaded whenever at
// least one delete went through.
func (h *Handler) HandleBulkDelete(w http.ResponseWriter, r *http.Request) {
	kode := chi.URLParam(r, "kode")
	c, ok := h.category(w, r)
	if !ok {
		return
	}
	if err := parseForm(w, r); err != nil {
		errorsfeature.RenderError(w, r, http.StatusBadRequest, "Permintaan tidak valid", "Form tidak dapat dibaca.", tabURL(kode, c))
		return
	}
	ids, bad := normalize.IDs(r.PostForm["ids"])
	if len(bad) > 0 {
		errorsfeature.RenderError(w, r, http.StatusBadRequest, "Permintaan tidak valid",
			fmt.Sprintf("Id jadwal tidak valid: %v", bad), tabURL(kode, c))
		return
	}
	if len(ids) == 0 {
		errorsfeature.RenderError(w, r, http.StatusBadRequest, "Tidak ada jadwal dipilih",
			"Pilih minimal satu jadwal untuk dihapus.", tabURL(kode, c))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Batch(), h.Log, "bulk delete schedules")
	defer cancel()

	errs := make([]error, len(ids))
	var g errgroup.Group
	g.SetLimit(h.bulkLimit())
	for i, id := range ids {
		g.Go(func() error {
			errs[i] = h.Backend.Delete(ctx, kode, id)
			return nil
		})
	}
	_ = g.Wait()

	resp := bulkDeleteResponse{Deleted: []int64{}}
	var failedIDs []int64
	for i, id := range ids {
		if errs[i] != nil {
			h.Log.Warn("bulk delete item failed", zap.String("kode", kode), zap.Int64("id", id), zap.Error(errs[i]))
			resp.Failed = append(resp.Failed, bulkFailure{ID: id, Error: submission.ErrorMessage(errs[i])})
			failedIDs = append(failedIDs, id)
			continue
		}
		resp.Deleted = append(resp.Deleted, id)
	}
	h.Audit.ScheduleBulkDeleted(ctx, r, kode, string(c), resp.Deleted, failedIDs)

	if len(resp.Deleted) > 0 {
		h.reload(ctx, kode)
	}
	h.Log.Info("bulk delete finished",
		zap.String("kode", kode),
		zap.String("kategori", string(c)),
		zap.Int("deleted", len(resp.Deleted)),
		zap.Int("failed", len(resp.Failed)))

	status := http.StatusOK
	switch {
	case len(resp.Failed) == 0:
		resp.Message = fmt.Sprintf("%d jadwal berhasil dihapus", len(resp.Deleted))
	case len(resp.Deleted) == 0:
		status = http.StatusBadGateway
		resp.Message = fmt.Sprintf("Gagal menghapus %d jadwal", len(resp.Failed))
	default:
		resp.Message = fmt.Sprintf("%d jadwal berhasil dihapus, %d gagal", len(resp.Deleted), len(resp.Failed))
	}

	if !errorsfeature.WantsJSON(r) {
		if len(resp.Failed) > 0 {
			errorsfeature.RenderError(w, r, http.StatusBadGateway, "Hapus jadwal gagal", resp.Message, tabURL(kode, c))
			return
		}
		http.Redirect(w, r, tabURL(kode, c), http.StatusSeeOther)
		return
	}
	writeJSON(w, status, resp)
}
