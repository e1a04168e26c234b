// internal/app/system/submission/submission.go
//
// Package submission sends a corrected import draft to the backend in one
// atomic request and folds the backend's answer back into the draft.
package submission

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dalemusser/jadwalhub/internal/app/system/backendapi"
	"github.com/dalemusser/jadwalhub/internal/app/system/metrics"
	"github.com/dalemusser/jadwalhub/internal/app/system/refdata"
	"github.com/dalemusser/jadwalhub/internal/app/system/scheduledit"
	"github.com/dalemusser/jadwalhub/internal/domain/models"
	"go.uber.org/zap"
)

var (
	// ErrNothingToSubmit is returned when the draft holds no rows.
	ErrNothingToSubmit = errors.New("tidak ada data untuk diimport")
	// ErrDraftInvalid is returned when re-validation still finds errors;
	// the draft's CellErrors hold them.
	ErrDraftInvalid = errors.New("data import masih memiliki kesalahan")
	// ErrRejected is returned when the backend refused the batch with a
	// message list; the draft's CellErrors hold the messages.
	ErrRejected = errors.New("import ditolak server")
)

// Rejection is returned when the backend refused the batch with a single
// message and no list. It matches ErrRejected under errors.Is; the draft's
// CellErrors are left as they were.
type Rejection struct {
	Message string
}

func (e *Rejection) Error() string { return e.Message }

func (e *Rejection) Is(target error) bool { return target == ErrRejected }

// FieldServer is the CellError field used for messages that came back from
// the backend rather than from local validation. A row's second and later
// messages use ServerField.
const FieldServer = "server"

// ServerField returns the field key of the k-th backend message on a row,
// counting from 1.
func ServerField(k int) string {
	if k <= 1 {
		return FieldServer
	}
	return FieldServer + "#" + strconv.Itoa(k)
}

// IsServerField reports whether field holds a backend message.
func IsServerField(field string) bool {
	return field == FieldServer || strings.HasPrefix(field, FieldServer+"#")
}

// Importer is the part of the backend client a submission needs.
type Importer interface {
	Import(ctx context.Context, kode string, rows []backendapi.Payload) (*backendapi.ImportResult, error)
}

// Reloader refreshes the reference data after a successful import.
type Reloader interface {
	Reload(ctx context.Context, kode string) (*refdata.Snapshot, error)
}

// Submitter runs the submission pipeline.
type Submitter struct {
	backend Importer
	cache   Reloader
	log     *zap.Logger
}

// New builds a Submitter.
func New(backend Importer, cache Reloader, logger *zap.Logger) *Submitter {
	return &Submitter{backend: backend, cache: cache, log: logger}
}

// Submit re-validates d against snap and, if it is clean, imports all rows
// at once. On success the draft is reset and LastImported carries the
// count the backend reported. On rejection the backend messages replace the
// draft's CellErrors and ErrRejected is returned. Any other failure is
// returned wrapped; the draft is left untouched.
func (s *Submitter) Submit(ctx context.Context, d *models.ImportDraft, snap *refdata.Snapshot) (int, error) {
	if len(d.Rows) == 0 {
		return 0, ErrNothingToSubmit
	}
	scheduledit.Revalidate(d, snap)
	if len(d.CellErrors) > 0 {
		return 0, ErrDraftInvalid
	}

	payload := Payloads(d.Rows, snap.Slots)
	res, err := s.backend.Import(ctx, d.CourseCode, payload)
	if err != nil {
		var ve *backendapi.ValidationError
		if errors.As(err, &ve) {
			if len(ve.Errors) == 0 {
				msg := ve.Message
				if msg == "" {
					msg = ErrRejected.Error()
				}
				s.log.Info("import rejected by backend",
					zap.String("kode", d.CourseCode),
					zap.String("kategori", string(d.Category)),
					zap.String("message", msg))
				return 0, &Rejection{Message: msg}
			}
			d.CellErrors = FromServerMessages(ve.Errors)
			s.log.Info("import rejected by backend",
				zap.String("kode", d.CourseCode),
				zap.String("kategori", string(d.Category)),
				zap.Int("messages", len(d.CellErrors)))
			return 0, ErrRejected
		}
		return 0, fmt.Errorf("import %s: %w", d.Category, err)
	}

	count := res.ImportedCount
	if count == 0 {
		count = len(payload)
	}
	metrics.RowsImported.WithLabelValues(string(d.Category)).Add(float64(count))
	s.log.Info("schedule rows imported",
		zap.String("kode", d.CourseCode),
		zap.String("kategori", string(d.Category)),
		zap.Int("count", count))

	d.Reset()
	d.LastImported = count

	if _, err := s.cache.Reload(ctx, d.CourseCode); err != nil {
		// The import itself succeeded; the page falls back to the previous
		// snapshot until the next reload.
		s.log.Warn("reload after import failed", zap.String("kode", d.CourseCode), zap.Error(err))
	}
	return count, nil
}

var rowRe = regexp.MustCompile(`Baris\s+(\d+):`)

// FromServerMessages attributes backend messages to rows by their
// "Baris N:" prefix. Messages without one land on row 0. Every message is
// kept; several for the same row get successive ServerField keys.
func FromServerMessages(msgs []string) models.CellErrors {
	out := make(models.CellErrors, 0, len(msgs))
	perRow := make(map[int]int)
	for _, m := range msgs {
		row := 0
		if sm := rowRe.FindStringSubmatch(m); sm != nil {
			row, _ = strconv.Atoi(sm[1])
		}
		perRow[row]++
		out.Set(models.CellError{Row: row, Field: ServerField(perRow[row]), Message: m})
	}
	return out
}

// ErrorMessage reduces a non-validation failure to the single message shown
// above the preview.
func ErrorMessage(err error) string {
	var ae *backendapi.APIError
	switch {
	case errors.Is(err, backendapi.ErrNotFound):
		return "Mata kuliah tidak ditemukan di server"
	case errors.As(err, &ae) && ae.Message != "":
		return ae.Message
	case errors.As(err, &ae):
		return fmt.Sprintf("Server mengembalikan status %d", ae.Status)
	case errors.Is(err, context.DeadlineExceeded):
		return "Server tidak merespons, silakan coba lagi"
	}
	return "Gagal menghubungi server, silakan coba lagi"
}
