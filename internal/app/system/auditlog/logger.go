// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/jadwalhub/internal/app/store/audit"
	"github.com/dalemusser/jadwalhub/internal/app/system/draftsession"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Schedule controls logging for single and bulk schedule mutations.
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Schedule string
	// Import controls logging for upload, submission and clearing of import drafts.
	// Same values as Schedule.
	Import string
}

// Logger provides convenience methods for logging audit events.
// It logs to both MongoDB (via audit.Store) and structured logs (via zap).
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.String("kode", event.CourseCode),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.ScheduleKind != "" {
		fields = append(fields, zap.String("kategori", event.ScheduleKind))
	}
	if len(event.ScheduleIDs) > 0 {
		fields = append(fields, zap.Int64s("schedule_ids", event.ScheduleIDs))
	}
	if event.Count > 0 {
		fields = append(fields, zap.Int("count", event.Count))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// If the logger is nil, this is a no-op (allows tests to use nil audit logger).
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategorySchedule:
		setting = l.config.Schedule
	case audit.CategoryImport:
		setting = l.config.Import
	}
	if setting == "" {
		setting = "all"
	}
	if setting == "off" {
		return
	}

	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}
	if (setting == "all" || setting == "db") && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func base(r *http.Request, category, eventType, kode, kind string) audit.Event {
	return audit.Event{
		Category:     category,
		EventType:    eventType,
		CourseCode:   kode,
		ScheduleKind: kind,
		SessionID:    draftsession.ID(r.Context()),
		IP:           getClientIP(r),
		UserAgent:    r.UserAgent(),
		Success:      true,
	}
}

func failed(e audit.Event, err error) audit.Event {
	if err != nil {
		e.Success = false
		e.FailureReason = err.Error()
	}
	return e
}

// --- Schedule mutations ---

// ScheduleCreated logs a single-record create. err is the backend failure, if any.
func (l *Logger) ScheduleCreated(ctx context.Context, r *http.Request, kode, kind string, err error) {
	l.Log(ctx, failed(base(r, audit.CategorySchedule, audit.EventScheduleCreated, kode, kind), err))
}

// ScheduleUpdated logs a single-record update.
func (l *Logger) ScheduleUpdated(ctx context.Context, r *http.Request, kode, kind string, id int64, err error) {
	e := base(r, audit.CategorySchedule, audit.EventScheduleUpdated, kode, kind)
	e.ScheduleIDs = []int64{id}
	l.Log(ctx, failed(e, err))
}

// ScheduleDeleted logs a single-record delete.
func (l *Logger) ScheduleDeleted(ctx context.Context, r *http.Request, kode, kind string, id int64, err error) {
	e := base(r, audit.CategorySchedule, audit.EventScheduleDeleted, kode, kind)
	e.ScheduleIDs = []int64{id}
	l.Log(ctx, failed(e, err))
}

// ScheduleBulkDeleted logs a bulk delete. The event succeeds only when no
// id failed; failed ids are listed in the details.
func (l *Logger) ScheduleBulkDeleted(ctx context.Context, r *http.Request, kode, kind string, deleted, failedIDs []int64) {
	e := base(r, audit.CategorySchedule, audit.EventScheduleBulkDeleted, kode, kind)
	e.ScheduleIDs = deleted
	e.Count = len(deleted)
	if len(failedIDs) > 0 {
		e.Success = false
		e.FailureReason = strconv.Itoa(len(failedIDs)) + " deletes failed"
		e.Details = map[string]string{"failed_ids": joinIDs(failedIDs)}
	}
	l.Log(ctx, e)
}

// --- Import drafts ---

// ImportUploaded logs a parsed upload with its row and error counts.
func (l *Logger) ImportUploaded(ctx context.Context, r *http.Request, kode, kind, fileName string, rows, cellErrors int) {
	e := base(r, audit.CategoryImport, audit.EventImportUploaded, kode, kind)
	e.Count = rows
	e.Details = map[string]string{
		"file_name":   fileName,
		"cell_errors": strconv.Itoa(cellErrors),
	}
	l.Log(ctx, e)
}

// ImportSubmitted logs an accepted submission.
func (l *Logger) ImportSubmitted(ctx context.Context, r *http.Request, kode, kind string, count int) {
	e := base(r, audit.CategoryImport, audit.EventImportSubmitted, kode, kind)
	e.Count = count
	l.Log(ctx, e)
}

// ImportRejected logs a submission the backend refused or could not take.
func (l *Logger) ImportRejected(ctx context.Context, r *http.Request, kode, kind string, rows int, err error) {
	e := base(r, audit.CategoryImport, audit.EventImportRejected, kode, kind)
	e.Count = rows
	l.Log(ctx, failed(e, err))
}

// ImportCleared logs a discarded draft.
func (l *Logger) ImportCleared(ctx context.Context, r *http.Request, kode, kind string) {
	l.Log(ctx, base(r, audit.CategoryImport, audit.EventImportCleared, kode, kind))
}

func joinIDs(ids []int64) string {
	b := make([]byte, 0, len(ids)*4)
	for i, id := range ids {
		if i > 0 {
			b = append(b, ',')
		}
		b = strconv.AppendInt(b, id, 10)
	}
	return string(b)
}
