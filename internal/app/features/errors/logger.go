// internal/app/features/errors/logger.go
package errors

import (
	"net/http"

	"go.uber.org/zap"
)

// ErrorLogger logs server-side failures with request context and renders
// the user-facing message. Internal error text never reaches the client.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

func (e *ErrorLogger) logError(r *http.Request, msg string, err error) {
	e.log.Error(msg,
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)
}

// LogServerError logs err and renders the error page with userMsg.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.LogError(w, r, http.StatusInternalServerError, msg, err, userMsg, backURL)
}

// LogError logs err and answers with status: a JSON body for fetch
// requests, the error page otherwise.
func (e *ErrorLogger) LogError(w http.ResponseWriter, r *http.Request, status int, msg string, err error, userMsg, backURL string) {
	e.logError(r, msg, err)
	title := "Terjadi kesalahan"
	if status == http.StatusBadGateway || status == http.StatusGatewayTimeout {
		title = "Server jadwal tidak tersedia"
	}
	RenderError(w, r, status, title, userMsg, backURL)
}

// JSONServerError logs err and writes userMsg as a JSON error body.
// status is usually 500, or 502 when the schedule backend failed.
func (e *ErrorLogger) JSONServerError(w http.ResponseWriter, r *http.Request, status int, msg string, err error, userMsg string) {
	e.logError(r, msg, err)
	WriteJSONError(w, status, userMsg, nil)
}
