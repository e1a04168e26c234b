package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestJSONServerError_LogsAndHidesInternals(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	el := NewErrorLogger(zap.New(core))

	req := httptest.NewRequest("POST", "/jadwal/MK01/materi/import/submit", nil)
	rec := httptest.NewRecorder()
	el.JSONServerError(rec, req, http.StatusBadGateway, "backend import failed",
		stderrors.New("dial tcp 10.0.0.1:443: connection refused"), "Gagal menghubungi server")

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d", rec.Code)
	}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != "Gagal menghubungi server" {
		t.Errorf("error = %q", body.Error)
	}

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("log entries = %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["path"] != "/jadwal/MK01/materi/import/submit" || fields["method"] != "POST" {
		t.Errorf("log fields = %v", fields)
	}
}

func TestRenderError_JSONForFetchRequests(t *testing.T) {
	req := httptest.NewRequest("GET", "/jadwal/MK01/unknown", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()

	RenderError(rec, req, http.StatusNotFound, "Halaman tidak ditemukan", "Kategori tidak dikenal", "")

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}
