package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/jadwalhub/internal/app/features/health"
	"github.com/dalemusser/jadwalhub/internal/testutil"
	"go.uber.org/zap"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(ctx context.Context) error { return f.err }

type response struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Backend  string `json:"backend"`
}

func serve(t *testing.T, backend health.Pinger) (*httptest.ResponseRecorder, response) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	handler := health.NewHandler(db.Client(), backend, zap.NewNop())

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	handler.Serve(rec, req)

	var resp response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return rec, resp
}

func TestServe_AllHealthy(t *testing.T) {
	rec, resp := serve(t, fakePinger{})

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want %q", ct, "application/json")
	}
	if resp.Status != "ok" || resp.Database != "connected" || resp.Backend != "reachable" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestServe_BackendDownIsDegraded(t *testing.T) {
	rec, resp := serve(t, fakePinger{err: errors.New("connection refused")})

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if resp.Status != "degraded" || resp.Backend != "unreachable" {
		t.Errorf("unexpected response: %+v", resp)
	}
}
