package home_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/jadwalhub/internal/app/features/home"
	"go.uber.org/zap"
)

func TestServeRoot_OpensCourse(t *testing.T) {
	h := home.NewHandler(zap.NewNop())

	tests := []struct {
		name string
		kode string
		want string
	}{
		{"plain", "MK01", "/jadwal/MK01"},
		{"trimmed", "  MK01 ", "/jadwal/MK01"},
		{"escaped", "MK 01/A", "/jadwal/MK%2001%2FA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			q := req.URL.Query()
			q.Set("kode", tt.kode)
			req.URL.RawQuery = q.Encode()
			rec := httptest.NewRecorder()

			h.ServeRoot(rec, req)

			if rec.Code != http.StatusSeeOther {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
			}
			if loc := rec.Header().Get("Location"); loc != tt.want {
				t.Errorf("Location = %q, want %q", loc, tt.want)
			}
		})
	}
}
