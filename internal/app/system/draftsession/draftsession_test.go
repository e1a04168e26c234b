package draftsession

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestNew_RequiresKey(t *testing.T) {
	if _, err := New(Config{}, zap.NewNop()); err == nil {
		t.Error("expected error for empty key")
	}
}

func TestMiddleware_IssuesAndReusesID(t *testing.T) {
	m, err := New(Config{Key: testKey}, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	var seen []string
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, ID(r.Context()))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/jadwal/MK01", nil))
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != DefaultName {
		t.Fatalf("cookies = %v", cookies)
	}
	if _, err := uuid.Parse(seen[0]); err != nil {
		t.Fatalf("issued id %q is not a uuid", seen[0])
	}

	req := httptest.NewRequest("GET", "/jadwal/MK01", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if seen[1] != seen[0] {
		t.Errorf("second request id = %q, want %q", seen[1], seen[0])
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("a valid cookie should not be re-issued")
	}
}

func TestMiddleware_ReplacesTamperedCookie(t *testing.T) {
	m, _ := New(Config{Key: testKey, Secure: true}, zap.NewNop())
	var got string
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ID(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: DefaultName, Value: "tampered"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got == "" {
		t.Fatal("expected a fresh id")
	}
	setCookie := rec.Header().Get("Set-Cookie")
	if !strings.Contains(setCookie, "Secure") || !strings.Contains(setCookie, "SameSite=None") {
		t.Errorf("Set-Cookie = %q", setCookie)
	}
}
