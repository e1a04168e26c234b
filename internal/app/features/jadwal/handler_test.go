package jadwal_test

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	uierrors "github.com/dalemusser/jadwalhub/internal/app/features/errors"
	"github.com/dalemusser/jadwalhub/internal/app/features/jadwal"
	"github.com/dalemusser/jadwalhub/internal/app/store/importdrafts"
	"github.com/dalemusser/jadwalhub/internal/app/system/backendapi"
	"github.com/dalemusser/jadwalhub/internal/app/system/draftsession"
	"github.com/dalemusser/jadwalhub/internal/app/system/ratelimit"
	"github.com/dalemusser/jadwalhub/internal/app/system/refdata"
	"github.com/dalemusser/jadwalhub/internal/app/system/schedimport"
	"github.com/dalemusser/jadwalhub/internal/app/system/sheetio"
	"github.com/dalemusser/jadwalhub/internal/app/system/submission"
	"github.com/dalemusser/jadwalhub/internal/domain/models"
	"github.com/dalemusser/jadwalhub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const testSession = "sess-1"

type fakeBackend struct {
	mu       sync.Mutex
	created  []backendapi.Payload
	updated  map[int64]backendapi.Payload
	deleted  []int64
	imported [][]backendapi.Payload

	createErr error
	deleteErr map[int64]error
	importRes *backendapi.ImportResult
	importErr error
}

func (b *fakeBackend) Create(_ context.Context, _ string, p backendapi.Payload) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.createErr != nil {
		return b.createErr
	}
	b.created = append(b.created, p)
	return nil
}

func (b *fakeBackend) Update(_ context.Context, _ string, id int64, p backendapi.Payload) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.updated == nil {
		b.updated = make(map[int64]backendapi.Payload)
	}
	b.updated[id] = p
	return nil
}

func (b *fakeBackend) Delete(_ context.Context, _ string, id int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.deleteErr[id]; err != nil {
		return err
	}
	b.deleted = append(b.deleted, id)
	return nil
}

func (b *fakeBackend) Import(_ context.Context, _ string, rows []backendapi.Payload) (*backendapi.ImportResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.importErr != nil {
		return nil, b.importErr
	}
	b.imported = append(b.imported, rows)
	if b.importRes != nil {
		return b.importRes, nil
	}
	return &backendapi.ImportResult{Success: true, ImportedCount: len(rows)}, nil
}

type fakeRefData struct {
	mu      sync.Mutex
	reloads int
}

func (f *fakeRefData) Get(_ context.Context, kode string) (*refdata.Snapshot, error) {
	if kode != testutil.CourseCode {
		return nil, backendapi.ErrNotFound
	}
	return testutil.Snapshot(), nil
}

func (f *fakeRefData) Reload(ctx context.Context, kode string) (*refdata.Snapshot, error) {
	f.mu.Lock()
	f.reloads++
	f.mu.Unlock()
	return f.Get(ctx, kode)
}

func (f *fakeRefData) reloadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reloads
}

type memDrafts struct {
	mu     sync.Mutex
	drafts map[importdrafts.Key]models.ImportDraft
}

func (m *memDrafts) Load(_ context.Context, k importdrafts.Key) (*models.ImportDraft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.drafts[k]; ok {
		return &d, nil
	}
	return &models.ImportDraft{SessionID: k.SessionID, CourseCode: k.CourseCode, Category: k.Category}, nil
}

func (m *memDrafts) Save(_ context.Context, d *models.ImportDraft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.drafts == nil {
		m.drafts = make(map[importdrafts.Key]models.ImportDraft)
	}
	m.drafts[importdrafts.Key{SessionID: d.SessionID, CourseCode: d.CourseCode, Category: d.Category}] = *d
	return nil
}

func (m *memDrafts) Delete(_ context.Context, k importdrafts.Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drafts, k)
	return nil
}

func (m *memDrafts) get(c models.ScheduleCategory) (models.ImportDraft, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drafts[importdrafts.Key{SessionID: testSession, CourseCode: testutil.CourseCode, Category: c}]
	return d, ok
}

type testEnv struct {
	router  http.Handler
	backend *fakeBackend
	ref     *fakeRefData
	drafts  *memDrafts
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWith(t, nil)
}

// newTestEnvWith lets configure adjust the handler before its routes are
// built.
func newTestEnvWith(t *testing.T, configure func(*jadwal.Handler)) *testEnv {
	t.Helper()
	logger := zap.NewNop()
	env := &testEnv{backend: &fakeBackend{}, ref: &fakeRefData{}, drafts: &memDrafts{}}
	sub := submission.New(env.backend, env.ref, logger)
	h := jadwal.NewHandler(env.backend, env.ref, env.drafts, sub, nil, uierrors.NewErrorLogger(logger), logger)
	if configure != nil {
		configure(h)
	}

	r := chi.NewRouter()
	r.Mount("/jadwal/{kode}", jadwal.Routes(h))
	env.router = r
	return env
}

// do sends req as a fetch request of the test session.
func (e *testEnv) do(req *http.Request) *testutil.ResponseRecorder {
	req.Header.Set("Accept", "application/json")
	req = req.WithContext(draftsession.WithID(req.Context(), testSession))
	rec := testutil.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func formRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func materiForm() url.Values {
	return url.Values{
		schedimport.ColTanggal:       {"2024-01-15"},
		schedimport.ColJamMulai:      {"07.20"},
		schedimport.ColSesi:          {"2"},
		schedimport.ColKelompokBesar: {"Semester 3"},
		schedimport.ColDosen:         {"Prof. Budi Santoso"},
		schedimport.ColMateri:        {"Intro"},
		schedimport.ColRuangan:       {"Ruang Kuliah 101"},
	}
}

// uploadRequest builds a multipart upload of a materi workbook with rows.
func uploadRequest(t *testing.T, target string, header []string, rows ...[]any) *http.Request {
	t.Helper()
	var wb bytes.Buffer
	if err := sheetio.Write(&wb, sheetio.Sheet{Name: "Jadwal", Header: header, Rows: rows}); err != nil {
		t.Fatalf("build workbook: %v", err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "jadwal.xlsx")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(wb.Bytes()); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func materiHeader() []string {
	s, _ := schedimport.SchemaFor(models.CategoryMateri)
	return s.Headers()
}

type draftBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Draft   struct {
		FileName      string            `json:"file_name"`
		HasFile       bool              `json:"has_file"`
		CellErrors    models.CellErrors `json:"cell_errors"`
		FileErrors    []string          `json:"file_errors"`
		GeneralErrors []string          `json:"general_errors"`
		CanSubmit     bool              `json:"can_submit"`
		LastImported  int               `json:"last_imported"`
		Rows          []struct {
			Index  int               `json:"index"`
			Errors map[string]string `json:"errors"`
		} `json:"rows"`
	} `json:"draft"`
}

const materiURL = "/jadwal/" + testutil.CourseCode + "/materi"

func TestNewHandler(t *testing.T) {
	h := jadwal.NewHandler(nil, nil, nil, nil, nil, nil, zap.NewNop())
	if h == nil {
		t.Fatal("NewHandler() returned nil")
	}
	if h.BulkConcurrency != jadwal.DefaultBulkConcurrency {
		t.Errorf("BulkConcurrency = %d, want %d", h.BulkConcurrency, jadwal.DefaultBulkConcurrency)
	}
}

func TestUnknownCategory(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(httptest.NewRequest(http.MethodGet, "/jadwal/"+testutil.CourseCode+"/praktikum/import", nil))
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestUnknownCourse(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(formRequest("/jadwal/XX99/materi", materiForm()))
	rec.AssertStatus(t, http.StatusNotFound)
	if len(env.backend.created) != 0 {
		t.Error("nothing should be created for an unknown course")
	}
}

func TestCreate(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(formRequest(materiURL, materiForm()))
	rec.AssertStatus(t, http.StatusCreated)

	if len(env.backend.created) != 1 {
		t.Fatalf("created = %d payloads, want 1", len(env.backend.created))
	}
	p := env.backend.created[0]
	if p.JenisBaris != models.CategoryMateri {
		t.Errorf("JenisBaris = %q", p.JenisBaris)
	}
	if p.DosenID == nil || *p.DosenID != 3 {
		t.Errorf("DosenID = %v, want 3", p.DosenID)
	}
	if p.JamSelesai != "09.00" {
		t.Errorf("JamSelesai = %q, want 09.00", p.JamSelesai)
	}
	if env.ref.reloadCount() != 1 {
		t.Errorf("reloads = %d, want 1", env.ref.reloadCount())
	}
}

func TestCreate_RedirectsWithoutJSON(t *testing.T) {
	env := newTestEnv(t)
	req := formRequest(materiURL, materiForm())
	req = req.WithContext(draftsession.WithID(req.Context(), testSession))
	rec := testutil.NewRecorder()
	env.router.ServeHTTP(rec, req)
	rec.AssertRedirect(t, materiURL)
}

func TestCreate_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(url.Values)
		wantError string
		wantField string
	}{
		{
			name:      "bad clock shape",
			mutate:    func(v url.Values) { v.Set(schedimport.ColJamMulai, "pagi") },
			wantError: "Jam mulai harus berformat HH.MM.",
		},
		{
			name:      "missing date",
			mutate:    func(v url.Values) { v.Set(schedimport.ColTanggal, "") },
			wantError: "Tanggal wajib diisi.",
		},
		{
			name:      "unknown instructor",
			mutate:    func(v url.Values) { v.Set(schedimport.ColDosen, "Dr. Nobody") },
			wantError: "Data jadwal belum valid",
			wantField: models.FieldDosen,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			form := materiForm()
			tt.mutate(form)
			rec := env.do(formRequest(materiURL, form))
			rec.AssertStatus(t, http.StatusUnprocessableEntity)

			var body struct {
				Error  string            `json:"error"`
				Fields map[string]string `json:"fields"`
			}
			rec.DecodeJSON(t, &body)
			if body.Error != tt.wantError {
				t.Errorf("error = %q, want %q", body.Error, tt.wantError)
			}
			if tt.wantField != "" {
				msg := body.Fields[tt.wantField]
				if !strings.Contains(msg, "Dr. Nobody") || strings.HasPrefix(msg, "Baris") {
					t.Errorf("field message = %q", msg)
				}
			}
			if len(env.backend.created) != 0 {
				t.Error("invalid form must not reach the backend")
			}
		})
	}
}

func TestCreate_BackendRejects(t *testing.T) {
	env := newTestEnv(t)
	env.backend.createErr = &backendapi.ValidationError{Status: 422, Errors: []string{"Jadwal bentrok"}}

	rec := env.do(formRequest(materiURL, materiForm()))
	rec.AssertStatus(t, http.StatusUnprocessableEntity)
	var body struct {
		Error   string   `json:"error"`
		Details []string `json:"details"`
	}
	rec.DecodeJSON(t, &body)
	if body.Error != "Jadwal ditolak server" || len(body.Details) != 1 || body.Details[0] != "Jadwal bentrok" {
		t.Errorf("body = %+v", body)
	}
	if env.ref.reloadCount() != 0 {
		t.Error("a rejected create must not reload")
	}
}

func TestCreate_BackendDown(t *testing.T) {
	env := newTestEnv(t)
	env.backend.createErr = errors.New("connection refused")
	rec := env.do(formRequest(materiURL, materiForm()))
	rec.AssertStatus(t, http.StatusBadGateway)
}

func TestUpdate(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(formRequest(materiURL+"/501", materiForm()))
	rec.AssertStatus(t, http.StatusOK)
	if _, ok := env.backend.updated[501]; !ok {
		t.Error("schedule 501 was not updated")
	}
}

func TestUpdate_NotFound(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"unknown id", materiURL + "/999"},
		{"other category", materiURL + "/502"},
		{"bad id", materiURL + "/abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			rec := env.do(formRequest(tt.path, materiForm()))
			rec.AssertStatus(t, http.StatusNotFound)
			if len(env.backend.updated) != 0 {
				t.Error("nothing should be updated")
			}
		})
	}
}

func TestDelete(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(httptest.NewRequest(http.MethodPost, materiURL+"/501/delete", nil))
	rec.AssertStatus(t, http.StatusOK)
	if len(env.backend.deleted) != 1 || env.backend.deleted[0] != 501 {
		t.Errorf("deleted = %v", env.backend.deleted)
	}
}

func TestBulkDelete(t *testing.T) {
	tests := []struct {
		name        string
		ids         []string
		failing     map[int64]error
		wantStatus  int
		wantDeleted int
		wantFailed  int
		wantMessage string
		wantReloads int
	}{
		{
			name:        "all deleted",
			ids:         []string{"501", "502"},
			wantStatus:  http.StatusOK,
			wantDeleted: 2,
			wantMessage: "2 jadwal berhasil dihapus",
			wantReloads: 1,
		},
		{
			name:        "partial failure",
			ids:         []string{"501,502", "999"},
			failing:     map[int64]error{999: backendapi.ErrNotFound},
			wantStatus:  http.StatusOK,
			wantDeleted: 2,
			wantFailed:  1,
			wantMessage: "2 jadwal berhasil dihapus, 1 gagal",
			wantReloads: 1,
		},
		{
			name:        "all failed",
			ids:         []string{"501"},
			failing:     map[int64]error{501: errors.New("timeout")},
			wantStatus:  http.StatusBadGateway,
			wantFailed:  1,
			wantMessage: "Gagal menghapus 1 jadwal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.backend.deleteErr = tt.failing
			rec := env.do(formRequest(materiURL+"/bulk-delete", url.Values{"ids": tt.ids}))
			rec.AssertStatus(t, tt.wantStatus)

			var body struct {
				Message string  `json:"message"`
				Deleted []int64 `json:"deleted"`
				Failed  []struct {
					ID    int64  `json:"id"`
					Error string `json:"error"`
				} `json:"failed"`
			}
			rec.DecodeJSON(t, &body)
			if body.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", body.Message, tt.wantMessage)
			}
			if len(body.Deleted) != tt.wantDeleted || len(body.Failed) != tt.wantFailed {
				t.Errorf("deleted %v failed %v", body.Deleted, body.Failed)
			}
			for _, f := range body.Failed {
				if f.Error == "" {
					t.Errorf("failure of %d has no message", f.ID)
				}
			}
			if env.ref.reloadCount() != tt.wantReloads {
				t.Errorf("reloads = %d, want %d", env.ref.reloadCount(), tt.wantReloads)
			}
		})
	}
}

func TestBulkDelete_BadInput(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
	}{
		{"none selected", nil},
		{"not a number", []string{"501", "abc"}},
		{"negative", []string{"-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			rec := env.do(formRequest(materiURL+"/bulk-delete", url.Values{"ids": tt.ids}))
			rec.AssertStatus(t, http.StatusBadRequest)
			if len(env.backend.deleted) != 0 {
				t.Errorf("deleted = %v, want none", env.backend.deleted)
			}
		})
	}
}

func TestImport_NoSession(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, materiURL+"/import", nil)
	req.Header.Set("Accept", "application/json")
	rec := testutil.NewRecorder()
	env.router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestUpload_WrongHeader(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(uploadRequest(t, materiURL+"/import", []string{"Tanggal", "Jam"}, []any{"2024-01-15", "07.20"}))
	rec.AssertStatus(t, http.StatusOK)

	var body draftBody
	rec.DecodeJSON(t, &body)
	if body.Error != "File tidak dapat diimport" {
		t.Errorf("error = %q", body.Error)
	}
	if len(body.Draft.FileErrors) != 1 || !strings.Contains(body.Draft.FileErrors[0], "Format header tidak sesuai") {
		t.Errorf("file errors = %v", body.Draft.FileErrors)
	}
	if body.Draft.FileName != "jadwal.xlsx" {
		t.Errorf("file name = %q, want jadwal.xlsx", body.Draft.FileName)
	}
	if body.Draft.CanSubmit {
		t.Error("a rejected file cannot be submitted")
	}
}

func TestUpload_MissingFile(t *testing.T) {
	env := newTestEnv(t)
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	_ = mw.WriteField("other", "x")
	_ = mw.Close()
	req := httptest.NewRequest(http.MethodPost, materiURL+"/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := env.do(req)
	rec.AssertStatus(t, http.StatusBadRequest)
}

// TestImportCorrectionFlow uploads a file with one bad cell, fixes it,
// finishes editing and submits.
func TestImportCorrectionFlow(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(uploadRequest(t, materiURL+"/import", materiHeader(),
		[]any{"2024-01-15", "07.20", 2, "Semester 3", "Dr. Nobody", "Intro", "Ruang Kuliah 101"}))
	rec.AssertStatus(t, http.StatusOK)
	var body draftBody
	rec.DecodeJSON(t, &body)
	if body.Message != "1 baris dibaca, 1 kesalahan perlu diperbaiki" {
		t.Errorf("upload message = %q", body.Message)
	}
	if len(body.Draft.CellErrors) != 1 || body.Draft.CellErrors[0].Field != models.FieldDosen {
		t.Fatalf("cell errors = %+v", body.Draft.CellErrors)
	}
	if len(body.Draft.Rows) != 1 || body.Draft.Rows[0].Errors[models.FieldDosen] == "" {
		t.Errorf("row view does not carry the dosen error: %+v", body.Draft.Rows)
	}

	// Submitting now is refused and keeps the draft.
	rec = env.do(httptest.NewRequest(http.MethodPost, materiURL+"/import/submit", nil))
	rec.AssertStatus(t, http.StatusUnprocessableEntity)
	if len(env.backend.imported) != 0 {
		t.Fatal("an invalid draft reached the backend")
	}

	rec = env.do(testutil.NewJSONRequest(http.MethodPost, materiURL+"/import/begin",
		map[string]any{"row": 0, "field": models.FieldDosen}))
	rec.AssertStatus(t, http.StatusOK)
	if d, _ := env.drafts.get(models.CategoryMateri); d.Editing == nil || d.Editing.Field != models.FieldDosen {
		t.Errorf("editing = %+v", d.Editing)
	}

	rec = env.do(testutil.NewJSONRequest(http.MethodPost, materiURL+"/import/edit",
		map[string]any{"row": 0, "field": models.FieldDosen, "value": "Prof. Budi Santoso"}))
	rec.AssertStatus(t, http.StatusOK)
	body = draftBody{}
	rec.DecodeJSON(t, &body)
	if len(body.Draft.CellErrors) != 0 {
		t.Errorf("cell errors after edit = %+v", body.Draft.CellErrors)
	}

	rec = env.do(httptest.NewRequest(http.MethodPost, materiURL+"/import/edit/finish", nil))
	rec.AssertStatus(t, http.StatusOK)
	body = draftBody{}
	rec.DecodeJSON(t, &body)
	if !body.Draft.CanSubmit {
		t.Fatal("draft should be submittable after the fix")
	}

	rec = env.do(httptest.NewRequest(http.MethodPost, materiURL+"/import/submit", nil))
	rec.AssertStatus(t, http.StatusOK)
	body = draftBody{}
	rec.DecodeJSON(t, &body)
	if body.Message != "1 jadwal berhasil diimport" {
		t.Errorf("submit message = %q", body.Message)
	}
	if body.Draft.HasFile || body.Draft.LastImported != 1 {
		t.Errorf("draft after submit = %+v", body.Draft)
	}
	if len(env.backend.imported) != 1 || len(env.backend.imported[0]) != 1 {
		t.Fatalf("imported = %v", env.backend.imported)
	}
	if got := env.backend.imported[0][0].DosenID; got == nil || *got != 3 {
		t.Errorf("imported DosenID = %v, want 3", got)
	}
}

func TestEdit_BadTarget(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
	}{
		{"unknown field", map[string]any{"row": 0, "field": "warna", "value": "x"}},
		{"row out of range", map[string]any{"row": 7, "field": models.FieldMateri, "value": "x"}},
		{"field of other category", map[string]any{"row": 0, "field": models.FieldAgenda, "value": "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			rec := env.do(uploadRequest(t, materiURL+"/import", materiHeader(),
				[]any{"2024-01-15", "07.20", 2, "Semester 3", "Prof. Budi Santoso", "Intro", "Ruang Kuliah 101"}))
			rec.AssertStatus(t, http.StatusOK)

			rec = env.do(testutil.NewJSONRequest(http.MethodPost, materiURL+"/import/edit", tt.body))
			rec.AssertStatus(t, http.StatusBadRequest)
		})
	}
}

func TestSubmit_Rejected(t *testing.T) {
	env := newTestEnv(t)
	env.backend.importErr = &backendapi.ValidationError{Status: 422, Errors: []string{"Baris 1: Ruangan sudah dipakai"}}

	rec := env.do(uploadRequest(t, materiURL+"/import", materiHeader(),
		[]any{"2024-01-15", "07.20", 2, "Semester 3", "Prof. Budi Santoso", "Intro", "Ruang Kuliah 101"}))
	rec.AssertStatus(t, http.StatusOK)

	rec = env.do(httptest.NewRequest(http.MethodPost, materiURL+"/import/submit", nil))
	rec.AssertStatus(t, http.StatusUnprocessableEntity)

	var body draftBody
	rec.DecodeJSON(t, &body)
	if body.Error != "Import ditolak server, periksa pesan kesalahan" {
		t.Errorf("error = %q", body.Error)
	}
	if len(body.Draft.CellErrors) != 1 || body.Draft.CellErrors[0].Field != submission.FieldServer {
		t.Errorf("cell errors = %+v", body.Draft.CellErrors)
	}
	if d, _ := env.drafts.get(models.CategoryMateri); len(d.Rows) != 1 {
		t.Error("rows must stay on the draft after a rejection")
	}
}

func TestSubmit_RejectedWithMessage(t *testing.T) {
	env := newTestEnv(t)
	env.backend.importErr = &backendapi.ValidationError{Status: 422, Message: "Periode import sudah ditutup"}

	rec := env.do(uploadRequest(t, materiURL+"/import", materiHeader(),
		[]any{"2024-01-15", "07.20", 2, "Semester 3", "Prof. Budi Santoso", "Intro", "Ruang Kuliah 101"}))
	rec.AssertStatus(t, http.StatusOK)

	rec = env.do(httptest.NewRequest(http.MethodPost, materiURL+"/import/submit", nil))
	rec.AssertStatus(t, http.StatusUnprocessableEntity)

	var body draftBody
	rec.DecodeJSON(t, &body)
	if body.Error != "Periode import sudah ditutup" {
		t.Errorf("error = %q", body.Error)
	}
	if len(body.Draft.CellErrors) != 0 || len(body.Draft.GeneralErrors) != 0 {
		t.Errorf("cell errors = %+v, general = %v", body.Draft.CellErrors, body.Draft.GeneralErrors)
	}
}

func TestSubmit_NothingToSubmit(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(httptest.NewRequest(http.MethodPost, materiURL+"/import/submit", nil))
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestClear(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(uploadRequest(t, materiURL+"/import", materiHeader(),
		[]any{"2024-01-15", "07.20", 2, "Semester 3", "Prof. Budi Santoso", "Intro", "Ruang Kuliah 101"}))
	rec.AssertStatus(t, http.StatusOK)
	if _, ok := env.drafts.get(models.CategoryMateri); !ok {
		t.Fatal("upload did not save a draft")
	}

	rec = env.do(httptest.NewRequest(http.MethodPost, materiURL+"/import/clear", nil))
	rec.AssertStatus(t, http.StatusOK)
	if _, ok := env.drafts.get(models.CategoryMateri); ok {
		t.Error("draft still stored after clear")
	}
	var body draftBody
	rec.DecodeJSON(t, &body)
	if body.Draft.HasFile || len(body.Draft.Rows) != 0 {
		t.Errorf("draft after clear = %+v", body.Draft)
	}
}

func TestDraftsAreScopedPerCategory(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(uploadRequest(t, materiURL+"/import", materiHeader(),
		[]any{"2024-01-15", "07.20", 2, "Semester 3", "Prof. Budi Santoso", "Intro", "Ruang Kuliah 101"}))
	rec.AssertStatus(t, http.StatusOK)

	rec = env.do(httptest.NewRequest(http.MethodGet, "/jadwal/"+testutil.CourseCode+"/agenda/import", nil))
	rec.AssertStatus(t, http.StatusOK)
	var body draftBody
	rec.DecodeJSON(t, &body)
	if body.Draft.HasFile {
		t.Error("agenda tab sees the materi upload")
	}
}

func TestExport(t *testing.T) {
	tests := []struct {
		path     string
		wantFile string
	}{
		{materiURL + "/export", "jadwal-MK01-materi.xlsx"},
		{materiURL + "/template", "template-MK01-materi.xlsx"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			env := newTestEnv(t)
			rec := env.do(httptest.NewRequest(http.MethodGet, tt.path, nil))
			rec.AssertStatus(t, http.StatusOK)
			if !strings.Contains(rec.Header().Get("Content-Disposition"), tt.wantFile) {
				t.Errorf("Content-Disposition = %q", rec.Header().Get("Content-Disposition"))
			}

			grid, err := sheetio.Decode(bytes.NewReader(rec.Body.Bytes()), tt.wantFile)
			if err != nil {
				t.Fatalf("decode download: %v", err)
			}
			want := materiHeader()
			for i, h := range want {
				if sheetio.Cell(grid[0], i) != h {
					t.Errorf("header[%d] = %q, want %q", i, sheetio.Cell(grid[0], i), h)
				}
			}
		})
	}
}

func TestImport_Throttled(t *testing.T) {
	env := newTestEnvWith(t, func(h *jadwal.Handler) {
		h.ImportLimiter = ratelimit.New(1, time.Minute)
	})

	first := env.do(uploadRequest(t, materiURL+"/import", materiHeader(),
		[]any{"2024-01-15", "07.20", 2, "Semester 3", "Prof. Budi Santoso", "Intro", "Ruang Kuliah 101"}))
	if first.Code == http.StatusTooManyRequests {
		t.Fatal("first upload was throttled")
	}

	second := env.do(uploadRequest(t, materiURL+"/import", materiHeader(),
		[]any{"2024-01-15", "07.20", 2, "Semester 3", "Prof. Budi Santoso", "Intro", "Ruang Kuliah 101"}))
	second.AssertStatus(t, http.StatusTooManyRequests)

	// Editing is not throttled.
	rec := env.do(httptest.NewRequest(http.MethodPost, materiURL+"/import/begin", nil))
	if rec.Code == http.StatusTooManyRequests {
		t.Error("begin edit was throttled")
	}
}
