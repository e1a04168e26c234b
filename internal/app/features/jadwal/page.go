// internal/app/features/jadwal/page.go
package jadwal

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/jadwalhub/internal/app/store/importdrafts"
	"github.com/dalemusser/jadwalhub/internal/app/system/draftsession"
	"github.com/dalemusser/jadwalhub/internal/app/system/normalize"
	"github.com/dalemusser/jadwalhub/internal/app/system/paging"
	"github.com/dalemusser/jadwalhub/internal/app/system/refdata"
	"github.com/dalemusser/jadwalhub/internal/app/system/schedimport"
	"github.com/dalemusser/jadwalhub/internal/app/system/schedval"
	"github.com/dalemusser/jadwalhub/internal/app/system/submission"
	"github.com/dalemusser/jadwalhub/internal/app/system/timeouts"
	"github.com/dalemusser/jadwalhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
)

// errNoSession is returned when the request carries no draft session id.
var errNoSession = errors.New("no draft session")

// ServePage renders the schedule page of one course with the tab of the
// {kategori} parameter open (materi when absent).
func (h *Handler) ServePage(w http.ResponseWriter, r *http.Request) {
	kode := chi.URLParam(r, "kode")
	c := models.CategoryMateri
	if chi.URLParam(r, "kategori") != "" {
		var ok bool
		if c, ok = h.category(w, r); !ok {
			return
		}
	}

	snap, ok := h.snapshot(w, r, kode)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	d, err := h.loadDraft(ctx, r, kode, c)
	if errors.Is(err, errNoSession) {
		d = &models.ImportDraft{CourseCode: kode, Category: c}
	} else if err != nil {
		h.ErrLog.LogServerError(w, r, "load import draft failed", err, "Gagal memuat data import.", "/")
		return
	}

	q := normalize.QueryParam(query.Get(r, "q"))
	templates.Render(w, r, "jadwal_page", buildPage(snap, kode, c, q, paging.ParsePage(r), d))
}

// buildPage assembles the page view model.
func buildPage(snap *refdata.Snapshot, kode string, c models.ScheduleCategory, q string, page int, d *models.ImportDraft) pageData {
	schema, _ := schedimport.SchemaFor(c)
	items, info := scheduleList(snap, c, q, page)

	data := pageData{
		Title:     snap.Course.Nama + " · " + c.Title(),
		Course:    snap.Course,
		Kode:      kode,
		Category:  c,
		TabURL:    tabURL(kode, c),
		Query:     q,
		Schedules: items,
		Paging:    info,
		Columns:   schema.Headers(),
		Options: optionLists{
			Instructors: snap.Instructors,
			Rooms:       snap.Rooms,
			Groups:      snap.GroupsFor(c),
			Students:    snap.Students,
			Slots:       snap.Slots,
		},
		Draft: newDraftView(d, d.Page),
	}
	for _, tc := range models.AllCategories {
		data.Tabs = append(data.Tabs, tabItem{
			Category: tc,
			Title:    tc.Title(),
			URL:      tabURL(kode, tc),
			Count:    len(snap.Schedules[tc]),
			Active:   tc == c,
		})
	}
	for _, col := range schema.Columns {
		data.Form = append(data.Form, formField{Key: col.Key, Label: col.Header, List: datalistFor(col.Key)})
	}
	return data
}

func datalistFor(key string) string {
	switch key {
	case schedimport.ColDosen, schedimport.ColPembimbing, schedimport.ColReviewer:
		return "dl-dosen"
	case schedimport.ColRuangan:
		return "dl-ruangan"
	case schedimport.ColKelompokBesar:
		return "dl-kelompok"
	case schedimport.ColMahasiswa:
		return "dl-mahasiswa"
	case schedimport.ColJamMulai:
		return "dl-jam"
	}
	return ""
}

// scheduleList returns one page of the persisted schedules of c, sorted by
// date and start time. q filters case- and accent-insensitively on every
// shown value.
func scheduleList(snap *refdata.Snapshot, c models.ScheduleCategory, q string, page int) ([]scheduleItem, paging.Info) {
	schema, _ := schedimport.SchemaFor(c)
	needle := text.Fold(q)
	var items []scheduleItem
	for _, s := range schedimport.Sorted(snap.Schedules[c]) {
		row := schedimport.FromSchedule(snap, s)
		if needle != "" && !strings.Contains(text.Fold(haystack(&row)), needle) {
			continue
		}
		item := scheduleItem{ID: s.ID, Row: row, Cells: make([]string, len(schema.Columns))}
		for i, col := range schema.Columns {
			item.Cells[i] = schedimport.Value(&item.Row, col.Key)
		}
		items = append(items, item)
	}
	return paging.Slice(items, page)
}

func haystack(row *models.ScheduleRow) string {
	return strings.Join([]string{
		row.Tanggal, row.JamMulai, row.JamSelesai,
		row.KelompokBesarInput, row.NamaDosen, row.Materi, row.Agenda,
		row.NamaPembimbing, row.ReviewerNames(), row.NamaMahasiswa, row.NamaRuangan,
	}, " ")
}

// newDraftView renders page of d for the preview.
func newDraftView(d *models.ImportDraft, page int) draftView {
	schema, _ := schedimport.SchemaFor(d.Category)
	rows, info := paging.Slice(d.Rows, page)
	v := draftView{
		Category:     d.Category,
		FileName:     d.FileName,
		HasFile:      d.HasFile(),
		Fields:       schedval.Fields(d.Category),
		Columns:      schema.Headers(),
		Rows:         make([]rowView, len(rows)),
		Paging:       info,
		CellErrors:   d.CellErrors,
		FileErrors:   d.FileErrors,
		Editing:      d.Editing,
		CanSubmit:    d.CanSubmit(),
		LastImported: d.LastImported,
	}
	if v.CellErrors == nil {
		v.CellErrors = models.CellErrors{}
	}
	for i := range rows {
		idx := info.Offset() + i
		rv := rowView{Index: idx, Number: idx + 1, Row: rows[i]}
		for _, ce := range d.CellErrors.ForRow(idx + 1) {
			if rv.Errors == nil {
				rv.Errors = make(map[string]string)
			}
			field := ce.Field
			if submission.IsServerField(field) {
				field = submission.FieldServer
			}
			if prev, ok := rv.Errors[field]; ok {
				rv.Errors[field] = prev + "; " + ce.Message
			} else {
				rv.Errors[field] = ce.Message
			}
		}
		rv.Cells = make([]cellView, len(schema.Columns))
		for j, col := range schema.Columns {
			field := schedimport.FieldFor(d.Category, col.Key)
			rv.Cells[j] = cellView{Field: field, Value: schedimport.Value(&rows[i], col.Key), Error: rv.Errors[field]}
		}
		v.Rows[i] = rv
	}
	for _, ce := range d.CellErrors {
		if ce.Row == 0 {
			v.GeneralErrors = append(v.GeneralErrors, ce.Message)
		}
	}
	return v
}

func draftKey(r *http.Request, kode string, c models.ScheduleCategory) importdrafts.Key {
	return importdrafts.Key{SessionID: draftsession.ID(r.Context()), CourseCode: kode, Category: c}
}

// loadDraft returns the draft of the tab for this browser session.
func (h *Handler) loadDraft(ctx context.Context, r *http.Request, kode string, c models.ScheduleCategory) (*models.ImportDraft, error) {
	k := draftKey(r, kode, c)
	if k.SessionID == "" {
		return nil, errNoSession
	}
	return h.Drafts.Load(ctx, k)
}
