package scheduledit

import (
	"errors"
	"strings"

	"github.com/dalemusser/jadwalhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/jadwalhub/internal/app/system/paging"
	"github.com/dalemusser/jadwalhub/internal/app/system/refdata"
	"github.com/dalemusser/jadwalhub/internal/app/system/schedimport"
	"github.com/dalemusser/jadwalhub/internal/app/system/schedval"
	"github.com/dalemusser/jadwalhub/internal/app/system/timeslot"
	"github.com/dalemusser/jadwalhub/internal/domain/models"
)

var (
	// ErrNoRows is returned when the draft holds no parsed rows.
	ErrNoRows = errors.New("tidak ada data import")
	// ErrRowOutOfRange is returned for a row index outside the draft.
	ErrRowOutOfRange = errors.New("baris tidak ditemukan")
	// ErrUnknownField is returned for a field key no edit exists for.
	ErrUnknownField = errors.New("kolom tidak dikenal")
	// ErrFieldNotApplicable is returned when the field does not belong to
	// the draft's category (e.g. dosen on an agenda row).
	ErrFieldNotApplicable = errors.New("kolom tidak berlaku untuk kategori ini")
)

// Begin moves the edit cursor to (row, field) and shows the page holding it.
func Begin(d *models.ImportDraft, row int, field string) error {
	if err := checkTarget(d, row, field); err != nil {
		return err
	}
	d.Editing = &models.CellRef{Row: row, Field: fieldOf(d, field)}
	d.Page = paging.PageOf(row)
	return nil
}

// Apply performs one edit on the draft. The edited value is normalised and
// resolved the way an import would, the end time is re-derived when the
// start time or session count changes, the old error for the cell is
// dropped, and the single-field check is run again. Cross-field rules are
// left to Finish.
func Apply(d *models.ImportDraft, snap *refdata.Snapshot, e Edit) error {
	field := fieldOf(d, e.Field())
	if err := checkTarget(d, e.RowIndex(), field); err != nil {
		return err
	}
	idx := e.RowIndex()
	row := &d.Rows[idx]
	v := schedval.New(snap)

	switch e := e.(type) {
	case EditDate:
		row.Tanggal = schedimport.NormalizeDate(e.Value)
	case EditStartTime:
		row.JamMulai = schedimport.NormalizeTime(e.Value)
		row.JamSelesai = timeslot.DeriveEndTime(row.JamMulai, row.JumlahSesi)
	case EditSessions:
		row.JumlahSesi = e.Value
		row.JamSelesai = timeslot.DeriveEndTime(row.JamMulai, row.JumlahSesi)
	case EditLargeGroup:
		row.KelompokBesarInput = strings.TrimSpace(e.Value)
		row.KelompokBesarID = nil
	case EditInstructor:
		row.NamaDosen = strings.TrimSpace(e.Name)
		row.DosenID = nil
	case EditTopic:
		row.Materi = htmlsanitize.PlainText(e.Text)
	case EditAgenda:
		row.Agenda = htmlsanitize.PlainText(e.Text)
	case EditRoom:
		row.NamaRuangan = strings.TrimSpace(e.Name)
		row.RuanganID = nil
	case EditAdvisor:
		row.NamaPembimbing = strings.TrimSpace(e.Name)
		row.PembimbingID = nil
	case EditReviewers:
		row.SetReviewers(strings.TrimSpace(e.Names), nil)
	case EditStudents:
		row.NamaMahasiswa = strings.TrimSpace(e.Names)
		row.MahasiswaNIMs = nil
	}
	v.Resolve(row)

	d.CellErrors.Clear(idx+1, field)
	if ce, bad := v.ValidateField(row, idx, field); bad {
		d.CellErrors.Set(ce)
	}
	d.Editing = &models.CellRef{Row: idx, Field: field}
	return nil
}

// Finish closes the edit cursor and re-validates the whole batch, which is
// what clears or raises the cross-field errors (self-exclusion, duplicate
// people, room capacity) an edit may have changed.
func Finish(d *models.ImportDraft, snap *refdata.Snapshot) {
	d.Editing = nil
	if len(d.Rows) == 0 {
		d.CellErrors = nil
		return
	}
	d.CellErrors = schedval.New(snap).ValidateAll(d.Rows)
}

// Revalidate re-resolves every row against snap and re-runs batch
// validation. It is used after the reference data was reloaded.
func Revalidate(d *models.ImportDraft, snap *refdata.Snapshot) {
	v := schedval.New(snap)
	for i := range d.Rows {
		v.Resolve(&d.Rows[i])
	}
	d.CellErrors = v.ValidateAll(d.Rows)
}

// SetPage moves the preview to page, clamped to the available pages.
func SetPage(d *models.ImportDraft, page int) {
	_, info := paging.Slice(d.Rows, page)
	d.Page = info.Page
}

func checkTarget(d *models.ImportDraft, row int, field string) error {
	if len(d.Rows) == 0 {
		return ErrNoRows
	}
	if row < 0 || row >= len(d.Rows) {
		return ErrRowOutOfRange
	}
	for _, f := range schedval.Fields(d.Category) {
		if f == field {
			return nil
		}
	}
	return ErrFieldNotApplicable
}

// fieldOf maps the generic reviewer key onto the draft category's own.
func fieldOf(d *models.ImportDraft, field string) string {
	if field == models.FieldKomentator || field == models.FieldPenguji {
		return d.Category.ReviewerField()
	}
	return field
}
