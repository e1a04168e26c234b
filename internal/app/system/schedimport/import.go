package schedimport

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dalemusser/jadwalhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/jadwalhub/internal/app/system/limits"
	"github.com/dalemusser/jadwalhub/internal/app/system/refdata"
	"github.com/dalemusser/jadwalhub/internal/app/system/schedval"
	"github.com/dalemusser/jadwalhub/internal/app/system/sheetio"
	"github.com/dalemusser/jadwalhub/internal/app/system/timeslot"
	"github.com/dalemusser/jadwalhub/internal/domain/models"
)

// Result is the outcome of parsing one upload. When FileErrors is non-empty
// the file was rejected as a whole and Rows is empty.
type Result struct {
	Rows       []models.ScheduleRow
	CellErrors models.CellErrors
	FileErrors []string
}

// Import decodes an uploaded workbook and validates its rows against snap.
func Import(r io.Reader, filename string, c models.ScheduleCategory, snap *refdata.Snapshot) Result {
	grid, err := sheetio.Decode(r, filename)
	if err != nil {
		return Result{FileErrors: []string{decodeMessage(err)}}
	}
	return FromGrid(grid, c, snap)
}

func decodeMessage(err error) string {
	switch {
	case errors.Is(err, sheetio.ErrUnsupported), errors.Is(err, sheetio.ErrNoSheet), errors.Is(err, sheetio.ErrEmpty):
		return capitalize(err.Error())
	}
	return "File tidak dapat dibaca. Pastikan file berformat Excel (.xlsx atau .xls) yang valid."
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// FromGrid maps a decoded grid (header row first) into rows, resolves every
// reference and runs batch validation.
func FromGrid(grid [][]string, c models.ScheduleCategory, snap *refdata.Snapshot) Result {
	schema, ok := SchemaFor(c)
	if !ok {
		return Result{FileErrors: []string{fmt.Sprintf("Kategori %q tidak dikenal", c)}}
	}
	if len(grid) == 0 {
		return Result{FileErrors: []string{"File kosong"}}
	}

	if missing := schema.MissingHeaders(grid[0]); len(missing) > 0 {
		return Result{FileErrors: []string{
			fmt.Sprintf("Format header tidak sesuai. Kolom yang tidak ditemukan: %s. Header yang diharapkan: %s",
				strings.Join(missing, ", "), strings.Join(schema.Headers(), ", ")),
		}}
	}

	v := schedval.New(snap)
	var rows []models.ScheduleRow
	for _, cells := range grid[1:] {
		if sheetio.BlankRow(cells) {
			continue
		}
		row := schema.ParseRow(cells)
		v.Resolve(&row)
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return Result{FileErrors: []string{"File tidak memiliki baris data"}}
	}
	if len(rows) > limits.MaxImportRows {
		return Result{FileErrors: []string{
			fmt.Sprintf("File berisi %d baris data, maksimal %d baris per import", len(rows), limits.MaxImportRows),
		}}
	}

	return Result{Rows: rows, CellErrors: v.ValidateAll(rows)}
}

// ParseRow maps cells by position into a row and applies the parse-time
// normalisation: dates to YYYY-MM-DD, start times to HH:MM, free text
// stripped of markup and the end time derived from start and sessions.
// Ids are not resolved here.
func (s Schema) ParseRow(cells []string) models.ScheduleRow {
	row := models.ScheduleRow{Category: s.Category}
	for i, col := range s.Columns {
		Assign(&row, col.Key, sheetio.Cell(cells, i))
	}
	row.JamSelesai = timeslot.DeriveEndTime(row.JamMulai, row.JumlahSesi)
	return row
}

// Assign stores one cell value on row under the column key, normalising it
// the way an import does.
func Assign(row *models.ScheduleRow, key, val string) {
	switch key {
	case ColTanggal:
		row.Tanggal = NormalizeDate(val)
	case ColJamMulai:
		row.JamMulai = NormalizeTime(val)
	case ColSesi:
		row.JumlahSesi = ParseSessions(val)
	case ColKelompokBesar:
		row.KelompokBesarInput = strings.TrimSpace(val)
	case ColDosen:
		row.NamaDosen = strings.TrimSpace(val)
	case ColMateri:
		row.Materi = htmlsanitize.PlainText(val)
	case ColAgenda:
		row.Agenda = htmlsanitize.PlainText(val)
	case ColPembimbing:
		row.NamaPembimbing = strings.TrimSpace(val)
	case ColReviewer:
		row.SetReviewers(strings.TrimSpace(val), nil)
	case ColMahasiswa:
		row.NamaMahasiswa = strings.TrimSpace(val)
	case ColRuangan:
		row.NamaRuangan = strings.TrimSpace(val)
	}
}
