// Package schedimport turns an uploaded spreadsheet into schedule rows and
// their validation errors, and builds the export and template workbooks
// that use the same layout.
package schedimport

import (
	"strconv"
	"strings"

	"github.com/dalemusser/jadwalhub/internal/domain/models"
)

// Column keys. Name-valued columns carry the typed name, not the id.
const (
	ColTanggal       = "tanggal"
	ColJamMulai      = "jam_mulai"
	ColSesi          = "jumlah_sesi"
	ColKelompokBesar = "kelompok_besar"
	ColDosen         = "dosen"
	ColMateri        = "materi"
	ColAgenda        = "agenda"
	ColPembimbing    = "pembimbing"
	ColReviewer      = "reviewer"
	ColMahasiswa     = "mahasiswa"
	ColRuangan       = "ruangan"
)

// Column is one spreadsheet column. Data rows are mapped by position; the
// header text is only used to check that the file has the right layout.
type Column struct {
	Header string
	Key    string
}

// Schema is the fixed column layout of one category.
type Schema struct {
	Category models.ScheduleCategory
	Columns  []Column
}

var schemas = map[models.ScheduleCategory]Schema{
	models.CategoryMateri: {models.CategoryMateri, []Column{
		{"Tanggal", ColTanggal},
		{"Jam Mulai", ColJamMulai},
		{"Sesi", ColSesi},
		{"Kelompok Besar", ColKelompokBesar},
		{"Dosen", ColDosen},
		{"Materi", ColMateri},
		{"Ruangan", ColRuangan},
	}},
	models.CategoryAgenda: {models.CategoryAgenda, []Column{
		{"Tanggal", ColTanggal},
		{"Jam Mulai", ColJamMulai},
		{"Sesi", ColSesi},
		{"Kelompok Besar", ColKelompokBesar},
		{"Agenda", ColAgenda},
		{"Ruangan", ColRuangan},
	}},
	models.CategorySeminarProposal: {models.CategorySeminarProposal, []Column{
		{"Tanggal", ColTanggal},
		{"Jam Mulai", ColJamMulai},
		{"Sesi", ColSesi},
		{"Pembimbing", ColPembimbing},
		{"Komentator", ColReviewer},
		{"Mahasiswa", ColMahasiswa},
		{"Ruangan", ColRuangan},
	}},
	models.CategorySidangSkripsi: {models.CategorySidangSkripsi, []Column{
		{"Tanggal", ColTanggal},
		{"Jam Mulai", ColJamMulai},
		{"Sesi", ColSesi},
		{"Pembimbing", ColPembimbing},
		{"Penguji", ColReviewer},
		{"Mahasiswa", ColMahasiswa},
		{"Ruangan", ColRuangan},
	}},
}

// SchemaFor returns the layout of a category.
func SchemaFor(c models.ScheduleCategory) (Schema, bool) {
	s, ok := schemas[c]
	return s, ok
}

// Headers returns the literal header row.
func (s Schema) Headers() []string {
	out := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = c.Header
	}
	return out
}

// MissingHeaders returns the expected headers absent from header. Order
// and extra columns do not matter.
func (s Schema) MissingHeaders(header []string) []string {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[strings.TrimSpace(h)] = true
	}
	var missing []string
	for _, c := range s.Columns {
		if !present[c.Header] {
			missing = append(missing, c.Header)
		}
	}
	return missing
}

// Value returns the cell text of key for row, as it would be typed into the
// spreadsheet.
func Value(row *models.ScheduleRow, key string) string {
	switch key {
	case ColTanggal:
		return row.Tanggal
	case ColJamMulai:
		return row.JamMulai
	case ColSesi:
		if row.JumlahSesi <= 0 {
			return ""
		}
		return strconv.Itoa(row.JumlahSesi)
	case ColKelompokBesar:
		if row.KelompokBesarInput != "" {
			return row.KelompokBesarInput
		}
		if row.KelompokBesarID != nil {
			return strconv.Itoa(*row.KelompokBesarID)
		}
	case ColDosen:
		return row.NamaDosen
	case ColMateri:
		return row.Materi
	case ColAgenda:
		return row.Agenda
	case ColPembimbing:
		return row.NamaPembimbing
	case ColReviewer:
		return row.ReviewerNames()
	case ColMahasiswa:
		return row.NamaMahasiswa
	case ColRuangan:
		return row.NamaRuangan
	}
	return ""
}

// FieldFor maps a column key to the CellError field it is reported on.
func FieldFor(c models.ScheduleCategory, key string) string {
	switch key {
	case ColTanggal:
		return models.FieldTanggal
	case ColJamMulai:
		return models.FieldJamMulai
	case ColSesi:
		return models.FieldJumlahSesi
	case ColKelompokBesar:
		return models.FieldKelompokBesar
	case ColDosen:
		return models.FieldDosen
	case ColMateri:
		return models.FieldMateri
	case ColAgenda:
		return models.FieldAgenda
	case ColPembimbing:
		return models.FieldPembimbing
	case ColReviewer:
		return c.ReviewerField()
	case ColMahasiswa:
		return models.FieldMahasiswa
	case ColRuangan:
		return models.FieldRuangan
	}
	return key
}
