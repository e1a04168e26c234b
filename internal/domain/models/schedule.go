// internal/domain/models/schedule.go
package models

import "strings"

// ScheduleCategory selects which fields a schedule row carries and which
// reference lists participate in validating it.
type ScheduleCategory string

const (
	CategoryMateri          ScheduleCategory = "materi"
	CategoryAgenda          ScheduleCategory = "agenda"
	CategorySeminarProposal ScheduleCategory = "seminar_proposal"
	CategorySidangSkripsi   ScheduleCategory = "sidang_skripsi"
)

// AllCategories lists the categories in the order the page shows its tabs.
var AllCategories = []ScheduleCategory{
	CategoryMateri,
	CategoryAgenda,
	CategorySeminarProposal,
	CategorySidangSkripsi,
}

// ParseCategory maps a URL or form value to a category.
func ParseCategory(s string) (ScheduleCategory, bool) {
	c := ScheduleCategory(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllCategories {
		if c == known {
			return c, true
		}
	}
	return "", false
}

// UsesLargeGroup reports whether rows of this category are assigned to a kelompok besar.
func (c ScheduleCategory) UsesLargeGroup() bool {
	return c == CategoryMateri || c == CategoryAgenda
}

// IsThesis reports whether the category is a seminar or a defense.
func (c ScheduleCategory) IsThesis() bool {
	return c == CategorySeminarProposal || c == CategorySidangSkripsi
}

// ReviewerLabel is the Indonesian name of the second role on thesis rows.
func (c ScheduleCategory) ReviewerLabel() string {
	if c == CategorySidangSkripsi {
		return "penguji"
	}
	return "komentator"
}

// Title is the tab label.
func (c ScheduleCategory) Title() string {
	switch c {
	case CategoryMateri:
		return "Materi Kuliah"
	case CategoryAgenda:
		return "Agenda Khusus"
	case CategorySeminarProposal:
		return "Seminar Proposal"
	case CategorySidangSkripsi:
		return "Sidang Skripsi"
	}
	return string(c)
}

// Field keys used by CellError. They match the backend payload keys so
// server-side messages and client-side messages share one vocabulary.
const (
	FieldTanggal       = "tanggal"
	FieldJamMulai      = "jam_mulai"
	FieldJumlahSesi    = "jumlah_sesi"
	FieldKelompokBesar = "kelompok_besar_id"
	FieldDosen         = "dosen_id"
	FieldMateri        = "materi"
	FieldAgenda        = "agenda"
	FieldRuangan       = "ruangan_id"
	FieldPembimbing    = "pembimbing_id"
	FieldKomentator    = "komentator_ids"
	FieldPenguji       = "penguji_ids"
	FieldMahasiswa     = "mahasiswa_nims"
)

// ReviewerField is the CellError key of the category's reviewer role.
func (c ScheduleCategory) ReviewerField() string {
	if c == CategorySidangSkripsi {
		return FieldPenguji
	}
	return FieldKomentator
}

// ScheduleRow is one schedule line as it moves through import, correction
// and submission. Every *ID field is derived from the paired name field by
// resolving it against the reference data; the name is what the user typed
// and is the value that gets edited.
type ScheduleRow struct {
	Category ScheduleCategory `bson:"category" json:"category"`

	Tanggal    string `bson:"tanggal" json:"tanggal"`
	JamMulai   string `bson:"jam_mulai" json:"jam_mulai"`
	JamSelesai string `bson:"jam_selesai" json:"jam_selesai"`
	JumlahSesi int    `bson:"jumlah_sesi" json:"jumlah_sesi"`

	// materi / agenda
	KelompokBesarID    *int   `bson:"kelompok_besar_id,omitempty" json:"kelompok_besar_id"`
	KelompokBesarInput string `bson:"kelompok_besar_input,omitempty" json:"kelompok_besar_input"`

	// materi
	DosenID   *int64 `bson:"dosen_id,omitempty" json:"dosen_id"`
	NamaDosen string `bson:"nama_dosen,omitempty" json:"nama_dosen"`
	Materi    string `bson:"materi,omitempty" json:"materi"`

	// agenda
	Agenda string `bson:"agenda,omitempty" json:"agenda"`

	// seminar / sidang
	PembimbingID   *int64   `bson:"pembimbing_id,omitempty" json:"pembimbing_id"`
	NamaPembimbing string   `bson:"nama_pembimbing,omitempty" json:"nama_pembimbing"`
	KomentatorIDs  []int64  `bson:"komentator_ids,omitempty" json:"komentator_ids"`
	NamaKomentator string   `bson:"nama_komentator,omitempty" json:"nama_komentator"`
	PengujiIDs     []int64  `bson:"penguji_ids,omitempty" json:"penguji_ids"`
	NamaPenguji    string   `bson:"nama_penguji,omitempty" json:"nama_penguji"`
	MahasiswaNIMs  []string `bson:"mahasiswa_nims,omitempty" json:"mahasiswa_nims"`
	NamaMahasiswa  string   `bson:"nama_mahasiswa,omitempty" json:"nama_mahasiswa"`

	// every category
	RuanganID   *int64 `bson:"ruangan_id,omitempty" json:"ruangan_id"`
	NamaRuangan string `bson:"nama_ruangan,omitempty" json:"nama_ruangan"`
	UseRuangan  bool   `bson:"use_ruangan" json:"use_ruangan"`
}

// ReviewerNames returns the raw reviewer cell for thesis rows.
func (r *ScheduleRow) ReviewerNames() string {
	if r.Category == CategorySidangSkripsi {
		return r.NamaPenguji
	}
	return r.NamaKomentator
}

// ReviewerIDs returns the resolved reviewer ids for thesis rows.
func (r *ScheduleRow) ReviewerIDs() []int64 {
	if r.Category == CategorySidangSkripsi {
		return r.PengujiIDs
	}
	return r.KomentatorIDs
}

// SetReviewers stores the raw reviewer cell and its resolved ids on the
// field that matches the row's category.
func (r *ScheduleRow) SetReviewers(raw string, ids []int64) {
	if r.Category == CategorySidangSkripsi {
		r.NamaPenguji, r.PengujiIDs = raw, ids
		return
	}
	r.NamaKomentator, r.KomentatorIDs = raw, ids
}

// Schedule is a persisted schedule line as returned by the backend.
type Schedule struct {
	ID             int64            `json:"id"`
	MataKuliahKode string           `json:"mata_kuliah_kode"`
	JenisBaris     ScheduleCategory `json:"jenis_baris"`
	Tanggal        string           `json:"tanggal"`
	JamMulai       string           `json:"jam_mulai"`
	JamSelesai     string           `json:"jam_selesai"`
	JumlahSesi     int              `json:"jumlah_sesi"`

	KelompokBesarID *int   `json:"kelompok_besar_id"`
	DosenID         *int64 `json:"dosen_id"`
	Materi          string `json:"materi"`
	Agenda          string `json:"agenda"`

	PembimbingID  *int64   `json:"pembimbing_id"`
	KomentatorIDs []int64  `json:"komentator_ids"`
	PengujiIDs    []int64  `json:"penguji_ids"`
	MahasiswaNIMs []string `json:"mahasiswa_nims"`

	RuanganID  *int64 `json:"ruangan_id"`
	UseRuangan bool   `json:"use_ruangan"`
}
