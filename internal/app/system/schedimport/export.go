package schedimport

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/dalemusser/jadwalhub/internal/app/system/refdata"
	"github.com/dalemusser/jadwalhub/internal/app/system/resolver"
	"github.com/dalemusser/jadwalhub/internal/app/system/sheetio"
	"github.com/dalemusser/jadwalhub/internal/app/system/timeslot"
	"github.com/dalemusser/jadwalhub/internal/domain/models"
)

const columnWidth = 24

// FromSchedule turns a persisted schedule into a row carrying names, the
// shape the spreadsheet and the edit form work with. Ids that no longer
// resolve keep the id and leave the name empty.
func FromSchedule(snap *refdata.Snapshot, s models.Schedule) models.ScheduleRow {
	row := models.ScheduleRow{
		Category:        s.JenisBaris,
		Tanggal:         dateOnly(s.Tanggal),
		JamMulai:        s.JamMulai,
		JamSelesai:      s.JamSelesai,
		JumlahSesi:      s.JumlahSesi,
		KelompokBesarID: s.KelompokBesarID,
		DosenID:         s.DosenID,
		Materi:          s.Materi,
		Agenda:          s.Agenda,
		PembimbingID:    s.PembimbingID,
		KomentatorIDs:   s.KomentatorIDs,
		PengujiIDs:      s.PengujiIDs,
		MahasiswaNIMs:   s.MahasiswaNIMs,
		RuanganID:       s.RuanganID,
		UseRuangan:      s.UseRuangan,
	}
	if s.KelompokBesarID != nil {
		if g, ok := snap.GroupByID(s.JenisBaris, *s.KelompokBesarID); ok {
			row.KelompokBesarInput = g.Label
		} else {
			row.KelompokBesarInput = strconv.Itoa(*s.KelompokBesarID)
		}
	}
	if s.DosenID != nil {
		if d, ok := snap.InstructorByID(*s.DosenID); ok {
			row.NamaDosen = d.Name
		}
	}
	if s.PembimbingID != nil {
		if d, ok := snap.InstructorByID(*s.PembimbingID); ok {
			row.NamaPembimbing = d.Name
		}
	}
	var reviewers []string
	for _, id := range row.ReviewerIDs() {
		if d, ok := snap.InstructorByID(id); ok {
			reviewers = append(reviewers, d.Name)
		}
	}
	row.SetReviewers(strings.Join(reviewers, resolver.ReviewerSep), row.ReviewerIDs())

	var students []string
	for _, nim := range s.MahasiswaNIMs {
		if m, ok := snap.StudentByNIM(nim); ok {
			students = append(students, m.Name)
		} else {
			students = append(students, nim)
		}
	}
	row.NamaMahasiswa = strings.Join(students, resolver.StudentSep+" ")

	if s.RuanganID != nil {
		if r, ok := snap.RoomByID(*s.RuanganID); ok {
			row.NamaRuangan = r.Name
		}
	}
	return row
}

func dateOnly(v string) string {
	if len(v) > 10 {
		return v[:10]
	}
	return v
}

// Sorted returns a copy of schedules ordered by date, then start time.
func Sorted(schedules []models.Schedule) []models.Schedule {
	out := append([]models.Schedule(nil), schedules...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Tanggal != out[j].Tanggal {
			return out[i].Tanggal < out[j].Tanggal
		}
		return timeslot.Key(out[i].JamMulai) < timeslot.Key(out[j].JamMulai)
	})
	return out
}

// WriteExport writes the persisted schedules of one category: the data
// sheet in import layout, then an Info sheet with the course and counts.
func WriteExport(w io.Writer, snap *refdata.Snapshot, c models.ScheduleCategory) error {
	schema, ok := SchemaFor(c)
	if !ok {
		return fmt.Errorf("export: unknown category %q", c)
	}

	schedules := Sorted(snap.Schedules[c])

	data := sheetio.Sheet{Name: c.Title(), Header: schema.Headers(), Width: columnWidth}
	for _, s := range schedules {
		row := FromSchedule(snap, s)
		data.Rows = append(data.Rows, schema.cells(&row))
	}

	info := sheetio.Sheet{
		Name:  "Info",
		Width: columnWidth,
		Rows: [][]any{
			{"Kode Mata Kuliah", snap.Course.Kode},
			{"Nama Mata Kuliah", snap.Course.Nama},
			{"Semester", snap.Course.Semester},
			{"Tanggal Mulai", dateOnly(snap.Course.TanggalMulai)},
			{"Tanggal Akhir", dateOnly(snap.Course.TanggalAkhir)},
			{"Kategori", c.Title()},
			{"Jumlah Jadwal", len(schedules)},
			{"Diekspor", snap.LoadedAt.Format("2006-01-02 15:04")},
		},
	}
	return sheetio.Write(w, data, info)
}

// WriteTemplate writes an empty import workbook for one category with an
// Info sheet listing the values the import accepts.
func WriteTemplate(w io.Writer, snap *refdata.Snapshot, c models.ScheduleCategory) error {
	schema, ok := SchemaFor(c)
	if !ok {
		return fmt.Errorf("template: unknown category %q", c)
	}

	data := sheetio.Sheet{Name: c.Title(), Header: schema.Headers(), Width: columnWidth}

	info := sheetio.Sheet{Name: "Info", Width: columnWidth}
	add := func(cells ...any) { info.Rows = append(info.Rows, cells) }

	add("Mata Kuliah", snap.Course.Kode+" - "+snap.Course.Nama)
	add("Rentang Tanggal", dateOnly(snap.Course.TanggalMulai)+" s/d "+dateOnly(snap.Course.TanggalAkhir))
	add("Format Tanggal", "YYYY-MM-DD")
	add("Jam Mulai", strings.Join(snap.Slots, ", "))
	add("Sesi", "1 sampai 6 (1 sesi = 50 menit)")
	if c.IsThesis() {
		add(capitalize(c.ReviewerLabel()), `Maksimal 2, pisahkan dengan backslash (\)`)
		add("Mahasiswa", "Nama atau NIM, pisahkan dengan koma")
	}
	add()

	if c.UsesLargeGroup() {
		add("Kelompok Besar")
		for _, g := range snap.GroupsFor(c) {
			add(g.Label, g.Semester)
		}
		add()
	}
	if c == models.CategoryMateri || c.IsThesis() {
		add("Dosen", "NID")
		for _, d := range snap.Instructors {
			add(d.Name, d.NID)
		}
		add()
	}
	if c.IsThesis() {
		add("Mahasiswa", "NIM")
		for _, m := range snap.Students {
			add(m.Name, m.NIM)
		}
		add()
	}
	add("Ruangan", "Kapasitas", "Gedung")
	for _, r := range snap.Rooms {
		capacity := any("")
		if r.Capacity != nil {
			capacity = *r.Capacity
		}
		add(r.Name, capacity, r.Building)
	}

	return sheetio.Write(w, data, info)
}

func (s Schema) cells(row *models.ScheduleRow) []any {
	out := make([]any, len(s.Columns))
	for i, col := range s.Columns {
		if col.Key == ColSesi && row.JumlahSesi > 0 {
			out[i] = row.JumlahSesi
			continue
		}
		out[i] = Value(row, col.Key)
	}
	return out
}
