// Package schedval validates schedule rows against a reference snapshot.
//
// Validation never returns Go errors. Every problem becomes a CellError on
// one (row, field) pair with a message starting "Baris N: ". Fields are
// checked in a fixed order (tanggal, jam_mulai, jumlah_sesi, kelompok
// besar, then the category's own fields) and each field reports at most
// its first failing rule, so the same rows always produce the same errors
// in the same order.
package schedval

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dalemusser/jadwalhub/internal/app/system/refdata"
	"github.com/dalemusser/jadwalhub/internal/app/system/resolver"
	"github.com/dalemusser/jadwalhub/internal/app/system/timeslot"
	"github.com/dalemusser/jadwalhub/internal/domain/models"
)

// MaxReviewers bounds komentator and penguji per row.
const MaxReviewers = 2

// Validator reads from one snapshot and never modifies it.
type Validator struct {
	snap *refdata.Snapshot
}

// New returns a validator over snap.
func New(snap *refdata.Snapshot) *Validator {
	return &Validator{snap: snap}
}

// Fields returns the fields of a category in validation order.
func Fields(c models.ScheduleCategory) []string {
	base := []string{models.FieldTanggal, models.FieldJamMulai, models.FieldJumlahSesi}
	switch c {
	case models.CategoryMateri:
		return append(base, models.FieldKelompokBesar, models.FieldDosen, models.FieldMateri, models.FieldRuangan)
	case models.CategoryAgenda:
		return append(base, models.FieldKelompokBesar, models.FieldAgenda, models.FieldRuangan)
	case models.CategorySeminarProposal:
		return append(base, models.FieldPembimbing, models.FieldKomentator, models.FieldMahasiswa, models.FieldRuangan)
	case models.CategorySidangSkripsi:
		return append(base, models.FieldPembimbing, models.FieldPenguji, models.FieldMahasiswa, models.FieldRuangan)
	}
	return base
}

// ValidateAll validates every row independently. It performs no cross-row
// checks; slot clashes are the backend's job.
func (v *Validator) ValidateAll(rows []models.ScheduleRow) models.CellErrors {
	var out models.CellErrors
	for i := range rows {
		out = append(out, v.ValidateRow(&rows[i], i)...)
	}
	return out
}

// ValidateRow validates the row at 0-based index idx.
func (v *Validator) ValidateRow(row *models.ScheduleRow, idx int) []models.CellError {
	var out []models.CellError
	for _, f := range Fields(row.Category) {
		if e, bad := v.ValidateField(row, idx, f); bad {
			out = append(out, e)
		}
	}
	return out
}

// ValidateField runs the checks of one field only. It is the cheap check
// used while a cell is being edited.
func (v *Validator) ValidateField(row *models.ScheduleRow, idx int, field string) (models.CellError, bool) {
	var msg string
	switch field {
	case models.FieldTanggal:
		msg = v.checkDate(row)
	case models.FieldJamMulai:
		msg = v.checkStart(row)
	case models.FieldJumlahSesi:
		msg = checkSessions(row)
	case models.FieldKelompokBesar:
		msg = v.checkGroup(row)
	case models.FieldDosen:
		msg = v.checkInstructor(row)
	case models.FieldMateri:
		if strings.TrimSpace(row.Materi) == "" {
			msg = "Materi wajib diisi"
		}
	case models.FieldAgenda:
		if strings.TrimSpace(row.Agenda) == "" {
			msg = "Agenda wajib diisi"
		}
	case models.FieldRuangan:
		msg = v.checkRoom(row)
	case models.FieldPembimbing:
		msg = v.checkAdvisor(row)
	case models.FieldKomentator, models.FieldPenguji:
		msg = v.checkReviewers(row)
	case models.FieldMahasiswa:
		msg = v.checkStudents(row)
	}
	if msg == "" {
		return models.CellError{}, false
	}
	return models.CellError{
		Row:     idx + 1,
		Field:   field,
		Message: fmt.Sprintf("Baris %d: %s", idx+1, msg),
	}, true
}

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func (v *Validator) checkDate(row *models.ScheduleRow) string {
	raw := strings.TrimSpace(row.Tanggal)
	if raw == "" {
		return "Tanggal wajib diisi"
	}
	if !dateRe.MatchString(raw) {
		return fmt.Sprintf("Format tanggal %q harus YYYY-MM-DD", raw)
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return fmt.Sprintf("Tanggal %s tidak valid", raw)
	}
	if start, end, ok := v.snap.DateRange(); ok {
		if d.Before(start) || d.After(end) {
			return fmt.Sprintf("Tanggal %s di luar rentang mata kuliah (%s s/d %s)",
				raw, start.Format("2006-01-02"), end.Format("2006-01-02"))
		}
	}
	return ""
}

func (v *Validator) checkStart(row *models.ScheduleRow) string {
	raw := strings.TrimSpace(row.JamMulai)
	if raw == "" {
		return "Jam mulai wajib diisi"
	}
	if !timeslot.IsClock(raw) {
		return fmt.Sprintf("Format jam mulai %q harus HH:MM atau HH.MM", raw)
	}
	if _, ok := timeslot.InSlots(raw, v.snap.Slots); !ok {
		return fmt.Sprintf("Jam mulai %s tidak tersedia dalam pilihan jam", raw)
	}
	return ""
}

func checkSessions(row *models.ScheduleRow) string {
	switch row.JumlahSesi {
	case 0:
		return "Jumlah sesi wajib diisi"
	case timeslot.InvalidSessions:
		return fmt.Sprintf("Jumlah sesi harus bilangan bulat %d sampai %d", timeslot.MinSessions, timeslot.MaxSessions)
	}
	if row.JumlahSesi < timeslot.MinSessions || row.JumlahSesi > timeslot.MaxSessions {
		return fmt.Sprintf("Jumlah sesi harus antara %d sampai %d", timeslot.MinSessions, timeslot.MaxSessions)
	}
	return ""
}

func (v *Validator) checkGroup(row *models.ScheduleRow) string {
	raw := strings.TrimSpace(row.KelompokBesarInput)
	if raw == "" && row.KelompokBesarID == nil {
		return "Kelompok besar wajib diisi"
	}
	g, inList, known := v.groupCandidate(row)
	if !known {
		return fmt.Sprintf("Kelompok besar %q tidak ditemukan", raw)
	}
	// Semester mismatch wins over "not in list".
	if sem := v.snap.Course.Semester; sem > 0 && groupSemester(g) != sem {
		return fmt.Sprintf("Kelompok besar semester %d tidak sesuai dengan semester mata kuliah (%d)", groupSemester(g), sem)
	}
	if !inList {
		return fmt.Sprintf("Kelompok besar %q tidak tersedia untuk %s", display(raw, g.ID), row.Category.Title())
	}
	return ""
}

func display(raw string, id int) string {
	if raw != "" {
		return raw
	}
	return fmt.Sprint(id)
}

func (v *Validator) checkInstructor(row *models.ScheduleRow) string {
	name := strings.TrimSpace(row.NamaDosen)
	if name == "" {
		if row.DosenID != nil {
			if _, ok := v.snap.InstructorByID(*row.DosenID); ok {
				return ""
			}
			return fmt.Sprintf("Dosen dengan id %d tidak ditemukan", *row.DosenID)
		}
		return "Dosen wajib diisi"
	}
	if _, ok := v.instructor(name, true); !ok {
		return fmt.Sprintf("Dosen %q tidak ditemukan", name)
	}
	return ""
}

// checkRoom: mandatory for materi; optional elsewhere. Thesis rows match
// exactly and are checked against the room capacity.
func (v *Validator) checkRoom(row *models.ScheduleRow) string {
	name := strings.TrimSpace(row.NamaRuangan)
	if name == "" {
		if row.RuanganID != nil {
			r, ok := v.snap.RoomByID(*row.RuanganID)
			if !ok {
				return fmt.Sprintf("Ruangan dengan id %d tidak ditemukan", *row.RuanganID)
			}
			if row.Category.IsThesis() {
				return v.checkCapacity(row, r)
			}
			return ""
		}
		if row.Category == models.CategoryMateri {
			return "Ruangan wajib diisi"
		}
		return ""
	}

	relaxed := !row.Category.IsThesis()
	r, ok := v.room(name, relaxed)
	if !ok {
		return fmt.Sprintf("Ruangan %q tidak ditemukan", name)
	}
	if row.Category.IsThesis() {
		return v.checkCapacity(row, r)
	}
	return ""
}

func (v *Validator) checkCapacity(row *models.ScheduleRow, r models.Room) string {
	if r.Capacity == nil {
		return ""
	}
	reviewers := len(resolver.Split(row.ReviewerNames(), resolver.ReviewerSep))
	if reviewers == 0 {
		reviewers = len(row.ReviewerIDs())
	}
	students := len(studentTokens(row))
	total := 1 + reviewers + students
	if total <= *r.Capacity {
		return ""
	}
	return fmt.Sprintf("Kapasitas ruangan %s (%d orang) tidak mencukupi untuk %d peserta (1 pembimbing + %d %s + %d mahasiswa)",
		r.Name, *r.Capacity, total, reviewers, row.Category.ReviewerLabel(), students)
}

func (v *Validator) checkAdvisor(row *models.ScheduleRow) string {
	raw := strings.TrimSpace(row.NamaPembimbing)
	if raw == "" {
		if row.PembimbingID != nil {
			if _, ok := v.snap.InstructorByID(*row.PembimbingID); ok {
				return ""
			}
			return fmt.Sprintf("Pembimbing dengan id %d tidak ditemukan", *row.PembimbingID)
		}
		return "Pembimbing wajib diisi"
	}
	if len(resolver.Split(raw, resolver.AdvisorSep)) > 1 {
		return "Maksimal 1 pembimbing"
	}
	if _, ok := v.advisor(raw); ok {
		return ""
	}
	return fmt.Sprintf("Pembimbing %q tidak ditemukan", raw)
}

func (v *Validator) advisorID(row *models.ScheduleRow) (int64, bool) {
	if raw := strings.TrimSpace(row.NamaPembimbing); raw != "" {
		d, ok := v.advisor(raw)
		return d.ID, ok
	}
	if row.PembimbingID != nil {
		return *row.PembimbingID, true
	}
	return 0, false
}

// checkReviewers validates the komentator or penguji list. Self-exclusion
// is checked before anything else so it is always reported when it holds.
func (v *Validator) checkReviewers(row *models.ScheduleRow) string {
	label := row.Category.ReviewerLabel()
	title := strings.ToUpper(label[:1]) + label[1:]

	type reviewer struct {
		token string
		id    int64
		ok    bool
	}
	var list []reviewer
	for _, t := range resolver.Split(row.ReviewerNames(), resolver.ReviewerSep) {
		d, ok := v.instructor(t, false)
		list = append(list, reviewer{token: t, id: d.ID, ok: ok})
	}
	if len(list) == 0 {
		for _, id := range row.ReviewerIDs() {
			d, ok := v.snap.InstructorByID(id)
			list = append(list, reviewer{token: d.Name, id: id, ok: ok})
		}
	}
	if len(list) == 0 {
		return fmt.Sprintf("%s wajib diisi minimal 1", title)
	}

	if adv, ok := v.advisorID(row); ok {
		for _, r := range list {
			if r.ok && r.id == adv {
				return fmt.Sprintf("Pembimbing tidak boleh sekaligus menjadi %s (%s)", label, r.token)
			}
		}
	}
	if len(list) > MaxReviewers {
		return fmt.Sprintf("Maksimal %d %s", MaxReviewers, label)
	}

	seen := make(map[string]bool, len(list))
	for _, r := range list {
		k := strings.ToLower(r.token)
		if seen[k] {
			return fmt.Sprintf("%s %q diisi lebih dari sekali", title, r.token)
		}
		seen[k] = true
	}
	for _, r := range list {
		if !r.ok {
			return fmt.Sprintf("%s %q tidak ditemukan", title, r.token)
		}
	}
	ids := make(map[int64]string, len(list))
	for _, r := range list {
		if first, dup := ids[r.id]; dup {
			return fmt.Sprintf("%s %q dan %q adalah dosen yang sama", title, first, r.token)
		}
		ids[r.id] = r.token
	}
	return ""
}

// studentTokens returns the typed student list, or the NIMs when the row
// came from a form that only carries NIMs.
func studentTokens(row *models.ScheduleRow) []string {
	if tokens := resolver.Split(row.NamaMahasiswa, resolver.StudentSep); len(tokens) > 0 {
		return tokens
	}
	return row.MahasiswaNIMs
}

func (v *Validator) checkStudents(row *models.ScheduleRow) string {
	tokens := studentTokens(row)
	if len(tokens) == 0 {
		return "Mahasiswa wajib diisi minimal 1"
	}
	seen := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		k := strings.ToLower(strings.TrimSpace(t))
		if seen[k] {
			return fmt.Sprintf("Mahasiswa %q diisi lebih dari sekali", t)
		}
		seen[k] = true
	}
	for _, t := range tokens {
		if _, ok := v.student(t); !ok {
			return fmt.Sprintf("Mahasiswa %q tidak ditemukan", t)
		}
	}
	return ""
}
