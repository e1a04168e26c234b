// Package scheduledit is the correction loop over an import draft: one
// cell is edited at a time, dependent values are re-derived, and errors
// are re-checked cheaply on every edit and fully when the edit finishes.
package scheduledit

import (
	"fmt"

	"github.com/dalemusser/jadwalhub/internal/app/system/schedimport"
	"github.com/dalemusser/jadwalhub/internal/domain/models"
)

// Edit is one typed cell edit. The set is closed; apply handles every
// member in one type switch.
type Edit interface {
	// RowIndex is the 0-based row the edit targets.
	RowIndex() int
	// Field is the CellError field the edit writes.
	Field() string
	isEdit()
}

type target struct{ Row int }

func (t target) RowIndex() int { return t.Row }
func (target) isEdit()         {}

type (
	EditDate struct {
		target
		Value string
	}
	EditStartTime struct {
		target
		Value string
	}
	EditSessions struct {
		target
		Value int
	}
	EditLargeGroup struct {
		target
		Value string
	}
	EditInstructor struct {
		target
		Name string
	}
	EditTopic struct {
		target
		Text string
	}
	EditAgenda struct {
		target
		Text string
	}
	EditRoom struct {
		target
		Name string
	}
	EditAdvisor struct {
		target
		Name string
	}
	// EditReviewers sets the komentator or penguji list, backslash separated.
	EditReviewers struct {
		target
		Names string
	}
	// EditStudents sets the mahasiswa list, comma separated names or NIMs.
	EditStudents struct {
		target
		Names string
	}
)

func (EditDate) Field() string       { return models.FieldTanggal }
func (EditStartTime) Field() string  { return models.FieldJamMulai }
func (EditSessions) Field() string   { return models.FieldJumlahSesi }
func (EditLargeGroup) Field() string { return models.FieldKelompokBesar }
func (EditInstructor) Field() string { return models.FieldDosen }
func (EditTopic) Field() string      { return models.FieldMateri }
func (EditAgenda) Field() string     { return models.FieldAgenda }
func (EditRoom) Field() string       { return models.FieldRuangan }
func (EditAdvisor) Field() string    { return models.FieldPembimbing }
func (EditStudents) Field() string   { return models.FieldMahasiswa }

// Field of EditReviewers is reported as komentator_ids; the draft maps it
// to penguji_ids on defense rows.
func (EditReviewers) Field() string { return models.FieldKomentator }

// Parse builds the typed edit for a (row, field, value) triple posted by the
// page. field is a CellError field key; both reviewer keys map to
// EditReviewers.
func Parse(row int, field, value string) (Edit, error) {
	t := target{Row: row}
	switch field {
	case models.FieldTanggal:
		return EditDate{t, value}, nil
	case models.FieldJamMulai:
		return EditStartTime{t, value}, nil
	case models.FieldJumlahSesi:
		return EditSessions{t, schedimport.ParseSessions(value)}, nil
	case models.FieldKelompokBesar:
		return EditLargeGroup{t, value}, nil
	case models.FieldDosen:
		return EditInstructor{t, value}, nil
	case models.FieldMateri:
		return EditTopic{t, value}, nil
	case models.FieldAgenda:
		return EditAgenda{t, value}, nil
	case models.FieldRuangan:
		return EditRoom{t, value}, nil
	case models.FieldPembimbing:
		return EditAdvisor{t, value}, nil
	case models.FieldKomentator, models.FieldPenguji:
		return EditReviewers{t, value}, nil
	case models.FieldMahasiswa:
		return EditStudents{t, value}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
}

// Edit constructors for callers outside the package.

func Date(row int, v string) Edit        { return EditDate{target{row}, v} }
func StartTime(row int, v string) Edit   { return EditStartTime{target{row}, v} }
func Sessions(row, n int) Edit           { return EditSessions{target{row}, n} }
func LargeGroup(row int, v string) Edit  { return EditLargeGroup{target{row}, v} }
func Instructor(row int, v string) Edit  { return EditInstructor{target{row}, v} }
func Topic(row int, v string) Edit       { return EditTopic{target{row}, v} }
func Agenda(row int, v string) Edit      { return EditAgenda{target{row}, v} }
func Room(row int, v string) Edit        { return EditRoom{target{row}, v} }
func Advisor(row int, v string) Edit     { return EditAdvisor{target{row}, v} }
func Reviewers(row int, v string) Edit   { return EditReviewers{target{row}, v} }
func Students(row int, v string) Edit    { return EditStudents{target{row}, v} }
