// Package refdata holds the reference data of one course: the lists every
// resolution and validation reads from.
//
// A Snapshot is immutable once built. After any successful mutation the
// whole snapshot is fetched again and swapped in atomically, so a request
// that is validating while a reload happens keeps reading the old snapshot.
package refdata

import (
	"time"

	"github.com/dalemusser/jadwalhub/internal/app/system/backendapi"
	"github.com/dalemusser/jadwalhub/internal/domain/models"
)

// Snapshot is the reference data of one course at one point in time.
type Snapshot struct {
	Course      models.Course
	Schedules   map[models.ScheduleCategory][]models.Schedule
	Instructors []models.Instructor
	Rooms       []models.Room
	Students    []models.Student
	Slots       []string

	materiGroups []models.LargeGroup
	agendaGroups []models.LargeGroup

	LoadedAt time.Time
}

// FromBatchData builds a snapshot from a batch-data response. Schedules are
// partitioned by category; rows with an unknown category are dropped.
func FromBatchData(d *backendapi.BatchData, now time.Time) *Snapshot {
	s := &Snapshot{
		Course:       d.MataKuliah,
		Schedules:    make(map[models.ScheduleCategory][]models.Schedule, len(models.AllCategories)),
		Instructors:  d.DosenList,
		Rooms:        d.RuanganList,
		Students:     d.MahasiswaList,
		Slots:        d.JamOptions,
		materiGroups: d.KelompokBesarMateri,
		agendaGroups: d.KelompokBesarAgenda,
		LoadedAt:     now,
	}
	for _, row := range d.Jadwal {
		if _, ok := models.ParseCategory(string(row.JenisBaris)); !ok {
			continue
		}
		s.Schedules[row.JenisBaris] = append(s.Schedules[row.JenisBaris], row)
	}
	return s
}

// GroupsFor returns the kelompok besar options scoped to a category.
func (s *Snapshot) GroupsFor(c models.ScheduleCategory) []models.LargeGroup {
	switch c {
	case models.CategoryMateri:
		return s.materiGroups
	case models.CategoryAgenda:
		return s.agendaGroups
	}
	return nil
}

// DateRange returns the course's first and last day. ok is false when the
// backend did not send a parseable range.
func (s *Snapshot) DateRange() (start, end time.Time, ok bool) {
	start, err1 := time.Parse("2006-01-02", dateOnly(s.Course.TanggalMulai))
	end, err2 := time.Parse("2006-01-02", dateOnly(s.Course.TanggalAkhir))
	if err1 != nil || err2 != nil {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// dateOnly trims a timestamp like "2024-01-01T00:00:00Z" to its date part.
func dateOnly(v string) string {
	if len(v) > 10 {
		return v[:10]
	}
	return v
}

// InstructorByID looks up a dosen.
func (s *Snapshot) InstructorByID(id int64) (models.Instructor, bool) {
	for _, d := range s.Instructors {
		if d.ID == id {
			return d, true
		}
	}
	return models.Instructor{}, false
}

// RoomByID looks up a ruangan.
func (s *Snapshot) RoomByID(id int64) (models.Room, bool) {
	for _, r := range s.Rooms {
		if r.ID == id {
			return r, true
		}
	}
	return models.Room{}, false
}

// GroupByID looks up a kelompok besar in the category's options.
func (s *Snapshot) GroupByID(c models.ScheduleCategory, id int) (models.LargeGroup, bool) {
	for _, g := range s.GroupsFor(c) {
		if g.ID == id {
			return g, true
		}
	}
	return models.LargeGroup{}, false
}

// StudentByNIM looks up a mahasiswa.
func (s *Snapshot) StudentByNIM(nim string) (models.Student, bool) {
	for _, m := range s.Students {
		if m.NIM == nim {
			return m, true
		}
	}
	return models.Student{}, false
}

// ScheduleByID finds a persisted row in any category.
func (s *Snapshot) ScheduleByID(id int64) (models.Schedule, bool) {
	for _, rows := range s.Schedules {
		for _, r := range rows {
			if r.ID == id {
				return r, true
			}
		}
	}
	return models.Schedule{}, false
}
