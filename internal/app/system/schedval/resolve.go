package schedval

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dalemusser/jadwalhub/internal/app/system/resolver"
	"github.com/dalemusser/jadwalhub/internal/domain/models"
)

// Resolve refreshes every id field of row from its paired name. Names that
// do not resolve leave the id nil; Validate reports them.
func (v *Validator) Resolve(row *models.ScheduleRow) {
	switch row.Category {
	case models.CategoryMateri:
		row.KelompokBesarID = v.groupID(row)
		row.DosenID = nil
		if d, ok := v.instructor(row.NamaDosen, true); ok {
			row.DosenID = &d.ID
		}
		row.RuanganID = v.roomID(row.NamaRuangan, true)
		row.UseRuangan = true

	case models.CategoryAgenda:
		row.KelompokBesarID = v.groupID(row)
		row.RuanganID = v.roomID(row.NamaRuangan, true)
		row.UseRuangan = strings.TrimSpace(row.NamaRuangan) != ""

	case models.CategorySeminarProposal, models.CategorySidangSkripsi:
		row.PembimbingID = nil
		if d, ok := v.advisor(row.NamaPembimbing); ok {
			row.PembimbingID = &d.ID
		}
		row.SetReviewers(row.ReviewerNames(), v.reviewerIDs(row.ReviewerNames()))
		row.MahasiswaNIMs = v.studentNIMs(row.NamaMahasiswa)
		row.RuanganID = v.roomID(row.NamaRuangan, false)
		row.UseRuangan = strings.TrimSpace(row.NamaRuangan) != ""
	}
}

func (v *Validator) instructor(name string, relaxed bool) (models.Instructor, bool) {
	if relaxed {
		return resolver.Resolve(name, v.snap.Instructors)
	}
	return resolver.ResolveExact(name, v.snap.Instructors)
}

func (v *Validator) room(name string, relaxed bool) (models.Room, bool) {
	if relaxed {
		return resolver.Resolve(name, v.snap.Rooms)
	}
	return resolver.ResolveExact(name, v.snap.Rooms)
}

func (v *Validator) roomID(name string, relaxed bool) *int64 {
	if r, ok := v.room(name, relaxed); ok {
		return &r.ID
	}
	return nil
}

// advisor resolves the pembimbing cell. The whole cell is tried first so a
// name whose title contains a comma still resolves to one person.
func (v *Validator) advisor(raw string) (models.Instructor, bool) {
	return v.instructor(raw, false)
}

func (v *Validator) reviewerIDs(raw string) []int64 {
	tokens := resolver.Split(raw, resolver.ReviewerSep)
	if len(tokens) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(tokens))
	for _, t := range tokens {
		d, ok := v.instructor(t, false)
		if !ok {
			return nil
		}
		ids = append(ids, d.ID)
	}
	return ids
}

func (v *Validator) student(token string) (models.Student, bool) {
	return resolver.ResolveExact(token, v.snap.Students)
}

func (v *Validator) studentNIMs(raw string) []string {
	tokens := resolver.Split(raw, resolver.StudentSep)
	if len(tokens) == 0 {
		return nil
	}
	nims := make([]string, 0, len(tokens))
	for _, t := range tokens {
		s, ok := v.student(t)
		if !ok {
			return nil
		}
		nims = append(nims, s.NIM)
	}
	return nims
}

var digitsRe = regexp.MustCompile(`\d+`)

// groupCandidate works out which kelompok besar the row refers to. inList
// reports whether the id is one of the category's options; known is false
// when nothing usable was typed.
func (v *Validator) groupCandidate(row *models.ScheduleRow) (g models.LargeGroup, inList, known bool) {
	groups := v.snap.GroupsFor(row.Category)
	raw := strings.TrimSpace(row.KelompokBesarInput)

	if raw == "" {
		if row.KelompokBesarID == nil {
			return models.LargeGroup{}, false, false
		}
		id := *row.KelompokBesarID
		for _, opt := range groups {
			if opt.ID == id {
				return opt, true, true
			}
		}
		return models.LargeGroup{ID: id, Semester: id}, false, true
	}

	if opt, ok := resolver.ResolveExact(raw, groups); ok {
		return opt, true, true
	}
	if m := digitsRe.FindString(raw); m != "" {
		id, err := strconv.Atoi(m)
		if err == nil {
			for _, opt := range groups {
				if opt.ID == id {
					return opt, true, true
				}
			}
			return models.LargeGroup{ID: id, Semester: id}, false, true
		}
	}
	return models.LargeGroup{}, false, false
}

func (v *Validator) groupID(row *models.ScheduleRow) *int {
	g, inList, known := v.groupCandidate(row)
	if !known || !inList {
		return nil
	}
	id := g.ID
	return &id
}

// groupSemester is the semester a kelompok besar belongs to. The backend
// keys groups by semester, so a missing semester falls back to the id.
func groupSemester(g models.LargeGroup) int {
	if g.Semester != 0 {
		return g.Semester
	}
	return g.ID
}
