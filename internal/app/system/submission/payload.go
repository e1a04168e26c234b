package submission

import (
	"github.com/dalemusser/jadwalhub/internal/app/system/backendapi"
	"github.com/dalemusser/jadwalhub/internal/app/system/timeslot"
	"github.com/dalemusser/jadwalhub/internal/domain/models"
)

// Payloads maps validated rows to the wire shape. slots is the backend's
// jam_options list; start times are sent in the slot's own spelling.
func Payloads(rows []models.ScheduleRow, slots []string) []backendapi.Payload {
	out := make([]backendapi.Payload, len(rows))
	for i := range rows {
		out[i] = Payload(&rows[i], slots)
	}
	return out
}

// Payload maps one row. Fields the category does not use are sent empty
// or null, never omitted.
func Payload(row *models.ScheduleRow, slots []string) backendapi.Payload {
	start := row.JamMulai
	if s, ok := timeslot.InSlots(start, slots); ok {
		start = s
	}
	p := backendapi.Payload{
		JenisBaris: row.Category,
		Tanggal:    row.Tanggal,
		JamMulai:   start,
		JamSelesai: row.JamSelesai,
		JumlahSesi: row.JumlahSesi,
		RuanganID:  row.RuanganID,
		UseRuangan: row.RuanganID != nil,
	}

	switch row.Category {
	case models.CategoryMateri:
		p.KelompokBesarID = row.KelompokBesarID
		p.DosenID = row.DosenID
		p.Materi = row.Materi
		p.UseRuangan = true
	case models.CategoryAgenda:
		p.KelompokBesarID = row.KelompokBesarID
		p.Agenda = row.Agenda
	case models.CategorySeminarProposal:
		p.PembimbingID = row.PembimbingID
		p.KomentatorIDs = nonNil(row.KomentatorIDs)
		p.MahasiswaNIMs = row.MahasiswaNIMs
	case models.CategorySidangSkripsi:
		p.PembimbingID = row.PembimbingID
		p.PengujiIDs = nonNil(row.PengujiIDs)
		p.MahasiswaNIMs = row.MahasiswaNIMs
	}
	if row.Category.IsThesis() && p.MahasiswaNIMs == nil {
		p.MahasiswaNIMs = []string{}
	}
	return p
}

func nonNil(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
