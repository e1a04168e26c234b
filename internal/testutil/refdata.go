package testutil

import (
	"time"

	"github.com/dalemusser/jadwalhub/internal/app/system/backendapi"
	"github.com/dalemusser/jadwalhub/internal/app/system/refdata"
	"github.com/dalemusser/jadwalhub/internal/domain/models"
)

// Course code used by the reference fixtures.
const CourseCode = "MK01"

func intPtr(v int) *int { return &v }

// BatchData returns the batch-data response the fixtures are built from.
// The course runs 2024-01-01 to 2024-06-30 in semester 3.
//
// "Ruang Seminar A" holds 5 people, "Aula" has no known capacity. Kelompok
// besar 5 is offered for materi but does not match the course semester.
func BatchData() *backendapi.BatchData {
	return &backendapi.BatchData{
		MataKuliah: models.Course{
			Kode:         CourseCode,
			Nama:         "Anatomi Dasar",
			Semester:     3,
			TanggalMulai: "2024-01-01",
			TanggalAkhir: "2024-06-30",
		},
		Jadwal: []models.Schedule{
			{ID: 501, MataKuliahKode: CourseCode, JenisBaris: models.CategoryMateri, Tanggal: "2024-01-08",
				JamMulai: "07.20", JamSelesai: "09.00", JumlahSesi: 2, KelompokBesarID: intPtr(3),
				DosenID: int64Ptr(1), Materi: "Pengantar", RuanganID: int64Ptr(10), UseRuangan: true},
			{ID: 502, MataKuliahKode: CourseCode, JenisBaris: models.CategorySeminarProposal, Tanggal: "2024-03-04",
				JamMulai: "09.00", JamSelesai: "09.50", JumlahSesi: 1, PembimbingID: int64Ptr(3),
				KomentatorIDs: []int64{1}, MahasiswaNIMs: []string{"2021001"}},
		},
		DosenList: []models.Instructor{
			{ID: 1, Name: "Dr. Jane Smith", NID: "0011"},
			{ID: 2, Name: "Dr. Jane Smith, M.Kes", NID: "0022"},
			{ID: 3, Name: "Prof. Budi Santoso", NID: "0033"},
			{ID: 4, Name: "Dr. Citra Lestari, Sp.PD", NID: "0044"},
			{ID: 5, Name: "Dr. Dewi Anggraini", NID: "0055"},
		},
		RuanganList: []models.Room{
			{ID: 10, Name: "Ruang Kuliah 101", Capacity: intPtr(40), Building: "Gedung A"},
			{ID: 11, Name: "Ruang Seminar A", Capacity: intPtr(5), Building: "Gedung B"},
			{ID: 12, Name: "Aula"},
			{ID: 13, Name: "Ruang Seminar B", Capacity: intPtr(10), Building: "Gedung B"},
		},
		JamOptions: []string{"07.20", "08.10", "09.00", "09.50", "10.40", "13.00"},
		KelompokBesarMateri: []models.LargeGroup{
			{ID: 3, Label: "Semester 3", Semester: 3, StudentCount: 120},
			{ID: 5, Label: "Semester 5", Semester: 5, StudentCount: 110},
		},
		KelompokBesarAgenda: []models.LargeGroup{
			{ID: 3, Label: "Semester 3", Semester: 3, StudentCount: 120},
		},
		MahasiswaList: []models.Student{
			{ID: 100, NIM: "2021001", Name: "Andi"},
			{ID: 101, NIM: "2021002", Name: "Budi"},
			{ID: 102, NIM: "2021003", Name: "Citra"},
			{ID: 103, NIM: "2021004", Name: "Dian"},
		},
	}
}

func int64Ptr(v int64) *int64 { return &v }

// Snapshot returns the reference fixtures as a snapshot.
func Snapshot() *refdata.Snapshot {
	return refdata.FromBatchData(BatchData(), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
}

// MateriRow returns a materi row that is valid against Snapshot.
func MateriRow() models.ScheduleRow {
	return models.ScheduleRow{
		Category:           models.CategoryMateri,
		Tanggal:            "2024-01-15",
		JamMulai:           "07:20",
		JamSelesai:         "09.00",
		JumlahSesi:         2,
		KelompokBesarInput: "Semester 3",
		NamaDosen:          "Prof. Budi Santoso",
		Materi:             "Intro",
		NamaRuangan:        "Ruang Kuliah 101",
	}
}

// AgendaRow returns an agenda row without a room that is valid against Snapshot.
func AgendaRow() models.ScheduleRow {
	return models.ScheduleRow{
		Category:           models.CategoryAgenda,
		Tanggal:            "2024-02-01",
		JamMulai:           "13:00",
		JamSelesai:         "13.50",
		JumlahSesi:         1,
		KelompokBesarInput: "Semester 3",
		Agenda:             "Ujian Tengah Semester",
	}
}

// SeminarRow returns a seminar_proposal row that is valid against Snapshot.
func SeminarRow() models.ScheduleRow {
	return models.ScheduleRow{
		Category:       models.CategorySeminarProposal,
		Tanggal:        "2024-03-11",
		JamMulai:       "09:00",
		JamSelesai:     "10.40",
		JumlahSesi:     2,
		NamaPembimbing: "Prof. Budi Santoso",
		NamaKomentator: `Dr. Jane Smith\Dr. Citra Lestari, Sp.PD`,
		NamaMahasiswa:  "Andi, 2021002",
		NamaRuangan:    "Ruang Seminar B",
	}
}

// DefenseRow returns a sidang_skripsi row that is valid against Snapshot.
func DefenseRow() models.ScheduleRow {
	return models.ScheduleRow{
		Category:       models.CategorySidangSkripsi,
		Tanggal:        "2024-06-30",
		JamMulai:       "10.40",
		JamSelesai:     "11.30",
		JumlahSesi:     1,
		NamaPembimbing: "Dr. Dewi Anggraini",
		NamaPenguji:    "Prof. Budi Santoso",
		NamaMahasiswa:  "Dian",
	}
}
