package backendapi

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/dalemusser/jadwalhub/internal/domain/models"
)

// BatchData is the aggregated response of GET /{resource}/{kode}/batch-data.
type BatchData struct {
	MataKuliah          models.Course       `json:"mata_kuliah"`
	Jadwal              []models.Schedule   `json:"jadwal_non_blok_non_csr"`
	DosenList           []models.Instructor `json:"dosen_list"`
	RuanganList         []models.Room       `json:"ruangan_list"`
	JamOptions          []string            `json:"jam_options"`
	KelompokBesarAgenda []models.LargeGroup `json:"kelompok_besar_agenda_options"`
	KelompokBesarMateri []models.LargeGroup `json:"kelompok_besar_materi_options"`
	MahasiswaList       []models.Student    `json:"mahasiswa_list"`
}

// Payload is one schedule row on the wire. Every field is always present;
// fields a category does not use are sent as "" or null.
type Payload struct {
	JenisBaris      models.ScheduleCategory `json:"jenis_baris"`
	Tanggal         string                  `json:"tanggal"`
	JamMulai        string                  `json:"jam_mulai"`
	JamSelesai      string                  `json:"jam_selesai"`
	JumlahSesi      int                     `json:"jumlah_sesi"`
	KelompokBesarID *int                    `json:"kelompok_besar_id"`
	DosenID         *int64                  `json:"dosen_id"`
	Materi          string                  `json:"materi"`
	Agenda          string                  `json:"agenda"`
	PembimbingID    *int64                  `json:"pembimbing_id"`
	KomentatorIDs   []int64                 `json:"komentator_ids"`
	PengujiIDs      []int64                 `json:"penguji_ids"`
	MahasiswaNIMs   []string                `json:"mahasiswa_nims"`
	RuanganID       *int64                  `json:"ruangan_id"`
	UseRuangan      bool                    `json:"use_ruangan"`
}

type importRequest struct {
	Data []Payload `json:"data"`
}

// ImportResult is the success body of the import endpoint.
type ImportResult struct {
	Success       bool     `json:"success"`
	Message       string   `json:"message,omitempty"`
	ImportedCount int      `json:"imported_count"`
	Errors        []string `json:"errors,omitempty"`
}

// ValidationError is a rejection the user can act on: a 422 response, or a
// 200 import response with success=false. Errors holds the backend's message
// list verbatim; Message is set when the backend sent a single message.
type ValidationError struct {
	Status  int
	Errors  []string
	Message string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("backend validation failed (%d): %s", e.Status, strings.Join(e.Errors, "; "))
	}
	return fmt.Sprintf("backend validation failed (%d): %s", e.Status, e.Message)
}

// APIError is any other non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend error (%d): %s", e.Status, e.Message)
}

// failureBody accepts {"message": "..."} and an "errors" value that is
// either a string list or a field → messages object.
type failureBody struct {
	Message string          `json:"message"`
	Errors  json.RawMessage `json:"errors"`
}

func (b failureBody) list() []string {
	if len(b.Errors) == 0 {
		return nil
	}
	var flat []string
	if err := json.Unmarshal(b.Errors, &flat); err == nil {
		return flat
	}
	var byField map[string][]string
	if err := json.Unmarshal(b.Errors, &byField); err == nil {
		keys := make([]string, 0, len(byField))
		for k := range byField {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			flat = append(flat, byField[k]...)
		}
		return flat
	}
	return nil
}

func (b failureBody) text() string {
	if b.Message != "" {
		return b.Message
	}
	return strings.Join(b.list(), "; ")
}
