// internal/domain/models/reference.go
package models

import "strconv"

// Course is the mata kuliah a schedule page belongs to.
type Course struct {
	Kode         string `json:"kode"`
	Nama         string `json:"nama"`
	Semester     int    `json:"semester"`
	TanggalMulai string `json:"tanggal_mulai"`
	TanggalAkhir string `json:"tanggal_akhir"`
}

// Instructor is a dosen. NID is the secondary code users may type.
type Instructor struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	NID  string `json:"nid"`
}

func (i Instructor) PrimaryName() string { return i.Name }
func (i Instructor) Code() string        { return i.NID }

// Room is a ruangan. Capacity is nil when the backend does not know it.
type Room struct {
	ID       int64  `json:"id"`
	Name     string `json:"nama"`
	Capacity *int   `json:"kapasitas"`
	Building string `json:"gedung"`
}

func (r Room) PrimaryName() string { return r.Name }
func (r Room) Code() string        { return "" }

// LargeGroup is a kelompok besar option. The backend keys kelompok besar by
// semester, so ID and Semester usually carry the same number.
type LargeGroup struct {
	ID           int    `json:"id"`
	Label        string `json:"label"`
	Semester     int    `json:"semester"`
	StudentCount int    `json:"jumlah_mahasiswa"`
}

func (g LargeGroup) PrimaryName() string { return g.Label }
func (g LargeGroup) Code() string        { return strconv.Itoa(g.ID) }

// Student is a mahasiswa.
type Student struct {
	ID   int64  `json:"id"`
	NIM  string `json:"nim"`
	Name string `json:"name"`
}

func (s Student) PrimaryName() string { return s.Name }
func (s Student) Code() string        { return s.NIM }
