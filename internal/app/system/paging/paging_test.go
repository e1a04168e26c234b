package paging

import (
	"net/http/httptest"
	"testing"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", 1},
		{"?page=3", 3},
		{"?page=0", 1},
		{"?page=-2", 1},
		{"?page=abc", 1},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/jadwal/MK01/materi"+tt.query, nil)
		if got := ParsePage(r); got != tt.want {
			t.Errorf("ParsePage(%q) = %d, want %d", tt.query, got, tt.want)
		}
	}
}

func TestSlice(t *testing.T) {
	items := make([]int, 25)
	for i := range items {
		items[i] = i
	}

	tests := []struct {
		name      string
		page      int
		wantFirst int
		wantLen   int
		wantInfo  Info
	}{
		{"first", 1, 0, 10, Info{Page: 1, Pages: 3, Total: 25, Start: 1, End: 10, HasNext: true}},
		{"middle", 2, 10, 10, Info{Page: 2, Pages: 3, Total: 25, Start: 11, End: 20, HasPrev: true, HasNext: true}},
		{"last partial", 3, 20, 5, Info{Page: 3, Pages: 3, Total: 25, Start: 21, End: 25, HasPrev: true}},
		{"clamped high", 9, 20, 5, Info{Page: 3, Pages: 3, Total: 25, Start: 21, End: 25, HasPrev: true}},
		{"clamped low", 0, 0, 10, Info{Page: 1, Pages: 3, Total: 25, Start: 1, End: 10, HasNext: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, info := Slice(items, tt.page)
			if len(got) != tt.wantLen || got[0] != tt.wantFirst {
				t.Errorf("window = %v", got)
			}
			if info != tt.wantInfo {
				t.Errorf("info = %+v, want %+v", info, tt.wantInfo)
			}
		})
	}
}

func TestSlice_Empty(t *testing.T) {
	got, info := Slice([]string{}, 4)
	if got != nil {
		t.Errorf("window = %v", got)
	}
	want := Info{Page: 1, Pages: 1}
	if info != want {
		t.Errorf("info = %+v, want %+v", info, want)
	}
	if info.Offset() != 0 {
		t.Errorf("Offset = %d", info.Offset())
	}
}

func TestPageOf(t *testing.T) {
	tests := map[int]int{-1: 1, 0: 1, 9: 1, 10: 2, 25: 3}
	for idx, want := range tests {
		if got := PageOf(idx); got != want {
			t.Errorf("PageOf(%d) = %d, want %d", idx, got, want)
		}
	}
}
