package refdata

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/jadwalhub/internal/app/system/backendapi"
	"github.com/dalemusser/jadwalhub/internal/domain/models"
)

type fakeFetcher struct {
	mu    sync.Mutex
	calls int
	data  *backendapi.BatchData
	err   error
}

func (f *fakeFetcher) BatchData(ctx context.Context, kode string) (*backendapi.BatchData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

func batch(dosen ...string) *backendapi.BatchData {
	d := &backendapi.BatchData{
		MataKuliah: models.Course{Kode: "MK01", TanggalMulai: "2024-01-01", TanggalAkhir: "2024-06-30T00:00:00Z"},
		Jadwal: []models.Schedule{
			{ID: 1, JenisBaris: models.CategoryMateri},
			{ID: 2, JenisBaris: models.CategorySidangSkripsi},
			{ID: 3, JenisBaris: "unknown"},
		},
		KelompokBesarMateri: []models.LargeGroup{{ID: 3, Label: "Semester 3", Semester: 3}},
	}
	for i, name := range dosen {
		d.DosenList = append(d.DosenList, models.Instructor{ID: int64(i + 1), Name: name})
	}
	return d
}

func TestCache_GetLoadsOnce(t *testing.T) {
	f := &fakeFetcher{data: batch("Dr. A")}
	c := NewCache(f, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := c.Get(ctx, "MK01"); err != nil {
			t.Fatalf("Get: %v", err)
		}
	}
	if f.calls != 1 {
		t.Errorf("fetch calls = %d, want 1", f.calls)
	}
}

func TestCache_ReloadSwapsWholesale(t *testing.T) {
	f := &fakeFetcher{data: batch("Dr. A")}
	c := NewCache(f, nil)
	ctx := context.Background()

	old, _ := c.Get(ctx, "MK01")
	f.data = batch("Dr. A", "Dr. B")
	if _, err := c.Reload(ctx, "MK01"); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	cur, _ := c.Get(ctx, "MK01")

	if len(old.Instructors) != 1 {
		t.Errorf("old snapshot mutated: %d instructors", len(old.Instructors))
	}
	if len(cur.Instructors) != 2 {
		t.Errorf("new snapshot has %d instructors, want 2", len(cur.Instructors))
	}
}

func TestCache_ReloadFailureKeepsPrevious(t *testing.T) {
	f := &fakeFetcher{data: batch("Dr. A")}
	c := NewCache(f, nil)
	ctx := context.Background()

	before, _ := c.Get(ctx, "MK01")
	f.err = errors.New("boom")
	if _, err := c.Reload(ctx, "MK01"); err == nil {
		t.Fatal("expected reload error")
	}
	after, err := c.Get(ctx, "MK01")
	if err != nil || after != before {
		t.Errorf("snapshot should survive a failed reload")
	}
}

func TestCache_FailedFetchLeavesNoEntry(t *testing.T) {
	f := &fakeFetcher{err: backendapi.ErrNotFound}
	c := NewCache(f, nil)
	ctx := context.Background()

	for _, kode := range []string{"XX01", "XX02", "XX01"} {
		if _, err := c.Get(ctx, kode); err == nil {
			t.Fatalf("Get(%q): expected error", kode)
		}
	}
	if n := len(c.courses); n != 0 {
		t.Errorf("cache holds %d entries after failed fetches, want 0", n)
	}
	if f.calls != 3 {
		t.Errorf("fetch calls = %d, want 3", f.calls)
	}

	f.err = nil
	f.data = batch("Dr. A")
	if _, err := c.Get(ctx, "MK01"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if n := len(c.courses); n != 1 {
		t.Errorf("cache holds %d entries, want 1", n)
	}
}

func TestSnapshot_Partitioning(t *testing.T) {
	s := FromBatchData(batch(), time.Time{})
	if len(s.Schedules[models.CategoryMateri]) != 1 || len(s.Schedules[models.CategorySidangSkripsi]) != 1 {
		t.Errorf("partition = %+v", s.Schedules)
	}
	if _, ok := s.ScheduleByID(3); ok {
		t.Error("unknown category rows should be dropped")
	}
	if len(s.GroupsFor(models.CategoryMateri)) != 1 || s.GroupsFor(models.CategorySeminarProposal) != nil {
		t.Error("groups are scoped per category")
	}
	start, end, ok := s.DateRange()
	if !ok || start.Format("2006-01-02") != "2024-01-01" || end.Format("2006-01-02") != "2024-06-30" {
		t.Errorf("DateRange = %v %v %v", start, end, ok)
	}
}
