package refdata

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dalemusser/jadwalhub/internal/app/system/backendapi"
	"github.com/dalemusser/jadwalhub/internal/app/system/metrics"
	"go.uber.org/zap"
)

// Fetcher loads the batch data of a course. *backendapi.Client satisfies it.
type Fetcher interface {
	BatchData(ctx context.Context, kode string) (*backendapi.BatchData, error)
}

// Cache keeps the latest snapshot per course code.
type Cache struct {
	fetch Fetcher
	log   *zap.Logger
	now   func() time.Time

	mu      sync.Mutex
	courses map[string]*atomic.Pointer[Snapshot]
}

// NewCache returns an empty cache backed by fetch.
func NewCache(fetch Fetcher, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		fetch:   fetch,
		log:     logger,
		now:     time.Now,
		courses: make(map[string]*atomic.Pointer[Snapshot]),
	}
}

func (c *Cache) lookup(kode string) *Snapshot {
	c.mu.Lock()
	p, ok := c.courses[kode]
	c.mu.Unlock()
	if !ok {
		return nil
	}
	return p.Load()
}

// store publishes s for kode. Entries are only created here, after a
// successful fetch, so unknown codes never take up room.
func (c *Cache) store(kode string, s *Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.courses[kode]
	if !ok {
		p = new(atomic.Pointer[Snapshot])
		c.courses[kode] = p
	}
	p.Store(s)
}

// Get returns the current snapshot, loading it on first use.
func (c *Cache) Get(ctx context.Context, kode string) (*Snapshot, error) {
	if s := c.lookup(kode); s != nil {
		return s, nil
	}
	return c.Reload(ctx, kode)
}

// Reload fetches the batch data again and swaps the snapshot wholesale. On
// failure the previous snapshot stays in place.
func (c *Cache) Reload(ctx context.Context, kode string) (*Snapshot, error) {
	data, err := c.fetch.BatchData(ctx, kode)
	if err != nil {
		metrics.SnapshotReloads.WithLabelValues("error").Inc()
		c.log.Warn("reference data reload failed", zap.String("kode", kode), zap.Error(err))
		return nil, fmt.Errorf("load reference data for %s: %w", kode, err)
	}
	s := FromBatchData(data, c.now())
	c.store(kode, s)
	metrics.SnapshotReloads.WithLabelValues("ok").Inc()
	c.log.Debug("reference data loaded",
		zap.String("kode", kode),
		zap.Int("dosen", len(s.Instructors)),
		zap.Int("ruangan", len(s.Rooms)),
		zap.Int("mahasiswa", len(s.Students)))
	return s, nil
}
