// internal/app/system/workers/draftcleanup.go
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/jadwalhub/internal/app/system/metrics"
	"go.uber.org/zap"
)

// StaleDeleter removes drafts not touched since a cutoff.
type StaleDeleter interface {
	DeleteStale(ctx context.Context, before time.Time) (int64, error)
}

// DraftCleanup is a background worker that purges abandoned import drafts.
type DraftCleanup struct {
	drafts   StaleDeleter
	log      *zap.Logger
	interval time.Duration
	ttl      time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewDraftCleanup creates a new draft cleanup worker.
//
// Parameters:
//   - drafts: the import draft store
//   - logger: zap logger for logging
//   - interval: how often to run cleanup (e.g., 1 hour)
//   - ttl: how long a draft may sit untouched before it is purged (e.g., 72 hours)
func NewDraftCleanup(drafts StaleDeleter, logger *zap.Logger, interval, ttl time.Duration) *DraftCleanup {
	return &DraftCleanup{
		drafts:   drafts,
		log:      logger,
		interval: interval,
		ttl:      ttl,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background cleanup loop.
func (w *DraftCleanup) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("draft cleanup worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("ttl", w.ttl))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *DraftCleanup) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("draft cleanup worker stopped")
}

func (w *DraftCleanup) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.cleanup()
		}
	}
}

func (w *DraftCleanup) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := w.drafts.DeleteStale(ctx, w.now().UTC().Add(-w.ttl))
	if err != nil {
		w.log.Error("failed to purge stale drafts", zap.Error(err))
		return
	}
	if count > 0 {
		metrics.DraftsPurged.Add(float64(count))
		w.log.Info("purged stale drafts", zap.Int64("count", count))
	}
}
