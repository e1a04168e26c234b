// Package timeouts provides centralized timeout values for handler operations.
//
// Guidelines for choosing a timeout:
//   - Ping: health checks against MongoDB and the schedule backend
//   - Short: single draft reads and writes
//   - Backend: one call to the schedule backend (batch-data, create, update, delete)
//   - Batch: spreadsheet decoding, bulk import submission, bulk delete
package timeouts

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Default timeout values (used if Configure is not called).
const (
	DefaultPing    = 2 * time.Second
	DefaultShort   = 5 * time.Second
	DefaultBackend = 15 * time.Second
	DefaultBatch   = 60 * time.Second
)

var mu sync.RWMutex

var current = Config{
	Ping:    DefaultPing,
	Short:   DefaultShort,
	Backend: DefaultBackend,
	Batch:   DefaultBatch,
}

// Config holds timeout configuration values.
// Zero values are ignored (defaults are kept).
type Config struct {
	Ping    time.Duration
	Short   time.Duration
	Backend time.Duration
	Batch   time.Duration
}

// Ping returns the timeout for health checks.
func Ping() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return current.Ping
}

// Short returns the timeout for draft reads and writes.
func Short() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return current.Short
}

// Backend returns the timeout for a single backend request.
func Backend() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return current.Backend
}

// Batch returns the timeout for uploads, import submission and bulk delete.
func Batch() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return current.Batch
}

// Configure sets custom timeout values. Zero values in the config are ignored.
// Call it during startup before handlers are registered.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Ping > 0 {
		current.Ping = cfg.Ping
	}
	if cfg.Short > 0 {
		current.Short = cfg.Short
	}
	if cfg.Backend > 0 {
		current.Backend = cfg.Backend
	}
	if cfg.Batch > 0 {
		current.Batch = cfg.Batch
	}
}

// Reset restores all timeouts to their default values.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	current = Config{Ping: DefaultPing, Short: DefaultShort, Backend: DefaultBackend, Batch: DefaultBatch}
}

// Current returns the current timeout configuration.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// WithTimeout creates a context with timeout and returns a cancel function that
// logs a warning if the context was canceled due to deadline exceeded.
//
//	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Batch(), h.Log, "import submit")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
