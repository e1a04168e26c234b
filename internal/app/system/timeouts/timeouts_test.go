package timeouts

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestConfigure_IgnoresZero(t *testing.T) {
	defer Reset()

	Configure(Config{Backend: 3 * time.Second})
	got := Current()
	want := Config{Ping: DefaultPing, Short: DefaultShort, Backend: 3 * time.Second, Batch: DefaultBatch}
	if got != want {
		t.Errorf("Current() = %+v, want %+v", got, want)
	}

	Reset()
	if Backend() != DefaultBackend {
		t.Errorf("Backend() after Reset = %v", Backend())
	}
}

func TestWithTimeout(t *testing.T) {
	ctx, cancel := WithTimeout(context.Background(), time.Millisecond, zap.NewNop(), "test")
	<-ctx.Done()
	cancel()
	if ctx.Err() != context.DeadlineExceeded {
		t.Errorf("ctx.Err() = %v", ctx.Err())
	}
}
