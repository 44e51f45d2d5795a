package lifecycle_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/jlambert/stancewatch/pkg/lifecycle"
)

func TestStartupReadiness(t *testing.T) {
	lc := lifecycle.New()

	var started atomic.Int32
	lc.OnStartup(func() { started.Add(1) })
	lc.OnStartup(func() { started.Add(1) })

	if lc.Ready() {
		t.Error("coordinator ready before WaitForStartup")
	}

	lc.WaitForStartup()

	if !lc.Ready() {
		t.Error("coordinator not ready after WaitForStartup")
	}
	if started.Load() != 2 {
		t.Errorf("startup hooks run: got %d, want 2", started.Load())
	}
}

func TestShutdownRunsHooks(t *testing.T) {
	lc := lifecycle.New()

	var cleaned atomic.Bool
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		cleaned.Store(true)
	})

	if err := lc.Shutdown(time.Second); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
	if !cleaned.Load() {
		t.Error("shutdown hook did not run")
	}
}

func TestShutdownTimeout(t *testing.T) {
	lc := lifecycle.New()

	release := make(chan struct{})
	lc.OnShutdown(func() {
		<-release
	})

	err := lc.Shutdown(10 * time.Millisecond)
	close(release)

	if err == nil {
		t.Error("expected timeout error for a hung shutdown hook")
	}
}

func TestContextCancelledOnShutdown(t *testing.T) {
	lc := lifecycle.New()

	if err := lc.Context().Err(); err != nil {
		t.Fatalf("context cancelled before shutdown: %v", err)
	}

	lc.Shutdown(time.Second)

	select {
	case <-lc.Context().Done():
	default:
		t.Error("context not cancelled after shutdown")
	}
}
