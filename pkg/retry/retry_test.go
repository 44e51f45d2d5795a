package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jlambert/stancewatch/pkg/retry"
)

func TestDoSucceedsFirstTry(t *testing.T) {
	calls := 0
	err := retry.Do(context.Background(), func() error {
		calls++
		return nil
	}, 3, time.Millisecond)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls: got %d, want 1", calls)
	}
}

func TestDoRecoversAfterFailures(t *testing.T) {
	calls := 0
	err := retry.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	}, 3, time.Millisecond)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls: got %d, want 3", calls)
	}
}

func TestDoExhaustsAttempts(t *testing.T) {
	sentinel := errors.New("persistent")
	calls := 0

	err := retry.Do(context.Background(), func() error {
		calls++
		return sentinel
	}, 4, time.Millisecond)

	if !errors.Is(err, sentinel) {
		t.Errorf("expected final attempt error, got %v", err)
	}
	if calls != 4 {
		t.Errorf("calls: got %d, want 4", calls)
	}
}

func TestDoInvalidAttempts(t *testing.T) {
	err := retry.Do(context.Background(), func() error { return nil }, 0, time.Millisecond)
	if !errors.Is(err, retry.ErrInvalidAttempts) {
		t.Errorf("expected ErrInvalidAttempts, got %v", err)
	}
}

func TestDoRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := retry.Do(ctx, func() error {
		calls++
		cancel()
		return errors.New("transient")
	}, 5, time.Hour)

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("calls: got %d, want 1", calls)
	}
}

func TestFixedRecovers(t *testing.T) {
	calls := 0
	err := retry.Fixed(context.Background(), func() error {
		calls++
		if calls == 1 {
			return errors.New("transient")
		}
		return nil
	}, 3, time.Millisecond)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls: got %d, want 2", calls)
	}
}
