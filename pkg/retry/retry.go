// Package retry provides bounded retry with exponential backoff.
package retry

import (
	"context"
	"errors"
	"time"
)

// ErrInvalidAttempts indicates a non-positive attempt count was given.
var ErrInvalidAttempts = errors.New("retry attempts must be positive")

// Do invokes op up to attempts times, sleeping baseDelay between tries and
// doubling the delay after each failure. It returns nil on the first success,
// the context error if ctx is cancelled while waiting, or the error from the
// final attempt.
func Do(ctx context.Context, op func() error, attempts int, baseDelay time.Duration) error {
	if attempts <= 0 {
		return ErrInvalidAttempts
	}

	delay := baseDelay
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = op()
		if lastErr == nil {
			return nil
		}

		if attempt == attempts {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}

	return lastErr
}

// Fixed invokes op up to attempts times with a constant delay between tries.
func Fixed(ctx context.Context, op func() error, attempts int, delay time.Duration) error {
	if attempts <= 0 {
		return ErrInvalidAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = op()
		if lastErr == nil {
			return nil
		}

		if attempt == attempts {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return lastErr
}
