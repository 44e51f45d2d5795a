package providers

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrThrottled indicates a rate-limit or service-unavailable response.
// The paginator retries the same page with backoff when it sees this.
var ErrThrottled = errors.New("provider throttled")

// statusError converts a non-success HTTP status into a typed error.
func statusError(provider string, status int) error {
	if status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable {
		return fmt.Errorf("%s returned status %d: %w", provider, status, ErrThrottled)
	}
	return fmt.Errorf("%s returned status %d", provider, status)
}
