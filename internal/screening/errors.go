package screening

import (
	"errors"
	"net/http"
)

var (
	// ErrSchemaMismatch indicates the classification service returned JSON
	// that does not match the expected result schema.
	ErrSchemaMismatch = errors.New("classification response schema mismatch")
	// ErrNotConfigured indicates the classification endpoint is not set.
	ErrNotConfigured = errors.New("classification endpoint not configured")
	// ErrNoStatus indicates no screening status record has been published yet.
	ErrNoStatus = errors.New("no screening status available")
)

// MapHTTPStatus maps screening errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNoStatus) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrNotConfigured) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
