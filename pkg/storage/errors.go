package storage

import (
	"errors"
	"net/http"
)

// Sentinel errors for store operations. Callers branch with errors.Is;
// handlers translate them through MapHTTPStatus.
var (
	// ErrNotFound is returned when no blob exists at the requested key.
	ErrNotFound = errors.New("blob not found")
	// ErrEmptyKey is returned for an empty storage key.
	ErrEmptyKey = errors.New("storage key must not be empty")
	// ErrInvalidKey is returned when a key carries a traversal segment.
	ErrInvalidKey = errors.New("storage key contains invalid path segment")
)

// MapHTTPStatus translates store errors into HTTP status codes: a missing
// blob is 404, a malformed key is 400, anything else is 500.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrEmptyKey) || errors.Is(err, ErrInvalidKey) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
