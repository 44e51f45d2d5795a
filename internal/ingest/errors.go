package ingest

import (
	"errors"
	"net/http"
)

var (
	// ErrUnknownSlug indicates the requested person is not in the roster.
	ErrUnknownSlug = errors.New("person not found in roster")
	// ErrUnknownCohort indicates the requested cohort is not defined.
	ErrUnknownCohort = errors.New("cohort not found in roster")
	// ErrBudgetExhausted indicates a provider's daily call allowance is spent.
	ErrBudgetExhausted = errors.New("provider budget exhausted")
	// ErrInvalidRequest indicates a malformed ingestion request.
	ErrInvalidRequest = errors.New("invalid ingestion request")
)

// MapHTTPStatus maps ingestion errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrUnknownSlug) || errors.Is(err, ErrUnknownCohort) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrInvalidRequest) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrBudgetExhausted) {
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}
