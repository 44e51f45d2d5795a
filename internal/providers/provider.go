// Package providers implements the search provider adapters that normalize
// heterogeneous provider payloads into the canonical article shape.
package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jlambert/stancewatch/internal/articles"
	"github.com/jlambert/stancewatch/internal/roster"
)

// PersonContext carries the person record and prebuilt search expression
// through a pagination walk.
type PersonContext struct {
	Person roster.Person
	Query  string
}

// Result is one page of normalized articles plus the raw provider payload.
type Result struct {
	Articles []articles.Article
	Raw      json.RawMessage
}

// Adapter is the capability every search provider variant implements.
// Disabled adapters (missing credential) return empty results without error
// so ingestion degrades gracefully.
type Adapter interface {
	Name() string
	Enabled() bool
	Search(ctx context.Context, pc PersonContext, windowDays, page int) (Result, error)
}

const requestTimeout = 20 * time.Second

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: requestTimeout}
}

func windowStart(now time.Time, windowDays int) time.Time {
	return now.UTC().AddDate(0, 0, -windowDays)
}
