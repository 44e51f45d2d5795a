// Package articles defines the canonical article shape shared by providers,
// ingestion, and screening.
package articles

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Article is the canonical normalized form of a provider search result.
// ID is a deterministic fingerprint of the lower-cased URL, so identical
// URLs from different providers collapse to the same identity during merge.
type Article struct {
	ID           string            `json:"id"`
	URL          string            `json:"url"`
	Title        string            `json:"title"`
	PublishedAt  time.Time         `json:"published_at"`
	Author       string            `json:"author,omitempty"`
	Snippet      string            `json:"snippet,omitempty"`
	Provider     string            `json:"provider"`
	PersonSlug   string            `json:"person_slug"`
	ProviderMeta map[string]string `json:"provider_meta,omitempty"`
}

// NormalizeURL lower-cases and trims a URL for identity comparison.
func NormalizeURL(url string) string {
	return strings.ToLower(strings.TrimSpace(url))
}

// Fingerprint returns the hex-encoded content fingerprint for a URL.
func Fingerprint(url string) string {
	sum := sha256.Sum256([]byte(NormalizeURL(url)))
	return hex.EncodeToString(sum[:16])
}

// DayKey returns the Y-M-D bucket key for a publish date, in UTC.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// DayBucket groups one person's articles for a single calendar day.
// It is the unit of durable batch persistence and is overwritten
// wholesale on each write for its key.
type DayBucket struct {
	Slug     string    `json:"slug"`
	Date     string    `json:"date"`
	Articles []Article `json:"articles"`
}
