package articles_test

import (
	"testing"
	"time"

	"github.com/jlambert/stancewatch/internal/articles"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercases", "https://Example.com/Story", "https://example.com/story"},
		{"trims whitespace", "  https://example.com/story \n", "https://example.com/story"},
		{"already normal", "https://example.com/story", "https://example.com/story"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := articles.NormalizeURL(tt.input); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestFingerprintStable(t *testing.T) {
	a := articles.Fingerprint("https://example.com/story")
	b := articles.Fingerprint("  HTTPS://EXAMPLE.COM/story ")

	if a != b {
		t.Errorf("case and whitespace variants should collapse: %q vs %q", a, b)
	}
	if len(a) != 32 {
		t.Errorf("fingerprint length: got %d, want 32", len(a))
	}
}

func TestFingerprintDistinct(t *testing.T) {
	a := articles.Fingerprint("https://example.com/story-one")
	b := articles.Fingerprint("https://example.com/story-two")

	if a == b {
		t.Error("distinct URLs produced the same fingerprint")
	}
}

func TestDayKey(t *testing.T) {
	est := time.FixedZone("EST", -5*60*60)

	tests := []struct {
		name     string
		input    time.Time
		expected string
	}{
		{"utc noon", time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC), "2026-03-15"},
		{"crosses midnight utc", time.Date(2026, 3, 15, 22, 30, 0, 0, est), "2026-03-16"},
		{"midnight exactly", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), "2026-03-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := articles.DayKey(tt.input); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}
