package providers

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var relativeDateRegex = regexp.MustCompile(`^(\d+)\s+(minute|hour|day|week|month)s?\s+ago$`)

// ParseDate normalizes a provider date string into an absolute timestamp.
// Relative phrases like "3 hours ago" are resolved against now; everything
// else goes through dateparse.
func ParseDate(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date string")
	}

	// Relative phrases are matched case-insensitively; absolute timestamps
	// keep their original casing for dateparse (RFC3339 markers are
	// case-sensitive).
	lower := strings.ToLower(s)

	if lower == "yesterday" {
		return now.AddDate(0, 0, -1), nil
	}

	if m := relativeDateRegex.FindStringSubmatch(lower); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, fmt.Errorf("parse relative date %q: %w", s, err)
		}
		switch m[2] {
		case "minute":
			return now.Add(-time.Duration(n) * time.Minute), nil
		case "hour":
			return now.Add(-time.Duration(n) * time.Hour), nil
		case "day":
			return now.AddDate(0, 0, -n), nil
		case "week":
			return now.AddDate(0, 0, -7*n), nil
		case "month":
			return now.AddDate(0, -n, 0), nil
		}
	}

	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}
