package screening

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jlambert/stancewatch/pkg/storage"
)

// LoadCheckpoint rebuilds the set of already-processed row identifiers by
// reading the existing row-oriented output log. The output log itself is the
// sole resumability mechanism; there is no separate checkpoint record.
// A missing log yields an empty set; malformed lines are skipped.
func LoadCheckpoint(ctx context.Context, store storage.System, resultsKey string) (map[string]struct{}, error) {
	processed := make(map[string]struct{})

	data, err := store.Read(ctx, resultsKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return processed, nil
		}
		return nil, fmt.Errorf("load checkpoint from %s: %w", resultsKey, err)
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var row struct {
			RowID string `json:"row_id"`
		}
		if err := json.Unmarshal(line, &row); err != nil || row.RowID == "" {
			continue
		}
		processed[row.RowID] = struct{}{}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan checkpoint log %s: %w", resultsKey, err)
	}

	return processed, nil
}

// RowID builds the deterministic row identifier for an article: the person
// slug, the bucket's day, and the article's position within that bucket.
// Keying on the day rather than the bucket's listing position keeps
// identifiers stable when an unreadable bucket drops out of one run's
// listing.
func RowID(slug, day string, articleIndex int) string {
	return fmt.Sprintf("%s_%s_%d", slug, day, articleIndex)
}
