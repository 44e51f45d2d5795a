// Package screening implements the resumable relevance screening loop over
// previously persisted day buckets.
package screening

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/jlambert/stancewatch/internal/ingest"
	"github.com/jlambert/stancewatch/internal/roster"
	"github.com/jlambert/stancewatch/pkg/retry"
	"github.com/jlambert/stancewatch/pkg/storage"
)

// System defines the public contract for screening operations.
type System interface {
	Handler() *Handler

	Run(ctx context.Context, slug string) (*Report, error)
	Status(ctx context.Context) (*StatusRecord, error)
}

// StatusRecord is the durable progress snapshot published for external
// observers to poll.
type StatusRecord struct {
	Processed int       `json:"processed"`
	Pending   int       `json:"pending"`
	Errors    int       `json:"errors"`
	LastRowID string    `json:"last_row_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Report summarizes one screening invocation.
type Report struct {
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Batches    int       `json:"batches"`
	Rows       int       `json:"rows"`
	Processed  int       `json:"processed"`
	Skipped    int       `json:"skipped"`
	Defaulted  int       `json:"defaulted"`
	Errors     int       `json:"errors"`
	LastRowID  string    `json:"last_row_id,omitempty"`
}

type system struct {
	cfg        *Config
	store      storage.System
	classifier Classifier
	roster     *roster.Roster
	logger     *slog.Logger
}

// New creates the screening system.
func New(cfg *Config, store storage.System, r *roster.Roster, logger *slog.Logger) System {
	return &system{
		cfg:        cfg,
		store:      store,
		classifier: NewClassifier(cfg.Endpoint, &http.Client{Timeout: cfg.TimeoutDuration()}),
		roster:     r,
		logger:     logger.With("system", "screening"),
	}
}

// NewWithClassifier creates a screening system with an injected classifier (for testing).
func NewWithClassifier(cfg *Config, store storage.System, r *roster.Roster, classifier Classifier, logger *slog.Logger) System {
	return &system{
		cfg:        cfg,
		store:      store,
		classifier: classifier,
		roster:     r,
		logger:     logger.With("system", "screening"),
	}
}

func (s *system) Handler() *Handler {
	return NewHandler(s, s.logger)
}

// batch is one parsed day bucket. Article fields are kept loose so malformed
// or missing values coerce to empty strings instead of failing the row.
type batch struct {
	key      string
	slug     string
	day      string
	articles []map[string]any
}

// Run discovers persisted day buckets under the slug prefix (all persons when
// slug is empty), replays the output log into a checkpoint set, and screens
// every unprocessed row. Rows are never processed twice across invocations.
func (s *system) Run(ctx context.Context, slug string) (*Report, error) {
	report := &Report{StartedAt: time.Now().UTC()}

	keys, err := s.store.List(ctx, ingest.BucketPrefix(slug))
	if err != nil {
		return nil, fmt.Errorf("discover batches: %w", err)
	}

	processed, err := LoadCheckpoint(ctx, s.store, s.cfg.ResultsKey)
	if err != nil {
		return nil, err
	}
	s.logger.Info("screening starting",
		"batches", len(keys), "checkpointed_rows", len(processed))

	batches := make([]batch, 0, len(keys))
	for _, key := range keys {
		b, err := s.readBatch(ctx, key)
		if err != nil {
			// A bad batch is abandoned; the rest of the run continues.
			s.logger.Error("batch read failed, skipping", "key", key, "error", err)
			report.Errors++
			continue
		}
		batches = append(batches, b)
		report.Rows += len(b.articles)
	}
	report.Batches = len(batches)

	status := StatusRecord{Pending: report.Rows}
	sinceFlush := 0

	for _, b := range batches {
		for articleIndex, fields := range b.articles {
			if err := ctx.Err(); err != nil {
				s.flushStatus(ctx, &status)
				return report, err
			}

			rowID := RowID(b.slug, b.day, articleIndex)
			status.Pending--

			if _, done := processed[rowID]; done {
				report.Skipped++
				continue
			}

			result := s.screenRow(ctx, rowID, b.slug, fields, report)
			if err := s.appendResult(ctx, result); err != nil {
				s.logger.Error("result append failed", "row_id", rowID, "error", err)
				report.Errors++
				status.Errors++
				continue
			}

			processed[rowID] = struct{}{}
			report.Processed++
			report.LastRowID = rowID

			status.Processed++
			status.LastRowID = rowID
			sinceFlush++
			if sinceFlush >= s.cfg.StatusInterval {
				s.flushStatus(ctx, &status)
				sinceFlush = 0
			}
		}
	}

	s.flushStatus(ctx, &status)
	report.FinishedAt = time.Now().UTC()

	s.logger.Info("screening complete",
		"rows", report.Rows,
		"processed", report.Processed,
		"skipped", report.Skipped,
		"defaulted", report.Defaulted,
		"errors", report.Errors,
	)

	return report, nil
}

// Status returns the last published status record.
func (s *system) Status(ctx context.Context) (*StatusRecord, error) {
	data, err := s.store.Read(ctx, s.cfg.StatusKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNoStatus
		}
		return nil, fmt.Errorf("read screening status: %w", err)
	}

	var record StatusRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("parse screening status: %w", err)
	}
	return &record, nil
}

func (s *system) readBatch(ctx context.Context, key string) (batch, error) {
	data, err := s.store.Read(ctx, key)
	if err != nil {
		return batch{}, err
	}

	var bucket struct {
		Slug     string           `json:"slug"`
		Articles []map[string]any `json:"articles"`
	}
	if err := json.Unmarshal(data, &bucket); err != nil {
		return batch{}, fmt.Errorf("parse day bucket %s: %w", key, err)
	}

	return batch{
		key:      key,
		slug:     bucket.Slug,
		day:      bucketDay(key),
		articles: bucket.Articles,
	}, nil
}

// bucketDay extracts the yyyy-mm-dd portion of a day-bucket key.
func bucketDay(key string) string {
	return strings.TrimSuffix(path.Base(key), ".json")
}

// screenRow classifies one row, retrying transient failures and degrading to
// a safe default result when the service cannot be reached or keeps returning
// a mismatched schema.
func (s *system) screenRow(ctx context.Context, rowID, slug string, fields map[string]any, report *Report) Result {
	name := slug
	if person, ok := s.roster.Find(slug); ok && person.Name != "" {
		name = person.Name
	}

	req := ClassifyRequest{
		Name:    name,
		Title:   coerceString(fields["title"]),
		Snippet: coerceString(fields["snippet"]),
	}

	var result Result
	err := retry.Fixed(ctx, func() error {
		callCtx, cancel := context.WithTimeout(ctx, s.cfg.TimeoutDuration())
		defer cancel()

		r, err := s.classifier.Classify(callCtx, req)
		if err != nil {
			return err
		}
		result = r
		return nil
	}, 1+s.cfg.RetryAttempts, s.cfg.RetryDelayDuration())

	if err != nil {
		s.logger.Warn("classification failed, defaulting row",
			"row_id", rowID, "error", err)
		report.Defaulted++
		report.Errors++
		result = Result{
			RelevanceScore: 0,
			Relevant:       false,
			TiesToSubject:  false,
			Reason:         "screening unavailable",
		}
	}

	result.RowID = rowID
	return result
}

// appendResult writes the result to both append-only logs: the row-oriented
// JSONL log (which doubles as the checkpoint source) and the record-oriented
// CSV log.
func (s *system) appendResult(ctx context.Context, result Result) error {
	line, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result %s: %w", result.RowID, err)
	}
	line = append(line, '\n')

	if err := s.store.Append(ctx, s.cfg.ResultsKey, line); err != nil {
		return err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{
		result.RowID,
		strconv.FormatFloat(result.RelevanceScore, 'f', -1, 64),
		strconv.FormatBool(result.Relevant),
		strconv.FormatBool(result.TiesToSubject),
		result.Reason,
	})
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("encode csv record %s: %w", result.RowID, err)
	}

	return s.store.Append(ctx, s.cfg.RecordsKey, buf.Bytes())
}

// flushStatus publishes the progress snapshot. It is best-effort and never
// fails the run.
func (s *system) flushStatus(ctx context.Context, status *StatusRecord) {
	status.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(status)
	if err != nil {
		s.logger.Warn("status encode failed", "error", err)
		return
	}
	if err := s.store.Write(ctx, s.cfg.StatusKey, data, "application/json"); err != nil {
		s.logger.Warn("status publish failed", "error", err)
	}
}

func coerceString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}
