package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/jlambert/stancewatch/internal/articles"
	"github.com/jlambert/stancewatch/pkg/retry"
	"github.com/jlambert/stancewatch/pkg/storage"
)

const contentTypeJSON = "application/json"

// ArticleKey derives the durable storage key for one article:
// slug + calendar date + content fingerprint.
func ArticleKey(slug string, a articles.Article) string {
	d := a.PublishedAt.UTC()
	return fmt.Sprintf("articles/%s/%04d/%02d/%02d/%s.json",
		slug, d.Year(), d.Month(), d.Day(), a.ID)
}

// BucketKey derives the storage key for a person's day bucket.
func BucketKey(slug, day string) string {
	return fmt.Sprintf("buckets/%s/%s.json", slug, day)
}

// BucketPrefix is the listing prefix for a person's day buckets. An empty
// slug covers every person.
func BucketPrefix(slug string) string {
	if slug == "" {
		return "buckets/"
	}
	return fmt.Sprintf("buckets/%s/", slug)
}

// SummaryKey derives the storage key for a run summary.
func SummaryKey(slug, runID string) string {
	return fmt.Sprintf("runs/%s/%s.json", slug, runID)
}

// Persister writes merged run output to durable storage with bounded retry.
type Persister struct {
	store    storage.System
	logger   *slog.Logger
	attempts int
	delay    time.Duration
}

// NewPersister creates a Persister. attempts and delay bound the write retry.
func NewPersister(store storage.System, logger *slog.Logger, attempts int, delay time.Duration) *Persister {
	if attempts <= 0 {
		attempts = 3
	}
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}
	return &Persister{
		store:    store,
		logger:   logger.With("system", "persist"),
		attempts: attempts,
		delay:    delay,
	}
}

// PersistArticles writes each merged article to its content-addressed key,
// skipping keys that already exist from a prior run, then overwrites the
// affected day buckets wholesale. Counts are accumulated on the summary.
// The first write failure after all retries is terminal for this run.
func (p *Persister) PersistArticles(ctx context.Context, slug string, merged []articles.Article, summary *RunSummary) error {
	buckets := make(map[string][]articles.Article)

	for _, a := range merged {
		key := ArticleKey(slug, a)

		exists, err := p.store.Exists(ctx, key)
		if err != nil {
			return fmt.Errorf("check article %s: %w", key, err)
		}
		if exists {
			summary.DupSkipped++
		} else {
			if err := p.write(ctx, key, a); err != nil {
				return fmt.Errorf("persist article %s: %w", key, err)
			}
			summary.NewSaved++
		}

		day := articles.DayKey(a.PublishedAt)
		buckets[day] = append(buckets[day], a)
	}

	days := make([]string, 0, len(buckets))
	for day := range buckets {
		days = append(days, day)
	}
	sort.Strings(days)

	for _, day := range days {
		bucket := articles.DayBucket{
			Slug:     slug,
			Date:     day,
			Articles: buckets[day],
		}
		if err := p.write(ctx, BucketKey(slug, day), bucket); err != nil {
			return fmt.Errorf("persist day bucket %s/%s: %w", slug, day, err)
		}
	}

	return nil
}

// PersistSummary writes the run summary. It is called on every run, success
// or partial failure.
func (p *Persister) PersistSummary(ctx context.Context, summary *RunSummary) error {
	key := SummaryKey(summary.Slug, summary.RunID)
	if err := p.write(ctx, key, summary); err != nil {
		return fmt.Errorf("persist run summary %s: %w", key, err)
	}
	return nil
}

func (p *Persister) write(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	return retry.Do(ctx, func() error {
		return p.store.Write(ctx, key, data, contentTypeJSON)
	}, p.attempts, p.delay)
}
