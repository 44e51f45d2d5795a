package ingest_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jlambert/stancewatch/internal/articles"
	"github.com/jlambert/stancewatch/internal/ingest"
)

func TestArticleKey(t *testing.T) {
	a := articles.Article{
		ID:          "abc123",
		PublishedAt: time.Date(2026, 3, 5, 23, 30, 0, 0, time.UTC),
	}

	got := ingest.ArticleKey("jane-doe", a)
	want := "articles/jane-doe/2026/03/05/abc123.json"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBucketPrefix(t *testing.T) {
	tests := []struct {
		name string
		slug string
		want string
	}{
		{"person scoped", "jane-doe", "buckets/jane-doe/"},
		{"all persons", "", "buckets/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ingest.BucketPrefix(tt.slug); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPersistArticles(t *testing.T) {
	store := newMemStore()
	p := ingest.NewPersister(store, discardLogger(), 1, time.Millisecond)

	day := time.Date(2026, 6, 10, 9, 0, 0, 0, time.UTC)
	merged := []articles.Article{
		provArticleAt("https://example.com/a", day),
		provArticleAt("https://example.com/b", day),
		provArticleAt("https://example.com/c", day.AddDate(0, 0, 1)),
	}

	summary := &ingest.RunSummary{Slug: "jane-doe"}
	if err := p.PersistArticles(context.Background(), "jane-doe", merged, summary); err != nil {
		t.Fatalf("persist failed: %v", err)
	}

	if summary.NewSaved != 3 || summary.DupSkipped != 0 {
		t.Errorf("counts: saved=%d skipped=%d, want 3/0", summary.NewSaved, summary.DupSkipped)
	}

	keys, _ := store.List(context.Background(), "buckets/jane-doe/")
	if len(keys) != 2 {
		t.Fatalf("day buckets: got %v, want 2 keys", keys)
	}

	data, err := store.Read(context.Background(), ingest.BucketKey("jane-doe", "2026-06-10"))
	if err != nil {
		t.Fatalf("read bucket: %v", err)
	}
	var bucket articles.DayBucket
	if err := json.Unmarshal(data, &bucket); err != nil {
		t.Fatalf("parse bucket: %v", err)
	}
	if bucket.Slug != "jane-doe" || bucket.Date != "2026-06-10" || len(bucket.Articles) != 2 {
		t.Errorf("unexpected bucket: slug=%s date=%s articles=%d", bucket.Slug, bucket.Date, len(bucket.Articles))
	}
}

func TestPersistArticlesIdempotent(t *testing.T) {
	store := newMemStore()
	p := ingest.NewPersister(store, discardLogger(), 1, time.Millisecond)

	day := time.Date(2026, 6, 10, 9, 0, 0, 0, time.UTC)
	merged := []articles.Article{
		provArticleAt("https://example.com/a", day),
		provArticleAt("https://example.com/b", day),
	}

	first := &ingest.RunSummary{Slug: "jane-doe"}
	if err := p.PersistArticles(context.Background(), "jane-doe", merged, first); err != nil {
		t.Fatalf("first persist failed: %v", err)
	}

	// Second run sees every article already stored.
	second := &ingest.RunSummary{Slug: "jane-doe"}
	if err := p.PersistArticles(context.Background(), "jane-doe", merged, second); err != nil {
		t.Fatalf("second persist failed: %v", err)
	}

	if second.NewSaved != 0 {
		t.Errorf("second run new_saved: got %d, want 0", second.NewSaved)
	}
	if second.DupSkipped != 2 {
		t.Errorf("second run dup_skipped: got %d, want 2", second.DupSkipped)
	}
}

func TestPersistSummary(t *testing.T) {
	store := newMemStore()
	p := ingest.NewPersister(store, discardLogger(), 1, time.Millisecond)

	summary := &ingest.RunSummary{RunID: "run-1", Slug: "jane-doe", WindowDays: 30}
	if err := p.PersistSummary(context.Background(), summary); err != nil {
		t.Fatalf("persist failed: %v", err)
	}

	data, err := store.Read(context.Background(), ingest.SummaryKey("jane-doe", "run-1"))
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}

	var got ingest.RunSummary
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("parse summary: %v", err)
	}
	if got.Slug != "jane-doe" || got.WindowDays != 30 {
		t.Errorf("unexpected summary: %+v", got)
	}
}

func provArticleAt(url string, published time.Time) articles.Article {
	return articles.Article{
		ID:          articles.Fingerprint(url),
		URL:         url,
		Title:       "coverage",
		PublishedAt: published,
		Provider:    "newsapi",
		PersonSlug:  "jane-doe",
	}
}
