package ingest

import (
	"context"

	"github.com/jlambert/stancewatch/internal/articles"
)

// Collector is an in-memory sink that accumulates articles and groups them
// into calendar-day buckets.
type Collector struct {
	Articles []articles.Article
	Buckets  map[string][]articles.Article
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{
		Buckets: make(map[string][]articles.Article),
	}
}

// Article appends a to the collection and its publish-day bucket.
func (c *Collector) Article(_ context.Context, a articles.Article) error {
	c.Articles = append(c.Articles, a)
	day := articles.DayKey(a.PublishedAt)
	c.Buckets[day] = append(c.Buckets[day], a)
	return nil
}

// Page is a no-op for the in-memory collector.
func (c *Collector) Page(context.Context, PageInfo) error {
	return nil
}

type progressSink struct {
	inner Sink
	emit  func(PageInfo) error
}

// WithProgress wraps a sink so each completed page is also reported through
// emit. The streaming HTTP variant uses this to push page events to the
// client while the same walk feeds the usual collector.
func WithProgress(inner Sink, emit func(PageInfo) error) Sink {
	return &progressSink{inner: inner, emit: emit}
}

func (p *progressSink) Article(ctx context.Context, a articles.Article) error {
	return p.inner.Article(ctx, a)
}

func (p *progressSink) Page(ctx context.Context, info PageInfo) error {
	if err := p.inner.Page(ctx, info); err != nil {
		return err
	}
	return p.emit(info)
}
