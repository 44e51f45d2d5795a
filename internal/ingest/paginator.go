// Package ingest implements the ingestion orchestration pipeline: pagination
// with backoff, cross-provider merge, durable day-bucketed persistence, and
// the batch runner over the roster.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/jlambert/stancewatch/internal/articles"
	"github.com/jlambert/stancewatch/internal/providers"
)

// Sink receives articles and page progress from a pagination walk. One Walk
// implementation serves the ad hoc single-person sweep, the full-roster
// backfill, and the streaming HTTP variant by swapping the sink.
type Sink interface {
	Article(ctx context.Context, a articles.Article) error
	Page(ctx context.Context, info PageInfo) error
}

// PageInfo reports the outcome of one provider page.
type PageInfo struct {
	Provider string `json:"provider"`
	Page     int    `json:"page"`
	Returned int    `json:"returned"`
	Accepted int    `json:"accepted"`
}

// Gate controls whether a provider call may proceed and records consumed
// allowance. The budget manager implements it.
type Gate interface {
	Allow(provider string) bool
	Record(provider string)
}

// WalkOptions tunes a pagination walk.
type WalkOptions struct {
	WindowDays  int
	MaxPages    int
	BaseDelay   time.Duration
	MaxJitter   time.Duration
	BackoffBase time.Duration
	BackoffMax  time.Duration

	// Now is the clock used for the trailing-window cutoff. Defaults to time.Now.
	Now func() time.Time
	// Sleep is the scheduling suspension point for politeness and backoff
	// delays. Defaults to a context-aware sleep.
	Sleep func(ctx context.Context, d time.Duration) error
}

func (o *WalkOptions) applyDefaults() {
	if o.MaxPages <= 0 {
		o.MaxPages = 200
	}
	if o.BackoffBase <= 0 {
		o.BackoffBase = 2 * time.Second
	}
	if o.BackoffMax <= 0 {
		o.BackoffMax = 20 * time.Second
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Sleep == nil {
		o.Sleep = sleepContext
	}
}

// WalkStats counts provider activity during one walk.
type WalkStats struct {
	Requests int
	Results  int
	Accepted int
}

// Walk drives one adapter through successive pages for one person, filtering
// to the trailing window and deduplicating URLs within the walk. Throttling
// responses retry the same page with capped exponential backoff; any other
// provider error ends the walk and is returned for the caller to record.
//
// Every provider call counts against MaxPages, throttled retries included,
// so a provider that never stops throttling cannot hold the walk open.
func Walk(
	ctx context.Context,
	ad providers.Adapter,
	pc providers.PersonContext,
	gate Gate,
	opts WalkOptions,
	sink Sink,
	logger *slog.Logger,
) (WalkStats, error) {
	opts.applyDefaults()

	var stats WalkStats
	seen := make(map[string]struct{})
	cutoff := opts.Now().UTC().AddDate(0, 0, -opts.WindowDays)
	backoff := opts.BackoffBase

	page := 1
	for attempt := 1; attempt <= opts.MaxPages; attempt++ {
		if gate != nil && !gate.Allow(ad.Name()) {
			return stats, fmt.Errorf("%s: %w", ad.Name(), ErrBudgetExhausted)
		}

		res, err := ad.Search(ctx, pc, opts.WindowDays, page)
		stats.Requests++

		if errors.Is(err, providers.ErrThrottled) {
			if attempt == opts.MaxPages {
				return stats, fmt.Errorf("%s page %d: %w", ad.Name(), page, providers.ErrThrottled)
			}
			logger.Warn("provider throttled, backing off",
				"provider", ad.Name(), "page", page, "backoff", backoff)
			if err := opts.Sleep(ctx, backoff); err != nil {
				return stats, err
			}
			backoff = min(backoff*2, opts.BackoffMax)
			continue
		}
		if err != nil {
			return stats, fmt.Errorf("%s page %d: %w", ad.Name(), page, err)
		}

		backoff = opts.BackoffBase

		if len(res.Articles) == 0 {
			break
		}
		stats.Results += len(res.Articles)

		if gate != nil {
			gate.Record(ad.Name())
		}

		accepted := 0
		for _, a := range res.Articles {
			key := articles.NormalizeURL(a.URL)
			if _, dup := seen[key]; dup {
				continue
			}
			if a.PublishedAt.Before(cutoff) {
				continue
			}
			seen[key] = struct{}{}
			if err := sink.Article(ctx, a); err != nil {
				return stats, err
			}
			accepted++
		}
		stats.Accepted += accepted

		if err := sink.Page(ctx, PageInfo{
			Provider: ad.Name(),
			Page:     page,
			Returned: len(res.Articles),
			Accepted: accepted,
		}); err != nil {
			return stats, err
		}

		// A page with no new in-window items means the provider is serving
		// old or already-seen content; stop rather than crawl unbounded.
		if accepted == 0 {
			break
		}

		delay := opts.BaseDelay
		if opts.MaxJitter > 0 {
			delay += rand.N(opts.MaxJitter)
		}
		if delay > 0 {
			if err := opts.Sleep(ctx, delay); err != nil {
				return stats, err
			}
		}

		page++
	}

	return stats, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
