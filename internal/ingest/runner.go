package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jlambert/stancewatch/internal/articles"
	"github.com/jlambert/stancewatch/internal/budget"
	"github.com/jlambert/stancewatch/internal/providers"
	"github.com/jlambert/stancewatch/internal/query"
	"github.com/jlambert/stancewatch/internal/roster"
	"github.com/jlambert/stancewatch/pkg/storage"
)

// System defines the public contract for ingestion operations.
type System interface {
	Handler() *Handler

	IngestOne(ctx context.Context, slug string, windowDays int) (*RunSummary, error)
	IngestStream(ctx context.Context, slug string, windowDays int, emit func(PageInfo) error) (*RunSummary, error)
	IngestBatch(ctx context.Context, req BatchRequest) (*BatchResult, error)
	Status() StatusReport
}

// StatusReport describes provider enablement, budget usage, and roster size.
type StatusReport struct {
	Providers  map[string]bool         `json:"providers"`
	Budgets    map[string]budget.Usage `json:"budgets"`
	RosterSize int                     `json:"roster_size"`
	Cohorts    []string                `json:"cohorts"`
}

type system struct {
	cfg       *Config
	roster    *roster.Roster
	adapters  []providers.Adapter
	budget    *budget.Manager
	persister *Persister
	logger    *slog.Logger
}

// New creates the ingestion system. Adapters should be supplied in the
// configured provider priority order.
func New(
	cfg *Config,
	r *roster.Roster,
	adapters []providers.Adapter,
	bm *budget.Manager,
	store storage.System,
	logger *slog.Logger,
) System {
	return &system{
		cfg:       cfg,
		roster:    r,
		adapters:  adapters,
		budget:    bm,
		persister: NewPersister(store, logger, cfg.WriteAttempts, cfg.WriteDelayDuration()),
		logger:    logger.With("system", "ingest"),
	}
}

func (s *system) Handler() *Handler {
	return NewHandler(s, s.logger)
}

func (s *system) IngestOne(ctx context.Context, slug string, windowDays int) (*RunSummary, error) {
	return s.run(ctx, slug, windowDays, false, nil)
}

func (s *system) IngestStream(ctx context.Context, slug string, windowDays int, emit func(PageInfo) error) (*RunSummary, error) {
	return s.run(ctx, slug, windowDays, false, emit)
}

func (s *system) IngestBatch(ctx context.Context, req BatchRequest) (*BatchResult, error) {
	slugs, err := s.resolveSlugs(req)
	if err != nil {
		return nil, err
	}

	concurrency := req.Concurrency
	if concurrency <= 0 {
		concurrency = s.cfg.Concurrency
	}

	result := &BatchResult{
		StartedAt: time.Now().UTC(),
		DryRun:    req.DryRun,
		Summaries: make(map[string]*RunSummary, len(slugs)),
		Failures:  make(map[string]string),
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, slug := range slugs {
		g.Go(func() error {
			summary, err := s.run(gctx, slug, req.WindowDays, req.DryRun, nil)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failures[slug] = err.Error()
				return nil
			}
			result.Summaries[slug] = summary
			return nil
		})
	}

	// Worker errors are captured per person; Wait only surfaces context
	// cancellation.
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result.FinishedAt = time.Now().UTC()
	return result, nil
}

func (s *system) Status() StatusReport {
	enabled := make(map[string]bool, len(s.adapters))
	for _, ad := range s.adapters {
		enabled[ad.Name()] = ad.Enabled()
	}

	return StatusReport{
		Providers:  enabled,
		Budgets:    s.budget.Snapshot(),
		RosterSize: s.roster.Size(),
		Cohorts:    s.roster.CohortNames(),
	}
}

// run executes one person's full ingestion: paginate each enabled provider,
// merge across providers, optionally prefilter, persist. A single provider's
// failure is recorded on the summary and never aborts the run.
func (s *system) run(
	ctx context.Context,
	slug string,
	windowDays int,
	dryRun bool,
	emit func(PageInfo) error,
) (*RunSummary, error) {
	person, ok := s.roster.Find(slug)
	if !ok {
		return nil, fmt.Errorf("%q: %w", slug, ErrUnknownSlug)
	}

	if windowDays <= 0 {
		windowDays = s.cfg.WindowDays
	}

	summary := newRunSummary(slug, windowDays)
	pc := providers.PersonContext{
		Person: person,
		Query:  query.Build(person),
	}

	byProvider := make(map[string][]articles.Article)

	for _, ad := range s.adapters {
		if !ad.Enabled() {
			continue
		}

		collector := NewCollector()
		var sink Sink = collector
		if emit != nil {
			sink = WithProgress(collector, emit)
		}

		stats, err := Walk(ctx, ad, pc, s.budget, s.cfg.WalkOptions(windowDays), sink, s.logger)

		summary.Providers[ad.Name()] = ProviderStats{
			Requests: stats.Requests,
			Results:  stats.Results,
		}
		summary.Requested += stats.Results

		if err != nil {
			if ctx.Err() != nil {
				summary.recordError(err)
				break
			}
			summary.recordError(err)
		}

		// Partial pages gathered before an error still feed the merge.
		byProvider[ad.Name()] = collector.Articles
	}

	merged := Merge(byProvider, s.cfg.ProviderOrder)
	if s.cfg.PrefilterEnabled {
		merged = Prefilter(merged, s.cfg.PrefilterKeywords)
	}
	summary.Normalized = len(merged)

	if !dryRun && len(merged) > 0 {
		if err := s.persister.PersistArticles(ctx, slug, merged, summary); err != nil {
			summary.recordError(err)
		}
	}

	summary.finalize()

	if !dryRun {
		if err := s.persister.PersistSummary(ctx, summary); err != nil {
			summary.recordError(err)
			s.logger.Error("run summary persistence failed", "slug", slug, "run_id", summary.RunID, "error", err)
		}
	}

	s.logger.Info("ingestion run complete",
		"slug", slug,
		"run_id", summary.RunID,
		"normalized", summary.Normalized,
		"new_saved", summary.NewSaved,
		"dup_skipped", summary.DupSkipped,
		"errors", len(summary.Errors),
		"dry_run", dryRun,
	)

	return summary, nil
}

func (s *system) resolveSlugs(req BatchRequest) ([]string, error) {
	if len(req.Slugs) > 0 && req.Cohort != "" {
		return nil, fmt.Errorf("%w: slugs and cohort are mutually exclusive", ErrInvalidRequest)
	}

	if req.Cohort != "" {
		slugs, ok := s.roster.Cohort(req.Cohort)
		if !ok {
			return nil, fmt.Errorf("%q: %w", req.Cohort, ErrUnknownCohort)
		}
		return slugs, nil
	}

	if len(req.Slugs) > 0 {
		for _, slug := range req.Slugs {
			if _, ok := s.roster.Find(slug); !ok {
				return nil, fmt.Errorf("%q: %w", slug, ErrUnknownSlug)
			}
		}
		return req.Slugs, nil
	}

	return s.roster.Slugs(), nil
}
