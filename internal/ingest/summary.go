package ingest

import (
	"time"

	"github.com/google/uuid"
)

// ProviderStats counts one provider's activity within a run.
type ProviderStats struct {
	Requests int `json:"requests"`
	Results  int `json:"results"`
}

// RunSummary captures the outcome of one ingestion run for one person.
// It is created at run start, finalized at run end, and persisted once.
type RunSummary struct {
	RunID      string                   `json:"run_id"`
	Slug       string                   `json:"slug"`
	WindowDays int                      `json:"window_days"`
	StartedAt  time.Time                `json:"started_at"`
	FinishedAt time.Time                `json:"finished_at"`
	Requested  int                      `json:"requested"`
	Normalized int                      `json:"normalized"`
	NewSaved   int                      `json:"new_saved"`
	DupSkipped int                      `json:"dup_skipped"`
	Providers  map[string]ProviderStats `json:"providers"`
	Errors     []string                 `json:"errors,omitempty"`
}

func newRunSummary(slug string, windowDays int) *RunSummary {
	return &RunSummary{
		RunID:      uuid.NewString(),
		Slug:       slug,
		WindowDays: windowDays,
		StartedAt:  time.Now().UTC(),
		Providers:  make(map[string]ProviderStats),
	}
}

func (s *RunSummary) finalize() {
	s.FinishedAt = time.Now().UTC()
}

func (s *RunSummary) recordError(err error) {
	s.Errors = append(s.Errors, err.Error())
}

// BatchRequest describes a multi-person ingestion request. Either Slugs or
// Cohort selects the persons; an empty request covers the whole roster.
type BatchRequest struct {
	Slugs       []string `json:"slugs,omitempty"`
	Cohort      string   `json:"cohort,omitempty"`
	WindowDays  int      `json:"window_days,omitempty"`
	Concurrency int      `json:"concurrency,omitempty"`
	DryRun      bool     `json:"dry_run,omitempty"`
}

// BatchResult aggregates the per-person outcomes of a batch run. Per-person
// failures are recorded, never propagated: one person failing does not abort
// siblings.
type BatchResult struct {
	StartedAt  time.Time              `json:"started_at"`
	FinishedAt time.Time              `json:"finished_at"`
	DryRun     bool                   `json:"dry_run"`
	Summaries  map[string]*RunSummary `json:"summaries"`
	Failures   map[string]string      `json:"failures,omitempty"`
}
