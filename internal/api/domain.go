package api

import (
	"log/slog"

	"github.com/jlambert/stancewatch/internal/ingest"
	"github.com/jlambert/stancewatch/internal/providers"
	"github.com/jlambert/stancewatch/internal/screening"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Ingest    ingest.System
	Screening screening.System
}

// NewDomain creates all domain systems from the API runtime. Provider
// adapters without credentials are constructed disabled; they report
// their state through the status endpoint rather than failing startup.
func NewDomain(runtime *Runtime) *Domain {
	adapters := buildAdapters(runtime, runtime.Logger)

	ingestSystem := ingest.New(
		&runtime.Config.Ingest,
		runtime.Roster,
		adapters,
		runtime.Budget,
		runtime.Storage,
		runtime.Logger,
	)

	screeningSystem := screening.New(
		&runtime.Config.Screening,
		runtime.Storage,
		runtime.Roster,
		runtime.Logger,
	)

	return &Domain{
		Ingest:    ingestSystem,
		Screening: screeningSystem,
	}
}

// buildAdapters assembles provider adapters in the configured priority
// order. Unknown names in the order list are skipped with a warning.
func buildAdapters(runtime *Runtime, logger *slog.Logger) []providers.Adapter {
	keys := runtime.Config.Providers

	available := map[string]providers.Adapter{
		"newsapi": providers.NewNewsAPI(keys.NewsAPIKey, logger),
		"gnews":   providers.NewGNews(keys.GNewsKey, logger),
		"serper":  providers.NewSerper(keys.SerperKey, logger),
	}

	var adapters []providers.Adapter
	for _, name := range runtime.Config.Ingest.ProviderOrder {
		adapter, ok := available[name]
		if !ok {
			logger.Warn("unknown provider in order list", "provider", name)
			continue
		}
		adapters = append(adapters, adapter)
	}

	return adapters
}
