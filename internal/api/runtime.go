package api

import (
	"github.com/jlambert/stancewatch/internal/config"
	"github.com/jlambert/stancewatch/internal/infrastructure"
)

// Runtime extends Infrastructure with API-scoped configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Config *config.Config
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Storage:   infra.Storage,
			Budget:    infra.Budget,
			Roster:    infra.Roster,
		},
		Config: cfg,
	}
}
