// Package infrastructure provides core service initialization for application startup.
// It assembles the common dependencies (logging, storage, budget, roster) that
// domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jlambert/stancewatch/internal/budget"
	"github.com/jlambert/stancewatch/internal/config"
	"github.com/jlambert/stancewatch/internal/roster"
	"github.com/jlambert/stancewatch/pkg/lifecycle"
	"github.com/jlambert/stancewatch/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Storage   storage.System
	Budget    *budget.Manager
	Roster    *roster.Roster
}

// New creates an Infrastructure from the application configuration. The
// roster is loaded here: its absence is fatal at startup because every
// ingestion and screening component depends on it.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	r, err := roster.Load(cfg.RosterPath)
	if err != nil {
		return nil, fmt.Errorf("roster load failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Storage:   store,
		Budget:    budget.New(&cfg.Budget, logger),
		Roster:    r,
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	if err := i.Budget.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("budget start failed: %w", err)
	}
	return nil
}
