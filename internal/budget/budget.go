// Package budget tracks per-provider daily call allowances with a scheduled
// UTC-midnight reset.
package budget

import (
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jlambert/stancewatch/pkg/lifecycle"
)

// Usage is a point-in-time view of one provider's consumed allowance.
type Usage struct {
	Used int `json:"used"`
	Cap  int `json:"cap"`
}

// Manager gates provider calls against per-provider daily caps. Counters are
// shared across all concurrent ingestion workers and protected by a mutex.
type Manager struct {
	cfg    *Config
	logger *slog.Logger
	cron   *cron.Cron

	mu     sync.Mutex
	used   map[string]int
	warned map[string]bool
}

// New creates a budget Manager with zeroed counters.
func New(cfg *Config, logger *slog.Logger) *Manager {
	return &Manager{
		cfg:    cfg,
		logger: logger.With("system", "budget"),
		cron:   cron.New(cron.WithLocation(time.UTC)),
		used:   make(map[string]int),
		warned: make(map[string]bool),
	}
}

// Start schedules the UTC-midnight counter reset and registers cron shutdown
// on the lifecycle coordinator. The reset loop runs for the process lifetime.
func (m *Manager) Start(lc *lifecycle.Coordinator) error {
	if _, err := m.cron.AddFunc("0 0 * * *", m.Reset); err != nil {
		return err
	}
	m.cron.Start()
	m.logger.Info("budget reset scheduled", "schedule", "daily at 00:00 UTC")

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		m.cron.Stop()
	})

	return nil
}

// Allow reports whether the provider has remaining allowance. It warns once
// per day when usage crosses 80% of the cap.
func (m *Manager) Allow(provider string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	used := m.used[provider]
	cap := m.cfg.Cap(provider)

	if !m.warned[provider] && used*5 >= cap*4 {
		m.warned[provider] = true
		m.logger.Warn("provider budget above 80%", "provider", provider, "used", used, "cap", cap)
	}

	return used < cap
}

// Record consumes one unit of the provider's allowance. Call it only after a
// provider call that yielded at least one normalized result.
func (m *Manager) Record(provider string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.used[provider]++
}

// Reset zeroes all counters. Reset is monotonic: it only zeroes, so an
// in-flight Record can never drive a counter negative.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.used)
	clear(m.warned)
	m.logger.Info("budget counters reset")
}

// Snapshot returns the current usage for every provider with a configured or
// consumed allowance.
func (m *Manager) Snapshot() map[string]Usage {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]Usage)
	for provider := range m.cfg.Caps {
		out[provider] = Usage{Used: m.used[provider], Cap: m.cfg.Cap(provider)}
	}
	for provider, used := range m.used {
		out[provider] = Usage{Used: used, Cap: m.cfg.Cap(provider)}
	}
	return out
}
