// Package config loads and finalizes the root service configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/jlambert/stancewatch/internal/budget"
	"github.com/jlambert/stancewatch/internal/ingest"
	"github.com/jlambert/stancewatch/internal/screening"
	"github.com/jlambert/stancewatch/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvStancewatchEnv             = "STANCEWATCH_ENV"
	EnvStancewatchShutdownTimeout = "STANCEWATCH_SHUTDOWN_TIMEOUT"
	EnvStancewatchVersion         = "STANCEWATCH_VERSION"
	EnvStancewatchRosterPath      = "STANCEWATCH_ROSTER_PATH"
)

var storageEnv = &storage.Env{
	ContainerName:    "STANCEWATCH_STORAGE_CONTAINER_NAME",
	ConnectionString: "STANCEWATCH_STORAGE_CONNECTION_STRING",
}

var budgetEnv = &budget.Env{
	DefaultCap: "STANCEWATCH_BUDGET_DEFAULT_CAP",
}

var ingestEnv = &ingest.Env{
	WindowDays:  "STANCEWATCH_INGEST_WINDOW_DAYS",
	Concurrency: "STANCEWATCH_INGEST_CONCURRENCY",
}

var screeningEnv = &screening.Env{
	Endpoint: "STANCEWATCH_SCREENING_ENDPOINT",
	Timeout:  "STANCEWATCH_SCREENING_TIMEOUT",
}

// Config is the root configuration for the stancewatch service.
type Config struct {
	Server          ServerConfig     `toml:"server"`
	Storage         storage.Config   `toml:"storage"`
	Providers       ProvidersConfig  `toml:"providers"`
	Budget          budget.Config    `toml:"budget"`
	Ingest          ingest.Config    `toml:"ingest"`
	Screening       screening.Config `toml:"screening"`
	API             APIConfig        `toml:"api"`
	RosterPath      string           `toml:"roster_path"`
	ShutdownTimeout string           `toml:"shutdown_timeout"`
	Version         string           `toml:"version"`
}

// Env returns the STANCEWATCH_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvStancewatchEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.RosterPath != "" {
		c.RosterPath = overlay.RosterPath
	}
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Storage.Merge(&overlay.Storage)
	c.Providers.Merge(&overlay.Providers)
	c.Budget.Merge(&overlay.Budget)
	c.Ingest.Merge(&overlay.Ingest)
	c.Screening.Merge(&overlay.Screening)
	c.API.Merge(&overlay.API)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Providers.Finalize(); err != nil {
		return fmt.Errorf("providers: %w", err)
	}
	if err := c.Budget.Finalize(budgetEnv); err != nil {
		return fmt.Errorf("budget: %w", err)
	}
	if err := c.Ingest.Finalize(ingestEnv); err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	if err := c.Screening.Finalize(screeningEnv); err != nil {
		return fmt.Errorf("screening: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.RosterPath == "" {
		c.RosterPath = "roster.json"
	}
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvStancewatchRosterPath); v != "" {
		c.RosterPath = v
	}
	if v := os.Getenv(EnvStancewatchShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvStancewatchVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvStancewatchEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
