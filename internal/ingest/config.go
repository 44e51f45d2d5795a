package ingest

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds ingestion pipeline tuning.
type Config struct {
	WindowDays        int      `toml:"window_days"`
	MaxPages          int      `toml:"max_pages"`
	BaseDelay         string   `toml:"base_delay"`
	MaxJitter         string   `toml:"max_jitter"`
	BackoffBase       string   `toml:"backoff_base"`
	BackoffMax        string   `toml:"backoff_max"`
	Concurrency       int      `toml:"concurrency"`
	ProviderOrder     []string `toml:"provider_order"`
	PrefilterEnabled  bool     `toml:"prefilter_enabled"`
	PrefilterKeywords []string `toml:"prefilter_keywords"`
	WriteAttempts     int      `toml:"write_attempts"`
	WriteDelay        string   `toml:"write_delay"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	WindowDays  string
	Concurrency string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.WindowDays != 0 {
		c.WindowDays = overlay.WindowDays
	}
	if overlay.MaxPages != 0 {
		c.MaxPages = overlay.MaxPages
	}
	if overlay.BaseDelay != "" {
		c.BaseDelay = overlay.BaseDelay
	}
	if overlay.MaxJitter != "" {
		c.MaxJitter = overlay.MaxJitter
	}
	if overlay.BackoffBase != "" {
		c.BackoffBase = overlay.BackoffBase
	}
	if overlay.BackoffMax != "" {
		c.BackoffMax = overlay.BackoffMax
	}
	if overlay.Concurrency != 0 {
		c.Concurrency = overlay.Concurrency
	}
	if overlay.ProviderOrder != nil {
		c.ProviderOrder = overlay.ProviderOrder
	}
	c.PrefilterEnabled = overlay.PrefilterEnabled
	if overlay.PrefilterKeywords != nil {
		c.PrefilterKeywords = overlay.PrefilterKeywords
	}
	if overlay.WriteAttempts != 0 {
		c.WriteAttempts = overlay.WriteAttempts
	}
	if overlay.WriteDelay != "" {
		c.WriteDelay = overlay.WriteDelay
	}
}

// WalkOptions builds the pagination options from the finalized config.
func (c *Config) WalkOptions(windowDays int) WalkOptions {
	if windowDays <= 0 {
		windowDays = c.WindowDays
	}
	return WalkOptions{
		WindowDays:  windowDays,
		MaxPages:    c.MaxPages,
		BaseDelay:   c.duration(c.BaseDelay),
		MaxJitter:   c.duration(c.MaxJitter),
		BackoffBase: c.duration(c.BackoffBase),
		BackoffMax:  c.duration(c.BackoffMax),
	}
}

// WriteDelayDuration returns WriteDelay as a time.Duration.
func (c *Config) WriteDelayDuration() time.Duration {
	return c.duration(c.WriteDelay)
}

func (c *Config) duration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}

func (c *Config) loadDefaults() {
	if c.WindowDays == 0 {
		c.WindowDays = 365
	}
	if c.MaxPages == 0 {
		c.MaxPages = 200
	}
	if c.BaseDelay == "" {
		c.BaseDelay = "1s"
	}
	if c.MaxJitter == "" {
		c.MaxJitter = "1s"
	}
	if c.BackoffBase == "" {
		c.BackoffBase = "2s"
	}
	if c.BackoffMax == "" {
		c.BackoffMax = "20s"
	}
	if c.Concurrency == 0 {
		c.Concurrency = 5
	}
	if len(c.ProviderOrder) == 0 {
		c.ProviderOrder = []string{"newsapi", "gnews", "serper"}
	}
	if c.WriteAttempts == 0 {
		c.WriteAttempts = 3
	}
	if c.WriteDelay == "" {
		c.WriteDelay = "500ms"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.WindowDays != "" {
		if v := os.Getenv(env.WindowDays); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				c.WindowDays = n
			}
		}
	}
	if env.Concurrency != "" {
		if v := os.Getenv(env.Concurrency); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				c.Concurrency = n
			}
		}
	}
}

func (c *Config) validate() error {
	if c.WindowDays < 1 {
		return fmt.Errorf("window_days must be positive")
	}
	if c.MaxPages < 1 {
		return fmt.Errorf("max_pages must be positive")
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be positive")
	}
	for _, field := range []struct{ name, value string }{
		{"base_delay", c.BaseDelay},
		{"max_jitter", c.MaxJitter},
		{"backoff_base", c.BackoffBase},
		{"backoff_max", c.BackoffMax},
		{"write_delay", c.WriteDelay},
	} {
		if _, err := time.ParseDuration(field.value); err != nil {
			return fmt.Errorf("invalid %s: %w", field.name, err)
		}
	}
	return nil
}
