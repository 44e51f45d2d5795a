package screening

import (
	"fmt"
	"os"
	"time"
)

// Config holds screening pipeline parameters.
type Config struct {
	Endpoint       string `toml:"endpoint"`
	Timeout        string `toml:"timeout"`
	RetryAttempts  int    `toml:"retry_attempts"`
	RetryDelay     string `toml:"retry_delay"`
	StatusInterval int    `toml:"status_interval"`
	ResultsKey     string `toml:"results_key"`
	RecordsKey     string `toml:"records_key"`
	StatusKey      string `toml:"status_key"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Endpoint string
	Timeout  string
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
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.RetryAttempts != 0 {
		c.RetryAttempts = overlay.RetryAttempts
	}
	if overlay.RetryDelay != "" {
		c.RetryDelay = overlay.RetryDelay
	}
	if overlay.StatusInterval != 0 {
		c.StatusInterval = overlay.StatusInterval
	}
	if overlay.ResultsKey != "" {
		c.ResultsKey = overlay.ResultsKey
	}
	if overlay.RecordsKey != "" {
		c.RecordsKey = overlay.RecordsKey
	}
	if overlay.StatusKey != "" {
		c.StatusKey = overlay.StatusKey
	}
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// RetryDelayDuration returns RetryDelay as a time.Duration.
func (c *Config) RetryDelayDuration() time.Duration {
	d, _ := time.ParseDuration(c.RetryDelay)
	return d
}

func (c *Config) loadDefaults() {
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
	if c.RetryAttempts == 0 {
		c.RetryAttempts = 2
	}
	if c.RetryDelay == "" {
		c.RetryDelay = "2s"
	}
	if c.StatusInterval == 0 {
		c.StatusInterval = 25
	}
	if c.ResultsKey == "" {
		c.ResultsKey = "screening/results.jsonl"
	}
	if c.RecordsKey == "" {
		c.RecordsKey = "screening/results.csv"
	}
	if c.StatusKey == "" {
		c.StatusKey = "screening/status.json"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Endpoint != "" {
		if v := os.Getenv(env.Endpoint); v != "" {
			c.Endpoint = v
		}
	}
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			if _, err := time.ParseDuration(v); err == nil {
				c.Timeout = v
			}
		}
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.RetryDelay); err != nil {
		return fmt.Errorf("invalid retry_delay: %w", err)
	}
	if c.RetryAttempts < 0 {
		return fmt.Errorf("retry_attempts cannot be negative: %d", c.RetryAttempts)
	}
	if c.StatusInterval < 1 {
		return fmt.Errorf("status_interval must be positive")
	}
	return nil
}
