package budget

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds per-provider daily call caps.
type Config struct {
	DefaultCap int            `toml:"default_cap"`
	Caps       map[string]int `toml:"caps"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	DefaultCap string
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
	if overlay.DefaultCap != 0 {
		c.DefaultCap = overlay.DefaultCap
	}
	if overlay.Caps != nil {
		c.Caps = overlay.Caps
	}
}

// Cap returns the configured cap for a provider, falling back to the default.
func (c *Config) Cap(provider string) int {
	if cap, ok := c.Caps[provider]; ok {
		return cap
	}
	return c.DefaultCap
}

func (c *Config) loadDefaults() {
	if c.DefaultCap == 0 {
		c.DefaultCap = 1000
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.DefaultCap != "" {
		if v := os.Getenv(env.DefaultCap); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				c.DefaultCap = n
			}
		}
	}
}

func (c *Config) validate() error {
	if c.DefaultCap < 1 {
		return fmt.Errorf("default_cap must be positive")
	}
	for provider, cap := range c.Caps {
		if cap < 1 {
			return fmt.Errorf("cap for %s must be positive", provider)
		}
	}
	return nil
}
