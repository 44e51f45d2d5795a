package config

import (
	"fmt"
	"strings"

	"github.com/jlambert/stancewatch/pkg/middleware"
)

// APIConfig holds API module parameters.
type APIConfig struct {
	BasePath string                `toml:"base_path"`
	CORS     middleware.CORSConfig `toml:"cors"`
}

// Finalize applies defaults and validation.
func (c *APIConfig) Finalize() error {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if !strings.HasPrefix(c.BasePath, "/") {
		return fmt.Errorf("base_path must start with /: %s", c.BasePath)
	}
	return c.CORS.Finalize()
}

// Merge overwrites non-zero fields from overlay.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	c.CORS.Merge(&overlay.CORS)
}
