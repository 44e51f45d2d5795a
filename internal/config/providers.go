package config

import "os"

const (
	EnvNewsAPIKey = "STANCEWATCH_NEWSAPI_KEY"
	EnvGNewsKey   = "STANCEWATCH_GNEWS_KEY"
	EnvSerperKey  = "STANCEWATCH_SERPER_KEY"
)

// ProvidersConfig holds search provider credentials. A missing credential
// disables the corresponding adapter; it is never an error here — the
// component that needs a provider decides whether its absence is fatal.
type ProvidersConfig struct {
	NewsAPIKey string `toml:"newsapi_key"`
	GNewsKey   string `toml:"gnews_key"`
	SerperKey  string `toml:"serper_key"`
}

// Finalize applies environment variable overrides. Credentials have no
// defaults and no validation.
func (c *ProvidersConfig) Finalize() error {
	if v := os.Getenv(EnvNewsAPIKey); v != "" {
		c.NewsAPIKey = v
	}
	if v := os.Getenv(EnvGNewsKey); v != "" {
		c.GNewsKey = v
	}
	if v := os.Getenv(EnvSerperKey); v != "" {
		c.SerperKey = v
	}
	return nil
}

// Merge overwrites non-empty fields from overlay.
func (c *ProvidersConfig) Merge(overlay *ProvidersConfig) {
	if overlay.NewsAPIKey != "" {
		c.NewsAPIKey = overlay.NewsAPIKey
	}
	if overlay.GNewsKey != "" {
		c.GNewsKey = overlay.GNewsKey
	}
	if overlay.SerperKey != "" {
		c.SerperKey = overlay.SerperKey
	}
}
