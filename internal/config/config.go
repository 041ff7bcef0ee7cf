// Package config loads process configuration from the environment with
// optional flag overrides. Per-provider credentials are optional; a missing
// key for a provider that requires one is an expected state reported as
// "unconfigured" at dispatch time, never a startup failure.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"

	"github.com/linkmux/linkmux/internal/domain"
)

// Config holds the application configuration.
type Config struct {
	ServerPort    string `env:"PORT" envDefault:"8080"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	HistoryDBPath string `env:"HISTORY_DB_PATH"`

	BitlyToken    string `env:"BITLY_TOKEN"`
	CuttlyAPIKey  string `env:"CUTTLY_API"`
	GPLinksAPIKey string `env:"GPLINKS_API"`

	BitlyEndpoint      string `env:"BITLY_API_URL" envDefault:"https://api-ssl.bitly.com/v4/shorten"`
	BitlyProbeEndpoint string `env:"BITLY_PROBE_URL" envDefault:"https://api-ssl.bitly.com/v4/user"`
	TinyURLEndpoint    string `env:"TINYURL_API_URL" envDefault:"http://tinyurl.com/api-create.php"`
	CuttlyEndpoint     string `env:"CUTTLY_API_URL" envDefault:"https://cutt.ly/api/api.php"`
	GPLinksEndpoint    string `env:"GPLINKS_API_URL" envDefault:"https://gplinks.in/api"`
}

// Load parses the environment into a Config and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// validate validates the configuration values.
func (c *Config) validate() error {
	if c.ServerPort == "" {
		return fmt.Errorf("server port cannot be empty")
	}

	endpoints := map[string]string{
		"bitly endpoint":       c.BitlyEndpoint,
		"bitly probe endpoint": c.BitlyProbeEndpoint,
		"tinyurl endpoint":     c.TinyURLEndpoint,
		"cuttly endpoint":      c.CuttlyEndpoint,
		"gplinks endpoint":     c.GPLinksEndpoint,
	}
	for name, endpoint := range endpoints {
		if endpoint == "" {
			return fmt.Errorf("%s cannot be empty", name)
		}
	}

	return nil
}

// Credential returns the configured credential for a provider. Providers
// that do not require a key return an empty string.
func (c *Config) Credential(provider domain.ProviderID) string {
	switch provider {
	case domain.ProviderBitly:
		return c.BitlyToken
	case domain.ProviderCuttly:
		return c.CuttlyAPIKey
	case domain.ProviderGPLinks:
		return c.GPLinksAPIKey
	default:
		return ""
	}
}

// KeyPreview returns a masked preview of a provider's credential suitable
// for status output. Full credentials are never rendered.
func (c *Config) KeyPreview(provider domain.ProviderID) string {
	if !provider.Info().RequiresKey {
		return "Not required"
	}

	key := c.Credential(provider)
	if key == "" {
		return "Not set"
	}
	if len(key) <= 8 {
		return key + "..."
	}
	return key[:8] + "..."
}
