package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config is the complete application configuration. It is loaded once at process
// start and handed to components explicitly; nothing reads provider secrets from
// the ambient environment at call time.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Store     StoreConfig     `mapstructure:"store"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Audit     AuditConfig     `mapstructure:"audit"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// AuthToken, when set, requires callers to present it as a bearer token.
	AuthToken string `mapstructure:"auth_token"`
}

// StoreConfig contains database configuration for libsql.
type StoreConfig struct {
	Driver    string `mapstructure:"driver"`
	Path      string `mapstructure:"path"`
	URL       string `mapstructure:"url"`
	AuthToken string `mapstructure:"auth_token"`
}

// ProvidersConfig holds credentials and endpoints for the external providers.
type ProvidersConfig struct {
	OpenAI     OpenAIConfig     `mapstructure:"openai"`
	SerpAPI    SerpAPIConfig    `mapstructure:"serpapi"`
	Perplexity PerplexityConfig `mapstructure:"perplexity"`
}

// OpenAIConfig configures the completion driver used by the query generator,
// the audit analyzer, and the chat endpoint.
type OpenAIConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SerpAPIConfig configures the web-search adapter.
type SerpAPIConfig struct {
	APIKey         string        `mapstructure:"api_key"`
	BaseURL        string        `mapstructure:"base_url"`
	ResolveTimeout time.Duration `mapstructure:"resolve_timeout"`
}

// PerplexityConfig configures the LLM-search adapter.
type PerplexityConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// AuditConfig configures the audit pipeline.
type AuditConfig struct {
	UserAgent    string        `mapstructure:"user_agent"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Validate checks the configuration needed to serve requests. Provider keys are
// validated here, at startup, so a missing secret fails boot instead of turning
// into a per-request 500.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	var missing []string
	if strings.TrimSpace(c.Providers.OpenAI.APIKey) == "" {
		missing = append(missing, "providers.openai.api_key")
	}
	if strings.TrimSpace(c.Providers.SerpAPI.APIKey) == "" {
		missing = append(missing, "providers.serpapi.api_key")
	}
	if strings.TrimSpace(c.Providers.Perplexity.APIKey) == "" {
		missing = append(missing, "providers.perplexity.api_key")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	return nil
}
