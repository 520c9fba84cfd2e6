package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const envPrefix = "GEOLENS"

// SetDefaults registers default configuration values with viper.
func SetDefaults() {
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")
	viper.SetDefault("server.shutdown_timeout", "10s")
	viper.SetDefault("server.auth_token", "")

	viper.SetDefault("store.driver", "libsql")
	viper.SetDefault("store.path", DefaultStorePath())
	viper.SetDefault("store.url", "")
	viper.SetDefault("store.auth_token", "")

	viper.SetDefault("providers.openai.base_url", "https://api.openai.com/v1")
	viper.SetDefault("providers.openai.model", "gpt-4o")
	viper.SetDefault("providers.openai.timeout", "30s")

	viper.SetDefault("providers.serpapi.base_url", "https://serpapi.com")
	viper.SetDefault("providers.serpapi.resolve_timeout", "15s")

	viper.SetDefault("providers.perplexity.base_url", "https://api.perplexity.ai")
	viper.SetDefault("providers.perplexity.model", "llama-3.1-sonar-small-128k-online")
	viper.SetDefault("providers.perplexity.timeout", "30s")

	viper.SetDefault("audit.user_agent", "Mozilla/5.0 (compatible; GeoLens/1.0)")
	viper.SetDefault("audit.fetch_timeout", "20s")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("metrics.enabled", true)
}

// BindEnv wires environment variables. Besides the GEOLENS_ prefixed overrides,
// the conventional provider variable names are honored so existing deployments
// keep working.
func BindEnv() {
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	_ = viper.BindEnv("providers.openai.api_key", "GEOLENS_OPENAI_API_KEY", "OPENAI_API_KEY")
	_ = viper.BindEnv("providers.serpapi.api_key", "GEOLENS_SERPAPI_API_KEY", "SERPAPI_API_KEY")
	_ = viper.BindEnv("providers.perplexity.api_key", "GEOLENS_PERPLEXITY_API_KEY", "PERPLEXITY_API_KEY")
	_ = viper.BindEnv("server.auth_token", "GEOLENS_AUTH_TOKEN")
	_ = viper.BindEnv("store.path", "GEOLENS_STORE_PATH")
	_ = viper.BindEnv("store.url", "GEOLENS_STORE_URL")
	_ = viper.BindEnv("store.auth_token", "GEOLENS_STORE_AUTH_TOKEN")
}

// Load unmarshals the current viper state into a Config.
func Load() (*Config, error) {
	var cfg Config

	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))

	if err := viper.Unmarshal(&cfg, decodeHook); err != nil {
		return nil, fmt.Errorf("decode configuration: %w", err)
	}

	return &cfg, nil
}

// DefaultConfigDir returns the directory searched for config.yaml.
func DefaultConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, "geolens")
	}
	return "."
}

// DefaultStorePath returns the default libsql database location.
func DefaultStorePath() string {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, "geolens", "geolens.db")
	}
	return filepath.Join(".", "geolens.db")
}
