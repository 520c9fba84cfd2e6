package cmd

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/geolens/geolens/internal/audit"
	"github.com/geolens/geolens/internal/config"
	"github.com/geolens/geolens/internal/llm/openai"
	"github.com/geolens/geolens/internal/llm/prompt"
	"github.com/geolens/geolens/internal/observability"
	"github.com/geolens/geolens/internal/perplexity"
	"github.com/geolens/geolens/internal/queries"
	"github.com/geolens/geolens/internal/serp"
	"github.com/geolens/geolens/internal/store"
)

var (
	cfgFile string
	verbose bool

	// Version info set by main package
	versionInfo struct {
		Version   string
		Commit    string
		BuildDate string
	}
)

// SetVersionInfo is called by main package to set version information
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.BuildDate = buildDate
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "geolens",
	Short: "Local-SEO visibility auditor for business homepages",
	Long: `GeoLens audits business homepages for who/what/where clarity and checks
how the business surfaces in AI-powered search.

Use the subcommands to perform specific operations.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/geolens/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (sets log level to debug)")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	observability.InitCLILogger(verbose)

	// Local development convenience; absence is not an error.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(config.DefaultConfigDir())
		viper.AddConfigPath("./config")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	config.BindEnv()

	if err := viper.ReadInConfig(); err == nil {
		if verbose {
			observability.CLILogger.Debug("Using config file", zap.String("path", viper.ConfigFileUsed()))
		}
	} else if verbose {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			observability.CLILogger.Debug("No config file found, using defaults and environment variables")
		} else {
			observability.CLILogger.Warn("Error reading config file", zap.Error(err))
		}
	}

	config.SetDefaults()
}

// loadConfig decodes the viper state into the typed configuration.
func loadConfig() (*config.Config, error) {
	return config.Load()
}

// openStore opens and migrates the configured store.
func openStore(ctx context.Context, cfg *config.Config) (*store.Store, error) {
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

// buildComponents wires the provider adapters and the audit pipeline from
// configuration.
type components struct {
	Driver     *openai.Client
	Registry   prompt.Registry
	Generator  *queries.Generator
	Serp       *serp.Client
	Perplexity *perplexity.Client
	Pipeline   func(st *store.Store) *audit.Pipeline
}

func buildComponents(cfg *config.Config) (*components, error) {
	registry, err := prompt.DefaultRegistry()
	if err != nil {
		return nil, err
	}

	driver := openai.NewClient(cfg.Providers.OpenAI.BaseURL, cfg.Providers.OpenAI.APIKey)
	driver.Timeout = cfg.Providers.OpenAI.Timeout

	serpClient := serp.NewClient(cfg.Providers.SerpAPI.BaseURL, cfg.Providers.SerpAPI.APIKey)
	if cfg.Providers.SerpAPI.ResolveTimeout > 0 {
		serpClient.ResolveTimeout = cfg.Providers.SerpAPI.ResolveTimeout
	}

	pplxClient := perplexity.NewClient(cfg.Providers.Perplexity.BaseURL,
		cfg.Providers.Perplexity.APIKey, cfg.Providers.Perplexity.Model)

	return &components{
		Driver:   driver,
		Registry: registry,
		Generator: &queries.Generator{
			Driver:   driver,
			Registry: registry,
			Model:    cfg.Providers.OpenAI.Model,
		},
		Serp:       serpClient,
		Perplexity: pplxClient,
		Pipeline: func(st *store.Store) *audit.Pipeline {
			return &audit.Pipeline{
				Fetcher:  audit.NewFetcher(cfg.Audit.UserAgent, cfg.Audit.FetchTimeout),
				Analyzer: &audit.Analyzer{Driver: driver, Registry: registry, Model: cfg.Providers.OpenAI.Model},
				Store:    st,
			}
		},
	}, nil
}
