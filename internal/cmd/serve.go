package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/geolens/geolens/internal/observability"
	"github.com/geolens/geolens/internal/server"
	"github.com/geolens/geolens/internal/server/handlers"
)

var (
	serverPort int
	serverHost string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server with graceful shutdown support.

Provider API keys are validated at startup; a missing key fails boot instead
of surfacing as per-request errors. The server cleanly shuts down and flushes
logs on SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		observability.InitServerLogger("geolens", cfg.Logging.Level)
		logger := observability.ServerLogger

		ctx := cmd.Context()
		st, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close() // nolint:errcheck // best-effort cleanup on shutdown

		comps, err := buildComponents(cfg)
		if err != nil {
			return err
		}

		logger.Info("Initializing server",
			zap.String("version", versionInfo.Version),
			zap.String("host", cfg.Server.Host),
			zap.Int("port", cfg.Server.Port))

		srv := server.New(cfg.Server.Host, cfg.Server.Port, server.Deps{
			Pipeline:   comps.Pipeline(st),
			Audits:     st,
			Generator:  comps.Generator,
			Serp:       comps.Serp,
			Perplexity: comps.Perplexity,
			Chat:       comps.Driver,
			Registry:   comps.Registry,
			ChatModel:  cfg.Providers.OpenAI.Model,
			AuthToken:  cfg.Server.AuthToken,
			Version:    versionInfo.Version,
			Checkers: map[string]handlers.HealthChecker{
				"store": st,
			},
		})

		shutdownTimeout := cfg.Server.ShutdownTimeout
		if shutdownTimeout == 0 {
			shutdownTimeout = 10 * time.Second
		}

		errChan := make(chan error, 1)
		go func() {
			if err := srv.Start(); err != nil && err != http.ErrServerClosed {
				errChan <- err
			}
		}()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errChan:
			return err
		case sig := <-stop:
			logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown failed", zap.Error(err))
			return err
		}

		logger.Info("HTTP server stopped gracefully")
		_ = logger.Sync()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverHost, "host", "localhost", "server host")
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "server port")

	_ = viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}
