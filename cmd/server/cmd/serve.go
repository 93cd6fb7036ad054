package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/tickethub/server/internal/api"
	"github.com/tickethub/server/internal/config"
	"github.com/tickethub/server/internal/metrics"
	"github.com/tickethub/server/internal/storage/postgres"
	"github.com/tickethub/server/internal/telemetry"
)

var (
	// Server flags (override config/env)
	serverHost string
	serverPort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the TicketHub HTTP server",
	Long: `Start the TicketHub HTTP server and begin accepting API requests.

The server will:
- Load configuration from environment variables (or --config file if provided)
- Optionally truncate all tables when SESSION_RESET_ON_START is set
- Start the HTTP API
- Handle graceful shutdown on SIGINT/SIGTERM

Examples:
  # Start with default configuration (from env vars)
  server serve

  # Start on a specific host and port
  server serve --host 127.0.0.1 --port 9090

  # Start with debug logging
  server serve --log-level debug

  # Start with custom config file
  server serve --config /etc/tickethub/config.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host address (default: 0.0.0.0)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (default: 8080)")
}

func runServer() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if serverHost != "" {
		cfg.Server.Host = serverHost
	}
	if serverPort != 0 {
		cfg.Server.Port = serverPort
	}

	logger := config.NewLogger(cfg.Logging)
	logger.Info().Msg("starting TicketHub server")

	metrics.Init(Version, GitCommit, BuildDate)

	shutdownTracing, err := telemetry.InitTracing(context.Background(), cfg.Tracing, Version)
	if err != nil {
		return fmt.Errorf("tracing init failed: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Error().Err(err).Msg("tracing shutdown error")
		}
	}()

	poolCtx, poolCancel := context.WithTimeout(context.Background(), 10*time.Second)
	pool, err := postgres.NewPool(poolCtx, cfg.Database)
	poolCancel()
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer pool.Close()

	if cfg.Session.ResetOnStart {
		resetCtx, resetCancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := postgres.ResetSession(resetCtx, pool)
		resetCancel()
		if err != nil {
			return fmt.Errorf("session reset failed: %w", err)
		}
		metrics.SessionResetsTotal.Inc()
		logger.Warn().Msg("session reset: all tables truncated")
	}

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           api.NewRouter(cfg, logger, pool),
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	return gracefulShutdown(server, logger)
}

func gracefulShutdown(server *http.Server, logger zerolog.Logger) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
		return err
	}

	logger.Info().Msg("server stopped")
	return nil
}
