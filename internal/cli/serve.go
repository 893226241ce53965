package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/factify/factify/internal/aggregate"
	"github.com/factify/factify/internal/cache"
	"github.com/factify/factify/internal/evidence"
	"github.com/factify/factify/internal/logger"
	"github.com/factify/factify/internal/ratelimit"
	"github.com/factify/factify/internal/server"
	"github.com/factify/factify/internal/sources"
)

// serveCmd starts the HTTP service
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the fact-check HTTP service",
	Long: `Start the Factify HTTP service.

Exposes POST /fact-check, GET /sources and GET /health. Configure
credentials via OPENAI_API_KEY and GOOGLE_FACT_CHECK_API_KEY; the
fact-check adapter is skipped when its key is absent, the service
refuses to start with no evidence source at all.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	serveCmd.Flags().String("bind", "", "listen address (overrides config)")
	_ = viper.BindPFlag("server.bind_addr", serveCmd.Flags().Lookup("bind"))

	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	log := logger.New("factify")
	cfg := loadConfig()

	registry := evidence.NewAdapterRegistry(cfg)
	if registry.Len() == 0 {
		return fmt.Errorf("no evidence adapters configured: set OPENAI_API_KEY (and optionally GOOGLE_FACT_CHECK_API_KEY)")
	}
	for _, adapter := range registry.Adapters() {
		log.Info("adapter configured", slog.String("adapter", adapter.Name()))
	}

	sourceRegistry := sources.NewRegistry()
	aggregator := aggregate.New(registry.Adapters(), sourceRegistry, cfg.Adapters.Timeout, log)
	limiter := ratelimit.NewStore(cfg.RateLimit.Limit, cfg.RateLimit.Window)

	var verdicts cache.VerdictCache
	if cfg.Cache.Enabled {
		verdicts = cache.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.CleanupInterval)
	}

	srv := server.New(log, cfg, aggregator, limiter, sourceRegistry, verdicts)
	httpServer := srv.HTTPServer()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Drop elapsed rate-limit windows so per-client state stays bounded
	go func() {
		ticker := time.NewTicker(cfg.RateLimit.Window)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				limiter.Prune()
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", slog.String("addr", cfg.Server.BindAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
