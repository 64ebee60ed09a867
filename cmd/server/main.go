// Package main is the entrypoint for the tdg API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/masseyis/tdg/internal/api"
	"github.com/masseyis/tdg/internal/api/handler"
	mw "github.com/masseyis/tdg/internal/api/middleware"
	"github.com/masseyis/tdg/internal/cache"
	"github.com/masseyis/tdg/internal/config"
	"github.com/masseyis/tdg/internal/enhance"
	"github.com/masseyis/tdg/internal/foundation"
	"github.com/masseyis/tdg/internal/generation"
	"github.com/masseyis/tdg/internal/pipeline"
	"github.com/masseyis/tdg/internal/progress"
	"github.com/masseyis/tdg/internal/report"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config — fail fast on invalid config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "ai_provider", cfg.AI.Provider, "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Error reporting
	reporter, err := newReporter(cfg.Sentry, cfg.Server.Env)
	if err != nil {
		return fmt.Errorf("init error reporting: %w", err)
	}

	// 3. Redis cache, if configured
	var cacheStore cache.Cache
	if cfg.Redis.URL != "" {
		redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("create redis cache: %w", err)
		}
		defer redisCache.Close()

		if err := redisCache.Ping(ctx); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		cacheStore = redisCache
		slog.Info("redis connected")
	} else {
		slog.Info("redis not configured, rate limiting and enhancement cache disabled")
	}

	// 4. Enhancement provider and client
	provider, err := enhance.NewProvider(cfg.AI)
	if err != nil {
		return fmt.Errorf("create enhancement provider: %w", err)
	}
	slog.Info("enhancement provider initialized", "provider", provider.Name())

	enhanceClient := enhance.NewClient(provider, cfg.AI, cacheStore)

	// 5. Generation service
	pipe := pipeline.New(foundation.NewGenerator(cfg.Generation.MaxCases), enhanceClient, reporter, slog.Default())
	svc := generation.NewService(cfg.Generation, pipe, progress.NewBroker(), reporter, slog.Default())
	svc.Start(ctx)

	// 6. Build router with dependencies
	deps := api.Dependencies{
		RateLimit: mw.NewRateLimit(cacheStore, cfg.RateLimit.PerMinute),

		HealthHandler:   handler.NewHealthHandler(cacheStore),
		GenerateHandler: handler.NewGenerateHandler(svc),
		EventsHandler:   handler.NewEventsHandler(svc),
		ResultHandler:   handler.NewResultHandler(svc),
		CancelHandler:   handler.NewCancelHandler(svc),
		ArtifactHandler: handler.NewArtifactHandler(svc),
		StatsHandler:    handler.NewStatsHandler(svc),
	}

	router := api.NewRouter(deps)

	// 7. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:        addr,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// Event streams hold the response open for the life of a job, so
		// there is no global write deadline.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	if err := svc.Shutdown(shutdownCtx); err != nil {
		slog.Warn("generation service drained with error", "error", err)
	}
	reporter.Flush(2 * time.Second)

	slog.Info("server stopped gracefully")
	return nil
}

// newReporter returns the Sentry reporter when a DSN is configured and a
// no-op otherwise.
func newReporter(cfg config.SentryConfig, env string) (report.Reporter, error) {
	if cfg.DSN == "" {
		return report.Nop{}, nil
	}
	return report.NewSentry(cfg.DSN, env)
}
