// Command analyzer runs the temperature analytics HTTP service: CSV dataset
// uploads are analyzed in a single batch pass and the results served from
// memory, with optional live-reading classification via OpenWeatherMap.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	httpadapter "github.com/couchcryptid/temperature-analytics/internal/adapter/http"
	"github.com/couchcryptid/temperature-analytics/internal/adapter/openweather"
	"github.com/couchcryptid/temperature-analytics/internal/config"
	"github.com/couchcryptid/temperature-analytics/internal/observability"
	"github.com/couchcryptid/temperature-analytics/internal/pipeline"
	"github.com/couchcryptid/temperature-analytics/internal/store"
)

// maxStoredAnalyses bounds in-memory retention of analyzed datasets.
const maxStoredAnalyses = 16

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	// Live readings are feature-flagged via OPENWEATHER_ENABLED /
	// OPENWEATHER_API_KEY.
	var fetcher pipeline.WeatherFetcher
	if cfg.WeatherEnabled {
		client := openweather.NewClient(cfg.WeatherAPIKey, cfg.WeatherTimeout, metrics, logger)
		fetcher = openweather.NewCachedClient(client, cfg.WeatherCacheSize, cfg.WeatherCacheTTL, clock, metrics)
		metrics.WeatherEnabled.Set(1)
		logger.Info("openweathermap integration enabled",
			"timeout", cfg.WeatherTimeout,
			"cache_size", cfg.WeatherCacheSize,
			"cache_ttl", cfg.WeatherCacheTTL,
		)
	} else {
		logger.Info("openweathermap integration disabled")
	}

	analyzer := pipeline.New(fetcher, logger, metrics, clock)
	analyses := store.NewMemory(maxStoredAnalyses)

	srv := httpadapter.NewServer(cfg.HTTPAddr, analyzer, analyses, metrics, logger, cfg.SmoothingWindow, cfg.MaxUploadBytes)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
