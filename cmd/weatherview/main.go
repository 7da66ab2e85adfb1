package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	httpadapter "github.com/couchcryptid/weather-view-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/weather-view-service/internal/adapter/kafka"
	"github.com/couchcryptid/weather-view-service/internal/adapter/weatherapi"
	"github.com/couchcryptid/weather-view-service/internal/config"
	"github.com/couchcryptid/weather-view-service/internal/events"
	"github.com/couchcryptid/weather-view-service/internal/locationmap"
	"github.com/couchcryptid/weather-view-service/internal/observability"
	"github.com/couchcryptid/weather-view-service/internal/view"
	"github.com/jonboulle/clockwork"
)

// recorder is what views report completed lookups to and what /readyz checks.
type recorder interface {
	view.Recorder
	sharedobs.ReadinessChecker
}

// newLogger builds the shared structured logger tagged with the service name
// and installs it as the slog default.
func newLogger(cfg *config.Config) *slog.Logger {
	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat).With("service", "weather-view")
	slog.SetDefault(logger)
	return logger
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	metrics := observability.NewMetrics()

	provider := weatherapi.NewClient(cfg.WeatherAPIKey, cfg.WeatherAPIURL, cfg.WeatherAPITimeout, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Lookup event publishing is feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS.
	var (
		rec       recorder = events.Disabled{}
		writer    *kafkaadapter.Writer
		published = make(chan struct{})
	)
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		pub := events.NewPublisher(writer, events.Options{
			BatchSize:     cfg.BatchSize,
			FlushInterval: cfg.BatchFlushInterval,
			Logger:        logger,
			Metrics:       metrics,
		})
		rec = pub
		go func() {
			defer close(published)
			if err := pub.Run(ctx); err != nil {
				logger.Error("lookup event publisher error", "error", err)
			}
		}()
		logger.Info("lookup event publishing enabled", "topic", cfg.KafkaLookupTopic, "brokers", cfg.KafkaBrokers)
	} else {
		close(published)
		logger.Info("lookup event publishing disabled")
	}

	clock := clockwork.NewRealClock()
	newView := func(sessionID string) *view.View {
		return view.New(provider, view.Options{
			Session:     sessionID,
			DefaultCity: cfg.DefaultCity,
			MountDelay:  cfg.MountDelay,
			Clock:       clock,
			Recorder:    rec,
			Metrics:     metrics,
			Logger:      logger,
		})
	}
	sessions := httpadapter.NewSessions(cfg.SessionCacheSize, newView, cfg.GeolocationTimeout, metrics, logger)
	mapOpts := locationmap.Options{TileURL: cfg.MapTileURL, Zoom: cfg.MapZoom}
	ui := httpadapter.NewUI(sessions, mapOpts, logger)

	srv := httpadapter.NewServer(cfg.HTTPAddr, rec, ui, logger)

	// Start HTTP server.
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
	sessions.Close()

	select {
	case <-published:
	case <-shutdownCtx.Done():
		logger.Warn("lookup event publisher did not drain before shutdown timeout")
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
