package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/draftea/order-saga/order-service/config"
	"github.com/draftea/order-saga/order-service/handlers"
	"github.com/draftea/order-saga/shared/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.ReadConfig()
	if err != nil {
		bootstrap := zerolog.New(os.Stderr)
		bootstrap.Fatal().Err(err).Msg("failed to load config")
	}

	logger := telemetry.NewLogger(cfg.ServiceName, cfg.Log.Level, cfg.Log.Format)
	logger.Info().Str("env", cfg.Env).Str("port", cfg.Port).Msg("starting service")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, shutdownTelemetry := setupTelemetry(ctx, cfg, logger)
	defer shutdownTelemetry()
	ctx = telemetry.WithTelemetry(ctx, tel)

	deps, err := config.BuildDependencies(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build dependencies")
	}
	defer func() {
		if err := deps.Close(); err != nil {
			logger.Error().Err(err).Msg("error closing dependencies")
		}
	}()

	if err := deps.SubscribeHandlers(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to subscribe event handlers")
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           setupRouter(tel, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "http server failed")
		}
		return nil
	})

	// Runs interrupted by a previous shutdown or crash
	g.Go(func() error {
		report, err := deps.ResumeIncompleteOrders.Execute(gctx)
		if err != nil {
			logger.Error().Err(err).Msg("startup recovery failed")
			return nil
		}
		logger.Info().Int("resumed", report.Resumed).Msg("startup recovery done")
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("service stopped with error")
		return
	}
	logger.Info().Msg("service stopped")
}

func setupTelemetry(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*telemetry.Telemetry, func()) {
	telCfg := telemetry.OrderServiceConfig.
		WithServiceName(cfg.ServiceName).
		WithOTLPEndpoint(cfg.Telemetry.OTLPEndpoint)

	if !cfg.Telemetry.Enabled {
		return telemetry.NewTelemetry(telCfg), func() {}
	}

	tel, shutdown, err := telemetry.InitTelemetry(ctx, telCfg)
	if err != nil {
		logger.Warn().Err(err).Msg("telemetry disabled")
		return telemetry.NewTelemetry(telCfg), func() {}
	}
	return tel, shutdown
}

func setupRouter(tel *telemetry.Telemetry, deps *config.Dependencies) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(telemetry.Middleware(tel))

	handlers.RegisterOperationalRoutes(r)
	deps.OrderHandlers.RegisterRoutes(r)

	return r
}
