package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/draftea/order-saga/participants-service/config"
	"github.com/draftea/order-saga/participants-service/handlers"
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

	telCfg := telemetry.ParticipantsServiceConfig.
		WithServiceName(cfg.ServiceName).
		WithOTLPEndpoint(cfg.Telemetry.OTLPEndpoint)
	tel := telemetry.NewTelemetry(telCfg)
	if cfg.Telemetry.Enabled {
		initialized, shutdown, err := telemetry.InitTelemetry(ctx, telCfg)
		if err != nil {
			logger.Warn().Err(err).Msg("telemetry disabled")
		} else {
			tel = initialized
			defer shutdown()
		}
	}

	deps, err := config.BuildDependencies(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build dependencies")
	}
	defer func() {
		if err := deps.Close(); err != nil {
			logger.Error().Err(err).Msg("error closing dependencies")
		}
	}()

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

func setupRouter(tel *telemetry.Telemetry, deps *config.Dependencies) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(telemetry.Middleware(tel))

	handlers.RegisterOperationalRoutes(r)
	deps.ParticipantHandlers.RegisterRoutes(r)

	return r
}
