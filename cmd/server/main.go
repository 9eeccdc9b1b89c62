// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/cinerec/internal/api"
	"github.com/tomtom215/cinerec/internal/config"
	"github.com/tomtom215/cinerec/internal/database"
	"github.com/tomtom215/cinerec/internal/logging"
	"github.com/tomtom215/cinerec/internal/supervisor"
	"github.com/tomtom215/cinerec/internal/supervisor/services"
)

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	// Load configuration first to get logging settings
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("snapshot_backend", cfg.Snapshot.Backend).
		Bool("redis_enabled", cfg.Redis.Enabled).
		Bool("nats_enabled", cfg.NATS.Enabled).
		Msg("Starting Cinerec with supervisor tree")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Database.SeedDemoData {
		logging.Info().Msg("Demo data seeding enabled (SEED_DEMO_DATA=true)")
		if err := db.SeedDemoData(ctx); err != nil {
			logging.Error().Err(err).Msg("Failed to seed demo data")
			return
		}
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfigFrom(&cfg.Supervisor))
	if err != nil {
		logging.Error().Err(err).Msg("Failed to create supervisor tree")
		return
	}

	logger := logging.Logger()

	rc, err := initRecommend(ctx, cfg, db, tree, logger.With().Str("component", "recommend").Logger())
	if err != nil {
		logging.Error().Err(err).Msg("Failed to initialize recommendation engine")
		return
	}
	defer rc.Close()

	natsComponents, err := InitNATS(&cfg.NATS, rc, tree, logger.With().Str("component", "nats").Logger())
	if err != nil {
		logging.Error().Err(err).Msg("Failed to initialize NATS")
		return
	}
	defer natsComponents.Close()

	checks := map[string]api.Pinger{"database": db}
	if rc.Redis != nil {
		checks["redis"] = rc.Redis
	}

	handler := api.NewHandler(api.Dependencies{
		Recommender:  rc.Engine,
		Trainer:      rc.Worker,
		Catalog:      db,
		Interactions: db,
		Checks:       checks,
	}, cfg.Recommend.TrainTimeout)

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFrom(&cfg.Security)))

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout(),
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Supervisor.ShutdownTimeout, logger))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Drain remaining errors after the tree stops
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
