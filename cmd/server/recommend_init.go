// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerec/internal/cache"
	"github.com/tomtom215/cinerec/internal/config"
	"github.com/tomtom215/cinerec/internal/database"
	"github.com/tomtom215/cinerec/internal/logging"
	"github.com/tomtom215/cinerec/internal/metrics"
	"github.com/tomtom215/cinerec/internal/precomputed"
	"github.com/tomtom215/cinerec/internal/recommend"
	"github.com/tomtom215/cinerec/internal/recommend/storage"
	"github.com/tomtom215/cinerec/internal/supervisor"
	"github.com/tomtom215/cinerec/internal/supervisor/services"
)

// RecommendComponents holds the engine and everything it was built from.
type RecommendComponents struct {
	Engine     *recommend.Engine
	Worker     *services.RecommendService
	Popularity *cache.CachedPopularity

	// Redis is nil when the precomputed tier is served from DuckDB only.
	Redis *precomputed.RedisSource

	closers []func() error

	mu          sync.RWMutex
	onActivated []func(recommend.RetrainResult)
}

// OnActivated registers fn to run after every successful training run.
// Must be called before the supervisor tree starts.
func (rc *RecommendComponents) OnActivated(fn func(recommend.RetrainResult)) {
	rc.mu.Lock()
	rc.onActivated = append(rc.onActivated, fn)
	rc.mu.Unlock()
}

func (rc *RecommendComponents) activated(result recommend.RetrainResult) {
	rc.Popularity.Invalidate()

	rc.mu.RLock()
	hooks := rc.onActivated
	rc.mu.RUnlock()
	for _, fn := range hooks {
		fn(result)
	}
}

// Close releases the snapshot store and the Redis client.
func (rc *RecommendComponents) Close() {
	for i := len(rc.closers) - 1; i >= 0; i-- {
		if err := rc.closers[i](); err != nil {
			logging.Error().Err(err).Msg("Error closing recommendation component")
		}
	}
}

// initRecommend builds the snapshot store, the fallback sources and the
// engine, loads the last persisted snapshot and adds the training worker
// to the tree. A missing or unreadable snapshot is not fatal.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initRecommend(ctx context.Context, cfg *config.Config, db *database.DB, tree *supervisor.SupervisorTree, logger zerolog.Logger) (*RecommendComponents, error) {
	rc := &RecommendComponents{}

	snapshots, closeSnapshots, err := newSnapshotStore(ctx, &cfg.Snapshot)
	if err != nil {
		return nil, err
	}
	if closeSnapshots != nil {
		rc.closers = append(rc.closers, closeSnapshots)
	}

	precomputedSource := newPrecomputedSource(ctx, cfg, db, rc, logger)

	rc.Popularity = cache.NewCachedPopularity(
		database.NewPopularityRanker(db, cfg.Recommend.PopularityMinVotes),
		cfg.Recommend.PopularityCacheSize,
		cfg.Recommend.PopularityCacheTTL,
	)

	engine, err := recommend.NewEngine(cfg.Recommend.EngineConfig(), recommend.Dependencies{
		Interactions: db,
		Snapshots:    snapshots,
		Precomputed:  precomputedSource,
		Popularity:   rc.Popularity,
		Catalog:      db,
		Observer:     metrics.NewRecorder(),
	}, logger)
	if err != nil {
		rc.Close()
		return nil, fmt.Errorf("create recommendation engine: %w", err)
	}
	rc.Engine = engine

	if err := engine.Load(ctx); err != nil {
		logger.Warn().Err(err).Msg("no usable similarity snapshot, serving fallbacks until the first training run")
	} else if snap := engine.Active(); snap != nil {
		logger.Info().
			Int64("version", snap.Version).
			Int("items", snap.ItemCount()).
			Msg("similarity snapshot loaded")
	}

	rc.Worker = services.NewRecommendService(engine, services.RecommendServiceConfig{
		TrainOnStartup: cfg.Recommend.TrainOnStartup,
		TrainInterval:  cfg.Recommend.TrainInterval,
		OnComplete:     rc.activated,
	}, logger)
	tree.AddTrainingService(rc.Worker)

	logger.Info().
		Str("snapshot_backend", cfg.Snapshot.Backend).
		Bool("redis", rc.Redis != nil).
		Bool("train_on_startup", cfg.Recommend.TrainOnStartup).
		Dur("train_interval", cfg.Recommend.TrainInterval).
		Msg("recommendation engine initialized")

	return rc, nil
}

// newSnapshotStore opens the configured snapshot backend. The returned
// close func is nil for backends that hold no resources.
func newSnapshotStore(ctx context.Context, cfg *config.SnapshotConfig) (recommend.SnapshotStore, func() error, error) {
	switch cfg.Backend {
	case config.SnapshotBackendBadger:
		store, err := storage.NewBadgerStore(cfg.BadgerDir)
		if err != nil {
			return nil, nil, fmt.Errorf("open badger snapshot store: %w", err)
		}
		return store, store.Close, nil

	case config.SnapshotBackendS3:
		store, err := storage.NewS3Store(&storage.S3Config{
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Bucket:    cfg.S3.Bucket,
			Prefix:    cfg.S3.Prefix,
			UseSSL:    cfg.S3.UseSSL,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("create s3 snapshot store: %w", err)
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, nil, fmt.Errorf("prepare snapshot bucket: %w", err)
		}
		return store, nil, nil

	case config.SnapshotBackendFile, "":
		store, err := storage.NewFileStore(cfg.Dir, cfg.Retain)
		if err != nil {
			return nil, nil, fmt.Errorf("open file snapshot store: %w", err)
		}
		return store, nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown snapshot backend %q", cfg.Backend)
	}
}

// newPrecomputedSource chains Redis (behind a circuit breaker) in front of
// the DuckDB table. An unreachable Redis at startup leaves DuckDB as the
// only source.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func newPrecomputedSource(ctx context.Context, cfg *config.Config, db *database.DB, rc *RecommendComponents, logger zerolog.Logger) recommend.PrecomputedSource {
	if !cfg.Redis.Enabled {
		return db
	}

	redisSource, err := precomputed.NewRedisSource(ctx, &cfg.Redis)
	if err != nil {
		logger.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, precomputed tier uses DuckDB only")
		return db
	}
	rc.Redis = redisSource
	rc.closers = append(rc.closers, redisSource.Close)

	breaker := precomputed.NewBreakerSource(redisSource, precomputed.BreakerSettings{
		Name:                "redis-precomputed",
		ConsecutiveFailures: cfg.Redis.BreakerFailures,
		Timeout:             cfg.Redis.BreakerTimeout,
	})

	return precomputed.NewChain(logger,
		precomputed.Named{Name: "redis", Source: breaker},
		precomputed.Named{Name: "duckdb", Source: db},
	)
}
