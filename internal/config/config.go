// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package config

import (
	"time"

	"github.com/tomtom215/cinerec/internal/recommend"
)

// Config holds all application configuration
type Config struct {
	Database   DatabaseConfig   `koanf:"database"`
	Redis      RedisConfig      `koanf:"redis"`    // Optional: precomputed recommendation cache
	Snapshot   SnapshotConfig   `koanf:"snapshot"` // Durable similarity model storage
	Recommend  RecommendConfig  `koanf:"recommend"`
	NATS       NATSConfig       `koanf:"nats"` // Optional: retrain trigger over NATS request/reply
	Server     ServerConfig     `koanf:"server"`
	Security   SecurityConfig   `koanf:"security"`
	Logging    LoggingConfig    `koanf:"logging"`
	Supervisor SupervisorConfig `koanf:"supervisor"`
}

// DatabaseConfig holds DuckDB settings
type DatabaseConfig struct {
	Path                   string `koanf:"path"`
	MaxMemory              string `koanf:"max_memory"`
	Threads                int    `koanf:"threads"`                  // Number of DuckDB threads (0 = use NumCPU)
	PreserveInsertionOrder bool   `koanf:"preserve_insertion_order"` // Whether to preserve insertion order (default true)
	SeedDemoData           bool   `koanf:"seed_demo_data"`           // Load a small demo catalog on an empty database
}

// RedisConfig holds the precomputed recommendation cache settings.
type RedisConfig struct {
	// Enabled controls whether the precomputed tier reads from Redis.
	// When false the precomputed tier is served from DuckDB only.
	Enabled bool `koanf:"enabled"`

	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`

	// KeyPrefix namespaces all keys written and read by cinerec.
	// Default: rec:precomputed
	KeyPrefix string `koanf:"key_prefix"`

	DialTimeout  time.Duration `koanf:"dial_timeout"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// BreakerFailures is the number of consecutive failures that opens the breaker.
	BreakerFailures uint32 `koanf:"breaker_failures"`

	// BreakerTimeout is how long the breaker stays open before probing again.
	BreakerTimeout time.Duration `koanf:"breaker_timeout"`
}

// Snapshot backends.
const (
	SnapshotBackendFile   = "file"
	SnapshotBackendBadger = "badger"
	SnapshotBackendS3     = "s3"
)

// SnapshotConfig selects where similarity snapshots are persisted.
type SnapshotConfig struct {
	// Backend is one of: file, badger, s3.
	// Default: file
	Backend string `koanf:"backend"`

	// Dir is the FileStore directory.
	Dir string `koanf:"dir"`

	// Retain is how many snapshot versions the FileStore keeps on disk.
	Retain int `koanf:"retain"`

	// BadgerDir is the BadgerStore directory.
	BadgerDir string `koanf:"badger_dir"`

	S3 S3Config `koanf:"s3"`
}

// S3Config holds object storage settings for the S3 snapshot backend.
type S3Config struct {
	Endpoint  string `koanf:"endpoint"`
	Bucket    string `koanf:"bucket"`
	Prefix    string `koanf:"prefix"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
	UseSSL    bool   `koanf:"use_ssl"`
}

// RecommendConfig holds recommendation engine settings
type RecommendConfig struct {
	// MinSimilarity is the neighbour threshold used when scoring.
	// Only neighbours strictly above it contribute.
	// Default: 0.1
	MinSimilarity float64 `koanf:"min_similarity"`

	// FavoriteWeight is the interaction weight of a favorite.
	// Default: 10.0
	FavoriteWeight float64 `koanf:"favorite_weight"`

	// MaxSeedRatings caps how many of a user's ratings seed realtime scoring.
	// All favorites are always used.
	// Default: 20
	MaxSeedRatings int `koanf:"max_seed_ratings"`

	// DefaultLimit is used when a request has no positive limit.
	// Default: 8
	DefaultLimit int `koanf:"default_limit"`

	// MaxLimit caps the number of recommendations per request.
	// Default: 100
	MaxLimit int `koanf:"max_limit"`

	// CandidatePool is how many realtime candidates are scored before a
	// category filter is applied.
	// Default: 500
	CandidatePool int `koanf:"candidate_pool"`

	// Workers bounds the parallelism of a similarity build.
	// Default: 0 (NumCPU - 1, minimum 1)
	Workers int `koanf:"workers"`

	// TrainOnStartup triggers a training run once the service starts.
	// Default: false
	TrainOnStartup bool `koanf:"train_on_startup"`

	// TrainInterval is how often the training worker retrains.
	// Zero disables scheduled training.
	// Default: 24h
	TrainInterval time.Duration `koanf:"train_interval"`

	// TrainTimeout bounds a single training run.
	// Default: 30m
	TrainTimeout time.Duration `koanf:"train_timeout"`

	// MinInteractions is the minimum number of merged interactions required to train.
	// Default: 1
	MinInteractions int `koanf:"min_interactions"`

	// PopularityMinVotes is the vote count at which a catalog rating is fully trusted
	// by the popularity prior.
	// Default: 1000
	PopularityMinVotes int `koanf:"popularity_min_votes"`

	// PopularityCacheTTL is how long a popularity ranking is cached.
	// Zero disables the cache.
	// Default: 5m
	PopularityCacheTTL time.Duration `koanf:"popularity_cache_ttl"`

	// PopularityCacheSize is the maximum number of cached rankings.
	// Default: 256
	PopularityCacheSize int `koanf:"popularity_cache_size"`
}

// EngineConfig converts the koanf section into the engine's configuration.
func (r *RecommendConfig) EngineConfig() *recommend.Config {
	cfg := recommend.DefaultConfig()
	cfg.MinSimilarity = r.MinSimilarity
	cfg.FavoriteWeight = r.FavoriteWeight
	cfg.MaxSeedRatings = r.MaxSeedRatings
	cfg.DefaultLimit = r.DefaultLimit
	cfg.MaxLimit = r.MaxLimit
	cfg.CandidatePool = r.CandidatePool
	if r.Workers > 0 {
		cfg.Workers = r.Workers
	}
	cfg.MinInteractions = r.MinInteractions
	if r.TrainTimeout > 0 {
		cfg.TrainTimeout = r.TrainTimeout
	}
	return cfg
}

// NATSConfig holds the retrain trigger settings.
type NATSConfig struct {
	// Enabled controls whether the retrain subscriber runs.
	Enabled bool `koanf:"enabled"`

	// URL of the NATS server.
	URL string `koanf:"url"`

	// EmbeddedServer starts an in-process NATS server on URL's port.
	EmbeddedServer bool `koanf:"embedded_server"`

	// RetrainSubject is the request/reply subject for retrain triggers.
	// Default: cinerec.retrain
	RetrainSubject string `koanf:"retrain_subject"`

	// QueueGroup lets several replicas share the subject. Empty disables queueing.
	QueueGroup string `koanf:"queue_group"`

	// EventsSubject carries model-activated events so other replicas reload
	// the shared snapshot. Empty disables publishing and listening.
	// Default: cinerec.model.activated
	EventsSubject string `koanf:"events_subject"`

	// RateLimit is the sustained number of accepted triggers per minute.
	// Default: 6
	RateLimit float64 `koanf:"rate_limit"`

	// RateBurst is the number of triggers accepted in a burst.
	// Default: 1
	RateBurst int `koanf:"rate_burst"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port         int           `koanf:"port"`
	Host         string        `koanf:"host"`
	Timeout      time.Duration `koanf:"timeout"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`
	Environment  string        `koanf:"environment"` // development or production
}

// HTTPWriteTimeout returns the configured write timeout, or when unset one
// long enough for a synchronous retrain request to receive its response.
func (c *Config) HTTPWriteTimeout() time.Duration {
	if c.Server.WriteTimeout > 0 {
		return c.Server.WriteTimeout
	}
	return c.Server.Timeout + c.Recommend.TrainTimeout
}

// SecurityConfig holds HTTP hardening settings
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// SupervisorConfig holds the process supervision tree settings.
type SupervisorConfig struct {
	FailureThreshold float64       `koanf:"failure_threshold"`
	FailureDecay     float64       `koanf:"failure_decay"`
	FailureBackoff   time.Duration `koanf:"failure_backoff"`
	ShutdownTimeout  time.Duration `koanf:"shutdown_timeout"`
}
