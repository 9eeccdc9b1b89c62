// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/cinerec/internal/recommend"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/cinerec/config.yaml",
	"/etc/cinerec/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:                   "/data/cinerec.duckdb",
			MaxMemory:              "1GB",
			Threads:                0,    // 0 = use runtime.NumCPU()
			PreserveInsertionOrder: true, // DuckDB default
			SeedDemoData:           false,
		},
		Redis: RedisConfig{
			Enabled:         false,
			Addr:            "127.0.0.1:6379",
			DB:              0,
			KeyPrefix:       "rec:precomputed",
			DialTimeout:     2 * time.Second,
			ReadTimeout:     500 * time.Millisecond,
			WriteTimeout:    500 * time.Millisecond,
			BreakerFailures: 5,
			BreakerTimeout:  30 * time.Second,
		},
		Snapshot: SnapshotConfig{
			Backend:   SnapshotBackendFile,
			Dir:       "/data/models",
			Retain:    3,
			BadgerDir: "/data/models/badger",
			S3: S3Config{
				Bucket: "cinerec",
				Prefix: "models",
			},
		},
		Recommend: RecommendConfig{
			MinSimilarity:       recommend.DefaultMinSimilarity,
			FavoriteWeight:      recommend.DefaultFavoriteWeight,
			MaxSeedRatings:      recommend.DefaultMaxSeedRatings,
			DefaultLimit:        recommend.DefaultLimit,
			MaxLimit:            recommend.DefaultMaxLimit,
			CandidatePool:       recommend.DefaultCandidatePool,
			Workers:             0, // 0 = NumCPU - 1
			TrainOnStartup:      false,
			TrainInterval:       24 * time.Hour,
			TrainTimeout:        30 * time.Minute,
			MinInteractions:     1,
			PopularityMinVotes:  1000,
			PopularityCacheTTL:  5 * time.Minute,
			PopularityCacheSize: 256,
		},
		NATS: NATSConfig{
			Enabled:        false,
			URL:            "nats://127.0.0.1:4222",
			EmbeddedServer: false,
			RetrainSubject: "cinerec.retrain",
			QueueGroup:     "cinerec",
			EventsSubject:  "cinerec.model.activated",
			RateLimit:      6,
			RateBurst:      1,
		},
		Server: ServerConfig{
			Port:         8080,
			Host:         "0.0.0.0",
			Timeout:      30 * time.Second,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 0, // 0 = derived from Timeout
			IdleTimeout:  120 * time.Second,
			Environment:  "development",
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   1 * time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Supervisor: SupervisorConfig{
			FailureThreshold: 5.0,
			FailureDecay:     30.0,
			FailureBackoff:   15 * time.Second,
			ShutdownTimeout:  10 * time.Second,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
//
// Precedence is ENV > File > Defaults.
func LoadWithKoanf() (*Config, error) {
	return load(findConfigFile())
}

// LoadFile loads configuration from an explicit YAML file plus the environment.
func LoadFile(path string) (*Config, error) {
	return load(path)
}

func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// DUCKDB_PATH -> database.path
	// RECOMMEND_MIN_SIMILARITY -> recommend.min_similarity
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps flat environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Database mappings
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",
	"seed_demo_data":    "database.seed_demo_data",

	// Redis mappings
	"redis_enabled":          "redis.enabled",
	"redis_addr":             "redis.addr",
	"redis_password":         "redis.password",
	"redis_db":               "redis.db",
	"redis_key_prefix":       "redis.key_prefix",
	"redis_dial_timeout":     "redis.dial_timeout",
	"redis_read_timeout":     "redis.read_timeout",
	"redis_write_timeout":    "redis.write_timeout",
	"redis_breaker_failures": "redis.breaker_failures",
	"redis_breaker_timeout":  "redis.breaker_timeout",

	// Snapshot store mappings
	"snapshot_backend":       "snapshot.backend",
	"snapshot_dir":           "snapshot.dir",
	"snapshot_retain":        "snapshot.retain",
	"snapshot_badger_dir":    "snapshot.badger_dir",
	"snapshot_s3_endpoint":   "snapshot.s3.endpoint",
	"snapshot_s3_bucket":     "snapshot.s3.bucket",
	"snapshot_s3_prefix":     "snapshot.s3.prefix",
	"snapshot_s3_access_key": "snapshot.s3.access_key",
	"snapshot_s3_secret_key": "snapshot.s3.secret_key",
	"snapshot_s3_use_ssl":    "snapshot.s3.use_ssl",

	// Recommendation engine mappings
	"recommend_min_similarity":        "recommend.min_similarity",
	"recommend_favorite_weight":       "recommend.favorite_weight",
	"recommend_max_seed_ratings":      "recommend.max_seed_ratings",
	"recommend_default_limit":         "recommend.default_limit",
	"recommend_max_limit":             "recommend.max_limit",
	"recommend_candidate_pool":        "recommend.candidate_pool",
	"recommend_workers":               "recommend.workers",
	"recommend_train_on_startup":      "recommend.train_on_startup",
	"recommend_train_interval":        "recommend.train_interval",
	"recommend_train_timeout":         "recommend.train_timeout",
	"recommend_min_interactions":      "recommend.min_interactions",
	"recommend_popularity_min_votes":  "recommend.popularity_min_votes",
	"recommend_popularity_cache_ttl":  "recommend.popularity_cache_ttl",
	"recommend_popularity_cache_size": "recommend.popularity_cache_size",

	// NATS mappings
	"nats_enabled":         "nats.enabled",
	"nats_url":             "nats.url",
	"nats_embedded":        "nats.embedded_server",
	"nats_retrain_subject": "nats.retrain_subject",
	"nats_queue_group":     "nats.queue_group",
	"nats_events_subject":  "nats.events_subject",
	"nats_rate_limit":      "nats.rate_limit",
	"nats_rate_burst":      "nats.rate_burst",

	// Server mappings
	"http_port":          "server.port",
	"http_host":          "server.host",
	"http_timeout":       "server.timeout",
	"http_read_timeout":  "server.read_timeout",
	"http_write_timeout": "server.write_timeout",
	"http_idle_timeout":  "server.idle_timeout",
	"environment":        "server.environment",

	// Security mappings
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Supervisor mappings
	"supervisor_failure_threshold": "supervisor.failure_threshold",
	"supervisor_failure_decay":     "supervisor.failure_decay",
	"supervisor_failure_backoff":   "supervisor.failure_backoff",
	"supervisor_shutdown_timeout":  "supervisor.shutdown_timeout",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - DUCKDB_PATH -> database.path
//   - REDIS_ADDR -> redis.addr
//   - SNAPSHOT_S3_BUCKET -> snapshot.s3.bucket
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	// Unmapped keys return empty string so random environment variables
	// do not pollute the config.
	return envMappings[strings.ToLower(key)]
}
