// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package config

import (
	"fmt"
	"strings"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateDatabase,
		c.validateRedis,
		c.validateSnapshot,
		c.validateRecommend,
		c.validateNATS,
		c.validateServer,
		c.validateSecurity,
		c.validateLogging,
		c.validateSupervisor,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

// validateDatabase validates DuckDB configuration
func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be non-negative")
	}
	return nil
}

// validateRedis validates Redis configuration (only if enabled)
func (c *Config) validateRedis() error {
	if !c.Redis.Enabled {
		return nil
	}
	if c.Redis.Addr == "" {
		return fmt.Errorf("REDIS_ADDR is required when REDIS_ENABLED=true")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("REDIS_DB must be non-negative")
	}
	if c.Redis.KeyPrefix == "" {
		return fmt.Errorf("REDIS_KEY_PREFIX must not be empty")
	}
	if c.Redis.BreakerFailures == 0 {
		return fmt.Errorf("REDIS_BREAKER_FAILURES must be positive")
	}
	return nil
}

// validateSnapshot validates the snapshot store selection
func (c *Config) validateSnapshot() error {
	switch c.Snapshot.Backend {
	case SnapshotBackendFile:
		if c.Snapshot.Dir == "" {
			return fmt.Errorf("SNAPSHOT_DIR is required for the file backend")
		}
		if c.Snapshot.Retain < 1 {
			return fmt.Errorf("SNAPSHOT_RETAIN must be at least 1")
		}
	case SnapshotBackendBadger:
		if c.Snapshot.BadgerDir == "" {
			return fmt.Errorf("SNAPSHOT_BADGER_DIR is required for the badger backend")
		}
	case SnapshotBackendS3:
		s3 := c.Snapshot.S3
		if s3.Endpoint == "" || s3.Bucket == "" {
			return fmt.Errorf("SNAPSHOT_S3_ENDPOINT and SNAPSHOT_S3_BUCKET are required for the s3 backend")
		}
		if strings.Contains(s3.Endpoint, "://") {
			return fmt.Errorf("SNAPSHOT_S3_ENDPOINT must be host[:port] without a scheme, got %q", s3.Endpoint)
		}
		if s3.AccessKey == "" || s3.SecretKey == "" {
			return fmt.Errorf("SNAPSHOT_S3_ACCESS_KEY and SNAPSHOT_S3_SECRET_KEY are required for the s3 backend")
		}
	default:
		return fmt.Errorf("SNAPSHOT_BACKEND must be one of: file, badger, s3 (got %q)", c.Snapshot.Backend)
	}
	return nil
}

// validateRecommend validates the engine settings
func (c *Config) validateRecommend() error {
	if err := c.Recommend.EngineConfig().Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	if c.Recommend.TrainInterval < 0 {
		return fmt.Errorf("RECOMMEND_TRAIN_INTERVAL must be non-negative")
	}
	if c.Recommend.PopularityMinVotes < 0 {
		return fmt.Errorf("RECOMMEND_POPULARITY_MIN_VOTES must be non-negative")
	}
	if c.Recommend.PopularityCacheTTL > 0 && c.Recommend.PopularityCacheSize < 1 {
		return fmt.Errorf("RECOMMEND_POPULARITY_CACHE_SIZE must be positive when the cache is enabled")
	}
	return nil
}

// validateNATS validates NATS configuration (only if enabled)
func (c *Config) validateNATS() error {
	if !c.NATS.Enabled {
		return nil
	}
	if c.NATS.URL == "" {
		return fmt.Errorf("NATS_URL is required when NATS_ENABLED=true")
	}
	if err := validateNATSURL(c.NATS.URL); err != nil {
		return fmt.Errorf("NATS_URL is invalid: %w", err)
	}
	if c.NATS.RetrainSubject == "" {
		return fmt.Errorf("NATS_RETRAIN_SUBJECT is required when NATS_ENABLED=true")
	}
	if c.NATS.RateLimit <= 0 || c.NATS.RateBurst < 1 {
		return fmt.Errorf("NATS_RATE_LIMIT and NATS_RATE_BURST must be positive")
	}
	return nil
}

// validateServer validates HTTP server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	switch c.Server.Environment {
	case "", "development", "production":
	default:
		return fmt.Errorf("ENVIRONMENT must be development or production")
	}
	return nil
}

// validateSecurity validates rate limiting and CORS configuration
func (c *Config) validateSecurity() error {
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive")
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
		}
	}
	if c.Server.Environment == "production" {
		for _, origin := range c.Security.CORSOrigins {
			if origin == "*" {
				return fmt.Errorf("CORS_ORIGINS must not contain * in production")
			}
		}
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// validateSupervisor validates supervision tree settings
func (c *Config) validateSupervisor() error {
	if c.Supervisor.FailureThreshold < 0 || c.Supervisor.FailureDecay < 0 {
		return fmt.Errorf("SUPERVISOR_FAILURE_THRESHOLD and SUPERVISOR_FAILURE_DECAY must be non-negative")
	}
	if c.Supervisor.FailureBackoff < 0 || c.Supervisor.ShutdownTimeout < 0 {
		return fmt.Errorf("SUPERVISOR_FAILURE_BACKOFF and SUPERVISOR_SHUTDOWN_TIMEOUT must be non-negative")
	}
	return nil
}
