// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

/*
Package config provides centralized configuration management for Cinerec.

Configuration is loaded with Koanf v2 from three layers, later layers
overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file found through CONFIG_PATH or DefaultConfigPaths
 3. Environment variables, mapped from flat names to koanf paths

# Sections

  - database: DuckDB path, memory and thread settings
  - redis: precomputed recommendation cache and its circuit breaker
  - snapshot: similarity model store (file, badger or s3)
  - recommend: engine constants, training schedule, popularity cache
  - nats: retrain trigger subject and rate limit
  - server, security: HTTP listener, CORS and request rate limiting
  - logging: zerolog level and format
  - supervisor: suture failure and shutdown settings

# Environment Variables

Database:
  - DUCKDB_PATH: Database file path (default: /data/cinerec.duckdb)
  - DUCKDB_MAX_MEMORY: DuckDB memory limit (default: 1GB)

Recommendation engine:
  - RECOMMEND_MIN_SIMILARITY: Neighbour threshold (default: 0.1)
  - RECOMMEND_FAVORITE_WEIGHT: Favorite interaction weight (default: 10.0)
  - RECOMMEND_TRAIN_INTERVAL: Scheduled retrain interval (default: 24h)
  - RECOMMEND_TRAIN_ON_STARTUP: Train once at startup (default: false)

Snapshot store:
  - SNAPSHOT_BACKEND: file, badger or s3 (default: file)
  - SNAPSHOT_DIR: FileStore directory (default: /data/models)

Redis:
  - REDIS_ENABLED: Read precomputed recommendations from Redis (default: false)
  - REDIS_ADDR: Redis address (default: 127.0.0.1:6379)

# Usage

	cfg, err := config.LoadWithKoanf()
	if err != nil {
	    log.Fatal(err)
	}
	engineCfg := cfg.Recommend.EngineConfig()
*/
package config
