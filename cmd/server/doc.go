// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

/*
Package main is the entry point for the Cinerec server application.

Cinerec serves item-based collaborative filtering recommendations for a
movie catalog. Ratings and favorites stored in DuckDB are merged into
per-user item weights, a cosine similarity snapshot is built from them in
the background, and requests are answered from the best available tier:
precomputed lists, realtime scoring against the snapshot, or a popularity
ranking.

# Application Architecture

The server runs under a Suture v4 supervision tree:

	RootSupervisor ("cinerec")
	├── DataSupervisor ("data-layer")
	│   └── Embedded NATS server (optional)
	├── TrainingSupervisor ("training-layer")
	│   ├── Retrain worker (startup, schedule, HTTP and NATS triggers)
	│   ├── Retrain subscriber (optional, NATS request/reply)
	│   └── Model event listener (optional, reloads snapshots from other replicas)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (chi router)

Component initialization order:

 1. Configuration: Koanf v2 with defaults, optional config file, environment
 2. Logging: zerolog with JSON/console output modes
 3. Database: DuckDB catalog, ratings, favorites and precomputed lists
 4. Snapshot store: file, BadgerDB or S3-compatible object storage
 5. Fallback sources: Redis (circuit breaker) then DuckDB, cached popularity
 6. Engine: loads the last persisted snapshot; a missing one is not fatal
 7. NATS (optional): retrain subscriber and model event pub/sub
 8. HTTP Server: recommendations, retrain, status, interactions, health

# Configuration

Configuration is loaded via Koanf v2 with layered sources (highest priority wins):

	Priority: Environment variables > Config file > Defaults

Core environment variables:

	# Server
	HTTP_PORT=8080
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console

	# Storage
	DUCKDB_PATH=/data/cinerec.duckdb
	SEED_DEMO_DATA=false
	SNAPSHOT_BACKEND=file        # file, badger or s3
	SNAPSHOT_DIR=/data/models

	# Training
	RECOMMEND_TRAIN_ON_STARTUP=false
	RECOMMEND_TRAIN_INTERVAL=24h
	RECOMMEND_MIN_SIMILARITY=0.1
	RECOMMEND_FAVORITE_WEIGHT=10

	# Optional precomputed cache
	REDIS_ENABLED=false
	REDIS_ADDR=localhost:6379

	# Optional NATS triggers and model events
	NATS_ENABLED=false
	NATS_URL=nats://127.0.0.1:4222
	NATS_EMBEDDED=false

# Signal Handling

The server handles graceful shutdown on SIGINT and SIGTERM:

 1. Stops accepting new HTTP connections
 2. Waits for in-flight requests (SUPERVISOR_SHUTDOWN_TIMEOUT)
 3. Cancels any running training run; the active snapshot is untouched
 4. Closes NATS clients, the snapshot store, Redis and the database
 5. Reports any services that failed to stop

# Usage Examples

Development with demo data:

	export SEED_DEMO_DATA=true RECOMMEND_TRAIN_ON_STARTUP=true LOG_FORMAT=console
	go run ./cmd/server

	curl localhost:8080/api/v1/recommendations/1?limit=5
	curl -X POST localhost:8080/api/v1/recommendations/retrain

Several replicas sharing an S3 snapshot bucket:

	export SNAPSHOT_BACKEND=s3 SNAPSHOT_S3_ENDPOINT=minio:9000 SNAPSHOT_S3_BUCKET=cinerec
	export NATS_ENABLED=true NATS_URL=nats://nats:4222
	./cinerec

# See Also

  - internal/recommend: Engine, builder, scorer and fallback tiers
  - internal/config: Configuration management
  - internal/supervisor: Process supervision
  - internal/api: HTTP handlers and routing
*/
package main
