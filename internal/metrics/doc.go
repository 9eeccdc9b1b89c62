// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

/*
Package metrics provides Prometheus metrics collection and export.

Collectors are registered with the default registry via promauto and exposed
at /metrics by the API router.

# Available Metrics

API:
  - api_requests_total{method, endpoint, status_code}
  - api_request_duration_seconds{method, endpoint}
  - api_active_requests
  - api_rate_limit_hits_total{endpoint}

Recommendation serving:
  - recommend_tier_requests_total{tier, result}: result is served, empty or error
  - recommend_tier_duration_seconds{tier}

Training:
  - recommend_training_runs_total{outcome}
  - recommend_training_duration_seconds
  - recommend_training_active
  - recommend_training_last_success_timestamp
  - recommend_snapshot_version
  - recommend_snapshot_items
  - recommend_retrain_triggers_total{source, result}

Caches and resilience:
  - cache_hits_total{cache}, cache_misses_total{cache}, cache_entries{cache}
  - circuit_breaker_state{name}
  - circuit_breaker_requests_total{name, result}
  - circuit_breaker_consecutive_failures{name}
  - circuit_breaker_state_transitions_total{name, from_state, to_state}

# Engine Integration

Recorder implements recommend.Observer:

	engine, err := recommend.NewEngine(cfg, recommend.Dependencies{
	    ...
	    Observer: metrics.NewRecorder(),
	}, logger)

# Thread Safety

All functions are safe for concurrent use.
*/
package metrics
