// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

// Package precomputed serves batch recommendations produced by offline jobs.
//
// The primary store is Redis, one sorted set per (user, category). The
// DuckDB precomputed_recommendations table is the secondary store. In
// production the two are composed as
//
//	chain := precomputed.NewChain(logger,
//	    precomputed.Named{Name: "redis", Source: precomputed.NewBreakerSource(redisSource, settings)},
//	    precomputed.Named{Name: "duckdb", Source: db},
//	)
//
// and the chain is handed to the engine as its recommend.PrecomputedSource.
package precomputed
