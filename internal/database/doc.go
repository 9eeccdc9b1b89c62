// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

// Package database provides the DuckDB-backed data layer for Cinerec.
//
// # Overview
//
// The package stores the movie catalog, user ratings and favorites, and the
// batch recommendations produced by offline jobs. It implements the engine's
// storage-facing interfaces:
//
//   - recommend.InteractionStore: Ratings, Favorites, UserRatings, UserFavorites
//   - recommend.CategoryFilter: FilterCategory
//   - recommend.PrecomputedSource: Precomputed
//   - recommend.PopularitySource: PopularityRanker.Popular
//
// # Files
//
//   - database.go: connection lifecycle and pool configuration
//   - database_schema.go: table and index creation
//   - database_utils.go: context deadlines, checkpoints, record counts
//   - interactions.go: rating and favorite reads and upserts
//   - catalog.go: movie upserts, lookups and genre filtering
//   - popularity.go: popularity ranking with an IMDb rating prior
//   - precomputed.go: batch recommendation reads and replacement
//   - seed.go: deterministic demo data
//
// # Categories
//
// Categories are IMDb genres. They are matched case-insensitively against the
// normalized movie_genres table, so "Sci-Fi", "sci-fi" and " SCI-FI " select
// the same movies.
//
// # Usage
//
//	db, err := database.New(&cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	engine, err := recommend.NewEngine(cfg.Recommend.EngineConfig(), recommend.Dependencies{
//	    Interactions: db,
//	    Catalog:      db,
//	    Popularity:   database.NewPopularityRanker(db, cfg.Recommend.PopularityMinVotes),
//	}, logger)
//
// # Thread Safety
//
// DB is safe for concurrent use. Writes that touch several rows run in a
// single transaction.
package database
