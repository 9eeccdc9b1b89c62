// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

/*
database_schema.go - Database Schema Management

Tables:
  - movies: catalog (IMDb title.basics joined with title.ratings)
  - movie_genres: one normalized row per (movie, genre), used for category filters
  - user_ratings: explicit 1-10 ratings, one per (user, movie)
  - user_favorites: favorites, one per (user, movie)
  - precomputed_recommendations: batch recommendations written by an external
    job, keyed by (user, category); category '' is the uncategorized list

movie_genres and precomputed_recommendations carry no primary key: their rows
are replaced with delete-then-insert inside one transaction, which DuckDB
rejects on indexed keys.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

var tableCreationQueries = []string{
	`CREATE TABLE IF NOT EXISTS movies (
		tconst VARCHAR PRIMARY KEY,
		primary_title VARCHAR NOT NULL,
		start_year INTEGER,
		runtime_minutes INTEGER,
		genres VARCHAR,
		average_rating DOUBLE,
		num_votes BIGINT
	)`,
	`CREATE TABLE IF NOT EXISTS movie_genres (
		tconst VARCHAR NOT NULL,
		genre VARCHAR NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS user_ratings (
		user_id INTEGER NOT NULL,
		tconst VARCHAR NOT NULL,
		rating DOUBLE NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT current_timestamp,
		PRIMARY KEY (user_id, tconst)
	)`,
	`CREATE TABLE IF NOT EXISTS user_favorites (
		user_id INTEGER NOT NULL,
		tconst VARCHAR NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT current_timestamp,
		PRIMARY KEY (user_id, tconst)
	)`,
	`CREATE TABLE IF NOT EXISTS precomputed_recommendations (
		user_id INTEGER NOT NULL,
		category VARCHAR NOT NULL DEFAULT '',
		tconst VARCHAR NOT NULL,
		score DOUBLE NOT NULL,
		generated_at TIMESTAMP NOT NULL DEFAULT current_timestamp
	)`,
}

// createIndexes creates indexes for the per-user and per-genre lookups.
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_movie_genres_genre ON movie_genres(genre)`,
		`CREATE INDEX IF NOT EXISTS idx_movie_genres_tconst ON movie_genres(tconst)`,
		`CREATE INDEX IF NOT EXISTS idx_user_ratings_tconst ON user_ratings(tconst)`,
		`CREATE INDEX IF NOT EXISTS idx_user_favorites_tconst ON user_favorites(tconst)`,
		`CREATE INDEX IF NOT EXISTS idx_precomputed_user ON precomputed_recommendations(user_id, category)`,
	}

	for _, query := range indexes {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create index: %s: %w", query, err)
		}
	}
	return nil
}
