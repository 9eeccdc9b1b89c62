// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tomtom215/cinerec/internal/models"
)

// ErrMovieNotFound is returned when a movie ID is not in the catalog.
var ErrMovieNotFound = errors.New("movie not found")

// UpsertMovie inserts or replaces a catalog entry together with its
// normalized genre rows.
func (db *DB) UpsertMovie(ctx context.Context, m *models.Movie) error {
	return db.UpsertMovies(ctx, []models.Movie{*m})
}

// UpsertMovies inserts or replaces catalog entries in a single transaction.
func (db *DB) UpsertMovies(ctx context.Context, movies []models.Movie) error {
	if len(movies) == 0 {
		return nil
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	upsert, err := tx.PrepareContext(ctx, `
		INSERT INTO movies (tconst, primary_title, start_year, runtime_minutes, genres, average_rating, num_votes)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (tconst) DO UPDATE SET
			primary_title = EXCLUDED.primary_title,
			start_year = EXCLUDED.start_year,
			runtime_minutes = EXCLUDED.runtime_minutes,
			genres = EXCLUDED.genres,
			average_rating = EXCLUDED.average_rating,
			num_votes = EXCLUDED.num_votes`)
	if err != nil {
		return fmt.Errorf("prepare movie upsert: %w", err)
	}
	defer closeWithLog(upsert, "statement")

	for i := range movies {
		m := &movies[i]
		if _, err := upsert.ExecContext(ctx, m.ID, m.Title,
			nullInt(m.StartYear), nullInt(m.RuntimeMinutes), m.Genres,
			m.AverageRating, m.NumVotes); err != nil {
			return fmt.Errorf("upsert movie %s: %w", m.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM movie_genres WHERE tconst = ?`, m.ID); err != nil {
			return fmt.Errorf("clear genres of %s: %w", m.ID, err)
		}
		for _, genre := range m.GenreList() {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO movie_genres (tconst, genre) VALUES (?, ?)`, m.ID, genre); err != nil {
				return fmt.Errorf("insert genre of %s: %w", m.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit movies: %w", err)
	}
	return nil
}

// Movie returns one catalog entry.
func (db *DB) Movie(ctx context.Context, id string) (*models.Movie, error) {
	movies, err := db.Movies(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	m, ok := movies[id]
	if !ok {
		return nil, ErrMovieNotFound
	}
	return m, nil
}

// Movies returns the catalog entries for ids, keyed by ID. Unknown IDs are
// absent from the map.
func (db *DB) Movies(ctx context.Context, ids []string) (map[string]*models.Movie, error) {
	out := make(map[string]*models.Movie, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query := fmt.Sprintf(`
		SELECT tconst, primary_title, start_year, runtime_minutes, genres, average_rating, num_votes
		FROM movies WHERE tconst IN (%s)`, placeholders(len(ids)))

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query movies: %w", err)
	}
	defer closeWithLog(rows, "rows")

	for rows.Next() {
		var (
			m                  models.Movie
			startYear, runtime sql.NullInt64
			genres             sql.NullString
			avg                sql.NullFloat64
			votes              sql.NullInt64
		)
		if err := rows.Scan(&m.ID, &m.Title, &startYear, &runtime, &genres, &avg, &votes); err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		m.StartYear = int(startYear.Int64)
		m.RuntimeMinutes = int(runtime.Int64)
		m.Genres = genres.String
		m.AverageRating = avg.Float64
		m.NumVotes = votes.Int64
		out[m.ID] = &m
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movies: %w", err)
	}
	return out, nil
}

// FilterCategory returns the subset of items carrying the genre, preserving
// the input order. An empty category returns items unchanged.
func (db *DB) FilterCategory(ctx context.Context, items []string, category string) ([]string, error) {
	genre := models.NormalizeGenre(category)
	if genre == "" || len(items) == 0 {
		return items, nil
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	args := make([]any, 0, len(items)+1)
	args = append(args, genre)
	for _, id := range items {
		args = append(args, id)
	}
	query := fmt.Sprintf(`SELECT DISTINCT tconst FROM movie_genres WHERE genre = ? AND tconst IN (%s)`,
		placeholders(len(items)))

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query category: %w", err)
	}
	defer closeWithLog(rows, "rows")

	allowed := make(map[string]struct{}, len(items))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan category member: %w", err)
		}
		allowed[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category: %w", err)
	}

	kept := make([]string, 0, len(allowed))
	for _, id := range items {
		if _, ok := allowed[id]; ok {
			kept = append(kept, id)
		}
	}
	return kept, nil
}

// Genres returns every known genre with its movie count.
func (db *DB) Genres(ctx context.Context) (map[string]int, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `SELECT genre, COUNT(*) FROM movie_genres GROUP BY genre`)
	if err != nil {
		return nil, fmt.Errorf("query genres: %w", err)
	}
	defer closeWithLog(rows, "rows")

	out := make(map[string]int)
	for rows.Next() {
		var (
			genre string
			n     int
		)
		if err := rows.Scan(&genre, &n); err != nil {
			return nil, fmt.Errorf("scan genre: %w", err)
		}
		out[genre] = n
	}
	return out, rows.Err()
}

func nullInt(v int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(v), Valid: v > 0}
}
