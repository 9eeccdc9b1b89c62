// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/cinerec/internal/models"
	"github.com/tomtom215/cinerec/internal/recommend"
)

// genreClause restricts the aliased interaction table "t" to a genre.
const genreClause = ` AND EXISTS (SELECT 1 FROM movie_genres g WHERE g.tconst = t.tconst AND g.genre = ?)`

// Ratings returns every rating in the system, ordered by user then movie.
func (db *DB) Ratings(ctx context.Context) ([]recommend.Signal, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return db.querySignals(ctx, `
		SELECT t.user_id, t.tconst, t.rating, t.created_at
		FROM user_ratings t
		ORDER BY t.user_id, t.tconst`)
}

// Favorites returns every favorite in the system, ordered by user then movie.
func (db *DB) Favorites(ctx context.Context) ([]recommend.Signal, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return db.querySignals(ctx, `
		SELECT t.user_id, t.tconst, CAST(0 AS DOUBLE), t.created_at
		FROM user_favorites t
		ORDER BY t.user_id, t.tconst`)
}

// UserRatings returns one user's ratings, newest first. A non-empty category
// keeps only movies carrying that genre.
func (db *DB) UserRatings(ctx context.Context, userID int, category string) ([]recommend.Signal, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `SELECT t.user_id, t.tconst, t.rating, t.created_at FROM user_ratings t WHERE t.user_id = ?`
	args := []any{userID}
	if genre := models.NormalizeGenre(category); genre != "" {
		query += genreClause
		args = append(args, genre)
	}
	query += ` ORDER BY t.created_at DESC, t.tconst`

	return db.querySignals(ctx, query, args...)
}

// UserFavorites returns one user's favorites, newest first. A non-empty
// category keeps only movies carrying that genre.
func (db *DB) UserFavorites(ctx context.Context, userID int, category string) ([]recommend.Signal, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `SELECT t.user_id, t.tconst, CAST(0 AS DOUBLE), t.created_at FROM user_favorites t WHERE t.user_id = ?`
	args := []any{userID}
	if genre := models.NormalizeGenre(category); genre != "" {
		query += genreClause
		args = append(args, genre)
	}
	query += ` ORDER BY t.created_at DESC, t.tconst`

	return db.querySignals(ctx, query, args...)
}

func (db *DB) querySignals(ctx context.Context, query string, args ...any) ([]recommend.Signal, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query interactions: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var signals []recommend.Signal
	for rows.Next() {
		var s recommend.Signal
		if err := rows.Scan(&s.UserID, &s.ItemID, &s.Value, &s.At); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		signals = append(signals, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interactions: %w", err)
	}
	return signals, nil
}

// AddRating records a rating, replacing any earlier rating of the same movie
// by the same user.
func (db *DB) AddRating(ctx context.Context, r *models.Rating) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO user_ratings (user_id, tconst, rating, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, tconst) DO UPDATE SET
			rating = EXCLUDED.rating,
			created_at = EXCLUDED.created_at`,
		r.UserID, r.MovieID, r.Rating, timestampOrNow(r.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert rating: %w", err)
	}
	return nil
}

// AddFavorite records a favorite. Re-adding refreshes its timestamp.
func (db *DB) AddFavorite(ctx context.Context, f *models.Favorite) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO user_favorites (user_id, tconst, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id, tconst) DO UPDATE SET
			created_at = EXCLUDED.created_at`,
		f.UserID, f.MovieID, timestampOrNow(f.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert favorite: %w", err)
	}
	return nil
}

// RemoveFavorite deletes a favorite. Removing a missing favorite is not an error.
func (db *DB) RemoveFavorite(ctx context.Context, userID int, movieID string) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if _, err := db.conn.ExecContext(ctx,
		`DELETE FROM user_favorites WHERE user_id = ? AND tconst = ?`, userID, movieID); err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	return nil
}

// UserInteractionCount returns how many distinct movies a user has rated or
// favorited.
func (db *DB) UserInteractionCount(ctx context.Context, userID int) (int, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var n int
	err := db.conn.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT tconst) FROM (
			SELECT tconst FROM user_ratings WHERE user_id = ?
			UNION ALL
			SELECT tconst FROM user_favorites WHERE user_id = ?
		)`, userID, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count user interactions: %w", err)
	}
	return n, nil
}

func timestampOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}
