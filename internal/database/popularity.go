// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package database

import (
	"context"
	"fmt"

	"github.com/tomtom215/cinerec/internal/models"
	"github.com/tomtom215/cinerec/internal/recommend"
)

// PopularityRanker ranks the catalog by interaction volume.
//
// An item's score is its interaction count (ratings plus favorites) plus a
// prior in [0, 1) derived from the IMDb average rating, damped by vote count:
//
//	prior = (average_rating / 10) * votes / (votes + minVotes)
//
// The prior only separates items with equal counts, so catalog titles with no
// interactions still rank by public reception.
type PopularityRanker struct {
	db       *DB
	minVotes int64
}

// NewPopularityRanker creates a ranker. minVotes controls how strongly the
// IMDb prior is damped for titles with few votes.
func NewPopularityRanker(db *DB, minVotes int) *PopularityRanker {
	return &PopularityRanker{db: db, minVotes: int64(max(minVotes, 0))}
}

// Popular returns up to limit movies the user has not rated or favorited,
// most popular first, ties broken by ascending movie ID.
func (p *PopularityRanker) Popular(ctx context.Context, userID int, category string, limit int) ([]recommend.Recommendation, error) {
	if limit <= 0 {
		return nil, nil
	}
	ctx, cancel := p.db.ensureContext(ctx)
	defer cancel()

	query := `
		WITH interactions AS (
			SELECT tconst, user_id FROM user_ratings
			UNION ALL
			SELECT tconst, user_id FROM user_favorites
		),
		counts AS (
			SELECT tconst, COUNT(*) AS n FROM interactions GROUP BY tconst
		),
		seen AS (
			SELECT DISTINCT tconst FROM interactions WHERE user_id = ?
		)
		SELECT
			m.tconst,
			CAST(COALESCE(c.n, 0) AS DOUBLE) AS interaction_count,
			CASE WHEN COALESCE(m.num_votes, 0) + ? = 0 THEN 0.0
			     ELSE COALESCE(m.average_rating, 0) / 10.0
			          * COALESCE(m.num_votes, 0) / (COALESCE(m.num_votes, 0) + ?)
			END AS imdb_prior
		FROM movies m
		LEFT JOIN counts c ON c.tconst = m.tconst
		WHERE m.tconst NOT IN (SELECT tconst FROM seen)`
	args := []any{userID, p.minVotes, p.minVotes}

	if genre := models.NormalizeGenre(category); genre != "" {
		query += ` AND EXISTS (SELECT 1 FROM movie_genres g WHERE g.tconst = m.tconst AND g.genre = ?)`
		args = append(args, genre)
	}
	query += ` ORDER BY interaction_count DESC, imdb_prior DESC, m.tconst ASC LIMIT ?`
	args = append(args, limit)

	rows, err := p.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query popularity: %w", err)
	}
	defer closeWithLog(rows, "rows")

	recs := make([]recommend.Recommendation, 0, limit)
	for rows.Next() {
		var (
			id       string
			n, prior float64
		)
		if err := rows.Scan(&id, &n, &prior); err != nil {
			return nil, fmt.Errorf("scan popularity: %w", err)
		}
		recs = append(recs, recommend.Recommendation{
			ItemID:     id,
			Score:      n + clampPrior(prior),
			Provenance: recommend.ProvenancePopularity,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate popularity: %w", err)
	}
	return recs, nil
}

// clampPrior keeps the prior below one so it never outweighs a real interaction.
func clampPrior(prior float64) float64 {
	switch {
	case prior < 0:
		return 0
	case prior >= 1:
		return 0.999
	default:
		return prior
	}
}
