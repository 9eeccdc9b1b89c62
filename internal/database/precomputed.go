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

// Precomputed returns the batch recommendations for (user, category),
// highest score first, ties broken by ascending movie ID. An empty category
// selects the uncategorized list.
func (db *DB) Precomputed(ctx context.Context, userID int, category string, limit int) ([]recommend.Recommendation, error) {
	if limit <= 0 {
		return nil, nil
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT tconst, MAX(score) AS score
		FROM precomputed_recommendations
		WHERE user_id = ? AND category = ?
		GROUP BY tconst
		ORDER BY score DESC, tconst ASC
		LIMIT ?`, userID, models.NormalizeGenre(category), limit)
	if err != nil {
		return nil, fmt.Errorf("query precomputed: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var recs []recommend.Recommendation
	for rows.Next() {
		r := recommend.Recommendation{Provenance: recommend.ProvenancePrecomputed}
		if err := rows.Scan(&r.ItemID, &r.Score); err != nil {
			return nil, fmt.Errorf("scan precomputed: %w", err)
		}
		recs = append(recs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate precomputed: %w", err)
	}
	return recs, nil
}

// ReplacePrecomputed atomically replaces the batch list for (user, category).
// Passing no recommendations clears it.
func (db *DB) ReplacePrecomputed(ctx context.Context, userID int, category string, recs []recommend.Recommendation) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	category = models.NormalizeGenre(category)
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM precomputed_recommendations WHERE user_id = ? AND category = ?`,
		userID, category); err != nil {
		return fmt.Errorf("clear precomputed: %w", err)
	}

	now := time.Now().UTC()
	for _, r := range recs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO precomputed_recommendations (user_id, category, tconst, score, generated_at)
			VALUES (?, ?, ?, ?, ?)`, userID, category, r.ItemID, r.Score, now); err != nil {
			return fmt.Errorf("insert precomputed %s: %w", r.ItemID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit precomputed: %w", err)
	}
	return nil
}
