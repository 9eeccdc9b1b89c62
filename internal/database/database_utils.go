// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package database

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// defaultQueryTimeout bounds queries whose caller set no deadline.
const defaultQueryTimeout = 30 * time.Second

// ensureContext adds a 30-second timeout if ctx has no deadline.
func (db *DB) ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		return context.WithTimeout(context.Background(), defaultQueryTimeout)
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		return context.WithTimeout(ctx, defaultQueryTimeout)
	}
	return ctx, func() {}
}

// Checkpoint forces a WAL checkpoint
func (db *DB) Checkpoint(ctx context.Context) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if _, err := db.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
		return fmt.Errorf("checkpoint failed: %w", err)
	}
	return nil
}

// GetDatabasePath returns the path to the database file
func (db *DB) GetDatabasePath() string {
	return db.cfg.Path
}

// Counts reports the number of rows in the main tables.
type Counts struct {
	Movies    int64 `json:"movies"`
	Ratings   int64 `json:"ratings"`
	Favorites int64 `json:"favorites"`
}

// GetRecordCounts returns the count of records in the main tables.
func (db *DB) GetRecordCounts(ctx context.Context) (*Counts, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var c Counts
	err := db.conn.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM movies),
			(SELECT COUNT(*) FROM user_ratings),
			(SELECT COUNT(*) FROM user_favorites)
	`).Scan(&c.Movies, &c.Ratings, &c.Favorites)
	if err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}
	return &c, nil
}

// placeholders returns "?, ?, ..." for n bind parameters.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
