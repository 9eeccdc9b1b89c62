// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package database

import (
	"context"
	"testing"

	"github.com/tomtom215/cinerec/internal/recommend"
)

func TestPrecomputed_ReplaceAndRead(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.ReplacePrecomputed(ctx, 7, "", []recommend.Recommendation{
		{ItemID: "tt03", Score: 0.4},
		{ItemID: "tt01", Score: 0.9},
		{ItemID: "tt02", Score: 0.4},
	}); err != nil {
		t.Fatalf("ReplacePrecomputed: %v", err)
	}

	recs, err := db.Precomputed(ctx, 7, "", 10)
	if err != nil {
		t.Fatalf("Precomputed: %v", err)
	}
	want := []string{"tt01", "tt02", "tt03"}
	got := itemIDs(recs)
	if len(got) != len(want) {
		t.Fatalf("Precomputed = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Precomputed = %v, want %v (score desc, id asc)", got, want)
			break
		}
	}
	for _, r := range recs {
		if r.Provenance != recommend.ProvenancePrecomputed {
			t.Errorf("%s provenance = %q", r.ItemID, r.Provenance)
		}
	}

	limited, err := db.Precomputed(ctx, 7, "", 1)
	if err != nil {
		t.Fatalf("Precomputed(limit 1): %v", err)
	}
	if len(limited) != 1 || limited[0].ItemID != "tt01" {
		t.Errorf("limited = %v", itemIDs(limited))
	}
}

func TestPrecomputed_ReplaceIsAtomicPerCategory(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.ReplacePrecomputed(ctx, 1, "Drama", []recommend.Recommendation{{ItemID: "tt01", Score: 1}}); err != nil {
		t.Fatalf("ReplacePrecomputed: %v", err)
	}
	if err := db.ReplacePrecomputed(ctx, 1, "", []recommend.Recommendation{{ItemID: "tt02", Score: 1}}); err != nil {
		t.Fatalf("ReplacePrecomputed: %v", err)
	}
	// Replacing an existing list rewrites the same rows.
	if err := db.ReplacePrecomputed(ctx, 1, "drama", []recommend.Recommendation{{ItemID: "tt01", Score: 0.5}, {ItemID: "tt04", Score: 0.8}}); err != nil {
		t.Fatalf("ReplacePrecomputed (again): %v", err)
	}

	drama, err := db.Precomputed(ctx, 1, "DRAMA", 10)
	if err != nil {
		t.Fatalf("Precomputed: %v", err)
	}
	if got := itemIDs(drama); len(got) != 2 || got[0] != "tt04" || got[1] != "tt01" {
		t.Errorf("drama = %v, want [tt04 tt01]", got)
	}

	plain, err := db.Precomputed(ctx, 1, "", 10)
	if err != nil {
		t.Fatalf("Precomputed: %v", err)
	}
	if got := itemIDs(plain); len(got) != 1 || got[0] != "tt02" {
		t.Errorf("uncategorized = %v, want [tt02]", got)
	}

	if err := db.ReplacePrecomputed(ctx, 1, "drama", nil); err != nil {
		t.Fatalf("clear: %v", err)
	}
	drama, err = db.Precomputed(ctx, 1, "drama", 10)
	if err != nil {
		t.Fatalf("Precomputed: %v", err)
	}
	if len(drama) != 0 {
		t.Errorf("cleared list = %v", itemIDs(drama))
	}
}

func TestPrecomputed_UnknownUser(t *testing.T) {
	db := setupTestDB(t)

	recs, err := db.Precomputed(context.Background(), 404, "", 10)
	if err != nil {
		t.Fatalf("Precomputed: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("unknown user got %v", itemIDs(recs))
	}
}
