// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package database

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/tomtom215/cinerec/internal/models"
)

func TestMovies_Lookup(t *testing.T) {
	db := setupTestDB(t)
	seedTestCatalog(t, db)

	got, err := db.Movies(context.Background(), []string{"tt01", "tt05", "tt99"})
	if err != nil {
		t.Fatalf("Movies: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (unknown IDs are skipped)", len(got))
	}
	if got["tt01"].Title != "Heist" || got["tt01"].NumVotes != 5000 || got["tt01"].AverageRating != 8.0 {
		t.Errorf("tt01 = %+v", got["tt01"])
	}
	if got["tt05"].AverageRating != 0 || got["tt05"].RuntimeMinutes != 0 {
		t.Errorf("tt05 nullable fields = %+v, want zero values", got["tt05"])
	}

	empty, err := db.Movies(context.Background(), nil)
	if err != nil || len(empty) != 0 {
		t.Errorf("Movies(nil) = %v, %v", empty, err)
	}
}

func TestMovie_NotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.Movie(context.Background(), "tt404")
	if !errors.Is(err, ErrMovieNotFound) {
		t.Errorf("err = %v, want ErrMovieNotFound", err)
	}
}

func TestUpsertMovie_ReplacesGenres(t *testing.T) {
	db := setupTestDB(t)
	seedTestCatalog(t, db)
	ctx := context.Background()

	updated := testMovies[0]
	updated.Title = "Heist (Director's Cut)"
	updated.Genres = "Thriller"
	if err := db.UpsertMovie(ctx, &updated); err != nil {
		t.Fatalf("UpsertMovie: %v", err)
	}

	m, err := db.Movie(ctx, "tt01")
	if err != nil {
		t.Fatalf("Movie: %v", err)
	}
	if m.Title != updated.Title {
		t.Errorf("Title = %q, want %q", m.Title, updated.Title)
	}

	crime, err := db.FilterCategory(ctx, []string{"tt01"}, "crime")
	if err != nil {
		t.Fatalf("FilterCategory: %v", err)
	}
	if len(crime) != 0 {
		t.Errorf("tt01 still in crime after genre change")
	}
	thriller, err := db.FilterCategory(ctx, []string{"tt01"}, "thriller")
	if err != nil {
		t.Fatalf("FilterCategory: %v", err)
	}
	if len(thriller) != 1 {
		t.Errorf("tt01 missing from thriller")
	}
}

func TestFilterCategory(t *testing.T) {
	db := setupTestDB(t)
	seedTestCatalog(t, db)
	ctx := context.Background()

	items := []string{"tt04", "tt01", "tt02", "tt03", "tt99"}
	tests := []struct {
		name     string
		category string
		want     []string
	}{
		{"empty category keeps everything", "", items},
		{"preserves input order", "sci-fi", []string{"tt04", "tt02"}},
		{"case insensitive", "ANIMATION", []string{"tt03"}},
		{"unknown genre", "western", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.FilterCategory(ctx, items, tt.category)
			if err != nil {
				t.Fatalf("FilterCategory: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FilterCategory(%q) = %v, want %v", tt.category, got, tt.want)
			}
		})
	}
}

func TestGenres(t *testing.T) {
	db := setupTestDB(t)
	seedTestCatalog(t, db)

	genres, err := db.Genres(context.Background())
	if err != nil {
		t.Fatalf("Genres: %v", err)
	}
	if genres["sci-fi"] != 2 {
		t.Errorf("sci-fi count = %d, want 2", genres["sci-fi"])
	}
	if _, ok := genres[`\n`]; ok {
		t.Errorf("null genre marker stored as a genre")
	}
	if len(genres) != len(collectGenres(testMovies)) {
		t.Errorf("len(genres) = %d, want %d", len(genres), len(collectGenres(testMovies)))
	}
}

func collectGenres(movies []models.Movie) map[string]struct{} {
	out := make(map[string]struct{})
	for i := range movies {
		for _, g := range movies[i].GenreList() {
			out[g] = struct{}{}
		}
	}
	return out
}
