// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package models

import (
	"strings"
	"time"
)

// Movie is a catalog entry keyed by its IMDb title constant (tconst).
//
// Genres is the comma-separated genre list as published in title.basics,
// for example "Action,Crime,Drama".
type Movie struct {
	ID             string  `json:"id" validate:"required,movieid"`
	Title          string  `json:"title" validate:"required,max=512"`
	StartYear      int     `json:"start_year,omitempty" validate:"omitempty,min=1870,max=2200"`
	RuntimeMinutes int     `json:"runtime_minutes,omitempty" validate:"omitempty,min=0"`
	Genres         string  `json:"genres,omitempty"`
	AverageRating  float64 `json:"average_rating,omitempty" validate:"omitempty,min=0,max=10"`
	NumVotes       int64   `json:"num_votes,omitempty" validate:"omitempty,min=0"`
}

// GenreList splits Genres into normalized (trimmed, lower-case) genre names.
// Duplicates and empty entries are dropped.
func (m *Movie) GenreList() []string {
	return SplitGenres(m.Genres)
}

// SplitGenres normalizes a comma-separated genre string.
func SplitGenres(genres string) []string {
	if genres == "" || genres == `\N` {
		return nil
	}
	parts := strings.Split(genres, ",")
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		g := NormalizeGenre(p)
		if g == "" {
			continue
		}
		if _, dup := seen[g]; dup {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	return out
}

// NormalizeGenre returns the canonical form of a genre or category name.
func NormalizeGenre(genre string) string {
	return strings.ToLower(strings.TrimSpace(genre))
}

// Rating is an explicit 1-10 score a user gave a movie.
type Rating struct {
	UserID    int       `json:"user_id" validate:"required,min=1"`
	MovieID   string    `json:"movie_id" validate:"required,movieid"`
	Rating    float64   `json:"rating" validate:"required,min=1,max=10"`
	CreatedAt time.Time `json:"created_at"`
}

// Favorite marks a movie as a user's favorite.
type Favorite struct {
	UserID    int       `json:"user_id" validate:"required,min=1"`
	MovieID   string    `json:"movie_id" validate:"required,movieid"`
	CreatedAt time.Time `json:"created_at"`
}
