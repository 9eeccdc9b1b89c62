// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package database

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/tomtom215/cinerec/internal/logging"
	"github.com/tomtom215/cinerec/internal/models"
)

// demoMovies is a small slice of the IMDb catalog used for local development
// and demos.
var demoMovies = []models.Movie{
	{ID: "tt0111161", Title: "The Shawshank Redemption", StartYear: 1994, RuntimeMinutes: 142, Genres: "Drama", AverageRating: 9.3, NumVotes: 2900000},
	{ID: "tt0068646", Title: "The Godfather", StartYear: 1972, RuntimeMinutes: 175, Genres: "Crime,Drama", AverageRating: 9.2, NumVotes: 2000000},
	{ID: "tt0468569", Title: "The Dark Knight", StartYear: 2008, RuntimeMinutes: 152, Genres: "Action,Crime,Drama", AverageRating: 9.0, NumVotes: 2900000},
	{ID: "tt0071562", Title: "The Godfather Part II", StartYear: 1974, RuntimeMinutes: 202, Genres: "Crime,Drama", AverageRating: 9.0, NumVotes: 1380000},
	{ID: "tt0050083", Title: "12 Angry Men", StartYear: 1957, RuntimeMinutes: 96, Genres: "Crime,Drama", AverageRating: 9.0, NumVotes: 870000},
	{ID: "tt0110912", Title: "Pulp Fiction", StartYear: 1994, RuntimeMinutes: 154, Genres: "Crime,Drama", AverageRating: 8.9, NumVotes: 2250000},
	{ID: "tt0133093", Title: "The Matrix", StartYear: 1999, RuntimeMinutes: 136, Genres: "Action,Sci-Fi", AverageRating: 8.7, NumVotes: 2100000},
	{ID: "tt1375666", Title: "Inception", StartYear: 2010, RuntimeMinutes: 148, Genres: "Action,Adventure,Sci-Fi", AverageRating: 8.8, NumVotes: 2600000},
	{ID: "tt0816692", Title: "Interstellar", StartYear: 2014, RuntimeMinutes: 169, Genres: "Adventure,Drama,Sci-Fi", AverageRating: 8.7, NumVotes: 2200000},
	{ID: "tt0076759", Title: "Star Wars", StartYear: 1977, RuntimeMinutes: 121, Genres: "Action,Adventure,Fantasy", AverageRating: 8.6, NumVotes: 1450000},
	{ID: "tt0080684", Title: "The Empire Strikes Back", StartYear: 1980, RuntimeMinutes: 124, Genres: "Action,Adventure,Fantasy", AverageRating: 8.7, NumVotes: 1370000},
	{ID: "tt0120737", Title: "The Lord of the Rings: The Fellowship of the Ring", StartYear: 2001, RuntimeMinutes: 178, Genres: "Action,Adventure,Drama", AverageRating: 8.9, NumVotes: 2050000},
	{ID: "tt0167260", Title: "The Lord of the Rings: The Return of the King", StartYear: 2003, RuntimeMinutes: 201, Genres: "Action,Adventure,Drama", AverageRating: 9.0, NumVotes: 2000000},
	{ID: "tt0245429", Title: "Spirited Away", StartYear: 2001, RuntimeMinutes: 125, Genres: "Adventure,Animation,Family", AverageRating: 8.6, NumVotes: 850000},
	{ID: "tt0114709", Title: "Toy Story", StartYear: 1995, RuntimeMinutes: 81, Genres: "Adventure,Animation,Comedy", AverageRating: 8.3, NumVotes: 1100000},
	{ID: "tt0910970", Title: "WALL-E", StartYear: 2008, RuntimeMinutes: 98, Genres: "Adventure,Animation,Family", AverageRating: 8.4, NumVotes: 1200000},
	{ID: "tt0107290", Title: "Jurassic Park", StartYear: 1993, RuntimeMinutes: 127, Genres: "Action,Adventure,Sci-Fi", AverageRating: 8.2, NumVotes: 1050000},
	{ID: "tt0088763", Title: "Back to the Future", StartYear: 1985, RuntimeMinutes: 116, Genres: "Adventure,Comedy,Sci-Fi", AverageRating: 8.5, NumVotes: 1300000},
	{ID: "tt0118799", Title: "Life Is Beautiful", StartYear: 1997, RuntimeMinutes: 116, Genres: "Comedy,Drama,Romance", AverageRating: 8.6, NumVotes: 740000},
	{ID: "tt0109830", Title: "Forrest Gump", StartYear: 1994, RuntimeMinutes: 142, Genres: "Drama,Romance", AverageRating: 8.8, NumVotes: 2250000},
	{ID: "tt0081505", Title: "The Shining", StartYear: 1980, RuntimeMinutes: 146, Genres: "Drama,Horror", AverageRating: 8.4, NumVotes: 1100000},
	{ID: "tt0078748", Title: "Alien", StartYear: 1979, RuntimeMinutes: 117, Genres: "Horror,Sci-Fi", AverageRating: 8.5, NumVotes: 950000},
	{ID: "tt0102926", Title: "The Silence of the Lambs", StartYear: 1991, RuntimeMinutes: 118, Genres: "Crime,Drama,Thriller", AverageRating: 8.6, NumVotes: 1550000},
	{ID: "tt0114369", Title: "Se7en", StartYear: 1995, RuntimeMinutes: 127, Genres: "Crime,Drama,Mystery", AverageRating: 8.6, NumVotes: 1800000},
}

// demoTastes groups demo users by the genres they rate highly.
var demoTastes = [][]string{
	{"crime", "drama"},
	{"sci-fi", "action"},
	{"animation", "family"},
	{"adventure", "fantasy"},
	{"horror", "thriller"},
}

// SeedDemoData fills an empty database with the demo catalog and synthetic
// ratings and favorites from users with distinct tastes. It does nothing
// when the catalog already has movies. The generated data is deterministic.
func (db *DB) SeedDemoData(ctx context.Context) error {
	counts, err := db.GetRecordCounts(ctx)
	if err != nil {
		return err
	}
	if counts.Movies > 0 {
		logging.Debug().Int64("movies", counts.Movies).Msg("Catalog not empty, skipping demo seed")
		return nil
	}

	logging.Info().Int("movies", len(demoMovies)).Msg("Seeding database with demo data")

	if err := db.UpsertMovies(ctx, demoMovies); err != nil {
		return fmt.Errorf("seed movies: %w", err)
	}

	const usersPerTaste = 6
	rng := rand.New(rand.NewPCG(42, 1024)) //nolint:gosec // demo data, not security sensitive
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	var ratings, favorites int
	for t, taste := range demoTastes {
		for u := range usersPerTaste {
			userID := t*usersPerTaste + u + 1
			for i := range demoMovies {
				m := &demoMovies[i]
				liked := hasAnyGenre(m, taste)
				if !liked && rng.IntN(4) != 0 {
					continue
				}

				score := 3 + rng.IntN(4)
				if liked {
					score = 7 + rng.IntN(4)
				}
				at := base.Add(time.Duration(userID*100+i) * time.Hour)
				if err := db.AddRating(ctx, &models.Rating{
					UserID: userID, MovieID: m.ID, Rating: float64(score), CreatedAt: at,
				}); err != nil {
					return fmt.Errorf("seed rating: %w", err)
				}
				ratings++

				if liked && score >= 9 {
					if err := db.AddFavorite(ctx, &models.Favorite{UserID: userID, MovieID: m.ID, CreatedAt: at}); err != nil {
						return fmt.Errorf("seed favorite: %w", err)
					}
					favorites++
				}
			}
		}
	}

	logging.Info().
		Int("users", len(demoTastes)*usersPerTaste).
		Int("ratings", ratings).
		Int("favorites", favorites).
		Msg("Demo data seeded")
	return nil
}

func hasAnyGenre(m *models.Movie, genres []string) bool {
	for _, g := range m.GenreList() {
		for _, want := range genres {
			if g == want {
				return true
			}
		}
	}
	return false
}
