// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

/*
Package models defines data structures shared by the database and API layers.

Key Components:

  - Movie: catalog entry with IMDb-style metadata and the genre list
  - Rating, Favorite: user interactions as stored in DuckDB
  - APIResponse, APIError, Metadata: the standard HTTP response envelope
  - RecommendationsResponse, RetrainResponse, ModelStatusResponse: endpoint payloads

Recommendation scoring types live in internal/recommend; this package only
holds the shapes that cross the storage and HTTP boundaries.
*/
package models
