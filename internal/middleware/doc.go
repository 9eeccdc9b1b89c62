// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

/*
Package middleware provides chi-compatible HTTP middleware.

Key Components:

  - RequestID: X-Request-ID propagation into the request and logging contexts
  - PrometheusMetrics: request count and latency labelled by chi route pattern
  - Compression: gzip via klauspost/compress with pooled writers

All middleware has the func(http.Handler) http.Handler shape and is mounted
by internal/api:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Route("/api/v1", func(r chi.Router) {
	    r.Use(middleware.PrometheusMetrics)
	    r.Use(middleware.Compression)
	})

Route patterns keep the endpoint label bounded: every user hitting
/api/v1/recommendations/{userID} shares one series.
*/
package middleware
