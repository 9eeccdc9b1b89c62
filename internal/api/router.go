// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/cinerec/internal/middleware"
)

// Router wires handlers and middleware into a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a Router. A nil mw uses DefaultChiMiddlewareConfig.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: mw}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, in order
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	// Probes
	r.Route("/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Handle("/metrics", promhttp.Handler())

	// Recommendations
	r.Route("/api/v1/recommendations", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)

		r.With(router.chiMiddleware.RateLimitRetrain()).Post("/retrain", router.handler.Retrain)

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit("recommendations"))
			r.Use(middleware.Compression)
			r.Get("/status", router.handler.ModelStatus)
			r.Get("/{userID}", router.handler.Recommendations)
		})
	})

	// Interactions
	r.Route("/api/v1/users/{userID}", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit("interactions"))
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)

		r.Post("/ratings", router.handler.AddRating)
		r.Post("/favorites", router.handler.AddFavorite)
		r.Delete("/favorites/{movieID}", router.handler.RemoveFavorite)
	})

	return r
}
