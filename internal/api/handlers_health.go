// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package api

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/tomtom215/cinerec/internal/models"
)

// healthCheckTimeout bounds each readiness probe.
const healthCheckTimeout = 2 * time.Second

// HealthLive serves GET /health/live. It only proves the process serves
// HTTP.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	start := time.Now()
	respondSuccess(w, http.StatusOK, models.HealthResponse{
		Status: "alive",
		Uptime: time.Since(h.startTime).Round(time.Second).String(),
	}, start)
}

// HealthReady serves GET /health/ready. Every configured dependency must
// answer a ping. A missing snapshot does not fail readiness because the
// popularity tier still serves.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := models.HealthResponse{
		Status: "ready",
		Checks: make(map[string]string, len(names)+1),
		Uptime: time.Since(h.startTime).Round(time.Second).String(),
	}
	status := http.StatusOK

	for _, name := range names {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		err := h.checks[name].Ping(ctx)
		cancel()
		if err != nil {
			resp.Checks[name] = "error: " + err.Error()
			resp.Status = "not_ready"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	if st := h.recommender.Status(); st.Loaded {
		resp.Checks["snapshot"] = "loaded"
		resp.Snapshot = st.Version
	} else {
		resp.Checks["snapshot"] = "absent"
	}

	respondJSON(w, status, &models.APIResponse{
		Status: envelopeStatus(status),
		Data:   resp,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}
