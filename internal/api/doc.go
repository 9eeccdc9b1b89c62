// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

/*
Package api provides the HTTP interface of the recommendation service.

Routes (chi):

	GET    /health/live                              liveness probe
	GET    /health/ready                             dependency pings + snapshot state
	GET    /metrics                                  Prometheus exposition
	GET    /api/v1/recommendations/{userID}          ?category=&limit=&details=
	GET    /api/v1/recommendations/status            active model and training state
	POST   /api/v1/recommendations/retrain           200, 409, 422 or 500
	POST   /api/v1/users/{userID}/ratings            {"movie_id", "rating"}
	POST   /api/v1/users/{userID}/favorites          {"movie_id"}
	DELETE /api/v1/users/{userID}/favorites/{movieID}

Every JSON response uses the models.APIResponse envelope:

	{"status": "success", "data": {...}, "metadata": {"timestamp": "...", "query_time_ms": 3}}
	{"status": "error", "error": {"code": "VALIDATION_ERROR", "message": "..."}, "metadata": {...}}

Recommendation queries always answer 200. When every tier comes back empty
the item list is empty; tier failures are listed in data.warnings.

Retrain requests do not train on the request goroutine. They are submitted
to the supervised training worker (services.RecommendService), which runs
at most one training at a time and rejects a second request with 409.

Middleware: request IDs, real IP, panic recovery and go-chi/cors apply
globally. Route groups add go-chi/httprate limits, security headers,
Prometheus instrumentation and gzip.
*/
package api
