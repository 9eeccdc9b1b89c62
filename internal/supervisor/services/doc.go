// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

/*
Package services provides suture.Service wrappers for Cinerec components.

Each wrapper translates a component's lifecycle (ListenAndServe, Run, a
start/shutdown pair) into suture's context-aware Serve:

	type Service interface {
	    Serve(ctx context.Context) error
	}

# Available Services

Retrain worker (RecommendService):
  - Owns the goroutine that runs recommend.Engine.Retrain
  - Trains on startup and on a schedule when configured
  - Trigger submits on-demand runs and fails fast while one is in flight

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown

Embedded NATS (NATSServerService):
  - Starts an in-process nats-server and restarts it if it stops

Runners (RunnerService):
  - NewRetrainSubscriberService for eventprocessor.RetrainResponder
  - NewModelListenerService for eventprocessor.ModelListener

# Usage Example

	worker := services.NewRecommendService(engine, services.RecommendServiceConfig{
	    TrainOnStartup: true,
	    TrainInterval:  6 * time.Hour,
	    OnComplete:     func(recommend.RetrainResult) { popularity.Invalidate() },
	}, logger)
	tree.AddTrainingService(worker)

	// HTTP handlers call worker.Trigger(ctx, services.SourceHTTP).
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second, logger))

# Metrics

RecommendService records recommend_retrain_triggers_total{source, result}
for every run and every rejected trigger.
*/
package services
