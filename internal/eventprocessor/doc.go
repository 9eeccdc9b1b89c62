// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

/*
Package eventprocessor carries Cinerec's NATS traffic.

Two flows use the broker:

  - Retrain requests. RetrainResponder answers request/reply messages on
    cinerec.retrain (configurable) by submitting a run to the training
    worker. A token bucket (golang.org/x/time/rate) throttles requests and a
    queue group lets several replicas share the subject so one of them
    trains. RequestRetrain is the matching client.

  - Model events. After a successful retrain, Publisher announces the new
    snapshot version on cinerec.model.activated through Watermill. Every
    replica runs a ModelListener; when the announced version is newer than
    its active snapshot it reloads from the shared snapshot store.

Both flows use core NATS; JetStream is not required. For single-node
deployments EmbeddedServer starts an in-process nats-server.

# Usage

	srv, err := eventprocessor.NewEmbeddedServer(&eventprocessor.ServerConfig{Host: "127.0.0.1", Port: 4222})
	if err != nil {
	    return err
	}
	defer srv.Shutdown(context.Background())

	responder := eventprocessor.NewRetrainResponder(eventprocessor.DefaultRetrainConfig(srv.ClientURL()), worker, logger)
	go responder.Run(ctx)

	nc, _ := nats.Connect(srv.ClientURL())
	resp, err := eventprocessor.RequestRetrain(ctx, nc, "")

# Metrics

  - recommend_retrain_triggers_total{source="nats"}
  - recommend_model_events_total{direction, result}
  - circuit_breaker_* for the "model-events" publisher breaker
*/
package eventprocessor
