// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerec/internal/config"
	"github.com/tomtom215/cinerec/internal/eventprocessor"
	"github.com/tomtom215/cinerec/internal/logging"
	"github.com/tomtom215/cinerec/internal/recommend"
	"github.com/tomtom215/cinerec/internal/supervisor"
	"github.com/tomtom215/cinerec/internal/supervisor/services"
)

// publishTimeout bounds a single model event publish.
const publishTimeout = 5 * time.Second

// NATSComponents holds the NATS clients that need closing on shutdown.
type NATSComponents struct {
	instanceID string
	publisher  *eventprocessor.Publisher
	listener   *eventprocessor.ModelListener
}

// InitNATS wires the retrain subscriber and, when an events subject is
// configured, the model event publisher and listener. It returns nil when
// NATS is disabled.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func InitNATS(cfg *config.NATSConfig, rc *RecommendComponents, tree *supervisor.SupervisorTree, logger zerolog.Logger) (*NATSComponents, error) {
	if !cfg.Enabled {
		logger.Info().Msg("NATS disabled (NATS_ENABLED=false)")
		return nil, nil
	}

	nc := &NATSComponents{instanceID: uuid.New().String()}

	if cfg.EmbeddedServer {
		tree.AddDataService(services.NewNATSServerService(eventprocessor.ServerConfig{
			Host: "127.0.0.1",
			Port: cfg.NATSPort(),
		}, logger))
		logger.Info().Int("port", cfg.NATSPort()).Msg("embedded NATS server added to supervisor tree")
	}

	responder := eventprocessor.NewRetrainResponder(retrainConfigFrom(cfg, rc.Engine.Config().TrainTimeout), rc.Worker, logger)
	tree.AddTrainingService(services.NewRetrainSubscriberService(responder))

	if cfg.EventsSubject == "" {
		logger.Info().Msg("model events disabled (no events subject)")
		return nc, nil
	}

	wmLogger := watermill.NewSlogLogger(logging.NewSlogLogger("watermill"))

	pubCfg := eventprocessor.DefaultPublisherConfig(cfg.URL)
	pubCfg.Subject = cfg.EventsSubject
	publisher, err := eventprocessor.NewPublisher(pubCfg, wmLogger, logger)
	if err != nil {
		return nil, fmt.Errorf("create model event publisher: %w", err)
	}
	nc.publisher = publisher

	subCfg := eventprocessor.DefaultSubscriberConfig(cfg.URL)
	subCfg.Subject = cfg.EventsSubject
	listener, err := eventprocessor.NewModelListener(subCfg, nc.instanceID, rc.Engine, rc.Popularity.Invalidate, wmLogger, logger)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create model event listener: %w", err)
	}
	nc.listener = listener
	tree.AddTrainingService(services.NewModelListenerService(listener))

	rc.OnActivated(nc.publishActivated(logger))

	logger.Info().
		Str("instance_id", nc.instanceID).
		Str("retrain_subject", cfg.RetrainSubject).
		Str("events_subject", cfg.EventsSubject).
		Msg("NATS components initialized")

	return nc, nil
}

// publishActivated returns the hook that announces a new model to the
// other replicas. Publish failures are logged; replicas catch up on the
// next event.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func (nc *NATSComponents) publishActivated(logger zerolog.Logger) func(recommend.RetrainResult) {
	return func(result recommend.RetrainResult) {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		event := eventprocessor.NewModelActivated(nc.instanceID, &result)
		if err := nc.publisher.PublishModelActivated(ctx, event); err != nil {
			logger.Warn().Err(err).Int64("version", result.Version).Msg("failed to publish model event")
		}
	}
}

// Close releases the publisher and listener. Safe on a nil receiver.
func (nc *NATSComponents) Close() {
	if nc == nil {
		return
	}
	if nc.listener != nil {
		if err := nc.listener.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing model event listener")
		}
	}
	if nc.publisher != nil {
		if err := nc.publisher.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing model event publisher")
		}
	}
}

// retrainConfigFrom applies the configured overrides to the responder
// defaults. A request waits at most as long as a training run may take.
func retrainConfigFrom(cfg *config.NATSConfig, trainTimeout time.Duration) eventprocessor.RetrainConfig {
	rcfg := eventprocessor.DefaultRetrainConfig(cfg.URL)
	if trainTimeout > 0 {
		rcfg.Timeout = trainTimeout
	}
	if cfg.RetrainSubject != "" {
		rcfg.Subject = cfg.RetrainSubject
	}
	rcfg.QueueGroup = cfg.QueueGroup
	if cfg.RateLimit > 0 {
		rcfg.RatePerMinute = cfg.RateLimit
	}
	if cfg.RateBurst > 0 {
		rcfg.Burst = cfg.RateBurst
	}
	return rcfg
}
