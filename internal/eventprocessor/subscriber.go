// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package eventprocessor

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerec/internal/metrics"
	"github.com/tomtom215/cinerec/internal/recommend"
)

// Reloader is the part of the engine a model event acts on.
type Reloader interface {
	Load(ctx context.Context) error
	Active() *recommend.Snapshot
}

// Results of handling a received model event, used as metric labels.
const (
	resultReloaded = "reloaded"
	resultSelf     = "self"
	resultStale    = "stale"
	resultBusy     = "busy"
	resultInvalid  = "invalid"
	resultError    = "error"
)

// ModelListener reloads the shared snapshot when another replica announces
// a newer model.
type ModelListener struct {
	subscriber message.Subscriber
	subject    string
	instanceID string
	engine     Reloader
	onReload   func()
	logger     zerolog.Logger
}

// NewModelListener creates a Watermill NATS subscriber with JetStream
// disabled. onReload, if set, runs after each successful reload.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewModelListener(cfg SubscriberConfig, instanceID string, engine Reloader, onReload func(), wmLogger watermill.LoggerAdapter, logger zerolog.Logger) (*ModelListener, error) {
	if wmLogger == nil {
		wmLogger = watermill.NopLogger{}
	}
	if cfg.Subject == "" {
		cfg.Subject = DefaultEventsSubject
	}

	natsOpts := connectOptions("cinerec-events-listener", cfg.MaxReconnects, cfg.ReconnectWait, logger)

	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              cfg.URL,
		SubscribersCount: 1,
		CloseTimeout:     cfg.CloseTimeout,
		NatsOptions:      natsOpts,
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream:        wmNats.JetStreamConfig{Disabled: true},
	}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("create watermill subscriber: %w", err)
	}

	return newModelListener(sub, cfg.Subject, instanceID, engine, onReload, logger), nil
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func newModelListener(sub message.Subscriber, subject, instanceID string, engine Reloader, onReload func(), logger zerolog.Logger) *ModelListener {
	return &ModelListener{
		subscriber: sub,
		subject:    subject,
		instanceID: instanceID,
		engine:     engine,
		onReload:   onReload,
		logger:     logger.With().Str("component", "model-listener").Logger(),
	}
}

// Run consumes events until ctx is canceled. It returns an error if the
// subscription ends for any other reason.
func (l *ModelListener) Run(ctx context.Context) error {
	messages, err := l.subscriber.Subscribe(ctx, l.subject)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", l.subject, err)
	}
	l.logger.Info().Str("subject", l.subject).Msg("listening for model events")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return errors.New("model event subscription closed")
			}
			l.Handle(ctx, msg.Payload)
			msg.Ack()
		}
	}
}

// Handle applies one event payload and returns the result label. Every
// event is acknowledged; a failed reload is repaired by the next event or
// the next local retrain.
func (l *ModelListener) Handle(ctx context.Context, payload []byte) string {
	result := l.handle(ctx, payload)
	metrics.RecordModelEvent("received", result)
	return result
}

func (l *ModelListener) handle(ctx context.Context, payload []byte) string {
	event, err := DeserializeEvent(payload)
	if err != nil {
		l.logger.Warn().Err(err).Msg("dropping malformed model event")
		return resultInvalid
	}
	if event.InstanceID == l.instanceID {
		return resultSelf
	}
	if active := l.engine.Active(); active != nil && active.Version >= event.Version {
		l.logger.Debug().
			Int64("active_version", active.Version).
			Int64("event_version", event.Version).
			Msg("model event is not newer than the active snapshot")
		return resultStale
	}

	if err := l.engine.Load(ctx); err != nil {
		if errors.Is(err, recommend.ErrTrainingInProgress) {
			l.logger.Info().Int64("version", event.Version).Msg("skipping reload, local training in progress")
			return resultBusy
		}
		l.logger.Error().Err(err).Int64("version", event.Version).Msg("failed to reload snapshot")
		return resultError
	}

	if l.onReload != nil {
		l.onReload()
	}
	l.logger.Info().
		Str("from_instance", event.InstanceID).
		Int64("version", event.Version).
		Msg("reloaded snapshot announced by another replica")
	return resultReloaded
}

// Close shuts the subscriber down.
func (l *ModelListener) Close() error {
	return l.subscriber.Close()
}
