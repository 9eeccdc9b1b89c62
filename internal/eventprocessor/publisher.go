// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package eventprocessor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/cinerec/internal/metrics"
)

// ErrPublisherClosed is returned by Publish after Close.
var ErrPublisherClosed = errors.New("publisher is closed")

// Publisher sends model events over core NATS through Watermill. Publishes
// go through a circuit breaker so an unreachable broker never slows the
// training worker down.
type Publisher struct {
	publisher message.Publisher
	subject   string
	breaker   *gobreaker.CircuitBreaker[any]
	mu        sync.RWMutex
	closed    bool
}

// NewPublisher creates a Watermill NATS publisher with JetStream disabled.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPublisher(cfg PublisherConfig, wmLogger watermill.LoggerAdapter, logger zerolog.Logger) (*Publisher, error) {
	if wmLogger == nil {
		wmLogger = watermill.NopLogger{}
	}
	if cfg.Subject == "" {
		cfg.Subject = DefaultEventsSubject
	}

	natsOpts := connectOptions("cinerec-events-publisher", cfg.MaxReconnects, cfg.ReconnectWait, logger)

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         cfg.URL,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream:   wmNats.JetStreamConfig{Disabled: true},
	}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("create watermill publisher: %w", err)
	}

	return newPublisher(pub, cfg.Subject), nil
}

// newPublisher wraps any Watermill publisher; tests use the in-memory one.
func newPublisher(pub message.Publisher, subject string) *Publisher {
	const breakerName = "model-events"
	breaker := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:    breakerName,
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
		},
	})
	return &Publisher{publisher: pub, subject: subject, breaker: breaker}
}

// PublishModelActivated serializes and publishes a model event.
func (p *Publisher) PublishModelActivated(ctx context.Context, event *ModelActivated) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}

	data, err := SerializeEvent(event)
	if err != nil {
		return err
	}

	msg := message.NewMessage(event.EventID, data)
	msg.Metadata.Set("instance_id", event.InstanceID)
	msg.SetContext(ctx)

	_, err = p.breaker.Execute(func() (any, error) {
		return nil, p.publisher.Publish(p.subject, msg)
	})
	if err != nil {
		metrics.RecordModelEvent("published", "error")
		return fmt.Errorf("publish model event: %w", err)
	}
	metrics.RecordModelEvent("published", "ok")
	return nil
}

// Close releases the underlying connection. It is idempotent.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.publisher.Close()
}
