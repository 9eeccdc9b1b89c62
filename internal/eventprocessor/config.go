// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package eventprocessor

import (
	"time"

	natsgo "github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// Default subjects.
const (
	DefaultRetrainSubject = "cinerec.retrain"
	DefaultEventsSubject  = "cinerec.model.activated"
)

// ServerConfig holds embedded NATS server settings.
type ServerConfig struct {
	Host string
	Port int
}

// DefaultServerConfig returns defaults for the embedded NATS server.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host: "127.0.0.1",
		Port: 4222,
	}
}

// PublisherConfig holds publisher configuration.
type PublisherConfig struct {
	URL             string
	Subject         string
	MaxReconnects   int
	ReconnectWait   time.Duration
	ReconnectBuffer int
}

// DefaultPublisherConfig returns production defaults for the event publisher.
func DefaultPublisherConfig(url string) PublisherConfig {
	return PublisherConfig{
		URL:             url,
		Subject:         DefaultEventsSubject,
		MaxReconnects:   -1, // Unlimited
		ReconnectWait:   2 * time.Second,
		ReconnectBuffer: 1024 * 1024,
	}
}

// SubscriberConfig holds event subscriber configuration.
type SubscriberConfig struct {
	URL           string
	Subject       string
	CloseTimeout  time.Duration
	MaxReconnects int
	ReconnectWait time.Duration
}

// DefaultSubscriberConfig returns production defaults for the event subscriber.
// Every replica receives every event, so no queue group is used.
func DefaultSubscriberConfig(url string) SubscriberConfig {
	return SubscriberConfig{
		URL:           url,
		Subject:       DefaultEventsSubject,
		CloseTimeout:  10 * time.Second,
		MaxReconnects: -1,
		ReconnectWait: 2 * time.Second,
	}
}

// RetrainConfig holds retrain responder configuration.
type RetrainConfig struct {
	URL        string
	Subject    string
	QueueGroup string

	// RatePerMinute is the sustained number of accepted triggers.
	RatePerMinute float64
	Burst         int

	// Timeout bounds how long a request waits for its training run.
	Timeout time.Duration

	MaxReconnects int
	ReconnectWait time.Duration
}

// DefaultRetrainConfig returns production defaults for the retrain responder.
func DefaultRetrainConfig(url string) RetrainConfig {
	return RetrainConfig{
		URL:           url,
		Subject:       DefaultRetrainSubject,
		QueueGroup:    "cinerec",
		RatePerMinute: 6,
		Burst:         1,
		Timeout:       30 * time.Minute,
		MaxReconnects: -1,
		ReconnectWait: 2 * time.Second,
	}
}

// connectOptions returns the reconnect and logging options shared by every
// connection this package opens.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func connectOptions(name string, maxReconnects int, reconnectWait time.Duration, logger zerolog.Logger) []natsgo.Option {
	return []natsgo.Option{
		natsgo.Name(name),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(maxReconnects),
		natsgo.ReconnectWait(reconnectWait),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Warn().Err(err).Msg("NATS disconnected")
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}
}
