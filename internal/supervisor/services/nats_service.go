// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerec/internal/eventprocessor"
)

// EmbeddedNATS is the lifecycle of an in-process NATS server.
type EmbeddedNATS interface {
	ClientURL() string
	Shutdown(ctx context.Context) error
	IsRunning() bool
}

// NATSServerService runs the embedded NATS server under supervision. A
// server that stops on its own is reported as a failure so suture starts a
// fresh one.
type NATSServerService struct {
	start           func() (EmbeddedNATS, error)
	checkInterval   time.Duration
	shutdownTimeout time.Duration
	logger          zerolog.Logger
	name            string
}

// NewNATSServerService creates a service that starts an embedded server
// with cfg on every Serve.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewNATSServerService(cfg eventprocessor.ServerConfig, logger zerolog.Logger) *NATSServerService {
	return newNATSServerService(func() (EmbeddedNATS, error) {
		return eventprocessor.NewEmbeddedServer(&cfg)
	}, logger)
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func newNATSServerService(start func() (EmbeddedNATS, error), logger zerolog.Logger) *NATSServerService {
	return &NATSServerService{
		start:           start,
		checkInterval:   5 * time.Second,
		shutdownTimeout: 10 * time.Second,
		logger:          logger.With().Str("service", "nats-server").Logger(),
		name:            "nats-server",
	}
}

// Serve implements suture.Service.
func (s *NATSServerService) Serve(ctx context.Context) error {
	srv, err := s.start()
	if err != nil {
		return fmt.Errorf("embedded NATS start failed: %w", err)
	}
	s.logger.Info().Str("url", srv.ClientURL()).Msg("embedded NATS server started")

	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				s.logger.Warn().Err(err).Msg("embedded NATS shutdown incomplete")
			}
			return ctx.Err()

		case <-ticker.C:
			if !srv.IsRunning() {
				return errors.New("embedded NATS server stopped unexpectedly")
			}
		}
	}
}

// String implements fmt.Stringer for suture's event log.
func (s *NATSServerService) String() string {
	return s.name
}

// Runner is a component with a blocking Run loop that returns ctx.Err()
// once its context is canceled.
type Runner interface {
	Run(ctx context.Context) error
}

// RunnerService supervises a Runner. Any return before cancellation is a
// failure.
type RunnerService struct {
	runner Runner
	name   string
}

// NewRetrainSubscriberService supervises the NATS retrain responder.
func NewRetrainSubscriberService(runner Runner) *RunnerService {
	return &RunnerService{runner: runner, name: "retrain-subscriber"}
}

// NewModelListenerService supervises the model event listener.
func NewModelListenerService(runner Runner) *RunnerService {
	return &RunnerService{runner: runner, name: "model-listener"}
}

// Serve implements suture.Service.
func (s *RunnerService) Serve(ctx context.Context) error {
	err := s.runner.Run(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err == nil {
		err = errors.New("stopped unexpectedly")
	}
	return fmt.Errorf("%s: %w", s.name, err)
}

// String implements fmt.Stringer for suture's event log.
func (s *RunnerService) String() string {
	return s.name
}
