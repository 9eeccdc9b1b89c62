// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerec/internal/metrics"
	"github.com/tomtom215/cinerec/internal/recommend"
)

// Trigger sources, used as metric labels.
const (
	SourceStartup  = "startup"
	SourceSchedule = "schedule"
	SourceHTTP     = "http"
	SourceNATS     = "nats"
)

// Retrainer is the part of the recommendation engine the worker drives.
type Retrainer interface {
	Retrain(ctx context.Context) recommend.RetrainResult
}

// RecommendServiceConfig holds configuration for the retrain worker.
type RecommendServiceConfig struct {
	// TrainOnStartup triggers training when the service starts.
	TrainOnStartup bool

	// TrainInterval is how often to retrain. Zero disables scheduled runs.
	TrainInterval time.Duration

	// OnComplete runs after every successful training run.
	OnComplete func(recommend.RetrainResult)
}

type retrainJob struct {
	source string
	reply  chan recommend.RetrainResult
}

// RecommendService runs training off the request path. Callers submit work
// with Trigger; the worker goroutine owned by Serve executes it.
type RecommendService struct {
	engine Retrainer
	config RecommendServiceConfig
	logger zerolog.Logger
	name   string

	jobs chan retrainJob
	busy atomic.Bool
}

// NewRecommendService creates a new retrain worker.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRecommendService(engine Retrainer, cfg RecommendServiceConfig, logger zerolog.Logger) *RecommendService {
	return &RecommendService{
		engine: engine,
		config: cfg,
		logger: logger.With().Str("service", "recommend").Logger(),
		name:   "recommend-service",
		jobs:   make(chan retrainJob, 1),
	}
}

// Trigger asks the worker to retrain and waits for the result. When a run is
// already executing or queued it returns an in-progress result immediately.
func (s *RecommendService) Trigger(ctx context.Context, source string) recommend.RetrainResult {
	if s.busy.Load() {
		return s.rejected(source)
	}

	job := retrainJob{source: source, reply: make(chan recommend.RetrainResult, 1)}
	select {
	case s.jobs <- job:
	default:
		return s.rejected(source)
	}

	select {
	case result := <-job.reply:
		return result
	case <-ctx.Done():
		return recommend.RetrainResult{
			Message: "retrain request abandoned: " + ctx.Err().Error(),
			Err:     ctx.Err(),
		}
	}
}

// Training reports whether the worker is executing a run.
func (s *RecommendService) Training() bool {
	return s.busy.Load()
}

func (s *RecommendService) rejected(source string) recommend.RetrainResult {
	metrics.RecordRetrainTrigger(source, recommend.OutcomeInProgress)
	return recommend.RetrainResult{
		Message: "training already in progress, try again later",
		Err:     recommend.ErrTrainingInProgress,
	}
}

// Serve implements the suture.Service interface.
func (s *RecommendService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("train_on_startup", s.config.TrainOnStartup).
		Dur("train_interval", s.config.TrainInterval).
		Msg("recommendation service starting")

	defer s.drain()

	if s.config.TrainOnStartup {
		s.run(ctx, SourceStartup)
	}

	var tick <-chan time.Time
	if s.config.TrainInterval > 0 {
		ticker := time.NewTicker(s.config.TrainInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("recommendation service shutting down")
			return ctx.Err()

		case <-tick:
			s.logger.Debug().Msg("scheduled training triggered")
			s.run(ctx, SourceSchedule)

		case job := <-s.jobs:
			job.reply <- s.run(ctx, job.source)
		}
	}
}

func (s *RecommendService) run(ctx context.Context, source string) recommend.RetrainResult {
	s.busy.Store(true)
	defer s.busy.Store(false)

	result := s.engine.Retrain(ctx)
	outcome := result.Outcome()
	metrics.RecordRetrainTrigger(source, outcome)

	event := s.logger.Info()
	if !result.Success {
		event = s.logger.Warn().Err(result.Err)
	}
	event.
		Str("source", source).
		Str("outcome", outcome).
		Str("run_id", result.RunID).
		Dur("duration", result.Duration).
		Msg(result.Message)

	if result.Success && s.config.OnComplete != nil {
		s.config.OnComplete(result)
	}
	return result
}

// drain answers jobs still queued when the worker stops.
func (s *RecommendService) drain() {
	for {
		select {
		case job := <-s.jobs:
			job.reply <- recommend.RetrainResult{
				Message: "recommendation service stopped before training started",
				Err:     context.Canceled,
			}
		default:
			return
		}
	}
}

// String returns the service name for logging.
func (s *RecommendService) String() string {
	return s.name
}
