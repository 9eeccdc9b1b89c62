// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package eventprocessor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	natsgo "github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/cinerec/internal/metrics"
	"github.com/tomtom215/cinerec/internal/models"
	"github.com/tomtom215/cinerec/internal/recommend"
)

const retrainSource = "nats"

// Trigger submits a retrain to the training worker and waits for it.
type Trigger interface {
	Trigger(ctx context.Context, source string) recommend.RetrainResult
}

// RetrainResponder answers retrain requests on a NATS subject. Each reply
// is a JSON models.RetrainResponse.
type RetrainResponder struct {
	cfg     RetrainConfig
	trigger Trigger
	limiter *rate.Limiter
	logger  zerolog.Logger

	wg sync.WaitGroup
}

// NewRetrainResponder creates a responder. Requests beyond the configured
// rate are answered with a failure without reaching the worker.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRetrainResponder(cfg RetrainConfig, trigger Trigger, logger zerolog.Logger) *RetrainResponder {
	if cfg.Subject == "" {
		cfg.Subject = DefaultRetrainSubject
	}
	if cfg.RatePerMinute <= 0 {
		cfg.RatePerMinute = 6
	}
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Minute
	}
	return &RetrainResponder{
		cfg:     cfg,
		trigger: trigger,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerMinute/60), cfg.Burst),
		logger:  logger.With().Str("component", "retrain-responder").Logger(),
	}
}

// Run connects, subscribes and serves requests until ctx is canceled.
// In-flight requests are answered before Run returns.
func (r *RetrainResponder) Run(ctx context.Context) error {
	nc, err := natsgo.Connect(r.cfg.URL,
		connectOptions("cinerec-retrain-responder", r.cfg.MaxReconnects, r.cfg.ReconnectWait, r.logger)...)
	if err != nil {
		return fmt.Errorf("connect to NATS: %w", err)
	}
	defer nc.Close()

	handler := func(msg *natsgo.Msg) { r.dispatch(ctx, msg) }

	var sub *natsgo.Subscription
	if r.cfg.QueueGroup != "" {
		sub, err = nc.QueueSubscribe(r.cfg.Subject, r.cfg.QueueGroup, handler)
	} else {
		sub, err = nc.Subscribe(r.cfg.Subject, handler)
	}
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", r.cfg.Subject, err)
	}

	r.logger.Info().
		Str("subject", r.cfg.Subject).
		Str("queue_group", r.cfg.QueueGroup).
		Msg("listening for retrain requests")

	<-ctx.Done()

	if err := sub.Unsubscribe(); err != nil {
		r.logger.Warn().Err(err).Msg("failed to unsubscribe")
	}
	r.wg.Wait()
	if err := nc.Flush(); err != nil {
		r.logger.Debug().Err(err).Msg("flush before close failed")
	}
	return ctx.Err()
}

// dispatch runs on the subscription goroutine; training is handed to a
// separate goroutine so later requests are rejected promptly.
func (r *RetrainResponder) dispatch(ctx context.Context, msg *natsgo.Msg) {
	if !r.limiter.Allow() {
		metrics.RecordRetrainTrigger(retrainSource, "rate_limited")
		r.reply(msg, models.RetrainResponse{Message: "retrain rate limit exceeded, try again later"})
		return
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.reply(msg, r.Respond(ctx))
	}()
}

// Respond triggers a retrain and returns the reply payload.
func (r *RetrainResponder) Respond(ctx context.Context) models.RetrainResponse {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	result := r.trigger.Trigger(ctx, retrainSource)
	return models.NewRetrainResponse(&result)
}

func (r *RetrainResponder) reply(msg *natsgo.Msg, resp models.RetrainResponse) {
	if msg.Reply == "" {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to encode retrain reply")
		return
	}
	if err := msg.Respond(data); err != nil {
		r.logger.Warn().Err(err).Msg("failed to send retrain reply")
	}
}

// RequestRetrain sends a retrain request and decodes the reply. It is the
// client side of RetrainResponder, used by operators and other services.
func RequestRetrain(ctx context.Context, nc *natsgo.Conn, subject string) (*models.RetrainResponse, error) {
	if subject == "" {
		subject = DefaultRetrainSubject
	}
	msg, err := nc.RequestWithContext(ctx, subject, nil)
	if err != nil {
		return nil, fmt.Errorf("retrain request: %w", err)
	}
	var resp models.RetrainResponse
	if err := json.Unmarshal(msg.Data, &resp); err != nil {
		return nil, fmt.Errorf("decode retrain reply: %w", err)
	}
	return &resp, nil
}
