// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package precomputed

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/cinerec/internal/logging"
	"github.com/tomtom215/cinerec/internal/metrics"
	"github.com/tomtom215/cinerec/internal/recommend"
)

// BreakerSettings configures a BreakerSource.
type BreakerSettings struct {
	// Name labels logs and metrics.
	Name string

	// ConsecutiveFailures opens the breaker. Default 5.
	ConsecutiveFailures uint32

	// Timeout is how long the breaker stays open before a probe. Default 30s.
	Timeout time.Duration
}

// BreakerSource wraps a PrecomputedSource with a circuit breaker so that a
// failing backend is skipped quickly instead of adding its timeout to every
// request.
type BreakerSource struct {
	source recommend.PrecomputedSource
	cb     *gobreaker.CircuitBreaker[[]recommend.Recommendation]
	name   string
}

// NewBreakerSource creates a breaker around source.
func NewBreakerSource(source recommend.PrecomputedSource, settings BreakerSettings) *BreakerSource {
	if settings.Name == "" {
		settings.Name = "precomputed"
	}
	if settings.ConsecutiveFailures == 0 {
		settings.ConsecutiveFailures = 5
	}
	if settings.Timeout <= 0 {
		settings.Timeout = 30 * time.Second
	}
	threshold := settings.ConsecutiveFailures

	metrics.CircuitBreakerState.WithLabelValues(settings.Name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(settings.Name).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]recommend.Recommendation](gobreaker.Settings{
		Name:        settings.Name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			trip := counts.ConsecutiveFailures >= threshold
			if trip {
				logging.Warn().
					Str("breaker", settings.Name).
					Uint32("consecutive_failures", counts.ConsecutiveFailures).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return trip
		},
		// A cancelled request says nothing about backend health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).
				Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &BreakerSource{source: source, cb: cb, name: settings.Name}
}

// Precomputed delegates to the wrapped source unless the breaker is open,
// in which case gobreaker.ErrOpenState is returned immediately.
func (b *BreakerSource) Precomputed(ctx context.Context, userID int, category string, limit int) ([]recommend.Recommendation, error) {
	recs, err := b.cb.Execute(func() ([]recommend.Recommendation, error) {
		return b.source.Precomputed(ctx, userID, category, limit)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).
				Set(float64(b.cb.Counts().ConsecutiveFailures))
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(0)
	return recs, nil
}

// State returns the breaker state as "closed", "half-open" or "open".
func (b *BreakerSource) State() string {
	return stateToString(b.cb.State())
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
