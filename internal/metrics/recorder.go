// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package metrics

import (
	"time"

	"github.com/tomtom215/cinerec/internal/recommend"
)

// Recorder forwards engine events to the package's Prometheus collectors.
// It implements recommend.Observer.
type Recorder struct{}

// NewRecorder creates a Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

var _ recommend.Observer = (*Recorder)(nil)

// ObserveTier records one tier attempt.
func (r *Recorder) ObserveTier(tier string, duration time.Duration, served bool, err error) {
	result := "empty"
	switch {
	case err != nil:
		result = "error"
	case served:
		result = "served"
	}
	RecommendTierRequests.WithLabelValues(tier, result).Inc()
	RecommendTierDuration.WithLabelValues(tier).Observe(duration.Seconds())
}

// ObserveTraining records a finished (or rejected) training run.
func (r *Recorder) ObserveTraining(outcome string, duration time.Duration) {
	TrainingRuns.WithLabelValues(outcome).Inc()
	if outcome == recommend.OutcomeInProgress {
		return
	}
	TrainingDuration.Observe(duration.Seconds())
	if outcome == recommend.OutcomeSuccess {
		TrainingLastSuccess.Set(float64(time.Now().Unix()))
	}
}

// ObserveSnapshot records the newly active snapshot.
func (r *Recorder) ObserveSnapshot(version int64, items int) {
	SnapshotVersion.Set(float64(version))
	SnapshotItems.Set(float64(items))
}

// SetTraining flags whether a training run is executing.
func (r *Recorder) SetTraining(active bool) {
	if active {
		TrainingActive.Set(1)
		return
	}
	TrainingActive.Set(0)
}
