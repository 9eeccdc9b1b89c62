// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerec/internal/recommend"
)

// mockRetrainer is a Retrainer with a controllable result and delay.
type mockRetrainer struct {
	mu      sync.Mutex
	calls   int
	err     error
	delay   time.Duration
	release chan struct{}
}

func (m *mockRetrainer) Retrain(ctx context.Context) recommend.RetrainResult {
	m.mu.Lock()
	m.calls++
	err := m.err
	m.mu.Unlock()

	if m.release != nil {
		select {
		case <-m.release:
		case <-ctx.Done():
			return recommend.RetrainResult{Err: ctx.Err(), Message: "canceled"}
		}
	}
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	if err != nil {
		return recommend.RetrainResult{Err: err, Message: err.Error()}
	}
	return recommend.RetrainResult{Success: true, Message: "trained", Version: 1}
}

func (m *mockRetrainer) getCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func startService(t *testing.T, svc *RecommendService) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = svc.Serve(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return cancel
}

func TestRecommendService_String(t *testing.T) {
	t.Parallel()

	svc := NewRecommendService(&mockRetrainer{}, RecommendServiceConfig{}, zerolog.Nop())
	if got := svc.String(); got != "recommend-service" {
		t.Errorf("String() = %q, want %q", got, "recommend-service")
	}
}

func TestRecommendService_TrainOnStartup(t *testing.T) {
	t.Parallel()

	engine := &mockRetrainer{}
	var completed atomic.Int32
	svc := NewRecommendService(engine, RecommendServiceConfig{
		TrainOnStartup: true,
		TrainInterval:  time.Hour,
		OnComplete:     func(recommend.RetrainResult) { completed.Add(1) },
	}, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() = %v, want deadline exceeded", err)
	}

	if got := engine.getCalls(); got != 1 {
		t.Errorf("Retrain() called %d times, want 1", got)
	}
	if completed.Load() != 1 {
		t.Errorf("OnComplete called %d times, want 1", completed.Load())
	}
}

func TestRecommendService_ScheduledTraining(t *testing.T) {
	t.Parallel()

	engine := &mockRetrainer{}
	svc := NewRecommendService(engine, RecommendServiceConfig{TrainInterval: 30 * time.Millisecond}, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_ = svc.Serve(ctx)

	if got := engine.getCalls(); got < 2 {
		t.Errorf("Retrain() called %d times, want at least 2", got)
	}
}

func TestRecommendService_NoScheduleWhenIntervalZero(t *testing.T) {
	t.Parallel()

	engine := &mockRetrainer{}
	svc := NewRecommendService(engine, RecommendServiceConfig{}, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_ = svc.Serve(ctx)

	if got := engine.getCalls(); got != 0 {
		t.Errorf("Retrain() called %d times, want 0", got)
	}
}

func TestRecommendService_Trigger(t *testing.T) {
	t.Parallel()

	engine := &mockRetrainer{}
	svc := NewRecommendService(engine, RecommendServiceConfig{}, zerolog.Nop())
	startService(t, svc)

	result := svc.Trigger(context.Background(), SourceHTTP)
	if !result.Success {
		t.Fatalf("Trigger() = %+v, want success", result)
	}
	if result.Message == "" {
		t.Error("expected a message")
	}
	if engine.getCalls() != 1 {
		t.Errorf("Retrain() called %d times, want 1", engine.getCalls())
	}
}

func TestRecommendService_TriggerFailureSkipsOnComplete(t *testing.T) {
	t.Parallel()

	engine := &mockRetrainer{err: recommend.ErrInsufficientData}
	var completed atomic.Int32
	svc := NewRecommendService(engine, RecommendServiceConfig{
		OnComplete: func(recommend.RetrainResult) { completed.Add(1) },
	}, zerolog.Nop())
	startService(t, svc)

	result := svc.Trigger(context.Background(), SourceHTTP)
	if result.Success || !errors.Is(result.Err, recommend.ErrInsufficientData) {
		t.Errorf("Trigger() = %+v, want insufficient data", result)
	}
	if result.Outcome() != recommend.OutcomeInsufficient {
		t.Errorf("Outcome() = %q", result.Outcome())
	}
	if completed.Load() != 0 {
		t.Error("OnComplete must not run after a failed retrain")
	}
}

func TestRecommendService_ConcurrentTriggerRejected(t *testing.T) {
	t.Parallel()

	engine := &mockRetrainer{release: make(chan struct{})}
	svc := NewRecommendService(engine, RecommendServiceConfig{}, zerolog.Nop())
	startService(t, svc)

	first := make(chan recommend.RetrainResult, 1)
	go func() { first <- svc.Trigger(context.Background(), SourceHTTP) }()

	deadline := time.Now().Add(time.Second)
	for !svc.Training() {
		if time.Now().After(deadline) {
			t.Fatal("first run never started")
		}
		time.Sleep(5 * time.Millisecond)
	}

	second := svc.Trigger(context.Background(), SourceNATS)
	if second.Success || !errors.Is(second.Err, recommend.ErrTrainingInProgress) {
		t.Errorf("second Trigger() = %+v, want in progress", second)
	}
	if second.Outcome() != recommend.OutcomeInProgress {
		t.Errorf("Outcome() = %q", second.Outcome())
	}

	close(engine.release)
	if r := <-first; !r.Success {
		t.Errorf("first Trigger() = %+v, want success", r)
	}
	if engine.getCalls() != 1 {
		t.Errorf("Retrain() called %d times, want 1", engine.getCalls())
	}
}

func TestRecommendService_TriggerHonoursContext(t *testing.T) {
	t.Parallel()

	// No Serve loop: the job is queued but never picked up.
	svc := NewRecommendService(&mockRetrainer{}, RecommendServiceConfig{}, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	result := svc.Trigger(ctx, SourceHTTP)
	if result.Success || !errors.Is(result.Err, context.DeadlineExceeded) {
		t.Errorf("Trigger() = %+v, want deadline exceeded", result)
	}
}

func TestRecommendService_DrainOnStop(t *testing.T) {
	t.Parallel()

	svc := NewRecommendService(&mockRetrainer{}, RecommendServiceConfig{}, zerolog.Nop())
	job := retrainJob{source: SourceHTTP, reply: make(chan recommend.RetrainResult, 1)}
	svc.jobs <- job

	svc.drain()

	select {
	case r := <-job.reply:
		if r.Success || !errors.Is(r.Err, context.Canceled) {
			t.Errorf("drained result = %+v", r)
		}
	default:
		t.Fatal("queued job was not answered")
	}
}
