// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSlogHandler_Handle(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	slogger := slog.New(NewSlogHandlerWithLogger(zerolog.New(&buf)))

	slogger.With("supervisor", "training-layer").
		WithGroup("service").
		Warn("service failed",
			"name", "recommend-trainer",
			"restarts", 2,
			"backoff", 15*time.Second,
			"err", errors.New("boom"),
			slog.Group("failure", "threshold", 5.0))

	out := buf.String()
	for _, want := range []string{
		`"level":"warn"`,
		`"message":"service failed"`,
		`"supervisor":"training-layer"`,
		`"service.name":"recommend-trainer"`,
		`"service.restarts":2`,
		`"service.err":"boom"`,
		`"service.failure.threshold":5`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %s", want, out)
		}
	}
}

func TestSlogHandler_Enabled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		level     zerolog.Level
		slogLevel slog.Level
		want      bool
	}{
		{"debug logger enables debug", zerolog.DebugLevel, slog.LevelDebug, true},
		{"info logger disables debug", zerolog.InfoLevel, slog.LevelDebug, false},
		{"info logger enables error", zerolog.InfoLevel, slog.LevelError, true},
		{"error logger disables warn", zerolog.ErrorLevel, slog.LevelWarn, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := NewSlogHandlerWithLogger(zerolog.Nop().Level(tt.level))
			if got := h.Enabled(context.Background(), tt.slogLevel); got != tt.want {
				t.Errorf("Enabled(%v) = %v, want %v", tt.slogLevel, got, tt.want)
			}
		})
	}
}

func TestSlogToZerologLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   slog.Level
		want zerolog.Level
	}{
		{slog.LevelDebug - 4, zerolog.TraceLevel},
		{slog.LevelDebug, zerolog.DebugLevel},
		{slog.LevelInfo, zerolog.InfoLevel},
		{slog.LevelWarn, zerolog.WarnLevel},
		{slog.LevelError, zerolog.ErrorLevel},
		{slog.LevelError + 4, zerolog.ErrorLevel},
	}
	for _, tt := range tests {
		if got := slogToZerologLevel(tt.in); got != tt.want {
			t.Errorf("slogToZerologLevel(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
