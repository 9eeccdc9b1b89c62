// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package database

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/tomtom215/cinerec/internal/logging"
)

// mockCloser implements io.Closer for testing
type mockCloser struct {
	closed bool
	err    error
}

func (m *mockCloser) Close() error {
	m.closed = true
	return m.err
}

// captureLogs redirects the global logger for the duration of the test.
// Tests using it must not run in parallel.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := logging.Logger()
	logging.SetLogger(logging.NewTestLogger(&buf))
	t.Cleanup(func() { logging.SetLogger(prev) })
	return &buf
}

func TestCloseWithLog(t *testing.T) {
	t.Run("nil closer does not panic", func(t *testing.T) {
		buf := captureLogs(t)

		closeWithLog(nil, "test")

		if buf.Len() > 0 {
			t.Errorf("Expected no log output for nil closer, got: %s", buf.String())
		}
	})

	t.Run("successful close does not log", func(t *testing.T) {
		buf := captureLogs(t)

		closer := &mockCloser{}
		closeWithLog(closer, "rows")

		if !closer.closed {
			t.Error("Expected closer to be closed")
		}
		if buf.Len() > 0 {
			t.Errorf("Expected no log output for successful close, got: %s", buf.String())
		}
	})

	t.Run("error during close is logged", func(t *testing.T) {
		buf := captureLogs(t)

		closer := &mockCloser{err: errors.New("close failed: connection reset")}
		closeWithLog(closer, "statement")

		if !closer.closed {
			t.Error("Expected closer to be closed")
		}
		out := buf.String()
		for _, want := range []string{"Failed to close resource", "statement", "connection reset"} {
			if !strings.Contains(out, want) {
				t.Errorf("log output missing %q: %s", want, out)
			}
		}
	})
}

func TestCloseQuietly(t *testing.T) {
	t.Parallel()

	closeQuietly(nil)

	closer := &mockCloser{err: errors.New("ignored")}
	closeQuietly(closer)
	if !closer.closed {
		t.Error("Expected closer to be closed")
	}
}
