// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/test/record", "200"))

	RecordAPIRequest("GET", "/test/record", "200", 15*time.Millisecond)
	RecordAPIRequest("GET", "/test/record", "200", 25*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/test/record", "200"))
	if after-before != 2 {
		t.Errorf("api_requests_total delta = %v, want 2", after-before)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("after inc = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("after dec = %v, want %v", got, before)
	}
}

func TestRecordRetrainTrigger(t *testing.T) {
	c := RetrainTriggers.WithLabelValues("test-source", "accepted")
	before := testutil.ToFloat64(c)

	RecordRetrainTrigger("test-source", "accepted")

	if got := testutil.ToFloat64(c); got != before+1 {
		t.Errorf("retrain triggers = %v, want %v", got, before+1)
	}
}

func TestRecordModelEvent(t *testing.T) {
	c := ModelEvents.WithLabelValues("published", "test-ok")
	before := testutil.ToFloat64(c)

	RecordModelEvent("published", "test-ok")

	if got := testutil.ToFloat64(c); got != before+1 {
		t.Errorf("model events = %v, want %v", got, before+1)
	}
}

func TestRecordCacheLookup(t *testing.T) {
	hits := CacheHits.WithLabelValues("test-cache")
	misses := CacheMisses.WithLabelValues("test-cache")
	h0, m0 := testutil.ToFloat64(hits), testutil.ToFloat64(misses)

	RecordCacheLookup("test-cache", true)
	RecordCacheLookup("test-cache", false)
	RecordCacheLookup("test-cache", false)

	if got := testutil.ToFloat64(hits) - h0; got != 1 {
		t.Errorf("hits delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(misses) - m0; got != 2 {
		t.Errorf("misses delta = %v, want 2", got)
	}
}

func TestConcurrentRecording(t *testing.T) {
	c := APIRequestsTotal.WithLabelValues("POST", "/test/concurrent", "202")
	before := testutil.ToFloat64(c)

	const goroutines = 50
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for range goroutines {
		go func() {
			defer wg.Done()
			RecordAPIRequest("POST", "/test/concurrent", "202", time.Millisecond)
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(c) - before; got != goroutines {
		t.Errorf("concurrent delta = %v, want %d", got, goroutines)
	}
}
