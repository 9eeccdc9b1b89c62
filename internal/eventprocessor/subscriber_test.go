// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package eventprocessor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerec/internal/recommend"
)

// fakeReloader moves its active version to next on Load.
type fakeReloader struct {
	mu      sync.Mutex
	active  int64
	next    int64
	loadErr error
	loads   atomic.Int32
}

func (f *fakeReloader) Load(context.Context) error {
	f.loads.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return f.loadErr
	}
	f.active = f.next
	return nil
}

func (f *fakeReloader) Active() *recommend.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.active == 0 {
		return nil
	}
	return &recommend.Snapshot{Version: f.active}
}

func eventPayload(t *testing.T, instance string, version int64) []byte {
	t.Helper()
	data, err := SerializeEvent(NewModelActivated(instance, &recommend.RetrainResult{Version: version}))
	if err != nil {
		t.Fatalf("SerializeEvent: %v", err)
	}
	return data
}

func TestModelListener_Handle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		reloader  *fakeReloader
		payload   func(t *testing.T) []byte
		want      string
		wantLoads int32
	}{
		{
			name:      "newer version from peer reloads",
			reloader:  &fakeReloader{active: 2, next: 5},
			payload:   func(t *testing.T) []byte { return eventPayload(t, "peer", 5) },
			want:      resultReloaded,
			wantLoads: 1,
		},
		{
			name:      "no active model reloads",
			reloader:  &fakeReloader{next: 1},
			payload:   func(t *testing.T) []byte { return eventPayload(t, "peer", 1) },
			want:      resultReloaded,
			wantLoads: 1,
		},
		{
			name:     "own event ignored",
			reloader: &fakeReloader{active: 1},
			payload:  func(t *testing.T) []byte { return eventPayload(t, "self", 9) },
			want:     resultSelf,
		},
		{
			name:     "older or equal version ignored",
			reloader: &fakeReloader{active: 5},
			payload:  func(t *testing.T) []byte { return eventPayload(t, "peer", 5) },
			want:     resultStale,
		},
		{
			name:     "malformed payload dropped",
			reloader: &fakeReloader{},
			payload:  func(*testing.T) []byte { return []byte("not json") },
			want:     resultInvalid,
		},
		{
			name:      "local training in progress",
			reloader:  &fakeReloader{loadErr: recommend.ErrTrainingInProgress},
			payload:   func(t *testing.T) []byte { return eventPayload(t, "peer", 3) },
			want:      resultBusy,
			wantLoads: 1,
		},
		{
			name:      "load failure reported",
			reloader:  &fakeReloader{loadErr: errors.New("disk gone")},
			payload:   func(t *testing.T) []byte { return eventPayload(t, "peer", 3) },
			want:      resultError,
			wantLoads: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var reloaded atomic.Int32
			l := newModelListener(nil, DefaultEventsSubject, "self", tt.reloader,
				func() { reloaded.Add(1) }, zerolog.Nop())

			if got := l.Handle(context.Background(), tt.payload(t)); got != tt.want {
				t.Errorf("Handle() = %q, want %q", got, tt.want)
			}
			if got := tt.reloader.loads.Load(); got != tt.wantLoads {
				t.Errorf("Load() called %d times, want %d", got, tt.wantLoads)
			}
			wantHook := int32(0)
			if tt.want == resultReloaded {
				wantHook = 1
			}
			if reloaded.Load() != wantHook {
				t.Errorf("onReload called %d times, want %d", reloaded.Load(), wantHook)
			}
		})
	}
}

func TestPublisherAndListener_GoChannel(t *testing.T) {
	t.Parallel()

	pubsub := gochannel.NewGoChannel(gochannel.Config{Persistent: true}, watermill.NopLogger{})
	defer pubsub.Close()

	reloader := &fakeReloader{active: 1, next: 2}
	reloadedCh := make(chan struct{}, 1)
	listener := newModelListener(pubsub, DefaultEventsSubject, "replica-b", reloader,
		func() { reloadedCh <- struct{}{} }, zerolog.Nop())
	publisher := newPublisher(pubsub, DefaultEventsSubject)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- listener.Run(ctx) }()

	event := NewModelActivated("replica-a", &recommend.RetrainResult{Version: 2})
	if err := publisher.PublishModelActivated(ctx, event); err != nil {
		t.Fatalf("PublishModelActivated: %v", err)
	}

	select {
	case <-reloadedCh:
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not reload")
	}
	if v := reloader.Active().Version; v != 2 {
		t.Errorf("active version = %d, want 2", v)
	}

	cancel()
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
}

func TestPublisher_Closed(t *testing.T) {
	t.Parallel()

	pubsub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	publisher := newPublisher(pubsub, DefaultEventsSubject)

	if err := publisher.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := publisher.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}

	event := NewModelActivated("a", &recommend.RetrainResult{Version: 1})
	if err := publisher.PublishModelActivated(context.Background(), event); !errors.Is(err, ErrPublisherClosed) {
		t.Errorf("publish after close = %v, want ErrPublisherClosed", err)
	}
}
