// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package cache

import (
	"strconv"
	"sync"
	"testing"
	"time"
)

func TestLRU_BasicOperations(t *testing.T) {
	t.Parallel()

	c := NewLRU[int](3, time.Minute)
	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("c", 3)

	for key, want := range map[string]int{"a": 1, "b": 2, "c": 3} {
		got, ok := c.Get(key)
		if !ok || got != want {
			t.Errorf("Get(%q) = %d, %v; want %d, true", key, got, ok, want)
		}
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}

	c.Add("a", 10)
	if got, _ := c.Get("a"); got != 10 {
		t.Errorf("updated a = %d, want 10", got)
	}
	if c.Len() != 3 {
		t.Errorf("update changed Len() to %d", c.Len())
	}
}

func TestLRU_Eviction(t *testing.T) {
	t.Parallel()

	c := NewLRU[string](3, time.Minute)
	c.Add("a", "A")
	c.Add("b", "B")
	c.Add("c", "C")

	// Touch 'a' so 'b' becomes least recently used.
	c.Get("a")
	c.Add("d", "D")

	if _, ok := c.Get("b"); ok {
		t.Error("Expected 'b' to be evicted")
	}
	for _, key := range []string{"a", "c", "d"} {
		if _, ok := c.Get(key); !ok {
			t.Errorf("Expected %q to be present", key)
		}
	}
}

func TestLRU_TTLExpiration(t *testing.T) {
	t.Parallel()

	c := NewLRU[int](10, 50*time.Millisecond)
	c.Add("a", 1)

	if _, ok := c.Get("a"); !ok {
		t.Fatal("Expected to find key 'a' immediately")
	}

	time.Sleep(60 * time.Millisecond)

	if _, ok := c.Get("a"); ok {
		t.Error("Expected key 'a' to be expired")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry not dropped, Len() = %d", c.Len())
	}
}

func TestLRU_CleanupExpired(t *testing.T) {
	t.Parallel()

	c := NewLRU[int](10, 30*time.Millisecond)
	c.Add("a", 1)
	c.Add("b", 2)
	time.Sleep(40 * time.Millisecond)
	c.Add("c", 3)

	if removed := c.CleanupExpired(); removed != 2 {
		t.Errorf("CleanupExpired() = %d, want 2", removed)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestLRU_RemoveAndClear(t *testing.T) {
	t.Parallel()

	c := NewLRU[int](5, time.Minute)
	c.Add("a", 1)
	c.Add("b", 2)

	if !c.Remove("a") {
		t.Error("Remove(a) = false, want true")
	}
	if c.Remove("a") {
		t.Error("Remove(a) twice = true, want false")
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d", c.Len())
	}
	c.Add("z", 26)
	if got, ok := c.Get("z"); !ok || got != 26 {
		t.Error("cache unusable after Clear")
	}
}

func TestLRU_Stats(t *testing.T) {
	t.Parallel()

	c := NewLRU[int](5, time.Minute)
	c.Add("a", 1)
	c.Get("a")
	c.Get("a")
	c.Get("missing")

	hits, misses, size := c.Stats()
	if hits != 2 || misses != 1 || size != 1 {
		t.Errorf("Stats() = %d, %d, %d; want 2, 1, 1", hits, misses, size)
	}
}

func TestLRU_Defaults(t *testing.T) {
	t.Parallel()

	c := NewLRU[int](0, 0)
	if c.capacity != 256 || c.ttl != 5*time.Minute {
		t.Errorf("defaults = %d, %v", c.capacity, c.ttl)
	}
}

func TestLRU_Concurrent(t *testing.T) {
	t.Parallel()

	c := NewLRU[int](100, time.Minute)
	var wg sync.WaitGroup
	for g := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 200 {
				key := strconv.Itoa((g*200 + i) % 150)
				c.Add(key, i)
				c.Get(key)
			}
		}()
	}
	wg.Wait()

	if c.Len() > 100 {
		t.Errorf("Len() = %d exceeds capacity", c.Len())
	}
}
