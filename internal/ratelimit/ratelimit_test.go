package ratelimit

import (
	"fmt"
	"testing"
	"time"
)

func TestKeyedRateLimiter_Allow(t *testing.T) {
	tests := []struct {
		name     string
		rps      float64
		burst    int
		calls    int
		wantPass int
	}{
		{name: "burst allows initial requests", rps: 1, burst: 3, calls: 3, wantPass: 3},
		{name: "exceeding burst blocks", rps: 1, burst: 2, calls: 5, wantPass: 2},
		{name: "single token", rps: 1, burst: 1, calls: 1, wantPass: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := New(tt.rps, tt.burst)

			passed := 0
			for range tt.calls {
				if rl.Allow("user-1") {
					passed++
				}
			}

			if passed != tt.wantPass {
				t.Errorf("Allow() passed %d, want %d", passed, tt.wantPass)
			}
		})
	}
}

func TestKeyedRateLimiter_Refill(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	rl := New(1, 1)
	rl.now = func() time.Time { return now }

	if !rl.Allow("user-1") {
		t.Fatal("first call should pass")
	}
	if rl.Allow("user-1") {
		t.Fatal("second call should be limited")
	}

	now = now.Add(time.Second)
	if !rl.Allow("user-1") {
		t.Error("token should refill after one second")
	}
}

func TestKeyedRateLimiter_IndependentKeys(t *testing.T) {
	rl := New(1, 1)

	rl.Allow("key1")
	if rl.Allow("key1") {
		t.Error("key1 should be exhausted")
	}

	if !rl.Allow("key2") {
		t.Error("key2 should be independent and allowed")
	}
}

func TestKeyedRateLimiter_PrunesIdleKeys(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	rl := New(1, 1)
	rl.now = func() time.Time { return now }

	for i := range pruneThreshold {
		rl.Allow(fmt.Sprintf("user-%d", i))
	}
	if got := rl.Len(); got != pruneThreshold {
		t.Fatalf("Len() = %d, want %d", got, pruneThreshold)
	}

	now = now.Add(rl.idleTTL + time.Minute)
	rl.Allow("fresh")

	if got := rl.Len(); got != 1 {
		t.Errorf("Len() after prune = %d, want 1", got)
	}
}
