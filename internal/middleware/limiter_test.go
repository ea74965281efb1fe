package middleware

import (
	"testing"
	"time"
)

// TestClientLimiter_CapEvictsOldest verifies the bucket map never exceeds
// maxClients and that the least recently seen client goes first.
func TestClientLimiter_CapEvictsOldest(t *testing.T) {
	lim := NewClientLimiter(0.001, 1)
	lim.maxClients = 2
	clock := time.Unix(0, 0)
	lim.now = func() time.Time { return clock }

	lim.Allow("a")
	clock = clock.Add(time.Second)
	lim.Allow("b")
	clock = clock.Add(time.Second)
	lim.Allow("c")

	if lim.Len() != 2 {
		t.Fatalf("expected 2 tracked clients, got %d", lim.Len())
	}
	if _, ok := lim.buckets["a"]; ok {
		t.Error("oldest client should have been evicted")
	}
	if lim.Allow("b") {
		t.Error("surviving client should keep its spent bucket")
	}
}

// TestClientLimiter_SweepIsThrottled verifies idle buckets are swept at most
// once per interval.
func TestClientLimiter_SweepIsThrottled(t *testing.T) {
	lim := NewClientLimiter(1, 1)
	clock := time.Unix(0, 0).Add(limiterSweepInterval)
	lim.now = func() time.Time { return clock }

	for i := 0; i < limiterSweepSize; i++ {
		lim.Allow(string(rune('A' + i%26)) + time.Duration(i).String())
	}
	clock = clock.Add(limiterIdleTTL + time.Second)
	lim.Allow("fresh")
	if lim.Len() != 1 {
		t.Fatalf("expected idle buckets swept, got %d", lim.Len())
	}
	swept := lim.lastSweep

	lim.Allow("other")
	if lim.lastSweep != swept {
		t.Error("sweep ran again inside the interval")
	}
}
