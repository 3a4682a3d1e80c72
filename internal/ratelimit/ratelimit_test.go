package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestKeyedRateLimiter_Allow(t *testing.T) {
	tests := []struct {
		name     string
		rps      float64
		burst    int
		username string
		attempts int
		wantPass int
	}{
		{
			name:     "burst covers a few quick login attempts",
			rps:      1,
			burst:    3,
			username: "anna_k",
			attempts: 3,
			wantPass: 3,
		},
		{
			name:     "attempts past the burst are rejected",
			rps:      1,
			burst:    2,
			username: "anna_k",
			attempts: 5,
			wantPass: 2,
		},
		{
			name:     "single attempt within burst",
			rps:      1,
			burst:    1,
			username: "maxim",
			attempts: 1,
			wantPass: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := New(tt.rps, tt.burst)
			defer rl.Stop()

			passed := 0
			for i := 0; i < tt.attempts; i++ {
				if rl.Allow(tt.username) {
					passed++
				}
			}

			if passed != tt.wantPass {
				t.Errorf("Allow() passed %d attempts, want %d", passed, tt.wantPass)
			}
		})
	}
}

func TestKeyedRateLimiter_Wait(t *testing.T) {
	rl := New(10, 1)
	defer rl.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	start := time.Now()
	if err := rl.Wait(ctx, "anna_k"); err != nil {
		t.Errorf("first Wait() failed: %v", err)
	}
	if time.Since(start) > 50*time.Millisecond {
		t.Error("first Wait() should be immediate")
	}

	// At 10 per second the second attempt waits about 100ms.
	start = time.Now()
	if err := rl.Wait(ctx, "anna_k"); err != nil {
		t.Errorf("second Wait() failed: %v", err)
	}
	elapsed := time.Since(start)
	if elapsed < 80*time.Millisecond || elapsed > 200*time.Millisecond {
		t.Errorf("second Wait() took %v, want ~100ms", elapsed)
	}
}

func TestKeyedRateLimiter_WaitContextCancelled(t *testing.T) {
	rl := New(0.1, 1) // One attempt per 10 seconds
	defer rl.Stop()

	rl.Allow("anna_k") // Exhaust the burst

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := rl.Wait(ctx, "anna_k"); err == nil {
		t.Error("Wait() should fail when the context is cancelled")
	}
}

func TestKeyedRateLimiter_UsersThrottledIndependently(t *testing.T) {
	rl := New(1, 1)
	defer rl.Stop()

	rl.Allow("anna_k")
	if rl.Allow("anna_k") {
		t.Error("anna_k should be throttled")
	}

	// A different account is unaffected by anna_k's failed attempts.
	if !rl.Allow("maxim") {
		t.Error("maxim should not be throttled")
	}
}
