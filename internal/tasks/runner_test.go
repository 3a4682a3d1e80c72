package tasks

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_RunOnStart(t *testing.T) {
	r := NewRunner(slog.New(slog.DiscardHandler))

	var runs atomic.Int64
	r.Add(Job{
		Name:       "counter",
		Interval:   time.Hour, // Only the startup run fires in this test
		RunOnStart: true,
		Fn: func(context.Context) error {
			runs.Add(1)
			return nil
		},
	})

	r.Start(context.Background())
	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, time.Millisecond)
	r.Stop()
	assert.Equal(t, int64(1), runs.Load())
}

func TestRunner_TicksUntilStopped(t *testing.T) {
	r := NewRunner(slog.New(slog.DiscardHandler))

	var runs atomic.Int64
	r.Add(Job{
		Name:     "ticker",
		Interval: 5 * time.Millisecond,
		Fn: func(context.Context) error {
			runs.Add(1)
			return nil
		},
	})

	r.Start(context.Background())
	require.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, time.Millisecond)

	r.Stop()
	after := runs.Load()
	time.Sleep(25 * time.Millisecond)
	assert.Equal(t, after, runs.Load(), "job kept running after Stop")
}

func TestRunner_ContextCancelStopsJobs(t *testing.T) {
	r := NewRunner(slog.New(slog.DiscardHandler))

	var runs atomic.Int64
	r.Add(Job{
		Name:     "cancellable",
		Interval: 5 * time.Millisecond,
		Fn: func(context.Context) error {
			runs.Add(1)
			return nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	r.Start(ctx)
	require.Eventually(t, func() bool { return runs.Load() >= 1 }, time.Second, time.Millisecond)

	cancel()
	r.Stop() // Waits for the goroutine even though ctx already fired
}

func TestRunner_JobErrorsDoNotStopTicking(t *testing.T) {
	r := NewRunner(slog.New(slog.DiscardHandler))

	var runs atomic.Int64
	r.Add(Job{
		Name:     "flaky",
		Interval: 5 * time.Millisecond,
		Fn: func(context.Context) error {
			runs.Add(1)
			return errors.New("boom")
		},
	})

	r.Start(context.Background())
	require.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, time.Millisecond)
	r.Stop()
}

func TestRunner_StartTwiceIsHarmless(t *testing.T) {
	r := NewRunner(slog.New(slog.DiscardHandler))

	var runs atomic.Int64
	r.Add(Job{
		Name:       "once",
		Interval:   time.Hour,
		RunOnStart: true,
		Fn: func(context.Context) error {
			runs.Add(1)
			return nil
		},
	})

	ctx := context.Background()
	r.Start(ctx)
	r.Start(ctx)
	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, time.Millisecond)
	r.Stop()
	assert.Equal(t, int64(1), runs.Load())
}
