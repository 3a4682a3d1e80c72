// Package tasks runs the app's periodic background jobs: notification
// polling, presence refresh, activity refresh and settings autosave.
// Jobs are tied to the runner's lifecycle; stopping the runner cancels
// their context and waits for them to finish.
package tasks

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Job is one periodic task.
type Job struct {
	Name     string
	Interval time.Duration

	// RunOnStart fires the job immediately instead of waiting a full
	// interval for the first run.
	RunOnStart bool

	Fn func(ctx context.Context) error
}

// Runner schedules jobs on their own tickers.
type Runner struct {
	logger *slog.Logger
	jobs   []Job

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

// NewRunner creates a runner with no jobs.
func NewRunner(logger *slog.Logger) *Runner {
	return &Runner{logger: logger}
}

// Add registers a job. Must be called before Start.
func (r *Runner) Add(job Job) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		panic("tasks: Add after Start")
	}
	r.jobs = append(r.jobs, job)
}

// Start launches every job on its own goroutine. The jobs stop when
// ctx is cancelled or Stop is called.
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return
	}
	r.started = true

	ctx, r.cancel = context.WithCancel(ctx)
	for _, job := range r.jobs {
		r.wg.Add(1)
		go r.run(ctx, job)
	}

	r.logger.Info("Periodic tasks started", "jobs", len(r.jobs))
}

// Stop cancels all jobs and waits for them to return.
func (r *Runner) Stop() {
	r.mu.Lock()
	cancel := r.cancel
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	r.wg.Wait()
}

func (r *Runner) run(ctx context.Context, job Job) {
	defer r.wg.Done()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	if job.RunOnStart {
		r.invoke(ctx, job)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.invoke(ctx, job)
		}
	}
}

// invoke runs one job iteration. Job errors are logged, never fatal;
// the next tick retries.
func (r *Runner) invoke(ctx context.Context, job Job) {
	if err := job.Fn(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		r.logger.Warn("periodic task failed", "job", job.Name, "error", err)
	}
}
