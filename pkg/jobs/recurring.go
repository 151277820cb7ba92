package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task is the unit of work executed on each tick.
type Task func(context.Context) error

// RecurringConfig configures a recurring background job.
type RecurringConfig struct {
	Interval time.Duration
	Logger   *zap.Logger
}

// Recurring runs a task on a fixed interval in its own goroutine. A run that
// is still in flight when the next tick fires is skipped rather than stacked,
// so the task never executes concurrently with itself.
type Recurring struct {
	name     string
	task     Task
	interval time.Duration
	logger   *zap.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	running sync.Mutex
	started bool
}

// NewRecurring builds a recurring job with the provided task.
func NewRecurring(name string, task Task, cfg RecurringConfig) *Recurring {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Recurring{
		name:     name,
		task:     task,
		interval: cfg.Interval,
		logger:   cfg.Logger,
	}
}

// Start launches the job loop. The task runs once immediately, then on every
// tick. Safe to call once.
func (r *Recurring) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return
	}
	r.ctx, r.cancel = context.WithCancel(ctx)
	r.wg.Add(1)
	go r.loop()
	r.started = true
	r.logger.Sugar().Infow("recurring job started", "job", r.name, "interval", r.interval)
}

// Stop cancels the loop and waits for any in-flight run to finish.
func (r *Recurring) Stop() {
	r.mu.Lock()
	if !r.started {
		r.mu.Unlock()
		return
	}
	r.cancel()
	r.mu.Unlock()
	r.wg.Wait()
	r.logger.Sugar().Infow("recurring job stopped", "job", r.name)
}

func (r *Recurring) loop() {
	defer r.wg.Done()

	r.runOnce()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.runOnce()
		}
	}
}

func (r *Recurring) runOnce() {
	if !r.running.TryLock() {
		r.logger.Sugar().Warnw("previous run still in flight, skipping", "job", r.name)
		return
	}
	defer r.running.Unlock()

	if err := r.task(r.ctx); err != nil {
		r.logger.Sugar().Errorw("recurring job run failed", "job", r.name, "error", err)
	}
}
