package jobs

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecurringRunsImmediatelyAndStops(t *testing.T) {
	var runs int64
	job := NewRecurring("test", func(ctx context.Context) error {
		atomic.AddInt64(&runs, 1)
		return nil
	}, RecurringConfig{Interval: time.Hour})

	job.Start(context.Background())
	require.Eventually(t, func() bool { return atomic.LoadInt64(&runs) == 1 }, time.Second, 10*time.Millisecond)
	job.Stop()
	assert.Equal(t, int64(1), atomic.LoadInt64(&runs))
}

func TestRecurringSkipsOverlappingRuns(t *testing.T) {
	release := make(chan struct{})
	var active, maxActive int64
	job := NewRecurring("test", func(ctx context.Context) error {
		cur := atomic.AddInt64(&active, 1)
		if cur > atomic.LoadInt64(&maxActive) {
			atomic.StoreInt64(&maxActive, cur)
		}
		<-release
		atomic.AddInt64(&active, -1)
		return nil
	}, RecurringConfig{Interval: 5 * time.Millisecond})

	job.Start(context.Background())
	time.Sleep(50 * time.Millisecond)
	close(release)
	job.Stop()

	assert.Equal(t, int64(1), atomic.LoadInt64(&maxActive), "task must never run concurrently with itself")
}

func TestRecurringStartIdempotent(t *testing.T) {
	job := NewRecurring("test", func(ctx context.Context) error { return nil }, RecurringConfig{Interval: time.Hour})
	job.Start(context.Background())
	job.Start(context.Background())
	job.Stop()
	job.Stop()
}
