package scheduler

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Limiter is the concurrency ceiling: a pool of permits. Acquire blocks while
// the pool is exhausted; Release returns exactly one permit.
type Limiter interface {
	Acquire(ctx context.Context) error
	Release()
}

type weightedLimiter struct {
	sem *semaphore.Weighted
}

// NewLimiter returns a Limiter with n permits. n below one is treated as one.
func NewLimiter(n int) Limiter {
	if n < 1 {
		n = 1
	}
	return &weightedLimiter{sem: semaphore.NewWeighted(int64(n))}
}

func (l *weightedLimiter) Acquire(ctx context.Context) error {
	return l.sem.Acquire(ctx, 1)
}

func (l *weightedLimiter) Release() {
	l.sem.Release(1)
}
