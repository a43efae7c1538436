package engine

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// ErrWorkerPanic marks a task that panicked instead of returning.
var ErrWorkerPanic = errors.New("worker panicked")

// Pool bounds the number of tasks running at once. A Pool is safe for
// concurrent use and may be reused across any number of Run calls.
type Pool struct {
	size int
	sem  *semaphore.Weighted
}

// NewPool creates a pool running at most size tasks concurrently. A size below
// one uses the number of CPUs.
func NewPool(size int) *Pool {
	if size < 1 {
		size = runtime.NumCPU()
	}
	return &Pool{size: size, sem: semaphore.NewWeighted(int64(size))}
}

// Size reports the concurrency limit.
func (p *Pool) Size() int {
	return p.size
}

// Run dispatches count tasks and blocks until every dispatched task has
// finished. The first task error is returned; other tasks are not interrupted.
func (p *Pool) Run(ctx context.Context, count int, task func(ctx context.Context, idx int) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var g errgroup.Group
	var dispatchErr error
	for idx := range count {
		if err := p.sem.Acquire(ctx, 1); err != nil {
			dispatchErr = err
			break
		}
		g.Go(func() (err error) {
			defer p.sem.Release(1)
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%w: task %d: %v", ErrWorkerPanic, idx, r)
				}
			}()
			return task(ctx, idx)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return dispatchErr
}
