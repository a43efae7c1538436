package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPoolRunsEveryTask(t *testing.T) {
	t.Parallel()

	pool := NewPool(3)
	var mu sync.Mutex
	seen := make(map[int]bool)

	err := pool.Run(context.Background(), 10, func(_ context.Context, idx int) error {
		mu.Lock()
		defer mu.Unlock()
		seen[idx] = true
		return nil
	})

	require.NoError(t, err)
	require.Len(t, seen, 10)
}

func TestPoolBoundsConcurrency(t *testing.T) {
	t.Parallel()

	pool := NewPool(2)
	var running, peak atomic.Int32

	err := pool.Run(context.Background(), 8, func(_ context.Context, _ int) error {
		current := running.Add(1)
		for {
			old := peak.Load()
			if current <= old || peak.CompareAndSwap(old, current) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		running.Add(-1)
		return nil
	})

	require.NoError(t, err)
	require.LessOrEqual(t, peak.Load(), int32(2))
	require.Equal(t, 2, pool.Size())
}

func TestPoolWaitsForAllTasksAndReturnsError(t *testing.T) {
	t.Parallel()

	pool := NewPool(4)
	boom := errors.New("boom")
	var finished atomic.Int32

	err := pool.Run(context.Background(), 6, func(_ context.Context, idx int) error {
		defer finished.Add(1)
		if idx == 2 {
			return boom
		}
		time.Sleep(2 * time.Millisecond)
		return nil
	})

	require.ErrorIs(t, err, boom)
	require.Equal(t, int32(6), finished.Load())
}

func TestPoolRecoversPanics(t *testing.T) {
	t.Parallel()

	pool := NewPool(1)
	err := pool.Run(context.Background(), 1, func(_ context.Context, _ int) error {
		panic("kaboom")
	})

	require.ErrorIs(t, err, ErrWorkerPanic)
	require.Contains(t, err.Error(), "kaboom")
}

func TestPoolIsReusable(t *testing.T) {
	t.Parallel()

	pool := NewPool(2)
	for range 3 {
		var count atomic.Int32
		require.NoError(t, pool.Run(context.Background(), 5, func(_ context.Context, _ int) error {
			count.Add(1)
			return nil
		}))
		require.Equal(t, int32(5), count.Load())
	}
}

func TestNewPoolDefaultsToCPUCount(t *testing.T) {
	t.Parallel()

	require.GreaterOrEqual(t, NewPool(0).Size(), 1)
}
