package calculator

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	for _, tc := range []struct{ total, workers, tasks int }{
		{0, 4, 0},
		{3, 4, 3},
		{4, 4, 4},
		{6, 4, 6},
		{8, 4, 8},
		{9, 4, 9},
		{100, 4, 8},
		{103, 4, 11},
	} {
		tasks := split(tc.total, tc.workers)
		require.Len(t, tasks, tc.tasks, "total %d workers %d", tc.total, tc.workers)
		next := 0
		for _, task := range tasks {
			require.Equal(t, next, task.start)
			require.Greater(t, task.end, task.start)
			next = task.end
		}
		require.Equal(t, tc.total, next)
	}
}

func TestDispatchTaskVisitsEveryIndexOnce(t *testing.T) {
	e := newExecutor(3)
	e.run()
	defer e.close()

	for _, total := range []int{1, 7, 64} {
		hits := make([]int32, total)
		e.dispatchTask(context.Background(), total, func(i int) {
			atomic.AddInt32(&hits[i], 1)
		})
		for i, h := range hits {
			require.Equal(t, int32(1), h, "index %d of %d", i, total)
		}
	}
}

func TestDispatchTaskCancelled(t *testing.T) {
	e := newExecutor(2)
	e.run()
	defer e.close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var n int32
	e.dispatchTask(ctx, 50, func(int) { atomic.AddInt32(&n, 1) })
	require.Zero(t, atomic.LoadInt32(&n))
}
