package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParallelizeCoversEveryIndexOnce(t *testing.T) {
	for _, tc := range []struct {
		items, workers int
	}{
		{items: 1, workers: 4},
		{items: 10, workers: 3},
		{items: 1000, workers: 0},
		{items: 7, workers: 7},
	} {
		hits := make([]int32, tc.items)
		Parallelize(tc.items, tc.workers, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
		})
		for i, h := range hits {
			assert.Equalf(t, int32(1), h, "index %d (items=%d workers=%d)", i, tc.items, tc.workers)
		}
	}
}

func TestParallelizeEmpty(t *testing.T) {
	called := false
	Parallelize(0, 4, func(start, end int) { called = true })
	assert.False(t, called)
}

func TestParallelizeWithThresholdSequential(t *testing.T) {
	var calls int32
	ParallelizeWithThreshold(50, 100, func(start, end int) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, 0, start)
		assert.Equal(t, 50, end)
	})
	assert.Equal(t, int32(1), calls)
}
