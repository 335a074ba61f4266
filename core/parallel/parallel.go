// Package parallel splits index ranges over goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// Parallelize divides [0, items) into contiguous chunks, one per worker, and
// runs fn on each chunk concurrently. workers <= 0 means runtime.NumCPU().
// Chunks are disjoint, so fn may write to per-index slots without locking.
func Parallelize(items, workers int, fn func(start, end int)) {
	if items <= 0 {
		return
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > items {
		workers = items
	}
	if workers == 1 {
		fn(0, items)
		return
	}

	chunkSize := (items + workers - 1) / workers

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ParallelizeWithThreshold runs fn sequentially when items <= threshold and
// falls back to Parallelize with all CPUs otherwise.
func ParallelizeWithThreshold(items, threshold int, fn func(start, end int)) {
	if items <= threshold {
		fn(0, items)
		return
	}
	Parallelize(items, 0, fn)
}
