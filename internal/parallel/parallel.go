package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// MinChunk is the smallest range handed to a worker goroutine. Loops
// shorter than this run inline on the caller.
const MinChunk = 4096

var workerLimit atomic.Int64

// SetWorkers bounds the number of goroutines For may use. Zero or a
// negative value restores the default of GOMAXPROCS.
func SetWorkers(n int) {
	if n < 0 {
		n = 0
	}
	workerLimit.Store(int64(n))
}

// Workers reports the effective worker bound.
func Workers() int {
	if n := int(workerLimit.Load()); n > 0 {
		return n
	}
	return runtime.GOMAXPROCS(0)
}

// For splits [0, n) into contiguous ranges and calls fn on each, waiting
// for all of them to return. fn must only touch indices in its range.
func For(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	workers := Workers()
	if maxByChunk := (n + MinChunk - 1) / MinChunk; workers > maxByChunk {
		workers = maxByChunk
	}
	if workers <= 1 {
		fn(0, n)
		return
	}
	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
