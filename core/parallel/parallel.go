// Package parallel splits row ranges across goroutines for prediction.
package parallel

import (
	"runtime"
	"sync"
)

// DefaultThreshold is the row count up to which Run stays on the calling
// goroutine.
const DefaultThreshold = 256

// Run calls fn over [0, items) in contiguous chunks, one goroutine per chunk,
// and waits for all of them. workers <= 0 means one per CPU core. With a
// single worker, or at most DefaultThreshold items, fn(0, items) runs on the
// calling goroutine.
func Run(items, workers int, fn func(start, end int)) {
	if items == 0 {
		return
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers == 1 || items <= DefaultThreshold {
		fn(0, items)
		return
	}
	if workers > items {
		workers = items
	}

	chunk := (items + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < items; start += chunk {
		end := min(start+chunk, items)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
