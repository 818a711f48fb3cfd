// Package parallel provides the goroutine scheduling used to run kernel
// launches on the host: the blocks of a launch grid are distributed over a
// bounded set of workers, with contiguous runs of blocks per worker for
// cache reuse.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls block execution.
type Config struct {
	Workers int // worker goroutines per launch
}

// DefaultConfig sizes the worker count from the CPU.
func DefaultConfig() Config {
	return Config{Workers: runtime.NumCPU()}
}

// Blocks executes body(b) for every block b in [0, n), spreading blocks over
// cfg.Workers goroutines. Bodies of distinct blocks may run concurrently;
// Blocks returns only after all have completed.
func Blocks(n int, cfg Config, body func(b int)) {
	if n <= 0 {
		return
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}
	if workers == 1 {
		for b := 0; b < n; b++ {
			body(b)
		}
		return
	}

	per := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += per {
		end := min(start+per, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for b := s; b < e; b++ {
				body(b)
			}
		}(start, end)
	}
	wg.Wait()
}
