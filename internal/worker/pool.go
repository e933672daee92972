// Package worker provides a parallel row executor for per-pixel image stages.
package worker

import (
	"context"
	"runtime"
	"sync"
)

// RowFunc processes the half-open row range [y0, y1).
type RowFunc func(y0, y1 int)

// Config configures the worker pool.
type Config struct {
	// Workers is the number of goroutines. Zero or negative means runtime.NumCPU.
	Workers int
}

// Pool splits row ranges across a fixed number of goroutines.
type Pool struct {
	workers int
}

type band struct {
	y0, y1 int
}

// New creates a new worker pool.
func New(cfg Config) *Pool {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &Pool{workers: workers}
}

// Workers reports the number of goroutines used by Run.
func (p *Pool) Workers() int {
	if p == nil {
		return 1
	}
	return p.workers
}

// Run calls fn for every row in [0, rows), handing out contiguous bands to the workers.
// Each row is visited exactly once. Run blocks until all bands are done or the
// context is cancelled; on cancellation the remaining bands are skipped and ctx.Err()
// is returned.
func (p *Pool) Run(ctx context.Context, rows int, fn RowFunc) error {
	if rows <= 0 {
		return ctx.Err()
	}

	workers := p.Workers()
	if workers > rows {
		workers = rows
	}
	if workers == 1 {
		if err := ctx.Err(); err != nil {
			return err
		}
		fn(0, rows)
		return nil
	}

	// Four bands per worker.
	bandSize := (rows + workers*4 - 1) / (workers * 4)
	bands := make(chan band, (rows+bandSize-1)/bandSize)
	for y := 0; y < rows; y += bandSize {
		end := y + bandSize
		if end > rows {
			end = rows
		}
		bands <- band{y0: y, y1: end}
	}
	close(bands)

	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for b := range bands {
				select {
				case <-ctx.Done():
					continue
				default:
				}

				fn(b.y0, b.y1)
			}
		}()
	}

	wg.Wait()
	return ctx.Err()
}
