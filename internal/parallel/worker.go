// Package parallel fans independent per-item work out to a bounded number of
// goroutines and collects the results in input order.
//
// Frame operators stay synchronous from the caller's point of view: Map
// returns only after every item has finished, and the first error cancels
// the remaining work.
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/paveg/nestframe/internal/config"
)

// WorkerPool bounds the number of goroutines used by Map.
type WorkerPool struct {
	numWorkers int
	threshold  int
}

// NewWorkerPool creates a pool with numWorkers goroutines. A non-positive
// count uses runtime.NumCPU().
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{numWorkers: numWorkers, threshold: 1}
}

// FromConfig sizes a pool from the worker count and threshold settings.
func FromConfig(cfg config.Config) *WorkerPool {
	wp := NewWorkerPool(cfg.WorkerPoolSize)
	wp.threshold = max(1, cfg.ParallelThreshold)
	return wp
}

// Workers returns the goroutine limit
func (wp *WorkerPool) Workers() int { return wp.numWorkers }

// ShouldParallelize reports whether n items are worth fanning out.
func (wp *WorkerPool) ShouldParallelize(n int) bool {
	return wp.numWorkers > 1 && n >= wp.threshold
}

// Map applies worker to every item and returns the results in input order.
// Below the pool threshold the items are processed on the caller's
// goroutine.
func Map[T, R any](ctx context.Context, wp *WorkerPool, items []T, worker func(int, T) (R, error)) ([]R, error) {
	results := make([]R, len(items))
	if !wp.ShouldParallelize(len(items)) {
		for i, item := range items {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			r, err := worker(i, item)
			if err != nil {
				return nil, err
			}
			results[i] = r
		}
		return results, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(wp.numWorkers)
	for i, item := range items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := worker(i, item)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
