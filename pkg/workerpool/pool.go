// Package workerpool provides a generic WorkerPoolExecutor
// that can run arbitrary functions concurrently over a slice of inputs.
package workerpool

import (
	"context"
	"runtime"
	"sync"
)

type PoolOptions struct {
	NumWorkers int
}

type PoolOptionFunc func(*PoolOptions)

func defaultOpts() PoolOptions {
	return PoolOptions{
		NumWorkers: runtime.NumCPU(),
	}
}

// WithWorkers allows customization of the number of concurrent workers.
func WithWorkers(num int) PoolOptionFunc {
	return func(opts *PoolOptions) {
		opts.NumWorkers = num
	}
}

// WorkerPoolExecutor manages a pool of goroutines to execute tasks.
// T is the input type, R is the output type.
type WorkerPoolExecutor[T any, R any] struct {
	PoolOptions
}

// New creates a new WorkerPoolExecutor with optional configuration.
func New[T any, R any](opts ...PoolOptionFunc) *WorkerPoolExecutor[T, R] {
	o := defaultOpts()
	for _, fn := range opts {
		fn(&o)
	}
	return &WorkerPoolExecutor[T, R]{PoolOptions: o}
}

// Run executes fn on each input using up to NumWorkers goroutines and
// returns the outputs in input order. The run stops early when ctx is
// cancelled or fn returns an error; the first error observed is
// returned and the remaining inputs are left unprocessed.
func (w *WorkerPoolExecutor[T, R]) Run(ctx context.Context, inputs []T, fn func(ctx context.Context, t T) (R, error)) ([]R, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type task struct {
		idx   int
		input T
	}
	type result struct {
		idx    int
		output R
		err    error
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	tasks := make(chan task)
	results := make(chan result, len(inputs))

	var wg sync.WaitGroup
	wg.Add(w.NumWorkers)
	for i := 0; i < w.NumWorkers; i++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-runCtx.Done():
					return
				case t, ok := <-tasks:
					if !ok {
						return
					}
					out, err := fn(runCtx, t.input)
					select {
					case <-runCtx.Done():
						return
					case results <- result{idx: t.idx, output: out, err: err}:
					}
				}
			}
		}()
	}

	go func() {
		defer close(tasks)
		for i, input := range inputs {
			select {
			case <-runCtx.Done():
				return
			case tasks <- task{idx: i, input: input}:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	outputs := make([]R, len(inputs))
	collected := 0
	for collected < len(inputs) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case r, ok := <-results:
			if !ok {
				// workers exited without delivering everything
				return outputs, runCtx.Err()
			}
			if r.err != nil {
				// cancel feeds and workers, surface the first error
				return nil, r.err
			}
			// store by index so order is preserved
			outputs[r.idx] = r.output
			collected++
		}
	}
	return outputs, nil
}
