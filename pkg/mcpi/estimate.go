package mcpi

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/qcserestipy/gomcpi/pkg/workerpool"
)

// Options configure an estimation run.
type Options struct {
	// Jobs is the number of partitions the sample budget is split into.
	// Defaults to runtime.NumCPU().
	Jobs int
	// Seed initializes the seed PRNG from which all worker seeds are
	// derived. Defaults to the wall clock, i.e. non-reproducible.
	Seed uint64
	// Source builds each PRNG used by the run. Defaults to StdSource.
	Source SourceFunc
}

type Option func(*Options)

func defaultOptions() Options {
	return Options{
		Jobs:   runtime.NumCPU(),
		Seed:   uint64(time.Now().UnixNano()),
		Source: StdSource,
	}
}

// WithJobs sets the number of partitions.
func WithJobs(n int) Option {
	return func(o *Options) { o.Jobs = n }
}

// WithSeed fixes the seed PRNG seed, making the run reproducible.
func WithSeed(seed uint64) Option {
	return func(o *Options) { o.Seed = seed }
}

// WithSource sets the PRNG algorithm used for seed derivation and
// sampling.
func WithSource(fn SourceFunc) Option {
	return func(o *Options) { o.Source = fn }
}

func buildOptions(opts []Option) Options {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// Estimate runs the sampling kernel once, serially, and returns
// 4 * (inside / nSamples). Jobs is ignored.
func Estimate(nSamples uint64, opts ...Option) (float64, error) {
	if nSamples < 1 {
		return 0, fmt.Errorf("%w: n_samples must be >= 1", ErrInvalidArgument)
	}
	o := buildOptions(opts)
	inside := UnitCircleSamplesFrom(nSamples, o.Source(o.Seed))
	return 4 * (float64(inside) / float64(nSamples)), nil
}

// task carries one worker's share of the run. Worker i always receives
// counts[i] and seeds[i]; the pool returns results in the same index
// order, so the partition/seed mapping survives any scheduling.
type task struct {
	count uint64
	seed  uint64
}

// EstimateParallel splits nSamples across Jobs workers, derives one
// seed per worker, fans the sampling kernel out over a worker pool,
// and gathers the partial counts into a single estimate.
func EstimateParallel(ctx context.Context, nSamples uint64, opts ...Option) (float64, error) {
	o := buildOptions(opts)
	counts, err := GenerateSampleCounts(nSamples, o.Jobs)
	if err != nil {
		return 0, err
	}
	seeds, err := GenerateSeedsFrom(o.Jobs, o.Source(o.Seed))
	if err != nil {
		return 0, err
	}
	tasks := make([]task, o.Jobs)
	for i := range tasks {
		tasks[i] = task{count: counts[i], seed: seeds[i]}
	}

	pool := workerpool.New[task, uint64](workerpool.WithWorkers(o.Jobs))
	circleCounts, err := pool.Run(ctx, tasks, func(_ context.Context, t task) (uint64, error) {
		return UnitCircleSamplesFrom(t.count, o.Source(t.seed)), nil
	})
	if err != nil {
		return 0, err
	}
	return Gather(circleCounts, counts)
}
