package mcpi

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// test scenario shared across backends: 1e6 samples gives a crude
// estimate, so the tolerance is relatively large
const (
	testSamples = 1000000
	testSeed    = 8888
	piTol       = 1e-2
)

func TestEstimateSerial(t *testing.T) {
	pi, err := Estimate(testSamples, WithSeed(testSeed))
	require.NoError(t, err)
	assert.InDelta(t, math.Pi, pi, piTol)
}

func TestEstimateSerialInvalid(t *testing.T) {
	_, err := Estimate(0)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestEstimateParallel(t *testing.T) {
	for _, jobs := range []int{1, 2, 8} {
		pi, err := EstimateParallel(context.Background(), testSamples,
			WithJobs(jobs), WithSeed(testSeed))
		require.NoError(t, err, "jobs=%d", jobs)
		assert.InDelta(t, math.Pi, pi, piTol, "jobs=%d", jobs)
	}
}

func TestEstimateParallelSplitSource(t *testing.T) {
	pi, err := EstimateParallel(context.Background(), testSamples,
		WithJobs(8), WithSeed(testSeed), WithSource(SplitSource))
	require.NoError(t, err)
	assert.InDelta(t, math.Pi, pi, piTol)
}

func TestEstimateParallelDeterministic(t *testing.T) {
	a, err := EstimateParallel(context.Background(), testSamples,
		WithJobs(8), WithSeed(testSeed))
	require.NoError(t, err)
	b, err := EstimateParallel(context.Background(), testSamples,
		WithJobs(8), WithSeed(testSeed))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

// The estimate must not depend on how the sampling phase is scheduled:
// replaying the same (count, seed) pairs in a plain sequential loop
// has to reproduce the pooled result bit for bit.
func TestEstimateParallelMatchesSequentialReplay(t *testing.T) {
	const jobs = 8

	counts, err := GenerateSampleCounts(testSamples, jobs)
	require.NoError(t, err)
	seeds, err := GenerateSeeds(jobs, testSeed)
	require.NoError(t, err)

	circleCounts := make([]uint64, jobs)
	for i := range circleCounts {
		circleCounts[i] = UnitCircleSamples(counts[i], seeds[i])
	}
	sequential, err := Gather(circleCounts, counts)
	require.NoError(t, err)

	parallel, err := EstimateParallel(context.Background(), testSamples,
		WithJobs(jobs), WithSeed(testSeed))
	require.NoError(t, err)

	assert.Equal(t, sequential, parallel)
}

func TestEstimateParallelInvalid(t *testing.T) {
	_, err := EstimateParallel(context.Background(), 0, WithJobs(4))
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = EstimateParallel(context.Background(), testSamples, WithJobs(0))
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestEstimateParallelCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := EstimateParallel(ctx, testSamples, WithJobs(4), WithSeed(testSeed))
	require.ErrorIs(t, err, context.Canceled)
}
