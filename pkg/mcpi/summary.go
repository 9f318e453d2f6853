package mcpi

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Summary describes an estimation run: the pooled estimate plus the
// dispersion of the per-worker partial estimates, which gives a rough
// handle on the run's statistical error without a reference value.
type Summary struct {
	Estimate float64
	Jobs     int
	Mean     float64 // mean of per-worker partial estimates
	StdDev   float64 // sample standard deviation of partials
	StdErr   float64 // StdDev / sqrt(Jobs)
}

// Summarize gathers the per-worker counts like Gather and additionally
// computes partial-estimate statistics. Preconditions match Gather.
func Summarize(circleCounts, sampleCounts []uint64) (Summary, error) {
	est, err := Gather(circleCounts, sampleCounts)
	if err != nil {
		return Summary{}, err
	}
	partials := make([]float64, len(circleCounts))
	for i := range partials {
		partials[i] = 4 * (float64(circleCounts[i]) / float64(sampleCounts[i]))
	}
	s := Summary{
		Estimate: est,
		Jobs:     len(partials),
		Mean:     stat.Mean(partials, nil),
	}
	// sample stddev needs at least two partials
	if len(partials) > 1 {
		s.StdDev = stat.StdDev(partials, nil)
		s.StdErr = s.StdDev / math.Sqrt(float64(len(partials)))
	}
	return s, nil
}
