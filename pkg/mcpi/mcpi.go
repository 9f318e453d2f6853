// Copyright Project GoMCPI Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package mcpi implements the Monte Carlo pi estimation protocol:
// deterministic work partitioning, per-worker seed derivation, the
// unit-circle sampling kernel, and the gather step combining partial
// results into a single estimate. The functions here are pure and
// carry no shared state, so any scheduling of the sampling phase
// (sequential, worker pool, remote nodes) produces the same estimate
// for the same per-worker (count, seed) pairs.
package mcpi

import (
	"errors"
	"fmt"
	"math/rand"
)

var (
	// ErrInvalidArgument reports a zero count where a positive value is
	// required. Callers must supply valid inputs; nothing is retried.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrLengthMismatch reports empty or unequal-length count sequences
	// passed to Gather or Summarize.
	ErrLengthMismatch = errors.New("length mismatch")
)

// GenerateSeeds derives n independent worker seeds by drawing n
// successive 64-bit outputs from the default source seeded with seed.
// The same (n, seed) pair always yields the same sequence.
func GenerateSeeds(n int, seed uint64) ([]uint64, error) {
	return GenerateSeedsFrom(n, StdSource(seed))
}

// GenerateSeedsFrom draws n successive outputs from src, in draw
// order. src is consumed; callers hand over ownership.
func GenerateSeedsFrom(n int, src rand.Source64) ([]uint64, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: n_seeds must be >= 1, got %d", ErrInvalidArgument, n)
	}
	seeds := make([]uint64, n)
	for i := range seeds {
		seeds[i] = src.Uint64()
	}
	return seeds, nil
}

// GenerateSampleCounts splits total samples across jobs workers. With
// base = total/jobs, the first total%jobs entries are base+1 and the
// rest are base, so the entries always sum to total exactly and differ
// by at most one. The remainder-to-leading-entries placement is part
// of the protocol; peers relying on reproducible partitions depend on
// it.
func GenerateSampleCounts(total uint64, jobs int) ([]uint64, error) {
	if total < 1 {
		return nil, fmt.Errorf("%w: n_samples must be >= 1", ErrInvalidArgument)
	}
	if jobs < 1 {
		return nil, fmt.Errorf("%w: n_jobs must be >= 1, got %d", ErrInvalidArgument, jobs)
	}
	base := total / uint64(jobs)
	rem := total % uint64(jobs)
	counts := make([]uint64, jobs)
	for i := range counts {
		counts[i] = base
		if uint64(i) < rem {
			counts[i]++
		}
	}
	return counts, nil
}

// UnitCircleSamples draws n points uniform in [-1, 1] x [-1, 1] from a
// fresh default source seeded with seed and returns how many satisfy
// x^2 + y^2 <= 1. n = 0 is a valid degenerate case returning 0.
func UnitCircleSamples(n, seed uint64) uint64 {
	return UnitCircleSamplesFrom(n, StdSource(seed))
}

// UnitCircleSamplesFrom is UnitCircleSamples over a caller-supplied
// source. The source is exclusively owned and consumed by this call;
// build a fresh one per worker rather than sharing an instance.
// The boundary test is non-strict: points exactly on the circle count
// as inside.
func UnitCircleSamplesFrom(n uint64, src rand.Source64) uint64 {
	r := rand.New(src)
	var inside uint64
	// raw loop, no per-sample allocations
	for i := uint64(0); i < n; i++ {
		x := 2*r.Float64() - 1
		y := 2*r.Float64() - 1
		if x*x+y*y <= 1 {
			inside++
		}
	}
	return inside
}

// Gather combines per-worker results into the final estimate,
// 4 * (sum(circleCounts) / sum(sampleCounts)). The division happens
// before the multiply so the float conversion stays well inside
// range. Summation is commutative, so worker completion order never
// affects the result.
func Gather(circleCounts, sampleCounts []uint64) (float64, error) {
	if len(circleCounts) == 0 || len(sampleCounts) == 0 {
		return 0, fmt.Errorf("%w: empty count sequence", ErrLengthMismatch)
	}
	if len(circleCounts) != len(sampleCounts) {
		return 0, fmt.Errorf("%w: %d circle counts vs %d sample counts",
			ErrLengthMismatch, len(circleCounts), len(sampleCounts))
	}
	var inside, total uint64
	for _, c := range circleCounts {
		inside += c
	}
	for _, s := range sampleCounts {
		total += s
	}
	return 4 * (float64(inside) / float64(total)), nil
}
