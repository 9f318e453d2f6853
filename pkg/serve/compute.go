package serve

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/qcserestipy/gomcpi/pkg/mcpi"
	"github.com/qcserestipy/gomcpi/pkg/workerpool"
)

// ComputeRequest asks a node to draw Samples points, splitting them
// across Jobs local workers (0 means the node's worker count). Seed
// feeds the node's seed PRNG, so a fixed (Samples, Seed, Jobs) triple
// always produces the same partial counts.
type ComputeRequest struct {
	Samples uint64 `json:"samples"`
	Seed    uint64 `json:"seed"`
	Jobs    int    `json:"jobs,omitempty"`
}

// ComputeResponse carries the per-worker partial results back as exact
// integers; the caller performs the final gather across nodes.
type ComputeResponse struct {
	CircleCounts []uint64 `json:"circle_counts"`
	SampleCounts []uint64 `json:"sample_counts"`
}

type sampleTask struct {
	count uint64
	seed  uint64
}

// RegisterCompute wires the POST /compute route: split, seed, sample
// on the node's pool, return the partial counts.
func RegisterCompute(s *ComputeServer) {
	CreateRoutes(s.Router, "/compute",
		func(ctx context.Context, req ComputeRequest) (ComputeResponse, error) {
			jobs := req.Jobs
			if jobs <= 0 {
				jobs = s.NumWorkers
			}
			counts, err := mcpi.GenerateSampleCounts(req.Samples, jobs)
			if err != nil {
				return ComputeResponse{}, err
			}
			seeds, err := mcpi.GenerateSeeds(jobs, req.Seed)
			if err != nil {
				return ComputeResponse{}, err
			}

			tasks := make([]sampleTask, jobs)
			for i := range tasks {
				tasks[i] = sampleTask{count: counts[i], seed: seeds[i]}
			}

			pool := workerpool.New[sampleTask, uint64](
				workerpool.WithWorkers(s.NumWorkers),
			)
			start := time.Now()
			circleCounts, err := pool.Run(ctx, tasks,
				func(_ context.Context, t sampleTask) (uint64, error) {
					return mcpi.UnitCircleSamples(t.count, t.seed), nil
				})
			if err != nil {
				return ComputeResponse{}, err
			}
			elapsed := time.Since(start)

			computeRequests.Inc()
			samplesProcessed.Add(float64(req.Samples))
			computeDuration.Observe(elapsed.Seconds())

			logrus.WithFields(logrus.Fields{
				"samples":  req.Samples,
				"jobs":     jobs,
				"duration": elapsed,
			}).Info("Computed partials")

			return ComputeResponse{
				CircleCounts: circleCounts,
				SampleCounts: counts,
			}, nil
		},
	)
}
