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

package main

import (
	"context"
	"flag"
	"math"
	"runtime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/qcserestipy/gomcpi/pkg/cluster"
	"github.com/qcserestipy/gomcpi/pkg/mcpi"
	"github.com/qcserestipy/gomcpi/pkg/workerpool"
)

func init() {
	formatter := &logrus.TextFormatter{}
	formatter.FullTimestamp = true
	formatter.TimestampFormat = time.RFC3339
	logrus.SetLevel(logrus.InfoLevel)
	logrus.SetFormatter(formatter)
}

func main() {
	logrus.Info("Starting Monte Carlo π approximation")
	numbPtr := flag.Uint64("n", 100000000, "Number of samples")
	jobsPtr := flag.Int("jobs", runtime.NumCPU(), "Number of parallel jobs")
	seedPtr := flag.Uint64("seed", uint64(time.Now().UnixNano()), "Seed for the seed PRNG")
	backendPtr := flag.String("backend", "pool", "Backend: serial, pool, or cluster")
	nodesPtr := flag.String("nodes", "", "Comma-separated node base URLs (cluster backend)")
	verbosePtr := flag.Bool("v", false, "Debug logging")
	flag.Parse()
	if *verbosePtr {
		logrus.SetLevel(logrus.DebugLevel)
	}

	nSamples := *numbPtr
	logrus.Infof("Number of samples: %d", nSamples)
	logrus.Infof("System: %d CPU cores available", runtime.NumCPU())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	start := time.Now()
	var pi float64
	var err error
	switch *backendPtr {
	case "serial":
		pi, err = mcpi.Estimate(nSamples, mcpi.WithSeed(*seedPtr))
	case "pool":
		pi, err = runPool(ctx, nSamples, *jobsPtr, *seedPtr)
	case "cluster":
		nodes := strings.Split(*nodesPtr, ",")
		if *nodesPtr == "" {
			logrus.Fatal("cluster backend requires -nodes")
		}
		client := cluster.NewClient(nodes)
		pi, err = client.Estimate(ctx, nSamples, *seedPtr)
	default:
		logrus.Fatalf("unknown backend %q", *backendPtr)
	}
	if err != nil {
		logrus.Fatalf("Estimation failed: %v", err)
	}
	elapsed := time.Since(start)

	logrus.WithFields(logrus.Fields{
		"pi_approximation": pi,
		"error":            math.Abs(pi - math.Pi),
		"duration":         elapsed,
		"points_per_sec":   float64(nSamples) / elapsed.Seconds(),
	}).Info("Computation completed")

	logrus.Infof("π ≈ %0.8f (error: %0.8f, computed in %s)",
		pi, math.Abs(pi-math.Pi), elapsed)
}

// runPool drives the split/seed/sample/gather steps directly so the
// per-job dispersion summary can be reported, instead of going through
// mcpi.EstimateParallel.
func runPool(ctx context.Context, nSamples uint64, jobs int, seed uint64) (float64, error) {
	counts, err := mcpi.GenerateSampleCounts(nSamples, jobs)
	if err != nil {
		return 0, err
	}
	seeds, err := mcpi.GenerateSeeds(jobs, seed)
	if err != nil {
		return 0, err
	}

	logrus.WithFields(logrus.Fields{
		"jobs":            jobs,
		"points_per_task": nSamples / uint64(jobs),
		"remainder":       nSamples % uint64(jobs),
	}).Info("Work distribution prepared")

	type task struct {
		count uint64
		seed  uint64
	}
	tasks := make([]task, jobs)
	for i := range tasks {
		tasks[i] = task{count: counts[i], seed: seeds[i]}
	}

	pool := workerpool.New[task, uint64](workerpool.WithWorkers(jobs))
	circleCounts, err := pool.Run(ctx, tasks, func(_ context.Context, t task) (uint64, error) {
		taskStart := time.Now()
		inside := mcpi.UnitCircleSamples(t.count, t.seed)
		logrus.WithFields(logrus.Fields{
			"points_processed": t.count,
			"points_in_circle": inside,
			"local_pi_approx":  4 * (float64(inside) / float64(t.count)),
			"duration":         time.Since(taskStart),
		}).Debug("Worker completed")
		return inside, nil
	})
	if err != nil {
		return 0, err
	}

	summary, err := mcpi.Summarize(circleCounts, counts)
	if err != nil {
		return 0, err
	}
	logrus.WithFields(logrus.Fields{
		"partial_mean":   summary.Mean,
		"partial_stddev": summary.StdDev,
		"partial_stderr": summary.StdErr,
	}).Info("Partial estimate dispersion")
	return summary.Estimate, nil
}
