package serve

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	computeRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gomcpi_compute_requests_total",
		Help: "Total number of /compute requests processed",
	})

	samplesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gomcpi_samples_processed_total",
		Help: "Total number of Monte Carlo samples drawn by this node",
	})

	computeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gomcpi_compute_duration_seconds",
		Help:    "Wall time of the parallel sampling phase per request",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 15),
	})
)
