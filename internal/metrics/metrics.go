// Package metrics exposes Prometheus collectors for the decomposition
// engine. Collectors are registered on the default registry; serve them
// with Handler.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// JobsStarted counts decomposition jobs accepted by the engine.
	JobsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hitbox_jobs_started_total",
		Help: "Decomposition jobs started.",
	})

	// JobsCompleted counts jobs that reached the Completed state.
	JobsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hitbox_jobs_completed_total",
		Help: "Decomposition jobs completed successfully.",
	})

	// JobsCancelled counts jobs terminated by cooperative cancellation.
	JobsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hitbox_jobs_cancelled_total",
		Help: "Decomposition jobs cancelled before completion.",
	})

	// JobsFailed counts jobs that terminated with a failure reason.
	JobsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hitbox_jobs_failed_total",
		Help: "Decomposition jobs that failed.",
	})

	// JobDuration observes wall-clock job duration in seconds.
	JobDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hitbox_job_duration_seconds",
		Help:    "Wall-clock duration of decomposition jobs.",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
	})

	// LastSetSize tracks the box count of the most recently published
	// hitbox set.
	LastSetSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hitbox_last_set_size",
		Help: "Boxes in the most recently published hitbox set.",
	})
)

// Handler returns the HTTP handler serving the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
