package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	jobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mlaudit",
		Name:      "jobs_total",
		Help:      "Audit jobs finished, by terminal status.",
	}, []string{"status"})

	jobDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "mlaudit",
		Name:      "job_duration_seconds",
		Help:      "Wall-clock duration of audit jobs.",
		Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
	})
)

func observeJob(status string, elapsed time.Duration) {
	jobsTotal.WithLabelValues(status).Inc()
	jobDuration.Observe(elapsed.Seconds())
}
