package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ValidationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cptool_validation_total",
			Help: "Total number of validation runs",
		},
		[]string{"grammar", "status"}, // accepted or rejected
	)

	ValidationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cptool_validation_duration_seconds",
			Help:    "Time taken to check one input",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 0.5, 1, 5},
		},
		[]string{"grammar"},
	)

	ValidationBytes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cptool_validation_bytes_total",
			Help: "Total number of input bytes checked",
		},
		[]string{"grammar"},
	)

	ValidationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cptool_validation_errors_total",
			Help: "Validation runs that failed before a verdict was reached",
		},
		[]string{"reason"}, // unknown_grammar, read, store
	)
)

// ObserveRun records one completed validation.
func ObserveRun(grammar, status string, size int, d time.Duration) {
	ValidationTotal.WithLabelValues(grammar, status).Inc()
	ValidationDuration.WithLabelValues(grammar).Observe(d.Seconds())
	ValidationBytes.WithLabelValues(grammar).Add(float64(size))
}
