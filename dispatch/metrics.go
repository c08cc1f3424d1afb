// SPDX-License-Identifier: MIT

package dispatch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "spmat"
	metricsSubsystem = "dispatch"

	resultSuccess = "success"
	resultError   = "error"
)

// Metrics holds the dispatcher's Prometheus collectors.
type Metrics struct {
	// RequestsTotal counts requests by op and result (success, error).
	RequestsTotal *prometheus.CounterVec

	// DurationSeconds measures kernel wall time by op.
	DurationSeconds *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg. Pass a fresh
// prometheus.NewRegistry() in tests to keep runs isolated.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		RequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "requests_total",
			Help:      "Dispatched kernel requests by operation and result.",
		}, []string{"op", "result"}),
		DurationSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "duration_seconds",
			Help:      "Kernel execution time by operation.",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 10),
		}, []string{"op"}),
	}
}

// observe records one finished request. A nil receiver is a no-op.
func (m *Metrics) observe(op Op, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	result := resultSuccess
	if err != nil {
		result = resultError
	}
	m.RequestsTotal.WithLabelValues(op.String(), result).Inc()
	m.DurationSeconds.WithLabelValues(op.String()).Observe(elapsed.Seconds())
}
