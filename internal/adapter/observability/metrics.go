// Package observability provides logging, metrics, and tracing for the
// request pipeline and the panel server.
package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// HTTPRequestsTotal counts panel requests by route/method/status.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	// HTTPRequestDuration tracks panel request latency.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"route", "method"},
	)

	// QueueDepth is the number of pending (not in-flight) requests per client.
	QueueDepth = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pipeline_queue_depth",
			Help: "Number of queued requests awaiting dispatch",
		},
		[]string{"client"},
	)
	// QueueAdmissionsTotal counts accepted submissions per client.
	QueueAdmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_queue_admissions_total",
			Help: "Total number of admitted requests",
		},
		[]string{"client"},
	)
	// QueueRejectionsTotal counts submissions rejected with queue-full.
	QueueRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_queue_rejections_total",
			Help: "Total number of requests rejected at admission",
		},
		[]string{"client"},
	)
	// QueueCancellationsTotal counts queued requests dropped by a clear.
	QueueCancellationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_queue_cancellations_total",
			Help: "Total number of queued requests cancelled by clear",
		},
		[]string{"client"},
	)
	// UpstreamAttemptsTotal counts invoker attempts by outcome classification.
	UpstreamAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_upstream_attempts_total",
			Help: "Total number of upstream attempts by classification",
		},
		[]string{"client", "outcome"},
	)
	// UpstreamDuration tracks end-to-end duration of one pipeline execution
	// including backoff waits.
	UpstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_upstream_duration_seconds",
			Help:    "Pipeline execution duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"client"},
	)
)

var registerOnce sync.Once

// InitMetrics registers all collectors once per process.
func InitMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDuration,
			QueueDepth,
			QueueAdmissionsTotal,
			QueueRejectionsTotal,
			QueueCancellationsTotal,
			UpstreamAttemptsTotal,
			UpstreamDuration,
		)
	})
}
