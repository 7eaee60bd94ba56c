package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Backend call latency in seconds
	BackendCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "securelens_backend_call_duration_seconds",
			Help:    "Generative backend call duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~50s
		},
		[]string{"operation", "provider", "status"},
	)

	// HTTP request latency in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "securelens_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 16), // 1ms to ~30s
		},
		[]string{"method", "path", "status"},
	)

	// Completed analyses by risk level
	AnalysisResultCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "securelens_analysis_results_total",
			Help: "Total number of completed analyses by risk level",
		},
		[]string{"risk_level"},
	)

	// Inbox messages by source and label
	InboxMessageCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "securelens_inbox_messages_total",
			Help: "Total number of inbox messages received",
		},
		[]string{"source", "label"},
	)
)

// RecordBackendCall records one generative backend call
func RecordBackendCall(operation, provider, status string, duration time.Duration) {
	BackendCallDuration.WithLabelValues(operation, provider, status).Observe(duration.Seconds())
}

// RecordHTTPRequestDuration records one HTTP request
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// IncrementAnalysisResult counts a completed analysis
func IncrementAnalysisResult(riskLevel string) {
	AnalysisResultCount.WithLabelValues(riskLevel).Inc()
}

// IncrementInboxMessages counts inbox messages
func IncrementInboxMessages(source, label string, n int) {
	InboxMessageCount.WithLabelValues(source, label).Add(float64(n))
}
