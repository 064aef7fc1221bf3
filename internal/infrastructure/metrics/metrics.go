package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chat",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "chat",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint"},
	)

	CompletionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chat",
			Subsystem: "api",
			Name:      "completions_total",
			Help:      "Total model completion calls",
		},
		[]string{"kind", "status"},
	)

	CompletionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "chat",
			Subsystem: "api",
			Name:      "completion_duration_seconds",
			Help:      "Model completion duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"kind"},
	)

	StreamChunksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "chat",
			Subsystem: "api",
			Name:      "stream_chunks_total",
			Help:      "Total streamed completion chunks relayed",
		},
	)

	ActiveStreams = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "chat",
			Subsystem: "api",
			Name:      "active_streams",
			Help:      "Streaming sends currently in flight",
		},
	)

	ConversationsEndedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "chat",
			Subsystem: "api",
			Name:      "conversations_ended_total",
			Help:      "Total conversations transitioned to ended",
		},
	)
)

// RecordRequest records an HTTP request.
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

// RecordCompletion records one model completion call.
func RecordCompletion(kind, status string, durationSec float64) {
	CompletionsTotal.WithLabelValues(kind, status).Inc()
	CompletionDuration.WithLabelValues(kind).Observe(durationSec)
}
