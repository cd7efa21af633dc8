package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kichat_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "kichat_http_request_duration_seconds",
			Help: "HTTP request duration in seconds",
		},
		[]string{"method", "route"},
	)

	InferenceLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kichat_inference_latency_seconds",
			Help:    "Inference latency in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 80, 120, 180},
		},
		[]string{"model"},
	)

	InferenceFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kichat_inference_failures_total",
			Help: "Total number of failed inference calls",
		},
		[]string{"model", "cause"},
	)

	RoutedMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kichat_routed_messages_total",
			Help: "Messages routed per model",
		},
		[]string{"model", "deep_think"},
	)

	ChatsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kichat_chats_created_total",
			Help: "Total number of chats created",
		},
	)

	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kichat_login_attempts_total",
			Help: "Login attempts by outcome",
		},
		[]string{"outcome"},
	)
)
