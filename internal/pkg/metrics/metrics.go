package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cosmic_connect_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cosmic_connect_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ChatsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cosmic_connect_chats_created_total",
			Help: "Total number of consultation chats created",
		},
	)

	ChatsActivated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cosmic_connect_chats_activated_total",
			Help: "Chats activated, by source (review or reconciler)",
		},
		[]string{"source"},
	)

	PaymentsSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cosmic_connect_payments_submitted_total",
			Help: "Total number of payment proofs submitted",
		},
	)

	PaymentsResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cosmic_connect_payments_resolved_total",
			Help: "Payments moved out of pending, by final status",
		},
		[]string{"status"},
	)

	MessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cosmic_connect_messages_sent_total",
			Help: "Total number of chat messages stored",
		},
	)

	LiveSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cosmic_connect_live_subscribers",
			Help: "Open live message channel subscriptions",
		},
	)

	EventPublishErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cosmic_connect_event_publish_errors_total",
			Help: "Domain events that failed to publish, by type",
		},
		[]string{"event_type"},
	)
)
