package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "luxrelay_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "luxrelay_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint", "status"},
	)

	// Webhook metrics
	ReadingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "luxrelay_readings_total",
			Help: "Total number of luminosity readings received",
		},
		[]string{"status"}, // status: accepted, rejected
	)

	ReadingsBelowThreshold = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "luxrelay_readings_below_threshold_total",
			Help: "Total number of readings that triggered the alert path",
		},
	)

	// State source metrics
	StateLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "luxrelay_state_lookups_total",
			Help: "Total number of maintenance state lookups",
		},
		[]string{"strategy", "status"}, // status: ok, failed
	)

	StateCacheUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "luxrelay_state_cache_updates_total",
			Help: "Total number of cached maintenance flag updates from the broker",
		},
		[]string{"strategy"},
	)

	// Notifier metrics
	AlertsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "luxrelay_alerts_total",
			Help: "Total number of alert notifications attempted",
		},
		[]string{"status"}, // status: sent, failed
	)

	NotifyDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "luxrelay_notify_duration_seconds",
			Help:    "Time taken to deliver a notification",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)

	// Panic recovery
	PanicsRecovered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "luxrelay_panics_recovered_total",
			Help: "Total number of panics recovered",
		},
		[]string{"component"},
	)
)
