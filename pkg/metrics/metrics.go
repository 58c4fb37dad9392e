// Package metrics provides Prometheus metrics for the store API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal tracks handled HTTP requests
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storeapi",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of handled HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	// HTTPRequestDuration tracks HTTP request latency
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "storeapi",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	// EventsPublishedTotal tracks change events by resource and action
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storeapi",
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Total number of published change events",
		},
		[]string{"resource", "action"},
	)

	// WebSocketClients tracks connected WebSocket clients
	WebSocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "storeapi",
			Subsystem: "realtime",
			Name:      "websocket_clients",
			Help:      "Number of connected WebSocket clients",
		},
	)

	// StockRecomputeDuration tracks full stock recomputations
	StockRecomputeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "storeapi",
			Subsystem: "stock",
			Name:      "recompute_duration_seconds",
			Help:      "Duration of product stock recomputations in seconds",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)
)
