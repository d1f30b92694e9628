package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// MealTransitionsTotal counts status update attempts by outcome:
	// "ok", or the workflow error kind.
	MealTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meal_transitions_total",
			Help: "Meal status transition attempts",
		},
		[]string{"from", "to", "result"},
	)

	TaskStatsCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_stats_cache_total",
			Help: "Task stats cache lookups",
		},
		[]string{"result"},
	)

	HTTPPanicsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "http_panics_total",
			Help: "Handler panics recovered by the server",
		},
	)
)
