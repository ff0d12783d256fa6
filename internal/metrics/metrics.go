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
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	GalleryItemsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_items_created_total",
			Help: "Number of items added to the gallery",
		},
		[]string{"type"},
	)

	GalleryItemsDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_items_deleted_total",
			Help: "Number of items removed from the gallery",
		},
	)

	GenerationJobs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generation_jobs_total",
			Help: "Generation jobs by type and final status",
		},
		[]string{"type", "status"},
	)

	EstimatedCostUSD = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generation_estimated_cost_usd_total",
			Help: "Sum of estimated cost of completed generations",
		},
		[]string{"type"},
	)
)
