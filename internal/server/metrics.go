package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "labelbridge_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "labelbridge_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Conversion metrics
	convertRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "labelbridge_convert_requests_total",
			Help: "Total number of conversion requests",
		},
		[]string{"direction", "status"}, // direction: tasks, export
	)

	taskRegions = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "labelbridge_task_regions",
			Help:    "Number of word regions per assembled task",
			Buckets: []float64{0, 10, 50, 100, 250, 500, 1000, 2500, 5000},
		},
		[]string{"direction"},
	)

	exportRecords = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "labelbridge_export_records",
			Help:    "Number of records reconstructed per export",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		},
		[]string{"direction"},
	)
)

// recordConvertMetrics tracks conversion request outcomes.
func recordConvertMetrics(direction, status string) {
	convertRequestsTotal.WithLabelValues(direction, status).Inc()
}
