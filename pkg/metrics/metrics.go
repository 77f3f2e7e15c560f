// Package metrics provides Prometheus metrics for the service.
//
// Example:
//
//	import "github.com/eduardoinoa18/memorybox/pkg/metrics"
//
//	err := metrics.InitMetrics(config.Metrics)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	metrics.RequestCounter.WithLabelValues("POST", "/api/v1/memories/upload").Inc()
//	metrics.UploadCounter.WithLabelValues("success").Inc()
package metrics

import (
	"net/http"
	_ "net/http/pprof" // registers pprof endpoints on DefaultServeMux

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eduardoinoa18/memorybox/pkg/configs"
)

var (
	// RequestCounter counts HTTP requests.
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint"},
	)

	// RequestDuration measures HTTP request latency.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// ActiveConnections tracks open connections.
	ActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_connections",
			Help: "Number of active connections",
		},
	)

	// UploadCounter counts upload outcomes by result
	// (success, validation_failed, upload_failed, persistence_failed, canceled).
	UploadCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "memorybox_uploads_total",
			Help: "Total number of memory uploads by outcome",
		},
		[]string{"outcome"},
	)

	// UploadedBytes counts bytes stored in the blob backend.
	UploadedBytes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "memorybox_uploaded_bytes_total",
			Help: "Total bytes uploaded to blob storage",
		},
	)

	// UploadDuration measures end-to-end upload pipeline latency.
	UploadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "memorybox_upload_duration_seconds",
			Help:    "End-to-end upload duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	// ProcessorFallbacks counts image processing failures that fell back
	// to the original file.
	ProcessorFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "memorybox_processor_fallbacks_total",
			Help: "Image processing failures that fell back to the original file",
		},
	)

	// OrphanedBlobs counts blobs left behind after metadata writes failed.
	OrphanedBlobs = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "memorybox_orphaned_blobs_total",
			Help: "Blobs left in storage after a failed metadata write",
		},
	)

	// AggregateUpdateFailures counts failed storage-aggregate updates.
	AggregateUpdateFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "memorybox_aggregate_update_failures_total",
			Help: "Failed user or folder aggregate updates",
		},
	)

	registry = prometheus.NewRegistry()
)

// InitMetrics registers the collectors.
func InitMetrics(config configs.MetricsConfig) error {
	if !config.Enabled {
		return nil
	}

	if config.RuntimeMetrics {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	registry.MustRegister(
		RequestCounter, RequestDuration, ActiveConnections,
		UploadCounter, UploadedBytes, UploadDuration,
		ProcessorFallbacks, OrphanedBlobs, AggregateUpdateFailures,
	)

	return nil
}

// StartMetricsServer mounts the metrics endpoint on the debug engine.
func StartMetricsServer(config configs.MetricsConfig, debugEngine *gin.Engine) error {
	if !config.Enabled {
		return nil
	}

	debugEngine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	if config.Pprof {
		debugEngine.GET("/debug/pprof/*any", gin.WrapH(http.DefaultServeMux))
	}

	return nil
}

// GetRegistry returns the Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return registry
}

// NewCounter registers a new counter metric.
func NewCounter(name, help string, labels []string) *prometheus.CounterVec {
	counter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: name,
			Help: help,
		},
		labels,
	)
	registry.MustRegister(counter)

	return counter
}

// NewGauge registers a new gauge metric.
func NewGauge(name, help string, labels []string) *prometheus.GaugeVec {
	gauge := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: name,
			Help: help,
		},
		labels,
	)
	registry.MustRegister(gauge)

	return gauge
}

// NewHistogram registers a new histogram metric.
func NewHistogram(name, help string, labels []string) *prometheus.HistogramVec {
	histogram := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: name,
			Help: help,
		},
		labels,
	)
	registry.MustRegister(histogram)

	return histogram
}
