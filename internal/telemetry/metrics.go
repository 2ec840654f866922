package telemetry

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type AppMetrics struct {
	requestDuration  *prometheus.HistogramVec
	requestTotal     *prometheus.CounterVec
	taskOperations   *prometheus.CounterVec
	storeFailures    *prometheus.CounterVec
	rateLimitHits    *prometheus.CounterVec
	rateLimitAllowed *prometheus.CounterVec
}

func NewAppMetrics(registry prometheus.Registerer) *AppMetrics {
	metrics := &AppMetrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		taskOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "task_operations_total",
				Help: "Total number of task operations",
			},
			[]string{"operation"},
		),
		storeFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "store_failures_total",
				Help: "Total number of failed store calls",
			},
			[]string{"operation"},
		),
		rateLimitHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_limit_hits_total",
				Help: "Total number of rate limited requests",
			},
			[]string{"endpoint"},
		),
		rateLimitAllowed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_limit_allowed_total",
				Help: "Total number of requests allowed through the rate limiter",
			},
			[]string{"endpoint"},
		),
	}

	registry.MustRegister(
		metrics.requestDuration,
		metrics.requestTotal,
		metrics.taskOperations,
		metrics.storeFailures,
		metrics.rateLimitHits,
		metrics.rateLimitAllowed,
	)

	return metrics
}

func (m *AppMetrics) RecordRequest(method, path string, status int, duration time.Duration) {
	labels := prometheus.Labels{
		"method": method,
		"path":   path,
		"status": strconv.Itoa(status),
	}

	m.requestDuration.With(labels).Observe(duration.Seconds())
	m.requestTotal.With(labels).Inc()
}

func (m *AppMetrics) RecordTaskOperation(operation string) {
	m.taskOperations.WithLabelValues(operation).Inc()
}

func (m *AppMetrics) RecordStoreFailure(operation string) {
	m.storeFailures.WithLabelValues(operation).Inc()
}

func (m *AppMetrics) RecordRateLimitHit(endpoint string) {
	m.rateLimitHits.WithLabelValues(endpoint).Inc()
}

func (m *AppMetrics) RecordRateLimitAllowed(endpoint string) {
	m.rateLimitAllowed.WithLabelValues(endpoint).Inc()
}
