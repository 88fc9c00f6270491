// Package metric provides Prometheus metrics for linkdrop.
package metric

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every linkdrop metric.
const Namespace = "linkdrop"

// Download results used as the "result" label.
const (
	ResultServed      = "served"
	ResultInvalid     = "invalid"
	ResultExpired     = "expired"
	ResultFileMissing = "file_missing"
	ResultFailed      = "failed"
)

// Registry holds all application metrics.
//
// All Record/Observe methods are safe on a nil *Registry so components can be
// constructed without metrics in tests.
type Registry struct {
	registry *prometheus.Registry

	DownloadsTotal  *prometheus.CounterVec
	DownloadBytes   prometheus.Counter
	StoreOperations *prometheus.CounterVec
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewRegistry creates a new metrics registry with Go runtime and process
// collectors registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
		DownloadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "downloads_total",
			Help:      "Download attempts by outcome.",
		}, []string{"result"}),
		DownloadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "download_bytes_total",
			Help:      "Bytes streamed to clients.",
		}),
		StoreOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Token store operations by operation and result.",
		}, []string{"op", "result"}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.DownloadsTotal,
		r.DownloadBytes,
		r.StoreOperations,
		r.RequestsTotal,
		r.RequestDuration,
	)

	return r
}

var (
	globalOnce     sync.Once
	globalRegistry *Registry
)

// Global returns the process-wide registry.
func Global() *Registry {
	globalOnce.Do(func() {
		globalRegistry = NewRegistry()
	})
	return globalRegistry
}

// Handler returns an HTTP handler exposing this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Prometheus returns the underlying registry for registering extra collectors.
func (r *Registry) Prometheus() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// MustRegister registers additional collectors.
func (r *Registry) MustRegister(cs ...prometheus.Collector) {
	if r == nil {
		return
	}
	r.registry.MustRegister(cs...)
}

// RecordDownload counts one download attempt with the given result.
func (r *Registry) RecordDownload(result string) {
	if r == nil {
		return
	}
	r.DownloadsTotal.WithLabelValues(result).Inc()
}

// AddDownloadBytes adds n streamed bytes.
func (r *Registry) AddDownloadBytes(n int64) {
	if r == nil || n <= 0 {
		return
	}
	r.DownloadBytes.Add(float64(n))
}

// RecordStoreOp counts one store operation.
func (r *Registry) RecordStoreOp(op, result string) {
	if r == nil {
		return
	}
	r.StoreOperations.WithLabelValues(op, result).Inc()
}

// RecordRequest counts one HTTP request and observes its duration in seconds.
func (r *Registry) RecordRequest(route, code string, seconds float64) {
	if r == nil {
		return
	}
	r.RequestsTotal.WithLabelValues(route, code).Inc()
	r.RequestDuration.WithLabelValues(route).Observe(seconds)
}
