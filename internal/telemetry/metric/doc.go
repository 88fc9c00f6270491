// Package metric provides Prometheus metrics for linkdrop.
//
// This package implements metrics collection and exposition:
//
//   - prometheus.go: Prometheus registry and HTTP handler
//   - collector.go: scrape-time collector for the number of stored tokens
//
// Metrics include download outcomes, served bytes, token store operations,
// HTTP request counts and latency histograms.
//
// Metrics are exposed at /metrics in Prometheus format.
package metric
