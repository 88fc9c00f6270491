// Package metric provides Prometheus metrics for linkdrop.
package metric

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CountFunc returns the number of tokens currently stored.
type CountFunc func(ctx context.Context) (int, error)

// TokenCollector reports the stored token count at scrape time.
type TokenCollector struct {
	count   CountFunc
	timeout time.Duration
	desc    *prometheus.Desc
}

// NewTokenCollector creates a collector backed by count.
func NewTokenCollector(count CountFunc) *TokenCollector {
	return &TokenCollector{
		count:   count,
		timeout: 5 * time.Second,
		desc: prometheus.NewDesc(
			prometheus.BuildFQName(Namespace, "store", "tokens"),
			"Number of tokens currently held by the token store.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *TokenCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

// Collect implements prometheus.Collector.
func (c *TokenCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	n, err := c.count(ctx)
	if err != nil {
		ch <- prometheus.NewInvalidMetric(c.desc, err)
		return
	}
	ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(n))
}
