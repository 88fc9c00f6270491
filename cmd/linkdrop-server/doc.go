// Command linkdrop-server serves single-use download links.
//
// Usage:
//
//	linkdrop-server [--config /etc/linkdrop/linkdrop.yaml]
//
// Endpoints:
//
//	GET /download/{token}  stream the linked file once, then forget the link
//	GET /health            liveness probe
//	GET /metrics           Prometheus metrics (metrics.enabled)
//
// Links are issued with linkdrop-cli against the same configuration.
package main
