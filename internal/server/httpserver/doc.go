// Package httpserver provides the HTTP/HTTPS server for linkdrop.
//
// This package wires the download endpoints using stdlib net/http:
//
//   - GET /download/{token}: single-use file download
//   - GET /health: liveness
//   - GET /metrics: Prometheus exposition (optional)
//
// Features:
//
//   - Optional TLS
//   - Middleware chain: RequestID, Recover, Audit, RateLimit, Metrics
//   - Graceful shutdown through internal/infra/shutdown
package httpserver
