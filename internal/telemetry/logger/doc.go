// Package logger provides structured logging for linkdrop.
//
// It wraps the standard library log/slog:
//
//   - logger.go: handler construction and dynamic level control
//   - context.go: request id propagation through context.Context
//   - redact.go: masking of download link ids and other secrets
//
// Link ids are bearer credentials, so attributes that carry one (a "token"
// key or a /download/ URL path) never reach the output in clear.
package logger
