// Package domain defines the core domain models for linkdrop.
//
// Domain models are pure value objects without any IO dependencies
// or framework coupling. This package contains:
//
//   - Token: a single-use, time-limited grant to download one file
//   - Errors: domain error codes shared by storage, service and transport
package domain
