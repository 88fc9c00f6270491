// Package buildinfo exposes version information for the linkdrop binaries.
//
// Release builds inject values with ldflags:
//
//	go build -ldflags "-X github.com/yndnr/linkdrop-go/internal/infra/buildinfo.Version=v1.2.0 \
//	  -X github.com/yndnr/linkdrop-go/internal/infra/buildinfo.Commit=$(git rev-parse --short HEAD)"
//
// When Commit is not injected it falls back to the VCS revision the Go
// toolchain records in the binary.
package buildinfo
