// Package service provides the linkdrop domain services.
//
// This package contains:
//
//   - DownloadService: redeems a link id for an open file, exactly once
//   - LinkService: issues, lists, revokes and purges links (operator CLI)
//
// Services depend on small repository interfaces satisfied by
// storage.TokenStore, so tests can substitute hand-written fakes.
package service
