// Package command defines the linkdrop-cli commands on urfave/cli/v2.
//
//   - token: issue, list, revoke and purge download links, working on the
//     store named by the server configuration file
//   - health: query a running server
//   - config: show or validate the effective server configuration
//
// Every command honours the global --output format.
package command
