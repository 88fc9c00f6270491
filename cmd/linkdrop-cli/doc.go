// Command linkdrop-cli issues and manages download links.
//
// Usage:
//
//	linkdrop-cli --config /etc/linkdrop/linkdrop.yaml token issue --path downloads/report.pdf
//	linkdrop-cli token list --output json
//	linkdrop-cli token revoke <token>
//	linkdrop-cli token purge
//	linkdrop-cli --server http://localhost:5000 health
//
// Token commands open the server's token store directly. With the file
// engine this is safe while the server runs; the badger engine allows
// only one process at a time.
package main
