// Package handler provides HTTP request handlers for linkdrop.
//
// Endpoints:
//
//   - GET /download/{token}: redeem a single-use link and stream its file
//   - GET /health: liveness, independent of token store state
//
// Failures are written as {"error": "<message>"} with an X-Error-Code
// header carrying the domain error code.
package handler
