// Package http provides the HTTP REST API implementation.
//
// The public server exposes a single endpoint:
//   - GET /:username returns {"gists": [...]} or {"error": "..."}, always with 200
//
// A second ops listener serves:
//   - Health checks
//   - Prometheus metrics
package http
