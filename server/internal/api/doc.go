// Package api implements the HTTP API for edgepulse-server.
//
// New(store, collector, cfg) returns an http.Handler that serves:
//
//	POST /analytics  per-region latency statistics for the requested regions
//	GET  /healthz    liveness plus dataset source, region count and load time
//	GET  /regions    known regions with their sample counts, sorted by name
//	GET  /metrics    Prometheus text exposition of service counters
//
// All JSON endpoints:
//   - Respond with Content-Type: application/json
//   - Return 405 for unsupported methods
//
// POST /analytics answers 400 for a body that is not a JSON object, 413 when
// the body exceeds server.max_body_bytes and 422 with a structured detail list
// when a field is missing or has the wrong type. Unknown regions are omitted.
//
// Every request, CORS preflights included, passes through the observe
// middleware (middleware.go), which records request metrics and logs at debug
// level, and then through the CORS middleware (cors.go). No external HTTP
// framework is used.
package api
