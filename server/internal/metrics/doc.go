// Package metrics keeps the service's own counters and serves them in the
// Prometheus text exposition format on GET /metrics.
//
// Series live in a private client_golang registry and are served through
// promhttp; Write encodes the gathered client_model families with
// prometheus/common/expfmt:
//
//	edgepulse_http_requests_total{path,code}            counter
//	edgepulse_http_request_duration_seconds{path}       histogram
//	edgepulse_regions_requested_total{result}           counter (reported|unknown)
//	edgepulse_breaches_reported_total                   counter
//	edgepulse_dataset_regions                           gauge
//	edgepulse_dataset_reloads_total{result}             counter (ok|error)
//
// All Collector methods are safe for concurrent use.
package metrics
