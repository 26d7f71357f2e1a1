// Package compute derives per-region latency and uptime statistics from the
// telemetry store.
//
// stats.go provides the pure Compute(samples, threshold) function and the
// linear-interpolation Percentile used for p95:
//
//	h      = p/100 * (n-1)          // over the ascending-sorted values
//	result = lerp(v[floor(h)], v[floor(h)+1], h-floor(h))
//
// analyze.go provides Analyze, which walks a request's region list against a
// Source and collects the results into an insertion-ordered Report.
//
// Compute and Percentile must never be called with zero values; doing so is a
// programming error and panics. Analyze guarantees this by skipping empty
// regions.
package compute
