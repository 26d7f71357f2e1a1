package types

// Sample is one telemetry reading for a region.
type Sample struct {
	// LatencyMS is the observed round-trip latency in milliseconds (>= 0).
	LatencyMS int

	// Up reports whether the region was reachable when the sample was taken.
	Up bool
}

// RegionStats is the aggregate view of one region's samples.
type RegionStats struct {
	AvgLatency float64 `json:"avg_latency"`
	P95Latency float64 `json:"p95_latency"`
	AvgUptime  float64 `json:"avg_uptime"` // fraction in [0, 1]
	Breaches   int     `json:"breaches"`
}
