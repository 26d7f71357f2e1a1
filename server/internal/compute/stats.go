package compute

import (
	"fmt"
	"math"
	"sort"

	"github.com/edgepulse/edgepulse/pkg/types"
)

// P95 is the percentile rank reported as RegionStats.P95Latency.
const P95 = 95.0

// Compute aggregates one region's samples against a breach threshold.
//
//	avg_latency = mean(latency)
//	p95_latency = Percentile(latency, 95)
//	avg_uptime  = mean(up ? 1 : 0)
//	breaches    = count(latency > thresholdMS)
//
// samples must be non-empty and is not modified.
func Compute(samples []types.Sample, thresholdMS int) types.RegionStats {
	if len(samples) == 0 {
		panic("compute: Compute called with no samples")
	}

	latencies := make([]float64, len(samples))
	var sum int64
	var up, breaches int
	for i, s := range samples {
		latencies[i] = float64(s.LatencyMS)
		sum += int64(s.LatencyMS)
		if s.Up {
			up++
		}
		if s.LatencyMS > thresholdMS {
			breaches++
		}
	}

	n := float64(len(samples))
	return types.RegionStats{
		AvgLatency: float64(sum) / n,
		P95Latency: percentileOf(latencies, P95),
		AvgUptime:  float64(up) / n,
		Breaches:   breaches,
	}
}

// Percentile returns the p-th percentile (0–100) of values using linear
// interpolation between the two closest ranks. values is not modified.
//
// It panics if values is empty or p is outside [0, 100].
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		panic("compute: Percentile called with no values")
	}
	if math.IsNaN(p) || p < 0 || p > 100 {
		panic(fmt.Sprintf("compute: percentile %v out of range [0, 100]", p))
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	return percentileOf(sorted, p)
}

// percentileOf sorts v in place and interpolates the p-th percentile.
func percentileOf(v []float64, p float64) float64 {
	sort.Float64s(v)

	h := p / 100 * float64(len(v)-1)
	lo := math.Floor(h)
	i := int(lo)
	if i >= len(v)-1 {
		return v[len(v)-1]
	}
	return lerp(v[i], v[i+1], h-lo)
}

// lerp interpolates between a and b. For t >= 0.5 it steps back from b so the
// result is exact at both ends and monotone in t.
func lerp(a, b, t float64) float64 {
	d := b - a
	if t >= 0.5 {
		return b - d*(1-t)
	}
	return a + d*t
}
