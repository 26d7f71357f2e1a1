package compute

import (
	"bytes"
	"encoding/json"

	"github.com/edgepulse/edgepulse/pkg/types"
)

// Source is a read-only region lookup. Unknown regions yield an empty slice.
type Source interface {
	Get(region string) []types.Sample
}

// Report maps region names to their stats and remembers the order in which
// regions were first added. The zero value is ready to use.
type Report struct {
	order []string
	stats map[string]types.RegionStats
}

// Set stores stats for region. Re-setting an existing region replaces its
// value and keeps its original position.
func (r *Report) Set(region string, stats types.RegionStats) {
	if r.stats == nil {
		r.stats = make(map[string]types.RegionStats)
	}
	if _, ok := r.stats[region]; !ok {
		r.order = append(r.order, region)
	}
	r.stats[region] = stats
}

// Get returns the stats for region and whether it is present.
func (r *Report) Get(region string) (types.RegionStats, bool) {
	s, ok := r.stats[region]
	return s, ok
}

// Len returns the number of regions in the report.
func (r *Report) Len() int { return len(r.order) }

// Regions returns the region names in insertion order.
func (r *Report) Regions() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// MarshalJSON encodes the report as a JSON object whose keys follow insertion
// order. An empty report encodes as {}.
func (r *Report) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, region := range r.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(region)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.stats[region])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Analyze computes stats for every requested region that src knows about.
// Regions are processed in input order; unknown or empty regions are skipped,
// and a duplicated region contributes a single entry.
func Analyze(src Source, regions []string, thresholdMS int) *Report {
	r := &Report{}
	for _, region := range regions {
		samples := src.Get(region)
		if len(samples) == 0 {
			continue
		}
		r.Set(region, Compute(samples, thresholdMS))
	}
	return r
}
