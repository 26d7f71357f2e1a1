package store

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/edgepulse/edgepulse/pkg/types"
)

// SourceBuiltin is the Info.Source value for the embedded dataset.
const SourceBuiltin = "builtin"

//go:embed default_dataset.yaml
var defaultDataset []byte

// datasetFile is the on-disk layout of a dataset.
type datasetFile struct {
	Regions map[string][]sampleRecord `yaml:"regions"`
}

// sampleRecord uses pointers so missing fields can be told apart from zeros.
type sampleRecord struct {
	LatencyMS *int `yaml:"latency_ms"`
	Uptime    *int `yaml:"uptime"`
}

// Default returns the built-in dataset.
func Default() Dataset {
	ds, err := Parse(defaultDataset)
	if err != nil {
		panic(fmt.Sprintf("store: embedded dataset is invalid: %v", err))
	}
	return ds
}

// LoadFile reads and parses the dataset file at path.
func LoadFile(path string) (Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: read %q: %w", path, err)
	}
	ds, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("dataset %q: %w", path, err)
	}
	return ds, nil
}

// Parse decodes a YAML dataset and validates every sample.
// Unknown keys are rejected so typos do not silently drop data.
func Parse(data []byte) (Dataset, error) {
	var f datasetFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse yaml: empty document")
		}
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if f.Regions == nil {
		return nil, fmt.Errorf("regions section is required")
	}

	ds := make(Dataset, len(f.Regions))
	for region, recs := range f.Regions {
		if region == "" {
			return nil, fmt.Errorf("region name must not be empty")
		}
		samples := make([]types.Sample, 0, len(recs))
		for i, rec := range recs {
			s, err := rec.toSample()
			if err != nil {
				return nil, fmt.Errorf("regions.%s[%d]: %w", region, i, err)
			}
			samples = append(samples, s)
		}
		ds[region] = samples
	}
	return ds, nil
}

func (r sampleRecord) toSample() (types.Sample, error) {
	if r.LatencyMS == nil {
		return types.Sample{}, fmt.Errorf("latency_ms is required")
	}
	if *r.LatencyMS < 0 {
		return types.Sample{}, fmt.Errorf("latency_ms %d must not be negative", *r.LatencyMS)
	}
	if r.Uptime == nil {
		return types.Sample{}, fmt.Errorf("uptime is required")
	}
	switch *r.Uptime {
	case 0, 1:
	default:
		return types.Sample{}, fmt.Errorf("uptime %d must be 0 or 1", *r.Uptime)
	}
	return types.Sample{LatencyMS: *r.LatencyMS, Up: *r.Uptime == 1}, nil
}
