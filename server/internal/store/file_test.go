package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeDataset(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "dataset.yaml")
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return p
}

func TestDefault_Contents(t *testing.T) {
	ds := Default()

	want := map[string][]int{
		"apac":     {170, 185, 200},
		"emea":     {150, 182, 195},
		"americas": {160, 190},
	}
	if ds.Len() != len(want) {
		t.Fatalf("regions: got %d, want %d", ds.Len(), len(want))
	}
	for region, lats := range want {
		got := ds.Get(region)
		if len(got) != len(lats) {
			t.Fatalf("%s: got %d samples, want %d", region, len(got), len(lats))
		}
		for i, l := range lats {
			if got[i].LatencyMS != l {
				t.Errorf("%s[%d].LatencyMS = %d, want %d", region, i, got[i].LatencyMS, l)
			}
		}
	}
	if ds.Get("apac")[2].Up {
		t.Error("apac[2] should be down")
	}
	for _, s := range ds.Get("emea") {
		if !s.Up {
			t.Error("emea samples should all be up")
		}
	}
}

func TestParse_Valid(t *testing.T) {
	ds, err := Parse([]byte(`
regions:
  latam:
    - latency_ms: 0
      uptime: 0
    - {latency_ms: 310, uptime: 1}
  idle: []
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got := ds.Get("latam")
	if len(got) != 2 {
		t.Fatalf("latam: got %d samples, want 2", len(got))
	}
	if got[0].LatencyMS != 0 || got[0].Up {
		t.Errorf("latam[0] = %+v", got[0])
	}
	if got[1].LatencyMS != 310 || !got[1].Up {
		t.Errorf("latam[1] = %+v", got[1])
	}
	if _, ok := ds["idle"]; !ok {
		t.Error("idle region should be present with no samples")
	}
}

func TestParse_EmptyRegions(t *testing.T) {
	ds, err := Parse([]byte("regions: {}\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if ds.Len() != 0 {
		t.Errorf("Len: got %d, want 0", ds.Len())
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"empty document", "", "empty document"},
		{"missing regions", "other: 1\n", "field other not found"},
		{"null regions", "regions:\n", "regions section is required"},
		{"missing latency", "regions:\n  a:\n    - {uptime: 1}\n", "regions.a[0]: latency_ms is required"},
		{"missing uptime", "regions:\n  a:\n    - {latency_ms: 5}\n", "regions.a[0]: uptime is required"},
		{"negative latency", "regions:\n  a:\n    - {latency_ms: -1, uptime: 1}\n", "must not be negative"},
		{"uptime out of range", "regions:\n  a:\n    - {latency_ms: 1, uptime: 2}\n", "must be 0 or 1"},
		{"second sample bad", "regions:\n  a:\n    - {latency_ms: 1, uptime: 1}\n    - {latency_ms: 1, uptime: 7}\n", "regions.a[1]"},
		{"typo in sample", "regions:\n  a:\n    - {latency: 1, uptime: 1}\n", "field latency not found"},
		{"wrong type", "regions:\n  a:\n    - {latency_ms: fast, uptime: 1}\n", "parse yaml"},
		{"empty region name", "regions:\n  \"\":\n    - {latency_ms: 1, uptime: 1}\n", "region name must not be empty"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.content))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not contain %q", err, tc.wantErr)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	p := writeDataset(t, "regions:\n  x:\n    - {latency_ms: 12, uptime: 1}\n")
	ds, err := LoadFile(p)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got := ds.Get("x"); len(got) != 1 || got[0].LatencyMS != 12 {
		t.Errorf("x = %+v", got)
	}
}

func TestLoadFile_ErrorNamesPath(t *testing.T) {
	p := writeDataset(t, "regions:\n  x:\n    - {latency_ms: 12}\n")
	_, err := LoadFile(p)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), p) {
		t.Errorf("error %q does not mention path %q", err, p)
	}
}
