package store

import (
	"sort"
	"sync"
	"time"

	"github.com/edgepulse/edgepulse/pkg/types"
)

// Dataset maps a region name to its ordered samples.
// A Dataset must not be modified once it has been handed to a Store.
type Dataset map[string][]types.Sample

// Get returns the samples for region, or nil if the region is unknown.
// The returned slice has its capacity clipped so appends never alias the dataset.
func (d Dataset) Get(region string) []types.Sample {
	s := d[region]
	return s[:len(s):len(s)]
}

// Regions returns all region names in ascending order.
func (d Dataset) Regions() []string {
	out := make([]string, 0, len(d))
	for r := range d {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of regions, including regions with no samples.
func (d Dataset) Len() int { return len(d) }

// Info describes the dataset currently held by a Store.
type Info struct {
	Source   string    // "builtin" or the file path it was loaded from
	LoadedAt time.Time // when the dataset was installed
	Regions  int
}

// Store is a thread-safe holder of the current Dataset.
type Store struct {
	mu       sync.RWMutex
	data     Dataset
	source   string
	loadedAt time.Time
	now      func() time.Time // injectable for deterministic tests
}

// New creates a Store serving ds. source names where ds came from.
func New(ds Dataset, source string) *Store {
	s := &Store{now: time.Now}
	s.Replace(ds, source)
	return s
}

// Open builds a Store from the dataset file at path, or from the built-in
// dataset when path is empty.
func Open(path string) (*Store, error) {
	if path == "" {
		return New(Default(), SourceBuiltin), nil
	}
	ds, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return New(ds, path), nil
}

// Get returns the samples for region from the current dataset.
func (s *Store) Get(region string) []types.Sample {
	return s.Snapshot().Get(region)
}

// Snapshot returns the current dataset. The result stays valid and unchanged
// even if the store is reloaded afterwards.
func (s *Store) Snapshot() Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// Replace installs ds as the current dataset.
// Callers must not modify ds after calling Replace.
func (s *Store) Replace(ds Dataset, source string) {
	if ds == nil {
		ds = Dataset{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = ds
	s.source = source
	s.loadedAt = s.now()
}

// Info reports where the current dataset came from and its size.
func (s *Store) Info() Info {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Info{
		Source:   s.source,
		LoadedAt: s.loadedAt,
		Regions:  len(s.data),
	}
}
