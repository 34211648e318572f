// Package cache persists per-metric time series samples across runs so the
// forecaster has more than one data point to trend from. Storage is a
// small on-disk ring buffer per (cluster-context, metric); writes are
// atomic (temp file + rename) and serialized with an flock so concurrent
// kubectl-smart invocations against the same cache_dir don't corrupt a
// file mid-write.
package cache

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Sample is one (timestamp, value) point in a metric's ring buffer.
type Sample struct {
	Timestamp time.Time
	Value     float64
}

const (
	recordSize   = 16 // int64 unix seconds + float64 value, big-endian
	maxFileBytes = 1 << 20
	memCacheSize = 256
)

// maxRecords bounds each metric's ring buffer to roughly maxFileBytes.
// A var, not a const, so tests can shrink it to exercise trimming without
// writing a megabyte of fixtures per case.
var maxRecords = maxFileBytes / recordSize

// Store reads and appends samples under a root directory, fronted by an
// in-memory LRU so a single run's repeated Load calls for the same metric
// don't re-parse the ring file from disk every time.
type Store struct {
	dir string
	mem *lru.Cache[string, []Sample]
}

// NewStore returns a Store rooted at dir, creating it if necessary.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir %s: %w", dir, err)
	}
	mem, err := lru.New[string, []Sample](memCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create cache front cache: %w", err)
	}
	return &Store{dir: dir, mem: mem}, nil
}

func (s *Store) path(clusterContext, metric string) string {
	return filepath.Join(s.dir, sanitize(clusterContext), sanitize(metric)+".log")
}

func memKey(clusterContext, metric string) string {
	return clusterContext + "\x00" + metric
}

// Load returns every sample currently on disk for (clusterContext, metric),
// oldest first. A missing file is not an error — it means no history yet.
func (s *Store) Load(clusterContext, metric string) ([]Sample, error) {
	key := memKey(clusterContext, metric)
	if cached, ok := s.mem.Get(key); ok {
		return cached, nil
	}

	path := s.path(clusterContext, metric)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read cache file %s: %w", path, err)
	}
	samples := decode(data)
	s.mem.Add(key, samples)
	return samples, nil
}

// Append adds one sample to (clusterContext, metric)'s ring buffer,
// trimming from the front once the buffer exceeds maxRecords. The write is
// atomic: it lands in a temp file in the same directory, then is renamed
// over the original.
func (s *Store) Append(clusterContext, metric string, sample Sample) error {
	path := s.path(clusterContext, metric)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache context dir %s: %w", dir, err)
	}

	unlock, err := lockFile(path + ".lock")
	if err != nil {
		return fmt.Errorf("lock cache file %s: %w", path, err)
	}
	defer unlock()

	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read cache file %s: %w", path, err)
	}
	samples := decode(existing)
	samples = append(samples, sample)
	sort.Slice(samples, func(i, j int) bool { return samples[i].Timestamp.Before(samples[j].Timestamp) })
	if len(samples) > maxRecords {
		samples = samples[len(samples)-maxRecords:]
	}

	if err := atomicWrite(path, encode(samples)); err != nil {
		return err
	}
	s.mem.Add(memKey(clusterContext, metric), samples)
	return nil
}

func encode(samples []Sample) []byte {
	buf := make([]byte, 0, len(samples)*recordSize)
	for _, s := range samples {
		var rec [recordSize]byte
		binary.BigEndian.PutUint64(rec[0:8], uint64(s.Timestamp.Unix()))
		binary.BigEndian.PutUint64(rec[8:16], math.Float64bits(s.Value))
		buf = append(buf, rec[:]...)
	}
	return buf
}

func decode(data []byte) []Sample {
	n := len(data) / recordSize
	out := make([]Sample, 0, n)
	for i := 0; i < n; i++ {
		rec := data[i*recordSize : (i+1)*recordSize]
		ts := int64(binary.BigEndian.Uint64(rec[0:8]))
		bits := binary.BigEndian.Uint64(rec[8:16])
		out = append(out, Sample{Timestamp: time.Unix(ts, 0).UTC(), Value: math.Float64frombits(bits)})
	}
	return out
}

func atomicWrite(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp cache file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename cache file into place: %w", err)
	}
	return nil
}

func sanitize(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	if len(out) == 0 {
		return "_"
	}
	return string(out)
}
