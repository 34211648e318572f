package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStore_AppendAndLoadRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		s := Sample{Timestamp: base.Add(time.Duration(i) * time.Hour), Value: float64(i) * 1.5}
		require.NoError(t, store.Append("kind-dev", "cpu_millicores/default/web-1", s))
	}

	got, err := store.Load("kind-dev", "cpu_millicores/default/web-1")
	require.NoError(t, err)
	require.Len(t, got, 5)
	for i, s := range got {
		require.Equal(t, float64(i)*1.5, s.Value)
	}
}

func TestStore_LoadMissingMetricReturnsEmpty(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	got, err := store.Load("ctx", "never-written")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestStore_RingBufferTrimsOldestBeyondCap(t *testing.T) {
	orig := maxRecords
	maxRecords = 20
	defer func() { maxRecords = orig }()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	total := maxRecords + 10
	for i := 0; i < total; i++ {
		s := Sample{Timestamp: base.Add(time.Duration(i) * time.Minute), Value: float64(i)}
		require.NoError(t, store.Append("ctx", "metric", s))
	}

	got, err := store.Load("ctx", "metric")
	require.NoError(t, err)
	require.Len(t, got, maxRecords)
	require.Equal(t, float64(10), got[0].Value, "expected oldest 10 samples trimmed")
}
