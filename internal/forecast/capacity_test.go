package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kubectl-smart/kubectl-smart/internal/cache"
	"github.com/kubectl-smart/kubectl-smart/internal/kubeclient"
	"github.com/kubectl-smart/kubectl-smart/internal/model"
	"github.com/kubectl-smart/kubectl-smart/internal/parse"
)

func nodeRecord(name string, allocCPUMillis, allocMemBytes int64) *model.ResourceRecord {
	n := model.NewResourceRecord(model.KindNode, "", name)
	n.Properties["allocatableCPUMillis"] = allocCPUMillis
	n.Properties["allocatableMemoryBytes"] = allocMemBytes
	return n
}

func cacheStoreForTest(t *testing.T) *cache.Store {
	t.Helper()
	store, err := cache.NewStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestCapacity_PVCNearFullCrossesThreshold(t *testing.T) {
	store := cacheStoreForTest(t)

	// 950Mi used of 1Gi capacity is ~92.7%, above the 90% threshold, and
	// with only one sample the projection falls back to current-only.
	const mebi = 1024 * 1024
	in := CapacityInput{
		ClusterContext: "kind-test",
		PVCUsage: map[string]PVCUsage{
			"default/fillpvc": {UsedBytes: 950 * mebi, CapacityBytes: 1024 * mebi},
		},
		HorizonHours: 24,
		Now:          time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	warnings, _ := Capacity(in, store)
	require.Len(t, warnings, 1)
	w := warnings[0]
	assert.Equal(t, "storage", w.Metric)
	assert.InDelta(t, 93, w.CurrentPercent, 1)
	assert.Equal(t, model.SeverityCritical, w.Severity)
	assert.NotEmpty(t, w.RecommendedAction)
}

func TestCapacity_BelowThresholdProducesNoWarning(t *testing.T) {
	store := cacheStoreForTest(t)

	const mebi = 1024 * 1024
	in := CapacityInput{
		ClusterContext: "kind-test",
		PVCUsage: map[string]PVCUsage{
			"default/smallpvc": {UsedBytes: 100 * mebi, CapacityBytes: 1024 * mebi},
		},
		HorizonHours: 24,
		Now:          time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	warnings, _ := Capacity(in, store)
	assert.Empty(t, warnings)
}

func TestCapacity_NodePressureIsAlwaysCritical(t *testing.T) {
	store := cacheStoreForTest(t)

	n := nodeRecord("node-1", 4000, 8*1024*1024*1024)
	n.Properties["pressure"] = parse.NodePressure{MemoryPressure: true}

	in := CapacityInput{
		ClusterContext: "kind-test",
		Nodes:          []*model.ResourceRecord{n},
		HorizonHours:   24,
		Now:            time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	warnings, _ := Capacity(in, store)
	require.Len(t, warnings, 1)
	assert.Equal(t, model.SeverityCritical, warnings[0].Severity)
	assert.Equal(t, "MemoryPressure", warnings[0].Metric)
}

func TestCapacity_MetricsUnavailableAddsNote(t *testing.T) {
	store := cacheStoreForTest(t)

	in := CapacityInput{
		ClusterContext: "kind-test",
		MetricsUnavail: true,
		Now:            time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	_, notes := Capacity(in, store)
	require.Len(t, notes, 1)
}

func TestCapacity_NodeCPUUsesAllocatableFromNodeRecord(t *testing.T) {
	store := cacheStoreForTest(t)

	n := nodeRecord("node-1", 4000, 8*1024*1024*1024)
	in := CapacityInput{
		ClusterContext: "kind-test",
		Nodes:          []*model.ResourceRecord{n},
		NodeTop: []kubeclient.TopEntry{
			{Name: "node-1", CPUMillicores: 3800, MemoryBytes: 1024, Available: true},
		},
		HorizonHours: 24,
		Now:          time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	warnings, _ := Capacity(in, store)
	var found *CapacityWarning
	for i, w := range warnings {
		if w.Resource == "node/node-1" && w.Metric == "cpu" {
			found = &warnings[i]
		}
	}
	require.NotNil(t, found, "expected a cpu warning for node-1")
	assert.InDelta(t, 95, found.CurrentPercent, 1)
}
