package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kubectl-smart/kubectl-smart/internal/cache"
)

func sampleSeries(start time.Time, interval time.Duration, values ...float64) []cache.Sample {
	out := make([]cache.Sample, len(values))
	for i, v := range values {
		out[i] = cache.Sample{Timestamp: start.Add(time.Duration(i) * interval), Value: v}
	}
	return out
}

func TestProject_InsufficientDataBelowTwoSamples(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	_, method, ok := Project(sampleSeries(base, time.Hour, 50), 24)
	require.False(t, ok)
	assert.Equal(t, MethodInsufficient, method)
}

func TestProject_LinearRegressionWithTwoToSixSamples(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	samples := sampleSeries(base, time.Hour, 10, 20, 30, 40)

	projected, method, ok := Project(samples, 2)
	require.True(t, ok)
	assert.Equal(t, MethodLinear, method)
	// slope is 10/hour, last sample at hour 3, so hour 5 should be ~60.
	assert.InDelta(t, 60, projected, 1)
}

func TestProject_HoltWintersWithSevenOrMoreSamples(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	samples := sampleSeries(base, time.Hour, 10, 12, 14, 16, 18, 20, 22)

	projected, method, ok := Project(samples, 2)
	require.True(t, ok)
	assert.Equal(t, MethodHoltWinters, method)
	assert.Greater(t, projected, samples[len(samples)-1].Value)
}

func TestProject_FlatSeriesProjectsFlat(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	samples := sampleSeries(base, time.Hour, 50, 50, 50, 50, 50, 50, 50)

	projected, _, ok := Project(samples, 10)
	require.True(t, ok)
	assert.InDelta(t, 50, projected, 1)
}
