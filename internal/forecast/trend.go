package forecast

import "github.com/kubectl-smart/kubectl-smart/internal/cache"

// Method names the trend method a projection used, carried into the
// rendered warning so a reader can see why two runs might disagree.
type Method string

const (
	MethodLinear       Method = "linear_regression"
	MethodHoltWinters  Method = "holt_winters"
	MethodInsufficient Method = "insufficient_data"
)

// Project extrapolates samples horizonHours into the future, picking the
// method by sample count: Holt's double exponential smoothing (level and
// trend, no seasonal component) with >=7 samples, linear regression with
// >=2, otherwise "insufficient data" (never fabricated). samples must be
// sorted oldest-first.
func Project(samples []cache.Sample, horizonHours float64) (projected float64, method Method, ok bool) {
	switch {
	case len(samples) >= 7:
		return holtWintersProject(samples, horizonHours), MethodHoltWinters, true
	case len(samples) >= 2:
		return linearProject(samples, horizonHours), MethodLinear, true
	default:
		return 0, MethodInsufficient, false
	}
}

// hoursSince converts each sample's timestamp to hours elapsed since the
// first sample, giving a well-conditioned x-axis for regression.
func hoursSince(samples []cache.Sample) []float64 {
	if len(samples) == 0 {
		return nil
	}
	t0 := samples[0].Timestamp
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Timestamp.Sub(t0).Hours()
	}
	return out
}

// linearProject fits an ordinary least-squares line through (hours, value)
// and evaluates it at the last sample's hour offset plus horizonHours.
func linearProject(samples []cache.Sample, horizonHours float64) float64 {
	xs := hoursSince(samples)
	n := float64(len(samples))

	var sumX, sumY, sumXY, sumXX float64
	for i, x := range xs {
		y := samples[i].Value
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return samples[len(samples)-1].Value
	}
	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	targetX := xs[len(xs)-1] + horizonHours
	return intercept + slope*targetX
}

// holtWintersProject applies Holt's double exponential smoothing (level +
// trend, no seasonal component) to the sample series and projects forward
// horizonHours worth of steps at the series' average sampling interval.
// A full seasonal Holt-Winters model needs a known season length, which a
// single-cluster capacity series collected once per diag/top run doesn't
// reliably expose; the level+trend form is the corpus-consistent
// approximation documented in DESIGN.md.
func holtWintersProject(samples []cache.Sample, horizonHours float64) float64 {
	const alpha = 0.3
	const beta = 0.1

	level := samples[0].Value
	trend := samples[1].Value - samples[0].Value

	for i := 1; i < len(samples); i++ {
		v := samples[i].Value
		prevLevel := level
		level = alpha*v + (1-alpha)*(level+trend)
		trend = beta*(level-prevLevel) + (1-beta)*trend
	}

	xs := hoursSince(samples)
	avgInterval := xs[len(xs)-1] / float64(len(xs)-1)
	if avgInterval <= 0 {
		avgInterval = 1
	}
	steps := horizonHours / avgInterval

	return level + trend*steps
}
