package health

import "gonum.org/v1/gonum/stat"

// Trend directions.
const (
	TrendIncreasing   = "increasing"
	TrendDecreasing   = "decreasing"
	TrendStable       = "stable"
	TrendInsufficient = "insufficient_data"
)

// TrendWindow is how many trailing samples the slope is fitted over.
const TrendWindow = 5

// Trend fits a least-squares line over the trailing window and buckets the
// slope. Values are expected oldest first.
func Trend(values []float64) string {
	if len(values) < TrendWindow {
		return TrendInsufficient
	}
	recent := values[len(values)-TrendWindow:]
	xs := make([]float64, len(recent))
	for i := range xs {
		xs[i] = float64(i)
	}
	_, slope := stat.LinearRegression(xs, recent, nil, false)
	switch {
	case slope > 0.5:
		return TrendIncreasing
	case slope < -0.5:
		return TrendDecreasing
	default:
		return TrendStable
	}
}
