package anomaly

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// Observation is one vitals sample, already detached from storage concerns.
type Observation struct {
	Timestamp     time.Time
	HeartRate     float64
	BloodOxygen   float64
	ActivityLevel float64
}

// RollingWindow is the sample count for the rolling heart-rate statistics.
const RollingWindow = 12

// Feature column indexes produced by BuildMatrix.
const (
	colHeartRate = iota
	colBloodOxygen
	colHour
	colWeekday
	colActivity
	colRollMean
	colRollStd
	numFeatures
)

// BuildMatrix turns chronological observations into the model feature matrix:
// raw vitals, calendar features, activity ordinal, and rolling mean/std of
// heart rate over the trailing window. Early rows use whatever history exists.
func BuildMatrix(obs []Observation) [][]float64 {
	X := make([][]float64, len(obs))
	hr := make([]float64, 0, len(obs))
	for i, o := range obs {
		hr = append(hr, o.HeartRate)
		lo := len(hr) - RollingWindow
		if lo < 0 {
			lo = 0
		}
		win := hr[lo:]
		mean := stat.Mean(win, nil)
		std := 0.0
		if len(win) > 1 {
			std = stat.StdDev(win, nil)
		}
		X[i] = []float64{
			o.HeartRate,
			o.BloodOxygen,
			float64(o.Timestamp.UTC().Hour()),
			float64(o.Timestamp.UTC().Weekday()),
			o.ActivityLevel,
			mean,
			std,
		}
	}
	return X
}

// Scaler standardizes features to zero mean and unit variance, mirroring the
// scaling the detectors were trained with.
type Scaler struct {
	mean []float64
	std  []float64
}

func (s *Scaler) Fit(X [][]float64) {
	if len(X) == 0 {
		return
	}
	cols := len(X[0])
	s.mean = make([]float64, cols)
	s.std = make([]float64, cols)
	col := make([]float64, len(X))
	for j := 0; j < cols; j++ {
		for i := range X {
			col[i] = X[i][j]
		}
		s.mean[j] = stat.Mean(col, nil)
		if len(col) > 1 {
			s.std[j] = stat.StdDev(col, nil)
		}
		if s.std[j] == 0 {
			s.std[j] = 1 // constant column, leave centered
		}
	}
}

func (s *Scaler) Transform(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = (v - s.mean[j]) / s.std[j]
		}
		out[i] = scaled
	}
	return out
}

func (s *Scaler) FitTransform(X [][]float64) [][]float64 {
	s.Fit(X)
	return s.Transform(X)
}
