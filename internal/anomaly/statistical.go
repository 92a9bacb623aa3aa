package anomaly

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Statistical methods.
const (
	StatZScore    = "z_score"
	StatIQR       = "iqr"
	StatModZScore = "modified_z_score"
)

// Statistical flags observations whose raw vitals fall outside fitted
// per-column bounds: z-score or modified z-score past the threshold, or
// values beyond the 1.5*IQR fences. Only the raw vital columns are checked;
// calendar and rolling features are left to the model-based detectors.
type Statistical struct {
	method    string
	threshold float64

	cols    []int
	stats   []colStats
	trained bool
}

type colStats struct {
	mean, std    float64
	median, mad  float64
	q1, q3, iqr  float64
	lower, upper float64
}

func NewStatistical(method string, threshold float64) *Statistical {
	return &Statistical{
		method:    method,
		threshold: threshold,
		cols:      []int{colHeartRate, colBloodOxygen},
	}
}

func (s *Statistical) Fit(X [][]float64) error {
	if len(X) == 0 {
		return ErrNoData
	}
	s.stats = make([]colStats, len(s.cols))
	vals := make([]float64, len(X))
	for k, c := range s.cols {
		for i := range X {
			vals[i] = X[i][c]
		}
		sorted := append([]float64(nil), vals...)
		sort.Float64s(sorted)

		var cs colStats
		cs.mean = stat.Mean(vals, nil)
		if len(vals) > 1 {
			cs.std = stat.StdDev(vals, nil)
		}
		cs.median = stat.Quantile(0.5, stat.Empirical, sorted, nil)
		cs.q1 = stat.Quantile(0.25, stat.Empirical, sorted, nil)
		cs.q3 = stat.Quantile(0.75, stat.Empirical, sorted, nil)
		cs.iqr = cs.q3 - cs.q1
		cs.lower = cs.q1 - 1.5*cs.iqr
		cs.upper = cs.q3 + 1.5*cs.iqr

		dev := make([]float64, len(vals))
		for i, v := range vals {
			dev[i] = math.Abs(v - cs.median)
		}
		sort.Float64s(dev)
		cs.mad = stat.Quantile(0.5, stat.Empirical, dev, nil)

		s.stats[k] = cs
	}
	s.trained = true
	return nil
}

// colScore is the normalized anomaly contribution of one value in [0,1].
func (s *Statistical) colScore(v float64, cs colStats) float64 {
	switch s.method {
	case StatIQR:
		if cs.iqr <= 0 {
			return 0
		}
		d := math.Max(cs.lower-v, v-cs.upper)
		if d < 0 {
			d = 0
		}
		return math.Min(d/cs.iqr, 1)
	case StatModZScore:
		if cs.mad == 0 {
			return 0
		}
		z := math.Abs(0.6745 * (v - cs.median) / cs.mad)
		return math.Min(z/s.threshold, 1)
	default: // z-score
		if cs.std == 0 {
			return 0
		}
		z := math.Abs((v - cs.mean) / cs.std)
		return math.Min(z/s.threshold, 1)
	}
}

func (s *Statistical) tripped(v float64, cs colStats) bool {
	switch s.method {
	case StatIQR:
		return v < cs.lower || v > cs.upper
	case StatModZScore:
		if cs.mad == 0 {
			return false
		}
		return math.Abs(0.6745*(v-cs.median)/cs.mad) > s.threshold
	default:
		if cs.std == 0 {
			return false
		}
		return math.Abs((v-cs.mean)/cs.std) > s.threshold
	}
}

func (s *Statistical) Predict(X [][]float64) ([]bool, error) {
	if !s.trained {
		return nil, ErrNotTrained
	}
	out := make([]bool, len(X))
	for i, row := range X {
		for k, c := range s.cols {
			if s.tripped(row[c], s.stats[k]) {
				out[i] = true
				break
			}
		}
	}
	return out, nil
}

func (s *Statistical) Scores(X [][]float64) ([]float64, error) {
	if !s.trained {
		return nil, ErrNotTrained
	}
	out := make([]float64, len(X))
	for i, row := range X {
		max := 0.0
		for k, c := range s.cols {
			if sc := s.colScore(row[c], s.stats[k]); sc > max {
				max = sc
			}
		}
		out[i] = max
	}
	return out, nil
}
