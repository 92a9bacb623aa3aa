package anomaly

import "fmt"

// Voting strategies for combining detector verdicts.
const (
	VoteMajority  = "majority"
	VoteUnanimous = "unanimous"
	VoteAny       = "any"
)

// Ensemble runs every detector and combines their verdicts by vote. With
// majority voting a sample is anomalous only when strictly more than half the
// detectors flag it, so a 1-of-3 vote or an even split stays normal.
type Ensemble struct {
	detectors []Detector
	voting    string
	trained   bool
}

func NewEnsemble(contamination float64, voting string) *Ensemble {
	return &Ensemble{
		detectors: []Detector{
			NewIsolationForest(contamination),
			NewOneClassSVM(contamination),
			NewStatistical(StatZScore, 3.0),
		},
		voting: voting,
	}
}

func (e *Ensemble) Fit(X [][]float64) error {
	if len(X) == 0 {
		return ErrNoData
	}
	for _, d := range e.detectors {
		if err := d.Fit(X); err != nil {
			return fmt.Errorf("ensemble fit: %w", err)
		}
	}
	e.trained = true
	return nil
}

func (e *Ensemble) Predict(X [][]float64) ([]bool, error) {
	if !e.trained {
		return nil, ErrNotTrained
	}
	votes := make([]int, len(X))
	for _, d := range e.detectors {
		flags, err := d.Predict(X)
		if err != nil {
			return nil, err
		}
		for i, f := range flags {
			if f {
				votes[i]++
			}
		}
	}
	out := make([]bool, len(X))
	n := len(e.detectors)
	for i, v := range votes {
		switch e.voting {
		case VoteUnanimous:
			out[i] = v == n
		case VoteAny:
			out[i] = v > 0
		default:
			out[i] = v*2 > n
		}
	}
	return out, nil
}

// Scores averages the per-detector anomaly probabilities.
func (e *Ensemble) Scores(X [][]float64) ([]float64, error) {
	if !e.trained {
		return nil, ErrNotTrained
	}
	out := make([]float64, len(X))
	for _, d := range e.detectors {
		scores, err := d.Scores(X)
		if err != nil {
			return nil, err
		}
		for i, s := range scores {
			out[i] += s
		}
	}
	for i := range out {
		out[i] /= float64(len(e.detectors))
	}
	return out, nil
}
