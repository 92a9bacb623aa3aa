// Package anomaly implements the unsupervised detectors used to flag
// suspicious vitals: an isolation forest, a linear one-class SVM trained by
// SGD, and per-feature statistical thresholds, combined by vote into an
// ensemble. Detectors operate on plain feature matrices and know nothing
// about persistence or HTTP.
package anomaly

import "errors"

var (
	// ErrNotTrained is returned by Predict/Scores before Fit has run.
	ErrNotTrained = errors.New("anomaly: detector not trained")
	// ErrNoData is returned when Fit is called with an empty matrix.
	ErrNoData = errors.New("anomaly: no training data")
)

// Detector is the contract shared by all detection methods. Each row of X is
// one observation, each column one feature. Scores are in [0,1] with higher
// values more anomalous.
type Detector interface {
	Fit(X [][]float64) error
	Predict(X [][]float64) ([]bool, error)
	Scores(X [][]float64) ([]float64, error)
}

// Method names accepted by New and the train_model endpoint.
const (
	MethodIsolationForest = "isolation_forest"
	MethodOneClassSVM     = "one_class_svm"
	MethodStatistical     = "statistical"
	MethodEnsemble        = "ensemble"
)

// New builds a detector by method name. Unknown methods fall through to an
// error so the API layer can 400 on bad input.
func New(method string, contamination float64) (Detector, error) {
	switch method {
	case MethodIsolationForest:
		return NewIsolationForest(contamination), nil
	case MethodOneClassSVM:
		return NewOneClassSVM(contamination), nil
	case MethodStatistical:
		return NewStatistical(StatZScore, 3.0), nil
	case MethodEnsemble:
		return NewEnsemble(contamination, VoteMajority), nil
	}
	return nil, errors.New("anomaly: unknown method " + method)
}
