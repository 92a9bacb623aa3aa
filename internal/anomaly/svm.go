package anomaly

import (
	"math"
	"math/rand"
)

// OneClassSVM is a linear one-class SVM trained by stochastic gradient
// descent on standardized features. It learns a hyperplane w.x = rho
// separating the training mass from the origin; samples on the origin side
// are anomalous. nu bounds the training fraction treated as outliers.
type OneClassSVM struct {
	nu       float64
	epochs   int
	learning float64
	seed     int64

	w       []float64
	rho     float64
	scaler  Scaler
	trained bool
}

func NewOneClassSVM(nu float64) *OneClassSVM {
	if nu <= 0 || nu > 1 {
		nu = 0.1
	}
	return &OneClassSVM{
		nu:       nu,
		epochs:   200,
		learning: 0.01,
		seed:     42,
	}
}

func (m *OneClassSVM) Fit(X [][]float64) error {
	if len(X) == 0 {
		return ErrNoData
	}
	scaled := m.scaler.FitTransform(X)
	dims := len(scaled[0])
	m.w = make([]float64, dims)
	m.rho = 0

	rng := rand.New(rand.NewSource(m.seed))
	n := float64(len(scaled))
	for epoch := 0; epoch < m.epochs; epoch++ {
		// Decaying step keeps late epochs from thrashing the margin.
		eta := m.learning / (1 + m.learning*float64(epoch))
		for _, i := range rng.Perm(len(scaled)) {
			x := scaled[i]
			inside := dot(m.w, x) >= m.rho
			for j := range m.w {
				grad := m.w[j] / n
				if !inside {
					grad -= x[j] / m.nu / n
				}
				m.w[j] -= eta * grad
			}
			gradRho := -1.0 / n
			if !inside {
				gradRho += 1.0 / m.nu / n
			}
			m.rho -= eta * gradRho
		}
	}
	m.trained = true
	return nil
}

// decision is positive for inliers, negative for outliers.
func (m *OneClassSVM) decision(x []float64) float64 {
	return dot(m.w, x) - m.rho
}

func (m *OneClassSVM) Predict(X [][]float64) ([]bool, error) {
	if !m.trained {
		return nil, ErrNotTrained
	}
	scaled := m.scaler.Transform(X)
	out := make([]bool, len(scaled))
	for i, x := range scaled {
		out[i] = m.decision(x) < 0
	}
	return out, nil
}

func (m *OneClassSVM) Scores(X [][]float64) ([]float64, error) {
	if !m.trained {
		return nil, ErrNotTrained
	}
	scaled := m.scaler.Transform(X)
	out := make([]float64, len(scaled))
	for i, x := range scaled {
		out[i] = sigmoid(-m.decision(x))
	}
	return out, nil
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func sigmoid(v float64) float64 {
	return 1 / (1 + math.Exp(-v))
}
