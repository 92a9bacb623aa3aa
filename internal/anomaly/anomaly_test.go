package anomaly

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// normalObservations builds a plausible run of resting vitals: heart rate
// around 72 BPM, blood oxygen around 97%, sampled every five minutes.
func normalObservations(n int, seed int64) []Observation {
	rng := rand.New(rand.NewSource(seed))
	start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	obs := make([]Observation, n)
	for i := range obs {
		obs[i] = Observation{
			Timestamp:     start.Add(time.Duration(i) * 5 * time.Minute),
			HeartRate:     72 + rng.NormFloat64()*4,
			BloodOxygen:   97 + rng.NormFloat64()*0.8,
			ActivityLevel: 2,
		}
	}
	return obs
}

// withOutlier appends one extreme reading to the series.
func withOutlier(obs []Observation) []Observation {
	last := obs[len(obs)-1]
	out := append(append([]Observation(nil), obs...), Observation{
		Timestamp:     last.Timestamp.Add(5 * time.Minute),
		HeartRate:     190,
		BloodOxygen:   78,
		ActivityLevel: 1,
	})
	return out
}

func TestBuildMatrix(t *testing.T) {
	obs := normalObservations(20, 1)
	X := BuildMatrix(obs)

	require.Len(t, X, 20)
	for _, row := range X {
		require.Len(t, row, numFeatures)
	}

	assert.Equal(t, obs[0].HeartRate, X[0][colHeartRate])
	assert.Equal(t, obs[0].BloodOxygen, X[0][colBloodOxygen])
	assert.Equal(t, 8.0, X[0][colHour])
	assert.Equal(t, float64(time.Monday), X[0][colWeekday])
	assert.Equal(t, 2.0, X[0][colActivity])

	// With a single sample of history the rolling mean is the sample itself
	// and the std is zero.
	assert.Equal(t, obs[0].HeartRate, X[0][colRollMean])
	assert.Equal(t, 0.0, X[0][colRollStd])
	assert.Greater(t, X[5][colRollStd], 0.0)
}

func TestBuildMatrixRollingWindow(t *testing.T) {
	// A constant series has a rolling mean equal to the value everywhere.
	obs := make([]Observation, RollingWindow*2)
	start := time.Now().UTC()
	for i := range obs {
		obs[i] = Observation{
			Timestamp:     start.Add(time.Duration(i) * time.Minute),
			HeartRate:     70,
			BloodOxygen:   98,
			ActivityLevel: 1,
		}
	}
	X := BuildMatrix(obs)
	for _, row := range X {
		assert.Equal(t, 70.0, row[colRollMean])
		assert.Equal(t, 0.0, row[colRollStd])
	}
}

func TestScaler(t *testing.T) {
	X := [][]float64{
		{10, 5, 1},
		{20, 5, 2},
		{30, 5, 3},
	}
	var s Scaler
	scaled := s.FitTransform(X)

	// Standardized columns are centered; constant columns stay zero instead
	// of dividing by a zero std.
	for j := 0; j < 3; j++ {
		sum := 0.0
		for i := range scaled {
			sum += scaled[i][j]
		}
		assert.InDelta(t, 0, sum, 1e-9)
	}
	assert.Equal(t, 0.0, scaled[0][1])
	assert.Equal(t, 0.0, scaled[2][1])

	// Transform reuses the fitted parameters.
	again := s.Transform([][]float64{{20, 5, 2}})
	assert.InDelta(t, 0, again[0][0], 1e-9)
}

func TestIsolationForestFlagsOutlier(t *testing.T) {
	train := BuildMatrix(normalObservations(200, 7))
	f := NewIsolationForest(0.1)
	require.NoError(t, f.Fit(train))

	all := BuildMatrix(withOutlier(normalObservations(200, 7)))
	scores, err := f.Scores(all)
	require.NoError(t, err)

	outlier := scores[len(scores)-1]
	for _, s := range scores {
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
	}
	// The injected reading should isolate faster than any normal sample.
	for _, s := range scores[:len(scores)-1] {
		assert.Greater(t, outlier, s)
	}

	flags, err := f.Predict(all)
	require.NoError(t, err)
	assert.True(t, flags[len(flags)-1])
}

func TestIsolationForestDeterministic(t *testing.T) {
	train := BuildMatrix(normalObservations(120, 3))

	a := NewIsolationForest(0.1)
	b := NewIsolationForest(0.1)
	require.NoError(t, a.Fit(train))
	require.NoError(t, b.Fit(train))

	assert.Equal(t, a.Threshold(), b.Threshold())

	sa, err := a.Scores(train[:10])
	require.NoError(t, err)
	sb, err := b.Scores(train[:10])
	require.NoError(t, err)
	assert.Equal(t, sa, sb)
}

func TestIsolationForestErrors(t *testing.T) {
	f := NewIsolationForest(0.1)
	_, err := f.Predict([][]float64{{1, 2}})
	assert.ErrorIs(t, err, ErrNotTrained)
	_, err = f.Scores([][]float64{{1, 2}})
	assert.ErrorIs(t, err, ErrNotTrained)
	assert.ErrorIs(t, f.Fit(nil), ErrNoData)
}

func TestOneClassSVMScoresOutlierHigher(t *testing.T) {
	train := BuildMatrix(normalObservations(200, 11))
	m := NewOneClassSVM(0.1)
	require.NoError(t, m.Fit(train))

	all := BuildMatrix(withOutlier(normalObservations(200, 11)))
	scores, err := m.Scores(all)
	require.NoError(t, err)

	for _, s := range scores {
		assert.Greater(t, s, 0.0)
		assert.Less(t, s, 1.0)
	}
	outlier := scores[len(scores)-1]
	// Compare against an ordinary mid-series sample rather than every point;
	// nu permits a slice of the training mass outside the margin.
	assert.Greater(t, outlier, scores[100])
}

func TestOneClassSVMErrors(t *testing.T) {
	m := NewOneClassSVM(0.1)
	_, err := m.Predict([][]float64{{1}})
	assert.ErrorIs(t, err, ErrNotTrained)
	assert.ErrorIs(t, m.Fit([][]float64{}), ErrNoData)
}

func TestStatisticalMethods(t *testing.T) {
	train := BuildMatrix(normalObservations(200, 5))
	all := BuildMatrix(withOutlier(normalObservations(200, 5)))

	for _, method := range []string{StatZScore, StatIQR, StatModZScore} {
		t.Run(method, func(t *testing.T) {
			s := NewStatistical(method, 3.0)
			require.NoError(t, s.Fit(train))

			flags, err := s.Predict(all)
			require.NoError(t, err)
			assert.True(t, flags[len(flags)-1], "extreme vitals should trip %s", method)

			scores, err := s.Scores(all)
			require.NoError(t, err)
			assert.Equal(t, 1.0, scores[len(scores)-1])
			for _, sc := range scores {
				assert.GreaterOrEqual(t, sc, 0.0)
				assert.LessOrEqual(t, sc, 1.0)
			}
		})
	}
}

func TestStatisticalNotTrained(t *testing.T) {
	s := NewStatistical(StatZScore, 3.0)
	_, err := s.Predict([][]float64{{70, 97}})
	assert.ErrorIs(t, err, ErrNotTrained)
}

func TestEnsembleMajorityVote(t *testing.T) {
	train := BuildMatrix(normalObservations(200, 9))
	e := NewEnsemble(0.1, VoteMajority)
	require.NoError(t, e.Fit(train))

	all := BuildMatrix(withOutlier(normalObservations(200, 9)))
	flags, err := e.Predict(all)
	require.NoError(t, err)
	assert.True(t, flags[len(flags)-1])

	scores, err := e.Scores(all)
	require.NoError(t, err)
	require.Len(t, scores, len(all))
	outlier := scores[len(scores)-1]
	assert.Greater(t, outlier, scores[100])
	assert.LessOrEqual(t, outlier, 1.0)
}

func TestEnsembleNotTrained(t *testing.T) {
	e := NewEnsemble(0.1, VoteMajority)
	_, err := e.Predict([][]float64{{1}})
	assert.ErrorIs(t, err, ErrNotTrained)
	_, err = e.Scores([][]float64{{1}})
	assert.ErrorIs(t, err, ErrNotTrained)
}

func TestNewFactory(t *testing.T) {
	for _, method := range []string{
		MethodIsolationForest, MethodOneClassSVM, MethodStatistical, MethodEnsemble,
	} {
		d, err := New(method, 0.1)
		require.NoError(t, err, method)
		require.NotNil(t, d)
	}

	_, err := New("autoencoder", 0.1)
	assert.Error(t, err)
}

func TestAvgPathLength(t *testing.T) {
	assert.Equal(t, 0.0, avgPathLength(0))
	assert.Equal(t, 0.0, avgPathLength(1))
	// c(n) grows roughly with log n.
	assert.Greater(t, avgPathLength(256), avgPathLength(16))
	assert.InDelta(t, 2*(math.Log(255)+0.5772156649)-2*255.0/256.0, avgPathLength(256), 1e-9)
}
