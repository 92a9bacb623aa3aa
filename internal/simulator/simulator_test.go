package simulator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthmon/internal/domain"
)

func TestReadingStaysInRange(t *testing.T) {
	g := New(Profile{UserID: "user_test", Age: 35, FitnessLevel: "moderate"}, 42)
	at := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 500; i++ {
		r := g.Reading(at.Add(time.Duration(i) * time.Minute))
		assert.GreaterOrEqual(t, r.HeartRate, 30.0)
		assert.LessOrEqual(t, r.HeartRate, 200.0)
		assert.GreaterOrEqual(t, r.BloodOxygen, 70.0)
		assert.LessOrEqual(t, r.BloodOxygen, 100.0)
		assert.Contains(t, []string{
			domain.ActivityLow, domain.ActivityModerate, domain.ActivityHigh,
		}, r.ActivityLevel)
	}
}

func TestSeries(t *testing.T) {
	g := New(Profile{UserID: "user_test", Age: 30}, 1)
	start := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

	series := g.Series(start, time.Hour, 5*time.Minute)
	require.Len(t, series, 12)

	for i, r := range series {
		assert.Equal(t, start.Add(time.Duration(i)*5*time.Minute), r.Timestamp)
	}
}

func TestSeriesDefaultInterval(t *testing.T) {
	g := New(Profile{UserID: "user_test"}, 1)
	series := g.Series(time.Now(), time.Hour, 0)
	assert.Len(t, series, 12)
}

func TestDeterministicWithSeed(t *testing.T) {
	at := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	a := New(Profile{UserID: "u", Age: 40, FitnessLevel: "high"}, 7)
	b := New(Profile{UserID: "u", Age: 40, FitnessLevel: "high"}, 7)
	for i := 0; i < 50; i++ {
		ts := at.Add(time.Duration(i) * time.Minute)
		assert.Equal(t, a.Reading(ts), b.Reading(ts))
	}
}

func TestFitnessAffectsBaseline(t *testing.T) {
	// Averaged over many overnight low-activity samples, a fit profile should
	// sit measurably below an unfit one.
	at := time.Date(2026, 6, 1, 3, 0, 0, 0, time.UTC)

	mean := func(level string) float64 {
		g := New(Profile{UserID: "u", Age: 30, FitnessLevel: level}, 3)
		sum := 0.0
		n := 400
		for i := 0; i < n; i++ {
			sum += g.Reading(at).HeartRate
		}
		return sum / float64(n)
	}

	assert.Less(t, mean("high"), mean("low"))
}

func TestProfileDefaults(t *testing.T) {
	g := New(Profile{UserID: "u"}, 1)
	assert.Equal(t, 30, g.profile.Age)
	assert.Equal(t, domain.ActivityModerate, g.profile.FitnessLevel)
}
