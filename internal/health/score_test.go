package health

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateScore(t *testing.T) {
	tests := []struct {
		name        string
		heartRate   float64
		bloodOxygen float64
		activity    string
		wantScore   float64
		wantStatus  string
	}{
		{
			name:      "ideal vitals high activity",
			heartRate: 72, bloodOxygen: 98, activity: "high",
			wantScore: 100, wantStatus: StatusExcellent,
		},
		{
			name:      "ideal vitals moderate activity",
			heartRate: 72, bloodOxygen: 98, activity: "moderate",
			wantScore: 95, wantStatus: StatusExcellent,
		},
		{
			name:      "ideal vitals low activity",
			heartRate: 72, bloodOxygen: 98, activity: "low",
			wantScore: 85, wantStatus: StatusExcellent,
		},
		{
			name:      "slightly elevated heart rate",
			heartRate: 105, bloodOxygen: 98, activity: "moderate",
			wantScore: 80, wantStatus: StatusGood,
		},
		{
			name:      "slightly low heart rate",
			heartRate: 55, bloodOxygen: 98, activity: "moderate",
			wantScore: 80, wantStatus: StatusGood,
		},
		{
			name:      "low blood oxygen",
			heartRate: 72, bloodOxygen: 92, activity: "moderate",
			wantScore: 80, wantStatus: StatusGood,
		},
		{
			name:      "both vitals marginal",
			heartRate: 108, bloodOxygen: 91, activity: "low",
			wantScore: 55, wantStatus: StatusFair,
		},
		{
			name:      "critical vitals",
			heartRate: 140, bloodOxygen: 85, activity: "low",
			wantScore: 25, wantStatus: StatusPoor,
		},
		{
			name:      "unknown activity scores the middle band",
			heartRate: 72, bloodOxygen: 98, activity: "sleeping",
			wantScore: 90, wantStatus: StatusExcellent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateScore(tt.heartRate, tt.bloodOxygen, tt.activity)
			assert.Equal(t, tt.wantScore, got.Score)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.GreaterOrEqual(t, got.Score, 0.0)
			assert.LessOrEqual(t, got.Score, 100.0)
			assert.NotEmpty(t, got.Recommendations)
		})
	}
}

func TestCalculateScoreIssues(t *testing.T) {
	got := CalculateScore(130, 85, "low")
	assert.Contains(t, got.Issues, "Heart rate significantly outside normal range")
	assert.Contains(t, got.Issues, "Blood oxygen critically low")

	clean := CalculateScore(72, 98, "moderate")
	assert.Empty(t, clean.Issues)
}

func TestRecommendations(t *testing.T) {
	// Everyone gets the baseline advice.
	recs := Recommendations(72, 98, "moderate")
	assert.Contains(t, recs, "Maintain regular sleep schedule")
	assert.Contains(t, recs, "Stay hydrated throughout the day")

	high := Recommendations(115, 98, "moderate")
	assert.Contains(t, high, "Avoid caffeine and stimulants")

	lowSpO2 := Recommendations(72, 88, "moderate")
	assert.Contains(t, lowSpO2, "Consult a healthcare provider immediately")

	sedentary := Recommendations(55, 98, "low")
	assert.Contains(t, sedentary, "Consider light exercise to improve cardiovascular health")
	assert.Contains(t, sedentary, "Increase daily physical activity")
}

func TestValidateVitals(t *testing.T) {
	assert.NoError(t, ValidateVitals(72, 98))
	assert.NoError(t, ValidateVitals(30, 70))
	assert.NoError(t, ValidateVitals(200, 100))

	assert.Error(t, ValidateVitals(25, 98))
	assert.Error(t, ValidateVitals(210, 98))
	assert.Error(t, ValidateVitals(72, 65))
	assert.Error(t, ValidateVitals(72, 101))
}

func TestCheckRules(t *testing.T) {
	thresholds := Thresholds{HeartRateLow: 50, HeartRateHigh: 120, BloodOxygenLow: 90}

	normal := CheckRules(72, 98, thresholds)
	assert.False(t, normal.IsAnomaly)
	assert.Empty(t, normal.Severity)

	highHR := CheckRules(135, 98, thresholds)
	assert.True(t, highHR.IsAnomaly)
	assert.Equal(t, "medium", highHR.Severity)
	assert.Contains(t, highHR.Messages[0], "High heart rate")

	lowHR := CheckRules(42, 98, thresholds)
	assert.True(t, lowHR.IsAnomaly)
	assert.Equal(t, "medium", lowHR.Severity)

	// Low SpO2 escalates, even combined with a heart rate breach.
	lowO2 := CheckRules(135, 85, thresholds)
	assert.True(t, lowO2.IsAnomaly)
	assert.Equal(t, "high", lowO2.Severity)
	assert.Len(t, lowO2.Messages, 2)
}

func TestTrend(t *testing.T) {
	assert.Equal(t, TrendInsufficient, Trend([]float64{70, 71}))
	assert.Equal(t, TrendIncreasing, Trend([]float64{70, 72, 74, 76, 78}))
	assert.Equal(t, TrendDecreasing, Trend([]float64{78, 76, 74, 72, 70}))
	assert.Equal(t, TrendStable, Trend([]float64{70, 70.2, 69.9, 70.1, 70}))

	// Only the trailing window counts: a long flat run swamped by history
	// still reads from the last five points.
	assert.Equal(t, TrendIncreasing, Trend([]float64{70, 70, 70, 70, 70, 72, 74, 76, 78, 80}))
}
