// Package health holds the scoring and recommendation formulas as pure
// functions, so the hand-tuned coefficients can change without touching
// persistence or routing.
package health

import "fmt"

// Score statuses.
const (
	StatusExcellent = "Excellent"
	StatusGood      = "Good"
	StatusFair      = "Fair"
	StatusPoor      = "Poor"
)

// ScoreResult is the composite 0-100 health score with its supporting detail.
type ScoreResult struct {
	Score           float64  `json:"score"`
	Status          string   `json:"status"`
	Issues          []string `json:"issues"`
	Recommendations []string `json:"recommendations"`
}

// CalculateScore produces the weighted composite score. The band weights are
// tuned business logic, not a clinical contract: heart rate and blood oxygen
// each contribute up to 40 points, activity up to 20, clipped to [0,100].
func CalculateScore(heartRate, bloodOxygen float64, activityLevel string) ScoreResult {
	score := 0.0
	var issues []string

	switch {
	case heartRate >= 60 && heartRate <= 100:
		score += 40
	case (heartRate >= 50 && heartRate < 60) || (heartRate > 100 && heartRate <= 110):
		score += 25
		issues = append(issues, "Heart rate slightly outside normal range")
	default:
		score += 10
		issues = append(issues, "Heart rate significantly outside normal range")
	}

	switch {
	case bloodOxygen >= 95:
		score += 40
	case bloodOxygen >= 90:
		score += 25
		issues = append(issues, "Blood oxygen slightly low")
	default:
		score += 10
		issues = append(issues, "Blood oxygen critically low")
	}

	switch activityLevel {
	case "low":
		score += 5
	case "moderate":
		score += 15
	case "high":
		score += 20
	default:
		score += 10
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	status := StatusPoor
	switch {
	case score >= 85:
		status = StatusExcellent
	case score >= 70:
		status = StatusGood
	case score >= 55:
		status = StatusFair
	}

	return ScoreResult{
		Score:           score,
		Status:          status,
		Issues:          issues,
		Recommendations: Recommendations(heartRate, bloodOxygen, activityLevel),
	}
}

// Recommendations returns advice strings keyed off the vitals.
func Recommendations(heartRate, bloodOxygen float64, activityLevel string) []string {
	var recs []string

	if heartRate > 100 {
		recs = append(recs,
			"Consider relaxation techniques to lower heart rate",
			"Avoid caffeine and stimulants")
	} else if heartRate < 60 && activityLevel == "low" {
		recs = append(recs, "Consider light exercise to improve cardiovascular health")
	}

	if bloodOxygen < 95 {
		recs = append(recs,
			"Ensure good ventilation in your environment",
			"Practice deep breathing exercises")
		if bloodOxygen < 90 {
			recs = append(recs, "Consult a healthcare provider immediately")
		}
	}

	if activityLevel == "low" {
		recs = append(recs,
			"Increase daily physical activity",
			"Take regular breaks to move around")
	}

	recs = append(recs,
		"Maintain regular sleep schedule",
		"Stay hydrated throughout the day",
		"Monitor your health metrics regularly")
	return recs
}

// ValidateVitals rejects readings outside plausible physiological ranges
// (heart rate 30-200 BPM, SpO2 70-100%).
func ValidateVitals(heartRate, bloodOxygen float64) error {
	if heartRate < 30 || heartRate > 200 {
		return fmt.Errorf("heart rate %.1f outside valid range [30,200]", heartRate)
	}
	if bloodOxygen < 70 || bloodOxygen > 100 {
		return fmt.Errorf("blood oxygen %.1f outside valid range [70,100]", bloodOxygen)
	}
	return nil
}
