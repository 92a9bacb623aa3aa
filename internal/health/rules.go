package health

import "fmt"

// Thresholds for the rule-based fallback check, used until a model has been
// trained for the user.
type Thresholds struct {
	HeartRateLow   float64
	HeartRateHigh  float64
	BloodOxygenLow float64
}

// RuleVerdict is the outcome of the threshold check.
type RuleVerdict struct {
	IsAnomaly bool
	Severity  string
	Messages  []string
}

// CheckRules flags vitals past the critical thresholds. Low blood oxygen
// escalates severity to high.
func CheckRules(heartRate, bloodOxygen float64, t Thresholds) RuleVerdict {
	var v RuleVerdict

	if heartRate > t.HeartRateHigh {
		v.IsAnomaly = true
		v.Messages = append(v.Messages, fmt.Sprintf("High heart rate detected: %.1f BPM", heartRate))
	} else if heartRate < t.HeartRateLow {
		v.IsAnomaly = true
		v.Messages = append(v.Messages, fmt.Sprintf("Low heart rate detected: %.1f BPM", heartRate))
	}

	if bloodOxygen < t.BloodOxygenLow {
		v.IsAnomaly = true
		v.Messages = append(v.Messages, fmt.Sprintf("Low blood oxygen detected: %.1f%%", bloodOxygen))
	}

	if v.IsAnomaly {
		if bloodOxygen < t.BloodOxygenLow {
			v.Severity = "high"
		} else {
			v.Severity = "medium"
		}
	}
	return v
}
