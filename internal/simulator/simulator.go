// Package simulator generates synthetic wearable vitals for demo users and
// model training. Draws are randomized around profile-specific means; this is
// a generator, not a physiological model.
package simulator

import (
	"math"
	"math/rand"
	"time"

	"healthmon/internal/domain"
)

// Profile carries the user attributes the generator conditions on.
type Profile struct {
	UserID       string
	Age          int
	FitnessLevel string
}

type Generator struct {
	profile Profile
	rng     *rand.Rand
}

// AnomalyRate is the injected share of out-of-band readings.
const AnomalyRate = 0.05

func New(profile Profile, seed int64) *Generator {
	if profile.Age <= 0 {
		profile.Age = 30
	}
	if profile.FitnessLevel == "" {
		profile.FitnessLevel = domain.ActivityModerate
	}
	return &Generator{profile: profile, rng: rand.New(rand.NewSource(seed))}
}

// restingHeartRate returns the profile's baseline BPM. Fitter users sit
// lower; resting rate creeps up slightly with age.
func (g *Generator) restingHeartRate() float64 {
	base := 70.0
	switch g.profile.FitnessLevel {
	case "low":
		base = 76
	case "high":
		base = 62
	}
	return base + float64(g.profile.Age-30)*0.1
}

// Reading produces one sample at the given time.
func (g *Generator) Reading(at time.Time) domain.VitalsPayload {
	activity := g.pickActivity(at)

	hr := g.restingHeartRate()
	switch activity {
	case domain.ActivityModerate:
		hr += 15
	case domain.ActivityHigh:
		hr += 40
	}
	// Circadian dip overnight.
	hour := float64(at.UTC().Hour())
	hr -= 6 * math.Cos((hour-14)/24*2*math.Pi-math.Pi)
	hr += g.rng.NormFloat64() * 4

	spo2 := 97 + g.rng.NormFloat64()*1.2

	if g.rng.Float64() < AnomalyRate {
		if g.rng.Float64() < 0.5 {
			hr += 20 + g.rng.Float64()*20
		} else {
			spo2 -= 5 + g.rng.Float64()*5
		}
	}

	return domain.VitalsPayload{
		Timestamp:     at,
		HeartRate:     clamp(hr, 30, 200),
		BloodOxygen:   clamp(spo2, 70, 100),
		ActivityLevel: activity,
	}
}

// Series generates interval-spaced readings covering the duration,
// oldest first.
func (g *Generator) Series(start time.Time, duration time.Duration, interval time.Duration) []domain.VitalsPayload {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	n := int(duration / interval)
	out := make([]domain.VitalsPayload, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, g.Reading(start.Add(time.Duration(i)*interval)))
	}
	return out
}

func (g *Generator) pickActivity(at time.Time) string {
	hour := at.UTC().Hour()
	r := g.rng.Float64()
	if hour < 6 || hour >= 22 {
		// Asleep or winding down.
		if r < 0.9 {
			return domain.ActivityLow
		}
		return domain.ActivityModerate
	}
	switch {
	case r < 0.5:
		return domain.ActivityLow
	case r < 0.85:
		return domain.ActivityModerate
	default:
		return domain.ActivityHigh
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
