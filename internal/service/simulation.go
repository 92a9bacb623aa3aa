package service

import (
	"time"

	"github.com/rs/zerolog/log"

	"healthmon/internal/domain"
	"healthmon/internal/repository"
	"healthmon/internal/simulator"
)

type SimulationService struct {
	repos  *repository.Repos
	health *HealthService
}

// SimulationResult reports how much synthetic data was generated and kept.
type SimulationResult struct {
	Generated int `json:"generated_count"`
	Saved     int `json:"saved_count"`
}

// Generate produces hours of synthetic vitals at the given interval for the
// user and pushes each reading through the normal ingest path, so scoring and
// anomaly checks apply to simulated data too.
func (s *SimulationService) Generate(userID string, hours int, intervalMinutes int) (*SimulationResult, error) {
	u, err := s.repos.UserByUserID(userID)
	if err != nil {
		return nil, err
	}
	if hours <= 0 {
		hours = 1
	}
	if intervalMinutes <= 0 {
		intervalMinutes = 5
	}

	gen := simulator.New(ProfileOf(u), time.Now().UnixNano())

	start := time.Now().UTC().Add(-time.Duration(hours) * time.Hour)
	series := gen.Series(start, time.Duration(hours)*time.Hour, time.Duration(intervalMinutes)*time.Minute)

	saved := 0
	for _, p := range series {
		if _, err := s.health.Ingest(u.UserID, p, "simulation"); err != nil {
			log.Warn().Err(err).Str("user_id", u.UserID).Msg("save simulated reading")
			continue
		}
		saved++
	}
	return &SimulationResult{Generated: len(series), Saved: saved}, nil
}

// ProfileOf derives the simulator profile from a user row.
func ProfileOf(u *domain.User) simulator.Profile {
	age := 30
	if u.Age != nil {
		age = *u.Age
	}
	return simulator.Profile{UserID: u.UserID, Age: age, FitnessLevel: u.FitnessLevel}
}
