package service

import (
	"time"

	"github.com/rs/zerolog/log"

	"healthmon/internal/domain"
	"healthmon/internal/metrics"
	"healthmon/internal/repository"
)

type AlertService struct {
	repos *repository.Repos
}

// Raise persists an alert. Failures are logged; an alert that cannot be
// written must not fail the ingest that produced it.
func (s *AlertService) Raise(a *domain.Alert) {
	if err := s.repos.CreateAlert(a); err != nil {
		log.Error().Err(err).Str("user_id", a.UserID).Msg("create alert")
		return
	}
	metrics.AlertsCreated.WithLabelValues(a.Severity).Inc()
	log.Warn().Str("user_id", a.UserID).Str("severity", a.Severity).
		Str("title", a.Title).Msg("alert raised")
}

func (s *AlertService) List(userID string, unreadOnly bool, limit int) ([]domain.Alert, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.repos.AlertsByUser(userID, unreadOnly, limit)
}

func (s *AlertService) Acknowledge(alertID int64, userID string) error {
	return s.repos.AcknowledgeAlert(alertID, userID, time.Now().UTC())
}
