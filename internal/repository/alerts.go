package repository

import (
	"time"

	"healthmon/internal/domain"
)

func (r *Repos) CreateAlert(a *domain.Alert) error {
	return r.db.QueryRowx(`INSERT INTO alerts
		(user_id, alert_type, severity, title, message, recommendations, health_record_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, created_at`,
		a.UserID, a.AlertType, a.Severity, a.Title, a.Message, a.Recommendations,
		a.HealthRecordID,
	).Scan(&a.ID, &a.CreatedAt)
}

func (r *Repos) AlertsByUser(userID string, unreadOnly bool, limit int) ([]domain.Alert, error) {
	var out []domain.Alert
	q := `SELECT * FROM alerts WHERE user_id = $1`
	if unreadOnly {
		q += ` AND NOT is_read`
	}
	q += ` ORDER BY created_at DESC LIMIT $2`
	err := r.db.Select(&out, q, userID, limit)
	return out, err
}

func (r *Repos) AcknowledgeAlert(alertID int64, userID string, at time.Time) error {
	res, err := r.db.Exec(`UPDATE alerts SET is_read = TRUE, acknowledged_at = $1
		WHERE id = $2 AND user_id = $3`, at, alertID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
