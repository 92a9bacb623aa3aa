package repository

import "healthmon/internal/domain"

func (r *Repos) InsertHealthRecord(rec *domain.HealthRecord) error {
	return r.db.QueryRowx(`INSERT INTO health_records
		(user_id, device_id, timestamp, heart_rate, blood_oxygen, activity_level,
		 health_score, is_anomaly, anomaly_score)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id, created_at`,
		rec.UserID, rec.DeviceID, rec.Timestamp, rec.HeartRate, rec.BloodOxygen,
		rec.ActivityLevel, rec.HealthScore, rec.IsAnomaly, rec.AnomalyScore,
	).Scan(&rec.ID, &rec.CreatedAt)
}

// RecentHealthRecords returns up to limit records for a user, newest first.
func (r *Repos) RecentHealthRecords(userID string, limit int) ([]domain.HealthRecord, error) {
	var out []domain.HealthRecord
	err := r.db.Select(&out, `SELECT * FROM health_records
		WHERE user_id = $1 ORDER BY timestamp DESC LIMIT $2`, userID, limit)
	return out, err
}

func (r *Repos) LatestHealthRecord(userID string) (*domain.HealthRecord, error) {
	var rec domain.HealthRecord
	err := r.db.Get(&rec, `SELECT * FROM health_records
		WHERE user_id = $1 ORDER BY timestamp DESC LIMIT 1`, userID)
	if err != nil {
		return nil, notFound(err)
	}
	return &rec, nil
}

func (r *Repos) CountHealthRecords(userID string) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM health_records WHERE user_id = $1`, userID)
	return n, err
}

// UpdateAnomalyColumns backfills model output onto an existing record.
func (r *Repos) UpdateAnomalyColumns(recordID int64, isAnomaly bool, score float64) error {
	_, err := r.db.Exec(`UPDATE health_records SET is_anomaly=$1, anomaly_score=$2 WHERE id=$3`,
		isAnomaly, score, recordID)
	return err
}

func (r *Repos) UpdateHealthScore(recordID int64, score float64) error {
	_, err := r.db.Exec(`UPDATE health_records SET health_score=$1 WHERE id=$2`, score, recordID)
	return err
}
