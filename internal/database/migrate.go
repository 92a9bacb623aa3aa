package database

import (
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		name TEXT NOT NULL,
		age INT,
		height_cm DOUBLE PRECISION,
		weight_kg DOUBLE PRECISION,
		fitness_level TEXT NOT NULL DEFAULT 'moderate',
		medical_conditions TEXT NOT NULL DEFAULT '',
		timezone TEXT NOT NULL DEFAULT 'UTC',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		last_login TIMESTAMPTZ,
		failed_login_attempts INT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS devices (
		id BIGSERIAL PRIMARY KEY,
		device_id TEXT NOT NULL UNIQUE,
		user_id TEXT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		manufacturer TEXT NOT NULL DEFAULT '',
		model TEXT NOT NULL DEFAULT '',
		api_key TEXT NOT NULL UNIQUE,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		collection_interval INT NOT NULL DEFAULT 60,
		enabled_metrics TEXT NOT NULL DEFAULT 'heart_rate,blood_oxygen,activity',
		registered_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		last_sync TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS health_records (
		id BIGSERIAL PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
		device_id TEXT NOT NULL DEFAULT '',
		timestamp TIMESTAMPTZ NOT NULL,
		heart_rate DOUBLE PRECISION NOT NULL,
		blood_oxygen DOUBLE PRECISION NOT NULL,
		activity_level TEXT NOT NULL DEFAULT 'moderate',
		health_score DOUBLE PRECISION,
		is_anomaly BOOLEAN NOT NULL DEFAULT FALSE,
		anomaly_score DOUBLE PRECISION,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_health_records_user_ts ON health_records(user_id, timestamp DESC)`,
	`CREATE TABLE IF NOT EXISTS alerts (
		id BIGSERIAL PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
		alert_type TEXT NOT NULL,
		severity TEXT NOT NULL,
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		recommendations TEXT NOT NULL DEFAULT '',
		health_record_id BIGINT,
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		acknowledged_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_alerts_user_created ON alerts(user_id, created_at DESC)`,
}

// Migrate applies the schema idempotently at startup.
func Migrate(db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	log.Info().Msg("database schema up to date")
	return nil
}
