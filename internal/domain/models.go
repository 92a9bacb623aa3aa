package domain

import "time"

// Activity levels reported by wearables.
const (
	ActivityLow      = "low"
	ActivityModerate = "moderate"
	ActivityHigh     = "high"
)

// Alert severities, lowest to highest.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

type User struct {
	ID                  int64      `db:"id" json:"-"`
	UserID              string     `db:"user_id" json:"user_id"`
	Username            string     `db:"username" json:"username"`
	Email               string     `db:"email" json:"email"`
	PasswordHash        string     `db:"password_hash" json:"-"`
	Name                string     `db:"name" json:"name"`
	Age                 *int       `db:"age" json:"age,omitempty"`
	HeightCM            *float64   `db:"height_cm" json:"height,omitempty"`
	WeightKG            *float64   `db:"weight_kg" json:"weight,omitempty"`
	FitnessLevel        string     `db:"fitness_level" json:"fitness_level"`
	MedicalConditions   string     `db:"medical_conditions" json:"medical_conditions,omitempty"`
	Timezone            string     `db:"timezone" json:"timezone"`
	IsActive            bool       `db:"is_active" json:"is_active"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	LastLogin           *time.Time `db:"last_login" json:"last_login,omitempty"`
	FailedLoginAttempts int        `db:"failed_login_attempts" json:"-"`
}

type Device struct {
	ID                 int64      `db:"id" json:"-"`
	DeviceID           string     `db:"device_id" json:"device_id"`
	UserID             string     `db:"user_id" json:"user_id"`
	Name               string     `db:"name" json:"device_name"`
	Type               string     `db:"type" json:"device_type"`
	Manufacturer       string     `db:"manufacturer" json:"manufacturer,omitempty"`
	Model              string     `db:"model" json:"model,omitempty"`
	APIKey             string     `db:"api_key" json:"-"`
	IsActive           bool       `db:"is_active" json:"is_active"`
	CollectionInterval int        `db:"collection_interval" json:"collection_interval"`
	EnabledMetrics     string     `db:"enabled_metrics" json:"enabled_metrics"`
	RegisteredAt       time.Time  `db:"registered_at" json:"registered_at"`
	LastSync           *time.Time `db:"last_sync" json:"last_sync,omitempty"`
}

type HealthRecord struct {
	ID            int64     `db:"id" json:"id"`
	UserID        string    `db:"user_id" json:"user_id"`
	DeviceID      string    `db:"device_id" json:"device_id,omitempty"`
	Timestamp     time.Time `db:"timestamp" json:"timestamp"`
	HeartRate     float64   `db:"heart_rate" json:"heart_rate"`
	BloodOxygen   float64   `db:"blood_oxygen" json:"blood_oxygen"`
	ActivityLevel string    `db:"activity_level" json:"activity_level"`
	HealthScore   *float64  `db:"health_score" json:"health_score,omitempty"`
	IsAnomaly     bool      `db:"is_anomaly" json:"is_anomaly"`
	AnomalyScore  *float64  `db:"anomaly_score" json:"anomaly_score,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

type Alert struct {
	ID              int64      `db:"id" json:"id"`
	UserID          string     `db:"user_id" json:"user_id"`
	AlertType       string     `db:"alert_type" json:"alert_type"`
	Severity        string     `db:"severity" json:"severity"`
	Title           string     `db:"title" json:"title"`
	Message         string     `db:"message" json:"message"`
	Recommendations string     `db:"recommendations" json:"recommendations,omitempty"`
	HealthRecordID  *int64     `db:"health_record_id" json:"health_record_id,omitempty"`
	IsRead          bool       `db:"is_read" json:"is_read"`
	AcknowledgedAt  *time.Time `db:"acknowledged_at" json:"acknowledged_at,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
}

// VitalsPayload is the wire shape devices submit, over HTTP or MQTT.
type VitalsPayload struct {
	DeviceID      string    `json:"device_id,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
	HeartRate     float64   `json:"heart_rate"`
	BloodOxygen   float64   `json:"blood_oxygen"`
	ActivityLevel string    `json:"activity_level"`
}

// ActivityNumeric maps an activity category to its ordinal feature value.
// Unknown categories fall back to moderate.
func ActivityNumeric(level string) float64 {
	switch level {
	case ActivityLow:
		return 1
	case ActivityHigh:
		return 3
	default:
		return 2
	}
}
