package service

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthmon/internal/config"
	"healthmon/internal/domain"
)

func deviceRow(deviceID, userID string, active bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "device_id", "user_id", "name", "type", "api_key", "is_active"}).
		AddRow(1, deviceID, userID, "My Watch", "smartwatch", "key", active)
}

func TestIngestByDeviceIDRejectsInactive(t *testing.T) {
	repos, mock := newMockRepos(t)
	svc := &DeviceService{repos: repos, health: &HealthService{
		repos:  repos,
		alerts: &AlertService{repos: repos},
		models: newModelRegistry(),
	}}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM devices WHERE device_id = $1`)).
		WithArgs("smartwatch_ab12cd34").
		WillReturnRows(deviceRow("smartwatch_ab12cd34", "user_a", false))

	_, err := svc.IngestByDeviceID("smartwatch_ab12cd34", domain.VitalsPayload{
		HeartRate: 72, BloodOxygen: 98,
	})
	assert.ErrorIs(t, err, ErrDeviceInactive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIngestByDeviceIDActive(t *testing.T) {
	require.NoError(t, config.Load())
	repos, mock := newMockRepos(t)
	svc := &DeviceService{repos: repos, health: &HealthService{
		repos:  repos,
		alerts: &AlertService{repos: repos},
		models: newModelRegistry(),
	}}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM devices WHERE device_id = $1`)).
		WithArgs("smartwatch_ab12cd34").
		WillReturnRows(deviceRow("smartwatch_ab12cd34", "user_a", true))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO health_records`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).
			AddRow(int64(3), time.Now().UTC()))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE devices SET last_sync`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec, err := svc.IngestByDeviceID("smartwatch_ab12cd34", domain.VitalsPayload{
		HeartRate: 72, BloodOxygen: 98, ActivityLevel: domain.ActivityModerate,
	})
	require.NoError(t, err)
	assert.Equal(t, "user_a", rec.UserID)
	assert.Equal(t, "smartwatch_ab12cd34", rec.DeviceID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
