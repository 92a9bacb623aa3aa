package repository

import (
	"time"

	"healthmon/internal/domain"
)

func (r *Repos) CreateDevice(d *domain.Device) error {
	return r.db.QueryRowx(`INSERT INTO devices
		(device_id, user_id, name, type, manufacturer, model, api_key,
		 collection_interval, enabled_metrics)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id, registered_at`,
		d.DeviceID, d.UserID, d.Name, d.Type, d.Manufacturer, d.Model, d.APIKey,
		d.CollectionInterval, d.EnabledMetrics,
	).Scan(&d.ID, &d.RegisteredAt)
}

func (r *Repos) DevicesByUser(userID string) ([]domain.Device, error) {
	var out []domain.Device
	err := r.db.Select(&out, `SELECT * FROM devices WHERE user_id = $1 ORDER BY registered_at`, userID)
	return out, err
}

func (r *Repos) DeviceByID(deviceID string) (*domain.Device, error) {
	var d domain.Device
	err := r.db.Get(&d, `SELECT * FROM devices WHERE device_id = $1`, deviceID)
	if err != nil {
		return nil, notFound(err)
	}
	return &d, nil
}

// ActiveDeviceByAPIKey resolves an API key to its device; inactive devices do
// not authenticate.
func (r *Repos) ActiveDeviceByAPIKey(apiKey string) (*domain.Device, error) {
	var d domain.Device
	err := r.db.Get(&d, `SELECT * FROM devices WHERE api_key = $1 AND is_active`, apiKey)
	if err != nil {
		return nil, notFound(err)
	}
	return &d, nil
}

func (r *Repos) ToggleDevice(deviceID, userID string) (bool, error) {
	var active bool
	err := r.db.QueryRowx(`UPDATE devices SET is_active = NOT is_active
		WHERE device_id = $1 AND user_id = $2 RETURNING is_active`,
		deviceID, userID).Scan(&active)
	return active, notFound(err)
}

func (r *Repos) DeleteDevice(deviceID, userID string) error {
	res, err := r.db.Exec(`DELETE FROM devices WHERE device_id = $1 AND user_id = $2`, deviceID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repos) TouchDeviceSync(deviceID string, at time.Time) error {
	_, err := r.db.Exec(`UPDATE devices SET last_sync = $1 WHERE device_id = $2`, at, deviceID)
	return err
}
