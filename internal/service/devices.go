package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"healthmon/internal/domain"
	"healthmon/internal/repository"
)

type DeviceService struct {
	repos  *repository.Repos
	health *HealthService
}

// RegisterDeviceInput is the validated device registration form.
type RegisterDeviceInput struct {
	UserID             string
	Name               string
	Type               string
	Manufacturer       string
	Model              string
	CollectionInterval int
	EnabledMetrics     []string
}

// Register creates a device with a generated ID and API key. The key is only
// returned here; devices authenticate ingestion with it afterwards.
func (s *DeviceService) Register(in RegisterDeviceInput) (*domain.Device, error) {
	if in.CollectionInterval <= 0 {
		in.CollectionInterval = 60
	}
	if len(in.EnabledMetrics) == 0 {
		in.EnabledMetrics = []string{"heart_rate", "blood_oxygen", "activity"}
	}
	d := &domain.Device{
		DeviceID:           fmt.Sprintf("%s_%s", in.Type, uuid.NewString()[:8]),
		UserID:             in.UserID,
		Name:               in.Name,
		Type:               in.Type,
		Manufacturer:       in.Manufacturer,
		Model:              in.Model,
		APIKey:             strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", ""),
		IsActive:           true,
		CollectionInterval: in.CollectionInterval,
		EnabledMetrics:     strings.Join(in.EnabledMetrics, ","),
	}
	if err := s.repos.CreateDevice(d); err != nil {
		return nil, fmt.Errorf("create device: %w", err)
	}
	log.Info().Str("device_id", d.DeviceID).Str("user_id", d.UserID).Msg("device registered")
	return d, nil
}

func (s *DeviceService) ListByUser(userID string) ([]domain.Device, error) {
	return s.repos.DevicesByUser(userID)
}

func (s *DeviceService) Toggle(deviceID, userID string) (bool, error) {
	return s.repos.ToggleDevice(deviceID, userID)
}

func (s *DeviceService) Delete(deviceID, userID string) error {
	return s.repos.DeleteDevice(deviceID, userID)
}

// IngestByAPIKey authenticates the device key, records the vitals for the
// owning user and touches the device sync timestamp.
func (s *DeviceService) IngestByAPIKey(apiKey string, p domain.VitalsPayload) (*domain.HealthRecord, error) {
	d, err := s.repos.ActiveDeviceByAPIKey(apiKey)
	if err != nil {
		return nil, err
	}
	p.DeviceID = d.DeviceID
	rec, err := s.health.Ingest(d.UserID, p, "device")
	if err != nil {
		return nil, err
	}
	if err := s.repos.TouchDeviceSync(d.DeviceID, time.Now().UTC()); err != nil {
		log.Error().Err(err).Str("device_id", d.DeviceID).Msg("touch device sync")
	}
	return rec, nil
}

// IngestByDeviceID serves the trusted MQTT path where the broker-side topic
// carries the device identity. Deactivated devices are rejected here too.
func (s *DeviceService) IngestByDeviceID(deviceID string, p domain.VitalsPayload) (*domain.HealthRecord, error) {
	d, err := s.repos.DeviceByID(deviceID)
	if err != nil {
		return nil, err
	}
	if !d.IsActive {
		return nil, ErrDeviceInactive
	}
	p.DeviceID = d.DeviceID
	rec, err := s.health.Ingest(d.UserID, p, "mqtt")
	if err != nil {
		return nil, err
	}
	if err := s.repos.TouchDeviceSync(d.DeviceID, time.Now().UTC()); err != nil {
		log.Error().Err(err).Str("device_id", d.DeviceID).Msg("touch device sync")
	}
	return rec, nil
}
