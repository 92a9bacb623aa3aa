package service

import (
	"errors"

	"github.com/jmoiron/sqlx"

	"healthmon/internal/cache"
	"healthmon/internal/repository"
)

// Errors the HTTP layer maps onto status codes.
var (
	ErrDuplicateUsername    = errors.New("username already exists")
	ErrDuplicateEmail       = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrInsufficientTraining = errors.New("insufficient data for training")
	ErrModelNotTrained      = errors.New("no trained model for user")
	ErrDeviceInactive       = errors.New("device is inactive")
)

type Services struct {
	Repos      *repository.Repos
	Auth       *AuthService
	Devices    *DeviceService
	Health     *HealthService
	Alerts     *AlertService
	Simulation *SimulationService
}

func New(db *sqlx.DB, c *cache.Cache) *Services {
	repos := repository.New(db)
	alerts := &AlertService{repos: repos}
	healthSvc := &HealthService{
		repos:  repos,
		cache:  c,
		alerts: alerts,
		models: newModelRegistry(),
	}
	return &Services{
		Repos:      repos,
		Auth:       &AuthService{repos: repos},
		Devices:    &DeviceService{repos: repos, health: healthSvc},
		Health:     healthSvc,
		Alerts:     alerts,
		Simulation: &SimulationService{repos: repos, health: healthSvc},
	}
}
