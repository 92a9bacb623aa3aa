package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"healthmon/internal/anomaly"
	"healthmon/internal/domain"
	"healthmon/internal/repository"
	"healthmon/internal/service"
)

// parseOptionalJSON decodes the request body into out, treating a missing
// body as an empty object so callers can apply their defaults.
func parseOptionalJSON(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return c.BodyParser(out)
}

func (h *Handlers) healthDataList(c *fiber.Ctx) error {
	uid := sessionUser(c)
	limit := c.QueryInt("limit", 100)
	records, err := h.svcs.Health.Recent(uid, limit)
	if err != nil {
		log.Error().Err(err).Str("user_id", uid).Msg("list health data")
		return apiError(c, fiber.StatusInternalServerError, "failed to load health data")
	}
	return c.JSON(fiber.Map{
		"status": "success",
		"data":   records,
		"count":  len(records),
	})
}

func (h *Handlers) healthDataCreate(c *fiber.Ctx) error {
	uid := sessionUser(c)
	var p domain.VitalsPayload
	if err := c.BodyParser(&p); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid JSON body")
	}
	rec, err := h.svcs.Health.Ingest(uid, p, "api")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(fiber.Map{
		"status":       "success",
		"message":      "Health data added successfully",
		"data_id":      rec.ID,
		"health_score": rec.HealthScore,
		"is_anomaly":   rec.IsAnomaly,
	})
}

func (h *Handlers) simulateData(c *fiber.Ctx) error {
	uid := sessionUser(c)
	var body struct {
		Hours           int `json:"hours"`
		IntervalMinutes int `json:"interval_minutes"`
	}
	if err := parseOptionalJSON(c, &body); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid JSON body")
	}
	res, err := h.svcs.Simulation.Generate(uid, body.Hours, body.IntervalMinutes)
	if err != nil {
		log.Error().Err(err).Str("user_id", uid).Msg("simulate data")
		return apiError(c, fiber.StatusInternalServerError, "simulation failed")
	}
	return c.JSON(fiber.Map{
		"status":          "success",
		"message":         "Generated and saved " + strconv.Itoa(res.Saved) + " health data entries",
		"generated_count": res.Generated,
		"saved_count":     res.Saved,
	})
}

func (h *Handlers) trainModel(c *fiber.Ctx) error {
	uid := sessionUser(c)
	var body struct {
		ModelType string `json:"model_type"`
	}
	if err := parseOptionalJSON(c, &body); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid JSON body")
	}
	if body.ModelType == "" {
		body.ModelType = anomaly.MethodEnsemble
	}

	res, err := h.svcs.Health.TrainModel(uid, body.ModelType)
	switch {
	case errors.Is(err, service.ErrInsufficientTraining):
		return apiError(c, fiber.StatusBadRequest,
			"Insufficient data for training (minimum 50 records required)")
	case err != nil:
		log.Error().Err(err).Str("user_id", uid).Str("model_type", body.ModelType).Msg("train model")
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(fiber.Map{
		"status":           "success",
		"message":          "Model trained successfully",
		"training_results": res,
	})
}

func (h *Handlers) alertsList(c *fiber.Ctx) error {
	uid := sessionUser(c)
	unreadOnly := c.Query("unread_only") == "true"
	alerts, err := h.svcs.Alerts.List(uid, unreadOnly, c.QueryInt("limit", 100))
	if err != nil {
		log.Error().Err(err).Str("user_id", uid).Msg("list alerts")
		return apiError(c, fiber.StatusInternalServerError, "failed to load alerts")
	}
	return c.JSON(fiber.Map{
		"status": "success",
		"alerts": alerts,
		"count":  len(alerts),
	})
}

func (h *Handlers) alertAcknowledge(c *fiber.Ctx) error {
	uid := sessionUser(c)
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid alert id")
	}
	if err := h.svcs.Alerts.Acknowledge(id, uid); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apiError(c, fiber.StatusNotFound, "alert not found")
		}
		log.Error().Err(err).Str("user_id", uid).Int64("alert_id", id).Msg("acknowledge alert")
		return apiError(c, fiber.StatusInternalServerError, "failed to acknowledge alert")
	}
	return c.JSON(fiber.Map{"status": "success"})
}

func (h *Handlers) devicesList(c *fiber.Ctx) error {
	uid := sessionUser(c)
	devices, err := h.svcs.Devices.ListByUser(uid)
	if err != nil {
		log.Error().Err(err).Str("user_id", uid).Msg("list devices")
		return apiError(c, fiber.StatusInternalServerError, "failed to load devices")
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"devices": devices,
		"count":   len(devices),
	})
}

func (h *Handlers) deviceCreate(c *fiber.Ctx) error {
	uid := sessionUser(c)
	var body struct {
		Name               string   `json:"device_name"`
		Type               string   `json:"device_type"`
		Manufacturer       string   `json:"manufacturer"`
		Model              string   `json:"model"`
		CollectionInterval int      `json:"collection_interval"`
		EnabledMetrics     []string `json:"enabled_metrics"`
	}
	if err := c.BodyParser(&body); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid JSON body")
	}
	if len(body.Name) < 2 || len(body.Name) > 100 {
		return apiError(c, fiber.StatusBadRequest, "device_name must be between 2 and 100 characters")
	}
	if body.Type == "" {
		body.Type = "other"
	}

	d, err := h.svcs.Devices.Register(service.RegisterDeviceInput{
		UserID:             uid,
		Name:               body.Name,
		Type:               body.Type,
		Manufacturer:       body.Manufacturer,
		Model:              body.Model,
		CollectionInterval: body.CollectionInterval,
		EnabledMetrics:     body.EnabledMetrics,
	})
	if err != nil {
		log.Error().Err(err).Str("user_id", uid).Msg("api device registration")
		return apiError(c, fiber.StatusInternalServerError, "device registration failed")
	}
	// The key is only returned on creation.
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":    "success",
		"device_id": d.DeviceID,
		"api_key":   d.APIKey,
	})
}

func (h *Handlers) deviceToggleAPI(c *fiber.Ctx) error {
	uid := sessionUser(c)
	active, err := h.svcs.Devices.Toggle(c.Params("device_id"), uid)
	if errors.Is(err, repository.ErrNotFound) {
		return apiError(c, fiber.StatusNotFound, "device not found")
	}
	if err != nil {
		log.Error().Err(err).Str("user_id", uid).Msg("api device toggle")
		return apiError(c, fiber.StatusInternalServerError, "failed to toggle device")
	}
	return c.JSON(fiber.Map{"status": "success", "is_active": active})
}

func (h *Handlers) deviceDeleteAPI(c *fiber.Ctx) error {
	uid := sessionUser(c)
	if err := h.svcs.Devices.Delete(c.Params("device_id"), uid); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apiError(c, fiber.StatusNotFound, "device not found")
		}
		log.Error().Err(err).Str("user_id", uid).Msg("api device delete")
		return apiError(c, fiber.StatusInternalServerError, "failed to delete device")
	}
	return c.JSON(fiber.Map{"status": "success"})
}

// sensorDataIngest is the device submission endpoint, authenticated by
// X-API-Key rather than a session.
func (h *Handlers) sensorDataIngest(c *fiber.Ctx) error {
	apiKey := c.Get("X-API-Key")
	if apiKey == "" {
		return apiError(c, fiber.StatusUnauthorized, "API key required")
	}
	var p domain.VitalsPayload
	if err := c.BodyParser(&p); err != nil {
		return apiError(c, fiber.StatusBadRequest, "JSON data required")
	}
	rec, err := h.svcs.Devices.IngestByAPIKey(apiKey, p)
	if errors.Is(err, repository.ErrNotFound) {
		return apiError(c, fiber.StatusUnauthorized, "Invalid or inactive API key")
	}
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Health data recorded",
		"data_id": rec.ID,
	})
}
