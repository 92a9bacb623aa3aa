package http

import (
	"encoding/json"
	"html/template"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"healthmon/internal/domain"
	"healthmon/internal/service"
)

func (h *Handlers) errorPage(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusInternalServerError).Render("error", fiber.Map{
		"Message": message,
	})
}

// chartData is what the dashboard charts consume: the last day of readings,
// oldest first.
type chartData struct {
	Labels      []string  `json:"labels"`
	HeartRate   []float64 `json:"heart_rate"`
	BloodOxygen []float64 `json:"blood_oxygen"`
}

func (h *Handlers) dashboardPage(c *fiber.Ctx) error {
	uid := h.currentUserID(c)
	// Users only see their own dashboard.
	if c.Params("user_id") != uid {
		return c.Redirect("/dashboard/" + uid)
	}

	u, err := h.svcs.Auth.UserByID(uid)
	if err != nil {
		return h.errorPage(c, "User not found")
	}

	status, err := h.svcs.Health.Status(uid)
	if err != nil {
		log.Error().Err(err).Str("user_id", uid).Msg("dashboard status")
		return h.errorPage(c, "Error loading dashboard")
	}
	trends, err := h.svcs.Health.Trends(uid)
	if err != nil {
		log.Error().Err(err).Str("user_id", uid).Msg("dashboard trends")
		return h.errorPage(c, "Error loading dashboard")
	}
	recent, err := h.svcs.Health.Recent(uid, 100)
	if err != nil {
		log.Error().Err(err).Str("user_id", uid).Msg("dashboard records")
		return h.errorPage(c, "Error loading dashboard")
	}
	alerts, err := h.svcs.Alerts.List(uid, false, 5)
	if err != nil {
		log.Error().Err(err).Str("user_id", uid).Msg("dashboard alerts")
		return h.errorPage(c, "Error loading dashboard")
	}

	category, message := h.takeFlash(c)
	return c.Render("dashboard", fiber.Map{
		"User":          u,
		"Status":        status,
		"Trends":        trends,
		"Chart":         chartJSON(recent),
		"Alerts":        alerts,
		"FlashCategory": category,
		"FlashMessage":  message,
	})
}

// buildChartData keeps the 24 most recent points, ordered oldest first for
// plotting.
func buildChartData(newestFirst []domain.HealthRecord) chartData {
	n := len(newestFirst)
	if n > 24 {
		n = 24
	}
	cd := chartData{
		Labels:      make([]string, n),
		HeartRate:   make([]float64, n),
		BloodOxygen: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		rec := newestFirst[n-1-i]
		cd.Labels[i] = rec.Timestamp.UTC().Format("15:04")
		cd.HeartRate[i] = rec.HeartRate
		cd.BloodOxygen[i] = rec.BloodOxygen
	}
	return cd
}

// chartJSON marshals the chart data for embedding in the page.
func chartJSON(newestFirst []domain.HealthRecord) template.JS {
	b, err := json.Marshal(buildChartData(newestFirst))
	if err != nil {
		return template.JS("{}")
	}
	return template.JS(b)
}

func (h *Handlers) devicesPage(c *fiber.Ctx) error {
	uid := h.currentUserID(c)
	devices, err := h.svcs.Devices.ListByUser(uid)
	if err != nil {
		log.Error().Err(err).Str("user_id", uid).Msg("list devices")
		return h.errorPage(c, "Error loading devices")
	}
	category, message := h.takeFlash(c)
	return c.Render("devices", fiber.Map{
		"Devices":       devices,
		"FlashCategory": category,
		"FlashMessage":  message,
	})
}

func (h *Handlers) deviceRegisterSubmit(c *fiber.Ctx) error {
	uid := h.currentUserID(c)
	name := c.FormValue("device_name")
	if len(name) < 2 || len(name) > 100 {
		h.flash(c, "error", "Device name must be between 2 and 100 characters")
		return c.Redirect("/auth/devices")
	}
	interval, _ := strconv.Atoi(c.FormValue("collection_interval", "60"))
	if interval < 10 || interval > 3600 {
		h.flash(c, "error", "Interval must be between 10 seconds and 1 hour")
		return c.Redirect("/auth/devices")
	}

	var enabled []string
	for form, metric := range map[string]string{
		"collect_heart_rate":   "heart_rate",
		"collect_blood_oxygen": "blood_oxygen",
		"collect_activity":     "activity",
	} {
		if c.FormValue(form) != "" {
			enabled = append(enabled, metric)
		}
	}

	d, err := h.svcs.Devices.Register(service.RegisterDeviceInput{
		UserID:             uid,
		Name:               name,
		Type:               c.FormValue("device_type", "other"),
		Manufacturer:       c.FormValue("manufacturer"),
		Model:              c.FormValue("model"),
		CollectionInterval: interval,
		EnabledMetrics:     enabled,
	})
	if err != nil {
		log.Error().Err(err).Str("user_id", uid).Msg("device registration")
		h.flash(c, "error", "Device registration failed. Please try again.")
		return c.Redirect("/auth/devices")
	}
	// The key is shown once; it is not retrievable later.
	h.flash(c, "info", "Device \""+d.Name+"\" registered. API Key: "+d.APIKey)
	return c.Redirect("/auth/devices")
}

func (h *Handlers) deviceToggle(c *fiber.Ctx) error {
	uid := h.currentUserID(c)
	active, err := h.svcs.Devices.Toggle(c.Params("device_id"), uid)
	if err != nil {
		h.flash(c, "error", "Device not found")
		return c.Redirect("/auth/devices")
	}
	if active {
		h.flash(c, "success", "Device activated")
	} else {
		h.flash(c, "success", "Device deactivated")
	}
	return c.Redirect("/auth/devices")
}

func (h *Handlers) deviceDelete(c *fiber.Ctx) error {
	uid := h.currentUserID(c)
	if err := h.svcs.Devices.Delete(c.Params("device_id"), uid); err != nil {
		h.flash(c, "error", "Device not found")
	} else {
		h.flash(c, "success", "Device deleted successfully")
	}
	return c.Redirect("/auth/devices")
}

func formIntPtr(c *fiber.Ctx, name string) *int {
	if v := c.FormValue(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return &n
		}
	}
	return nil
}

func formFloatPtr(c *fiber.Ctx, name string) *float64 {
	if v := c.FormValue(name); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return &f
		}
	}
	return nil
}
