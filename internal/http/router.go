package http

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"healthmon/internal/service"
)

type Handlers struct {
	svcs     *service.Services
	sessions *session.Store
}

// Register wires every route onto the app.
func Register(app *fiber.App, svcs *service.Services, sessions *session.Store) {
	h := &Handlers{svcs: svcs, sessions: sessions}

	app.Use(requestMetrics)

	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Pages
	app.Get("/", h.rootRedirect)
	app.Get("/dashboard", h.rootRedirect)
	app.Get("/dashboard/:user_id", h.requirePageLogin, h.dashboardPage)

	auth := app.Group("/auth")
	auth.Get("/login", h.loginPage)
	auth.Post("/login", h.loginSubmit)
	auth.Get("/register", h.registerPage)
	auth.Post("/register", h.registerSubmit)
	auth.Get("/logout", h.logout)
	auth.Get("/profile", h.requirePageLogin, h.profilePage)
	auth.Post("/profile", h.requirePageLogin, h.profileSubmit)
	auth.Post("/change-password", h.requirePageLogin, h.changePassword)
	auth.Get("/devices", h.requirePageLogin, h.devicesPage)
	auth.Post("/devices", h.requirePageLogin, h.deviceRegisterSubmit)
	auth.Get("/devices/:device_id/toggle", h.requirePageLogin, h.deviceToggle)
	auth.Post("/devices/:device_id/delete", h.requirePageLogin, h.deviceDelete)

	// JSON API
	api := app.Group("/api")
	api.Post("/sensor-data", h.sensorDataIngest) // device API-key auth, no session
	api.Use(h.requireAPILogin)
	api.Get("/health_data", h.healthDataList)
	api.Post("/health_data", h.healthDataCreate)
	api.Post("/simulate_data", h.simulateData)
	api.Post("/train_model", h.trainModel)
	api.Get("/alerts", h.alertsList)
	api.Post("/alerts/:id/acknowledge", h.alertAcknowledge)
	api.Get("/devices", h.devicesList)
	api.Post("/devices", h.deviceCreate)
	api.Post("/devices/:device_id/toggle", h.deviceToggleAPI)
	api.Delete("/devices/:device_id", h.deviceDeleteAPI)
}
