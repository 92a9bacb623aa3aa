package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"healthmon/internal/metrics"
)

const sessionUserKey = "user_id"

// requestMetrics feeds the prometheus request counter.
func requestMetrics(c *fiber.Ctx) error {
	err := c.Next()
	metrics.RequestsTotal.WithLabelValues(
		c.Method(), c.Route().Path, strconv.Itoa(c.Response().StatusCode()),
	).Inc()
	return err
}

// currentUserID returns the logged-in user, or "" for anonymous sessions.
func (h *Handlers) currentUserID(c *fiber.Ctx) string {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return ""
	}
	uid, _ := sess.Get(sessionUserKey).(string)
	return uid
}

// requirePageLogin redirects anonymous visitors to the login page.
func (h *Handlers) requirePageLogin(c *fiber.Ctx) error {
	if h.currentUserID(c) == "" {
		return c.Redirect("/auth/login")
	}
	return c.Next()
}

// requireAPILogin rejects anonymous API calls with 401 JSON.
func (h *Handlers) requireAPILogin(c *fiber.Ctx) error {
	uid := h.currentUserID(c)
	if uid == "" {
		return apiError(c, fiber.StatusUnauthorized, "authentication required")
	}
	c.Locals(sessionUserKey, uid)
	return c.Next()
}

func sessionUser(c *fiber.Ctx) string {
	uid, _ := c.Locals(sessionUserKey).(string)
	return uid
}

func apiError(c *fiber.Ctx, code int, msg string) error {
	return c.Status(code).JSON(fiber.Map{"status": "error", "message": msg})
}

// flash stores a one-shot message rendered by the next page load.
func (h *Handlers) flash(c *fiber.Ctx, category, message string) {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return
	}
	sess.Set("flash_category", category)
	sess.Set("flash_message", message)
	_ = sess.Save()
}

func (h *Handlers) takeFlash(c *fiber.Ctx) (category, message string) {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return "", ""
	}
	category, _ = sess.Get("flash_category").(string)
	message, _ = sess.Get("flash_message").(string)
	if message != "" {
		sess.Delete("flash_category")
		sess.Delete("flash_message")
		_ = sess.Save()
	}
	return category, message
}
