package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"healthmon/internal/service"
)

func (h *Handlers) rootRedirect(c *fiber.Ctx) error {
	uid := h.currentUserID(c)
	if uid == "" {
		return c.Redirect("/auth/login")
	}
	return c.Redirect("/dashboard/" + uid)
}

func (h *Handlers) loginPage(c *fiber.Ctx) error {
	if h.currentUserID(c) != "" {
		return c.Redirect("/dashboard")
	}
	category, message := h.takeFlash(c)
	return c.Render("login", fiber.Map{
		"FlashCategory": category,
		"FlashMessage":  message,
	})
}

func (h *Handlers) loginSubmit(c *fiber.Ctx) error {
	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")
	if username == "" || password == "" {
		h.flash(c, "error", "Username and password are required")
		return c.Redirect("/auth/login")
	}

	u, err := h.svcs.Auth.Authenticate(username, password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		h.flash(c, "error", "Invalid username or password")
		return c.Redirect("/auth/login")
	}
	if err != nil {
		log.Error().Err(err).Msg("login")
		h.flash(c, "error", "Login failed. Please try again.")
		return c.Redirect("/auth/login")
	}

	sess, err := h.sessions.Get(c)
	if err != nil {
		return fiber.ErrInternalServerError
	}
	sess.Set(sessionUserKey, u.UserID)
	if err := sess.Save(); err != nil {
		return fiber.ErrInternalServerError
	}
	h.flash(c, "success", "Welcome back, "+u.Name+"!")
	return c.Redirect("/dashboard/" + u.UserID)
}

func (h *Handlers) registerPage(c *fiber.Ctx) error {
	if h.currentUserID(c) != "" {
		return c.Redirect("/dashboard")
	}
	category, message := h.takeFlash(c)
	return c.Render("register", fiber.Map{
		"FlashCategory": category,
		"FlashMessage":  message,
	})
}

func (h *Handlers) registerSubmit(c *fiber.Ctx) error {
	in := service.RegisterInput{
		Username:          strings.TrimSpace(c.FormValue("username")),
		Email:             strings.TrimSpace(c.FormValue("email")),
		Password:          c.FormValue("password"),
		Name:              strings.TrimSpace(c.FormValue("name")),
		FitnessLevel:      c.FormValue("fitness_level"),
		MedicalConditions: c.FormValue("medical_conditions"),
		Timezone:          c.FormValue("timezone"),
	}
	if msg := validateRegistration(c, &in); msg != "" {
		h.flash(c, "error", msg)
		return c.Redirect("/auth/register")
	}

	u, err := h.svcs.Auth.Register(in)
	switch {
	case errors.Is(err, service.ErrDuplicateUsername):
		h.flash(c, "error", "Username already exists. Please choose a different username.")
		return c.Redirect("/auth/register")
	case errors.Is(err, service.ErrDuplicateEmail):
		h.flash(c, "error", "Email already registered. Please use a different email or login.")
		return c.Redirect("/auth/register")
	case err != nil:
		log.Error().Err(err).Msg("registration")
		h.flash(c, "error", "Registration failed. Please try again.")
		return c.Redirect("/auth/register")
	}

	sess, err := h.sessions.Get(c)
	if err != nil {
		return fiber.ErrInternalServerError
	}
	sess.Set(sessionUserKey, u.UserID)
	if err := sess.Save(); err != nil {
		return fiber.ErrInternalServerError
	}
	h.flash(c, "success", "Registration successful! Welcome, "+u.Name+"!")
	return c.Redirect("/dashboard/" + u.UserID)
}

func (h *Handlers) logout(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c)
	if err == nil {
		_ = sess.Destroy()
	}
	return c.Redirect("/auth/login")
}

func (h *Handlers) profilePage(c *fiber.Ctx) error {
	u, err := h.svcs.Auth.UserByID(h.currentUserID(c))
	if err != nil {
		return h.errorPage(c, "User not found")
	}
	category, message := h.takeFlash(c)
	return c.Render("profile", fiber.Map{
		"User":          u,
		"FlashCategory": category,
		"FlashMessage":  message,
	})
}

func (h *Handlers) profileSubmit(c *fiber.Ctx) error {
	u, err := h.svcs.Auth.UserByID(h.currentUserID(c))
	if err != nil {
		return h.errorPage(c, "User not found")
	}
	if name := strings.TrimSpace(c.FormValue("name")); name != "" {
		u.Name = name
	}
	u.FitnessLevel = c.FormValue("fitness_level", u.FitnessLevel)
	u.MedicalConditions = c.FormValue("medical_conditions")
	if tz := c.FormValue("timezone"); tz != "" {
		u.Timezone = tz
	}
	u.Age = formIntPtr(c, "age")
	u.HeightCM = formFloatPtr(c, "height")
	u.WeightKG = formFloatPtr(c, "weight")

	if err := h.svcs.Auth.UpdateProfile(u); err != nil {
		log.Error().Err(err).Str("user_id", u.UserID).Msg("profile update")
		h.flash(c, "error", "Profile update failed. Please try again.")
	} else {
		h.flash(c, "success", "Profile updated successfully!")
	}
	return c.Redirect("/auth/profile")
}

func (h *Handlers) changePassword(c *fiber.Ctx) error {
	uid := h.currentUserID(c)
	current := c.FormValue("current_password")
	next := c.FormValue("new_password")
	confirm := c.FormValue("new_password2")

	switch {
	case len(next) < 8:
		h.flash(c, "error", "Password must be at least 8 characters long")
	case next != confirm:
		h.flash(c, "error", "Passwords must match")
	default:
		err := h.svcs.Auth.ChangePassword(uid, current, next)
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.flash(c, "error", "Current password is incorrect")
		} else if err != nil {
			log.Error().Err(err).Str("user_id", uid).Msg("change password")
			h.flash(c, "error", "Password change failed. Please try again.")
		} else {
			h.flash(c, "success", "Password changed successfully!")
		}
	}
	return c.Redirect("/auth/profile")
}

func validateRegistration(c *fiber.Ctx, in *service.RegisterInput) string {
	if len(in.Username) < 3 || len(in.Username) > 80 {
		return "Username must be between 3 and 80 characters"
	}
	if len(in.Name) < 2 || len(in.Name) > 100 {
		return "Name must be between 2 and 100 characters"
	}
	if !strings.Contains(in.Email, "@") {
		return "Please enter a valid email address"
	}
	if len(in.Password) < 8 {
		return "Password must be at least 8 characters long"
	}
	if c.FormValue("password2") != in.Password {
		return "Passwords must match"
	}
	in.Age = formIntPtr(c, "age")
	if in.Age != nil && (*in.Age < 1 || *in.Age > 120) {
		return "Age must be between 1 and 120"
	}
	in.HeightCM = formFloatPtr(c, "height")
	if in.HeightCM != nil && (*in.HeightCM < 50 || *in.HeightCM > 300) {
		return "Height must be between 50 and 300 cm"
	}
	in.WeightKG = formFloatPtr(c, "weight")
	if in.WeightKG != nil && (*in.WeightKG < 20 || *in.WeightKG > 500) {
		return "Weight must be between 20 and 500 kg"
	}
	return ""
}
