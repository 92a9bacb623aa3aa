package main

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/template/html/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"healthmon/internal/cache"
	"healthmon/internal/config"
	"healthmon/internal/database"
	httpHandlers "healthmon/internal/http"
	"healthmon/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	db, err := database.Connect()
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("db migrate failed")
	}

	ttl := time.Duration(config.SessionTTLHours()) * time.Hour
	c, err := cache.New(config.RedisAddr(), ttl)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connect failed")
	}
	defer c.Close()

	svcs := service.New(db, c)

	sessions := session.New(session.Config{
		Storage:        c.Sessions(),
		Expiration:     ttl,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})

	app := fiber.New(fiber.Config{
		Views: html.New("./web/templates", ".html"),
	})
	app.Static("/static", "./web/static")

	httpHandlers.Register(app, svcs, sessions)

	addr := config.APIAddr()
	log.Info().Str("addr", addr).Msg("api listening")
	log.Fatal().Err(app.Listen(addr)).Msg("server exit")
}
