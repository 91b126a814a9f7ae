package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anjiri1684/parkspace/apperror"
	"github.com/anjiri1684/parkspace/cache"
	config "github.com/anjiri1684/parkspace/configs"
	"github.com/anjiri1684/parkspace/database"
	"github.com/anjiri1684/parkspace/jobs"
	"github.com/anjiri1684/parkspace/logger"
	"github.com/anjiri1684/parkspace/metrics"
	"github.com/anjiri1684/parkspace/notifications"
	"github.com/anjiri1684/parkspace/routes"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
)

func main() {
	settings, err := config.Load()
	logger.Init(logger.Options{Level: config.App.LogLevel, Format: config.App.LogFormat})
	if errors.Is(err, config.ErrNoEnvFile) {
		logger.Log.Warn().Msg(err.Error())
	} else if err != nil {
		logger.Log.Fatal().Err(err).Msg("loading config")
	}

	if err := database.ConnectDB(settings.DatabaseURL); err != nil {
		logger.Log.Fatal().Err(err).Msg("connecting to database")
	}
	defer database.Close()
	if err := database.Migrate(); err != nil {
		logger.Log.Fatal().Err(err).Msg("migrating database")
	}
	if err := database.SeedAdmin(); err != nil {
		logger.Log.Error().Err(err).Msg("seeding admin user")
	}
	if err := database.SeedAchievements(); err != nil {
		logger.Log.Error().Err(err).Msg("seeding achievements")
	}

	metrics.Default = metrics.New(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if settings.RedisURL != "" {
		statsCache, err := cache.Connect(ctx, settings.RedisURL, settings.StatsCacheTTL)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("stats cache disabled")
		} else {
			defer statsCache.Close()
		}
	}

	go notifications.Default.Run(ctx)

	if settings.CronEnabled {
		c := cron.New()
		if err := jobs.Schedule(c); err != nil {
			logger.Log.Fatal().Err(err).Msg("scheduling jobs")
		}
		c.Start()
		defer c.Stop()
		logger.Log.Info().Msg("background jobs scheduled")
	}

	app := newApp(settings)

	go func() {
		<-ctx.Done()
		logger.Log.Info().Msg("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Log.Error().Err(err).Msg("server shutdown")
		}
	}()

	logger.Log.Info().Str("port", settings.Port).Msg("server is running")
	if err := app.Listen(":" + settings.Port); err != nil {
		logger.Log.Fatal().Err(err).Msg("server failed to start")
	}
}

func newApp(settings *config.Settings) *fiber.App {
	app := fiber.New(fiber.Config{
		Prefork:       false,
		AppName:       settings.AppName,
		CaseSensitive: true,
		StrictRouting: true,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  60 * time.Second,
		IdleTimeout:   60 * time.Second,
		ErrorHandler:  errorHandler,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  settings.CORSOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Content-Disposition",
		MaxAge:        86400,
	}))
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	routes.Register(app)
	return app
}

// errorHandler renders errors that escape handlers, including fiber's own
// 404/405, in the API error shape.
func errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code := "HTTP_ERROR"
		switch fiberErr.Code {
		case fiber.StatusNotFound:
			code = "ROUTE_NOT_FOUND"
		case fiber.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		case fiber.StatusUpgradeRequired:
			code = "UPGRADE_REQUIRED"
		case fiber.StatusBadRequest:
			code = apperror.CodeBadBody
		}
		return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message, "code": code})
	}
	return apperror.Respond(c, err)
}
