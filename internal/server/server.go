package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/fathima-sithara/clinic-backend/internal/config"
	"github.com/fathima-sithara/clinic-backend/internal/handlers"
	"github.com/fathima-sithara/clinic-backend/internal/metrics"
	"github.com/fathima-sithara/clinic-backend/internal/middleware"
	"github.com/fathima-sithara/clinic-backend/internal/routes"
)

// New initializes the Fiber application with config, middlewares, and routes.
func New(cfg *config.Config, h *handlers.Handler, protect, forgotLimit fiber.Handler, logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	})

	// Global Middlewares
	app.Use(cors.New())
	app.Use(middleware.RequestLogger(logger.Sugar()))
	app.Use(metrics.Middleware())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	// Setup Routes
	routes.Setup(app, h, protect, forgotLimit)

	return app
}
