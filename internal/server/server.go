// Package server assembles the Fiber application.
package server

import (
	"resourcesvc/internal/config"
	"resourcesvc/internal/handlers"
	"resourcesvc/internal/middleware"
	"resourcesvc/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// New builds the Fiber app with middleware, the resource API under /api, the
// health check and the metrics endpoint. db backs the health check.
func New(cfg *config.Config, resourceService *services.ResourceService, db handlers.Pinger, log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "resourcesvc",
		DisableStartupMessage: true,
		ErrorHandler:          handlers.NewErrorHandler(cfg.IsProduction(), log),
	})

	metrics := middleware.NewMetrics()

	// --- Middleware ---
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger(log.Named("http")))
	app.Use(metrics.Middleware())

	app.Get("/health", handlers.NewHealthHandler(db, log.Named("health")).HandleHealth)
	app.Get("/metrics", metrics.Handler())

	api := app.Group("/api")
	handlers.NewResourceHandler(resourceService, log.Named("resources")).RegisterRoutes(api)

	return app
}
