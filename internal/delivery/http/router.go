package http

import (
	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, handler *Handler) {
	// Health check
	app.Get("/health", handler.HealthCheck)

	// API v1 routes
	api := app.Group("/api/v1")
	{
		// Core pipeline components for UI rendering
		api.Get("/defaults", handler.GetDefaults)
		api.Get("/blood", handler.GetBloodProperties)
		api.Get("/geometry", handler.GetGeometry)
		api.Get("/waveform", handler.GetWaveform)

		// Full simulation and prediction
		api.Post("/simulate", handler.Simulate)
		api.Post("/predict", handler.Predict)

		// Stored run history
		api.Get("/history", handler.GetHistory)
	}
}
