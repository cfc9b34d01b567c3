package handlers

import (
	"cp-mate-backend/middleware"
	"cp-mate-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupStatsRoutes(app *fiber.App, statsService *services.StatsService, jwtSecret []byte) {
	// 🔐 Stats are always scoped to the authenticated user
	stats := app.Group("/api/stats", middleware.RequireAuth(jwtSecret))

	stats.Get("/", statsService.GetStats)
	stats.Post("/fetch", statsService.FetchStats)
	stats.Get("/dashboard", statsService.GetDashboard)
}
