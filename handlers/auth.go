package handlers

import (
	"cp-mate-backend/middleware"
	"cp-mate-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, authService *services.AuthService) {
	auth := app.Group("/api/auth")

	auth.Post("/register", authService.Register)
	auth.Post("/login", authService.Login)

	secured := auth.Group("/", middleware.RequireAuth(authService.JWTSecret))
	secured.Get("/me", authService.Me)
}
