package handlers

import (
	"cp-mate-backend/middleware"
	"cp-mate-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App, userService *services.UserService, jwtSecret []byte) {
	// 🔐 All user routes require an authenticated session
	user := app.Group("/api/user", middleware.RequireAuth(jwtSecret))

	user.Get("/handles", userService.GetHandles)
	user.Put("/handles", userService.UpdateHandles)
	user.Put("/profile", userService.UpdateProfile)
	user.Post("/avatar", userService.UploadAvatar)
}
