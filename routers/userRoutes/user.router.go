package userRoutes

import (
	controllers "lms/controllers/userControllers"
	"lms/middleware"
	validators "lms/validators/user"

	"github.com/gofiber/fiber/v2"
)

// SetupUserRoutes sets up platform-user management routes (admin only)
func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/users", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"))

	userGroup.Post("/", validators.CreateUser(), controllers.CreateUser)
	userGroup.Get("/", validators.UserList(), controllers.ListUsers)
	userGroup.Get("/:userId", validators.UserID(), controllers.GetUser)
	userGroup.Put("/:userId", validators.UserID(), validators.UpdateUser(), controllers.UpdateUser)
	userGroup.Delete("/:userId", validators.UserID(), controllers.DeleteUser)
}
