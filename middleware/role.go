package middleware

import (
	"lms/database"
	"lms/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RequireRole returns a middleware that checks the caller holds one of the given roles
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Get user ID from context (set by the JWT middleware)
		userID, ok := c.Locals("userId").(uint)
		if !ok {
			return ErrorResponse(c, fiber.StatusUnauthorized, CodeUnauthorized, "Unauthorized: User ID not found")
		}

		var user models.User
		err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrorResponse(c, fiber.StatusUnauthorized, CodeUnauthorized, "User not found!")
			}
			// Other DB error
			return ErrorResponse(c, fiber.StatusInternalServerError, CodeInternal, "Server error while checking role!")
		}

		for _, role := range roles {
			if user.Role == role {
				c.Locals("role", user.Role)
				return c.Next()
			}
		}

		return ErrorResponse(c, fiber.StatusForbidden, CodeForbidden, "You do not have permission to access this resource!")
	}
}
