package orgRoutes

import (
	controllers "lms/controllers/organization"
	"lms/middleware"
	validators "lms/validators/organization"

	"github.com/gofiber/fiber/v2"
)

// SetupOrgRoutes sets up organization management routes (admin only)
func SetupOrgRoutes(app *fiber.App) {
	orgGroup := app.Group("/organizations", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"))

	orgGroup.Post("/", validators.CreateOrganization(), controllers.CreateOrganization)
	orgGroup.Get("/", controllers.ListOrganizations)
	orgGroup.Get("/:orgId", validators.OrgID(), controllers.GetOrganization)
	orgGroup.Put("/:orgId", validators.OrgID(), validators.UpdateOrganization(), controllers.UpdateOrganization)
	orgGroup.Post("/:orgId/invite-code", validators.OrgID(), controllers.RotateInviteCode)
	orgGroup.Delete("/:orgId", validators.OrgID(), controllers.DeleteOrganization)
}
