package orgValidator

import (
	"lms/middleware"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type OrganizationRequest struct {
	Name string `json:"name"`
}

func CreateOrganization() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(OrganizationRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		reqData.Name = strings.TrimSpace(reqData.Name)
		if reqData.Name == "" {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"name": "Name is required!",
			})
		}

		c.Locals("validatedOrg", reqData)
		return c.Next()
	}
}

func UpdateOrganization() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(OrganizationRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		reqData.Name = strings.TrimSpace(reqData.Name)

		c.Locals("validatedOrgUpdate", reqData)
		return c.Next()
	}
}

// OrgID parses the :orgId route parameter.
func OrgID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("orgId")
		if err != nil || id <= 0 {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid orgId!")
		}
		c.Locals("orgID", uint(id))
		return c.Next()
	}
}
