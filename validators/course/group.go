package courseValidator

import (
	"lms/middleware"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type GroupRequest struct {
	Name                string `json:"name"`
	MaxMembers          *int   `json:"maxMembers"`
	AllowedSubCourseIDs []uint `json:"allowedSubCourseIds"`
}

func CreateGroup() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(GroupRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Name) == "" {
			errors["name"] = "Name is required!"
		}
		if reqData.MaxMembers != nil && *reqData.MaxMembers < 1 {
			errors["maxMembers"] = "Max members must be greater than 0!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedGroup", reqData)
		return c.Next()
	}
}

func UpdateGroup() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(GroupRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		if reqData.MaxMembers != nil && *reqData.MaxMembers < 1 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"maxMembers": "Max members must be greater than 0!",
			})
		}

		c.Locals("validatedGroupUpdate", reqData)
		return c.Next()
	}
}

type ArchiveGroupRequest struct {
	IsArchived *bool `json:"isArchived"`
}

func ArchiveGroup() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ArchiveGroupRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		if reqData.IsArchived == nil {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"isArchived": "isArchived is required!",
			})
		}

		c.Locals("validatedArchive", reqData)
		return c.Next()
	}
}
