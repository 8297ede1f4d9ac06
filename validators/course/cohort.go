package courseValidator

import (
	"lms/middleware"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type CohortRequest struct {
	Name            string `json:"name"`
	EnrollmentLimit *int   `json:"enrollmentLimit"`
}

func CreateCohort() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CohortRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Name) == "" {
			errors["name"] = "Name is required!"
		}
		if reqData.EnrollmentLimit != nil && *reqData.EnrollmentLimit < 1 {
			errors["enrollmentLimit"] = "Enrollment limit must be greater than 0!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCohort", reqData)
		return c.Next()
	}
}

func UpdateCohort() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CohortRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		if reqData.EnrollmentLimit != nil && *reqData.EnrollmentLimit < 1 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"enrollmentLimit": "Enrollment limit must be greater than 0!",
			})
		}

		c.Locals("validatedCohortUpdate", reqData)
		return c.Next()
	}
}
