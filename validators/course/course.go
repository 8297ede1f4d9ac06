package courseValidator

import (
	"lms/middleware"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type CreateCourseRequest struct {
	Title          string `json:"title" validate:"required,min=3"`
	Description    string `json:"description"`
	OrganizationID uint   `json:"organizationId" validate:"required"`
}

func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateCourseRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Description = strings.TrimSpace(reqData.Description)

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, fieldErr := range err.(validator.ValidationErrors) {
				switch fieldErr.Field() {
				case "Title":
					errors["title"] = "Title is required and must be at least 3 characters long!"
				case "OrganizationID":
					errors["organizationId"] = "Organization ID is required!"
				}
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

type UpdateCourseRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateCourseRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		errors := make(map[string]string)

		if reqData.Title != "" && len(strings.TrimSpace(reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourseUpdate", reqData)
		return c.Next()
	}
}

type EnrollmentOpenRequest struct {
	EnrollmentOpen *bool `json:"enrollmentOpen"`
}

func ToggleEnrollmentOpen() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(EnrollmentOpenRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		if reqData.EnrollmentOpen == nil {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"enrollmentOpen": "enrollmentOpen is required!",
			})
		}

		c.Locals("validatedEnrollmentOpen", reqData)
		return c.Next()
	}
}

type ListQuery struct {
	Page  int
	Limit int
}

// ListQueryParser validates optional page/limit query params with defaults.
func ListQueryParser(localsKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := new(struct {
			Page  *int `query:"page"`
			Limit *int `query:"limit"`
		})

		if err := c.QueryParser(raw); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid query parameters!")
		}

		reqData := &ListQuery{Page: 1, Limit: 10}

		errors := make(map[string]string)

		if raw.Page != nil {
			if *raw.Page < 1 {
				errors["page"] = "Page must be greater than 0!"
			} else {
				reqData.Page = *raw.Page
			}
		}

		if raw.Limit != nil {
			if *raw.Limit < 1 {
				errors["limit"] = "Limit must be greater than 0!"
			} else {
				reqData.Limit = *raw.Limit
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals(localsKey, reqData)
		return c.Next()
	}
}

func CourseList() fiber.Handler {
	return ListQueryParser("validatedList")
}
