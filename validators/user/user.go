package userValidator

import (
	"lms/middleware"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

var allowedRoles = map[string]bool{
	"STUDENT":    true,
	"INSTRUCTOR": true,
	"ADMIN":      true,
}

type CreateUserRequest struct {
	Name           string `json:"name" validate:"required,min=2"`
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=8"`
	Role           string `json:"role"`
	OrganizationID *uint  `json:"organizationId"`
}

func CreateUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateUserRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		reqData.Name = strings.TrimSpace(reqData.Name)
		reqData.Email = strings.ToLower(strings.TrimSpace(reqData.Email))
		if reqData.Role == "" {
			reqData.Role = "STUDENT"
		}

		errors := make(map[string]string)

		if err := validate.Struct(reqData); err != nil {
			for _, fieldErr := range err.(validator.ValidationErrors) {
				switch fieldErr.Field() {
				case "Name":
					errors["name"] = "Name is required and must be at least 2 characters long!"
				case "Email":
					errors["email"] = "A valid email is required!"
				case "Password":
					errors["password"] = "Password is required and must be at least 8 characters long!"
				}
			}
		}
		if !allowedRoles[reqData.Role] {
			errors["role"] = "Role must be one of STUDENT, INSTRUCTOR, ADMIN!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedUser", reqData)
		return c.Next()
	}
}

type UpdateUserRequest struct {
	Name           string `json:"name"`
	Mobile         string `json:"mobile"`
	Role           string `json:"role"`
	OrganizationID *uint  `json:"organizationId"`
}

func UpdateUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateUserRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		if reqData.Role != "" && !allowedRoles[reqData.Role] {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"role": "Role must be one of STUDENT, INSTRUCTOR, ADMIN!",
			})
		}

		c.Locals("validatedUserUpdate", reqData)
		return c.Next()
	}
}

type UserListQuery struct {
	Page   int
	Limit  int
	Role   string
	Search string
}

func UserList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := new(struct {
			Page   *int   `query:"page"`
			Limit  *int   `query:"limit"`
			Role   string `query:"role"`
			Search string `query:"search"`
		})

		if err := c.QueryParser(raw); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid query parameters!")
		}

		reqData := &UserListQuery{Page: 1, Limit: 10}

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
		if raw.Role != "" && !allowedRoles[raw.Role] {
			errors["role"] = "Role must be one of STUDENT, INSTRUCTOR, ADMIN!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		reqData.Role = raw.Role
		reqData.Search = strings.TrimSpace(raw.Search)

		c.Locals("validatedUserList", reqData)
		return c.Next()
	}
}

// UserID parses the :userId route parameter.
func UserID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("userId")
		if err != nil || id <= 0 {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid userId!")
		}
		c.Locals("targetUserID", uint(id))
		return c.Next()
	}
}
