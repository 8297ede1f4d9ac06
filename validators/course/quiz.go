package courseValidator

import (
	"encoding/json"
	"lms/middleware"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type QuizRequest struct {
	Title       string          `json:"title"`
	Questions   json.RawMessage `json:"questions"`
	IsPublished *bool           `json:"isPublished"`
}

func CreateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(QuizRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}
		if len(reqData.Questions) > 0 && !json.Valid(reqData.Questions) {
			errors["questions"] = "Questions must be valid JSON!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuiz", reqData)
		return c.Next()
	}
}

func UpdateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(QuizRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		if len(reqData.Questions) > 0 && !json.Valid(reqData.Questions) {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"questions": "Questions must be valid JSON!",
			})
		}

		c.Locals("validatedQuizUpdate", reqData)
		return c.Next()
	}
}
