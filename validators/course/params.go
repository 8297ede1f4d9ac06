package courseValidator

import (
	"lms/middleware"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// paramID parses a positive integer route parameter into Locals under key.
func paramID(param, key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := strings.TrimSpace(c.Params(param))
		if raw == "" {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, param+" is required!")
		}

		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid "+param+"!")
		}

		c.Locals(key, uint(id))
		return c.Next()
	}
}

func CourseID() fiber.Handler     { return paramID("courseId", "courseID") }
func CohortID() fiber.Handler     { return paramID("cohortId", "cohortID") }
func GroupID() fiber.Handler      { return paramID("groupId", "groupID") }
func EnrollmentID() fiber.Handler { return paramID("enrollmentId", "enrollmentID") }
func MembershipID() fiber.Handler { return paramID("membershipId", "membershipID") }
func QuizID() fiber.Handler       { return paramID("quizId", "quizID") }
