package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// Machine-readable error codes consumed by the UI.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL_ERROR"
)

// JsonResponse writes the success envelope expected by the UI.
func JsonResponse(c *fiber.Ctx, statusCode int, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"success": true,
		"data":    data,
		"message": message,
	})
}

// ErrorResponse writes the failure envelope with a machine-readable code.
func ErrorResponse(c *fiber.Ctx, statusCode int, code, message string) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"success": false,
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ErrorResponseWithDetails is ErrorResponse plus a details payload (e.g. invalid ids).
func ErrorResponseWithDetails(c *fiber.Ctx, statusCode int, code, message string, details interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"success": false,
		"error": fiber.Map{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// ValidationErrorResponse reports per-field validation failures.
func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return ErrorResponseWithDetails(c, fiber.StatusBadRequest, CodeValidation, "Validation failed!", errors)
}
