package courseValidator

import (
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

type SingleMember struct {
	EnrollmentID uint
	IsLeader     bool
}

type BulkMembers struct {
	EnrollmentIDs []uint
}

// AddMembersRequest mirrors EnrollRequest: exactly one arm is set.
type AddMembersRequest struct {
	Single *SingleMember
	Bulk   *BulkMembers
}

func AddMembers() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := new(struct {
			EnrollmentID  *uint  `json:"enrollmentId"`
			EnrollmentIDs []uint `json:"enrollmentIds"`
			IsLeader      *bool  `json:"isLeader"`
		})

		if err := c.BodyParser(raw); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		errors := make(map[string]string)

		if raw.EnrollmentID == nil && raw.EnrollmentIDs == nil {
			errors["enrollmentId"] = "Either enrollmentId or enrollmentIds is required!"
		}
		if raw.EnrollmentID != nil && raw.EnrollmentIDs != nil {
			errors["enrollmentIds"] = "Provide either enrollmentId or enrollmentIds, not both!"
		}
		if raw.EnrollmentID != nil && *raw.EnrollmentID == 0 {
			errors["enrollmentId"] = "Invalid enrollmentId!"
		}
		if raw.EnrollmentIDs != nil && len(raw.EnrollmentIDs) == 0 {
			errors["enrollmentIds"] = "enrollmentIds must not be empty!"
		}
		if hasZeroID(raw.EnrollmentIDs) {
			errors["enrollmentIds"] = "enrollmentIds must not contain invalid ids!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		reqData := new(AddMembersRequest)
		if raw.EnrollmentID != nil {
			reqData.Single = &SingleMember{EnrollmentID: *raw.EnrollmentID}
			if raw.IsLeader != nil {
				reqData.Single.IsLeader = *raw.IsLeader
			}
		} else {
			reqData.Bulk = &BulkMembers{EnrollmentIDs: dedupeIDs(raw.EnrollmentIDs)}
		}

		c.Locals("validatedMembers", reqData)
		return c.Next()
	}
}

type UpdateMemberRequest struct {
	IsLeader *bool `json:"isLeader"`
}

func UpdateMember() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateMemberRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		if reqData.IsLeader == nil {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"isLeader": "isLeader is required!",
			})
		}

		c.Locals("validatedMemberUpdate", reqData)
		return c.Next()
	}
}
