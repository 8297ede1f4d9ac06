package courseValidator

import (
	"bytes"
	"encoding/json"
	"lms/middleware"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

type SingleEnroll struct {
	StudentID uint
	CohortID  *uint
	GroupID   *uint
}

type BulkEnroll struct {
	StudentIDs []uint
	CohortID   *uint
	GroupID    *uint
}

// EnrollRequest is the validated enroll body. Exactly one arm is set; the two
// variants are decided here once instead of shape-sniffing in the handler.
type EnrollRequest struct {
	Single *SingleEnroll
	Bulk   *BulkEnroll
}

func Enroll() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := new(struct {
			StudentID  *uint  `json:"studentId"`
			StudentIDs []uint `json:"studentIds"`
			CohortID   *uint  `json:"cohortId"`
			GroupID    *uint  `json:"groupId"`
		})

		if err := c.BodyParser(raw); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		errors := make(map[string]string)

		if raw.StudentID == nil && raw.StudentIDs == nil {
			errors["studentId"] = "Either studentId or studentIds is required!"
		}
		if raw.StudentID != nil && raw.StudentIDs != nil {
			errors["studentIds"] = "Provide either studentId or studentIds, not both!"
		}
		if raw.StudentID != nil && *raw.StudentID == 0 {
			errors["studentId"] = "Invalid studentId!"
		}
		if raw.StudentIDs != nil && len(raw.StudentIDs) == 0 {
			errors["studentIds"] = "studentIds must not be empty!"
		}
		if hasZeroID(raw.StudentIDs) {
			errors["studentIds"] = "studentIds must not contain invalid ids!"
		}
		if raw.CohortID != nil && *raw.CohortID == 0 {
			errors["cohortId"] = "Invalid cohortId!"
		}
		if raw.GroupID != nil && *raw.GroupID == 0 {
			errors["groupId"] = "Invalid groupId!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		reqData := new(EnrollRequest)
		if raw.StudentID != nil {
			reqData.Single = &SingleEnroll{
				StudentID: *raw.StudentID,
				CohortID:  raw.CohortID,
				GroupID:   raw.GroupID,
			}
		} else {
			reqData.Bulk = &BulkEnroll{
				StudentIDs: dedupeIDs(raw.StudentIDs),
				CohortID:   raw.CohortID,
				GroupID:    raw.GroupID,
			}
		}

		c.Locals("validatedEnroll", reqData)
		return c.Next()
	}
}

// dedupeIDs drops repeated ids while preserving request order. Invalid ids
// are rejected at validation time, never filtered here; a batch with a bad id
// fails whole rather than admitting the valid part.
func dedupeIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func hasZeroID(ids []uint) bool {
	for _, id := range ids {
		if id == 0 {
			return true
		}
	}
	return false
}

type UpdateEnrollmentRequest struct {
	CohortID *uint `json:"cohortId"`
	Progress *int  `json:"progress"`
}

func UpdateEnrollment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateEnrollmentRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		errors := make(map[string]string)

		if reqData.CohortID == nil && reqData.Progress == nil {
			errors["progress"] = "Nothing to update!"
		}
		if reqData.Progress != nil && (*reqData.Progress < 0 || *reqData.Progress > 100) {
			errors["progress"] = "Progress must be between 0 and 100!"
		}
		if reqData.CohortID != nil && *reqData.CohortID == 0 {
			errors["cohortId"] = "Invalid cohortId!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedEnrollmentUpdate", reqData)
		return c.Next()
	}
}

// ReassignCohortRequest carries the new cohort; nil means clear the cohort.
type ReassignCohortRequest struct {
	CohortID *uint
}

func ReassignCohort() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := new(struct {
			CohortID json.RawMessage `json:"cohortId"`
		})

		if err := c.BodyParser(raw); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		// The key must be present; null clears the cohort, an id assigns it.
		if raw.CohortID == nil {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"cohortId": "cohortId is required (use null to clear)!",
			})
		}

		reqData := new(ReassignCohortRequest)
		if !bytes.Equal(raw.CohortID, []byte("null")) {
			var id uint
			if err := json.Unmarshal(raw.CohortID, &id); err != nil || id == 0 {
				return middleware.ValidationErrorResponse(c, map[string]string{
					"cohortId": "Invalid cohortId!",
				})
			}
			reqData.CohortID = &id
		}

		c.Locals("validatedReassign", reqData)
		return c.Next()
	}
}

type EnrollmentListQuery struct {
	Page      int
	Limit     int
	Search    string
	CohortID  *uint
	GroupID   *uint
	Status    string
	StartDate *time.Time
	EndDate   *time.Time
}

func EnrollmentList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := new(struct {
			Page      *int   `query:"page"`
			Limit     *int   `query:"limit"`
			Search    string `query:"search"`
			CohortID  *uint  `query:"cohortId"`
			GroupID   *uint  `query:"groupId"`
			Status    string `query:"status"`
			StartDate string `query:"startDate"`
			EndDate   string `query:"endDate"`
		})

		if err := c.QueryParser(raw); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid query parameters!")
		}

		reqData := &EnrollmentListQuery{Page: 1, Limit: 10}

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

		reqData.Search = strings.TrimSpace(raw.Search)
		reqData.CohortID = raw.CohortID
		reqData.GroupID = raw.GroupID

		switch raw.Status {
		case "", "completed", "in_progress", "not_started":
			reqData.Status = raw.Status
		default:
			errors["status"] = "Status must be one of completed, in_progress, not_started!"
		}

		if raw.StartDate != "" {
			t, err := time.Parse("2006-01-02", raw.StartDate)
			if err != nil {
				errors["startDate"] = "startDate must be YYYY-MM-DD!"
			} else {
				reqData.StartDate = &t
			}
		}
		if raw.EndDate != "" {
			t, err := time.Parse("2006-01-02", raw.EndDate)
			if err != nil {
				errors["endDate"] = "endDate must be YYYY-MM-DD!"
			} else {
				// Inclusive end of day
				t = t.Add(24*time.Hour - time.Nanosecond)
				reqData.EndDate = &t
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedEnrollmentList", reqData)
		return c.Next()
	}
}
