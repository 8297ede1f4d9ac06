package controllers

import (
	"lms/middleware"
	"lms/models"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// admissionError carries the HTTP status and error code of a failed admission check.
type admissionError struct {
	Status  int
	Code    string
	Message string
}

func respondAdmission(c *fiber.Ctx, aerr *admissionError) error {
	return middleware.ErrorResponse(c, aerr.Status, aerr.Code, aerr.Message)
}

func internalAdmission(err error) *admissionError {
	log.Printf("admission check failed: %v", err)
	return &admissionError{fiber.StatusInternalServerError, middleware.CodeInternal, "Something went wrong!"}
}

// lockForUpdate adds a SELECT ... FOR UPDATE clause where the dialect has one.
// SQLite has no row locks but is single-writer, which gives the same
// serialization for the capacity checks below.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// lockCohortWithHeadroom loads the cohort under the course with a row lock and
// verifies it can take `needed` more enrollments. Must run inside the write
// transaction so concurrent admissions serialize on the cohort row instead of
// racing the count. Landing exactly on the limit is allowed; exceeding it by
// one rejects the whole request.
func lockCohortWithHeadroom(tx *gorm.DB, courseID, cohortID uint, needed int) (*models.Cohort, *admissionError) {
	var cohort models.Cohort
	err := lockForUpdate(tx).
		Where("id = ? AND course_id = ?", cohortID, courseID).
		First(&cohort).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &admissionError{fiber.StatusNotFound, middleware.CodeNotFound, "Cohort not found!"}
		}
		return nil, internalAdmission(err)
	}

	if cohort.EnrollmentLimit != nil {
		var count int64
		if err := tx.Model(&models.Enrollment{}).Where("cohort_id = ?", cohort.ID).Count(&count).Error; err != nil {
			return nil, internalAdmission(err)
		}
		if int(count)+needed > *cohort.EnrollmentLimit {
			return nil, &admissionError{fiber.StatusConflict, middleware.CodeConflict, "Cohort enrollment limit reached!"}
		}
	}

	return &cohort, nil
}

// lockGroupWithHeadroom is the group counterpart of lockCohortWithHeadroom.
// Archived groups are filtered out of the existence query, so adding to one
// reports NOT_FOUND. The same headroom policy applies to single and bulk adds.
func lockGroupWithHeadroom(tx *gorm.DB, courseID, groupID uint, needed int) (*models.CourseGroup, *admissionError) {
	var group models.CourseGroup
	err := lockForUpdate(tx).
		Where("id = ? AND course_id = ? AND is_archived = ?", groupID, courseID, false).
		First(&group).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &admissionError{fiber.StatusNotFound, middleware.CodeNotFound, "Group not found!"}
		}
		return nil, internalAdmission(err)
	}

	if group.MaxMembers != nil {
		var count int64
		if err := tx.Model(&models.CourseGroupMembership{}).Where("group_id = ?", group.ID).Count(&count).Error; err != nil {
			return nil, internalAdmission(err)
		}
		if int(count)+needed > *group.MaxMembers {
			return nil, &admissionError{fiber.StatusConflict, middleware.CodeConflict, "Group is full!"}
		}
	}

	return &group, nil
}
