package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseValidator "lms/validators/course"
	"log"

	"github.com/gofiber/fiber/v2"
)

// CreateCohort creates a cohort under a course
func CreateCohort(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	reqData, ok := c.Locals("validatedCohort").(*courseValidator.CohortRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request data!")
	}

	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Course not found!")
	}

	cohort := models.Cohort{
		CourseID:        course.ID,
		Name:            reqData.Name,
		EnrollmentLimit: reqData.EnrollmentLimit,
	}

	if err := db.Create(&cohort).Error; err != nil {
		log.Printf("Error creating cohort: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to create cohort!")
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, "Cohort created successfully!", cohort)
}

// ListCohorts lists a course's cohorts with their current enrollment counts
func ListCohorts(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Course not found!")
	}

	var cohorts []models.Cohort
	if err := db.Where("course_id = ?", course.ID).Order("created_at asc").Find(&cohorts).Error; err != nil {
		log.Printf("Error fetching cohorts: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to fetch cohorts!")
	}

	// Capacity is derived from row counts at read time, never cached.
	out := make([]fiber.Map, 0, len(cohorts))
	for _, cohort := range cohorts {
		var count int64
		if err := db.Model(&models.Enrollment{}).Where("cohort_id = ?", cohort.ID).Count(&count).Error; err != nil {
			log.Printf("Error counting cohort enrollments: %v", err)
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to fetch cohorts!")
		}
		out = append(out, fiber.Map{
			"cohort":          cohort,
			"enrollmentCount": count,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Cohorts fetched successfully!", out)
}

// UpdateCohort updates a cohort's name or limit
func UpdateCohort(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	cohortID := c.Locals("cohortID").(uint)

	reqData, ok := c.Locals("validatedCohortUpdate").(*courseValidator.CohortRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request data!")
	}

	db := database.Database.Db

	var cohort models.Cohort
	if err := db.Where("id = ? AND course_id = ?", cohortID, courseID).First(&cohort).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Cohort not found!")
	}

	if reqData.Name != "" {
		cohort.Name = reqData.Name
	}
	if reqData.EnrollmentLimit != nil {
		// Shrinking below the current count is allowed; it only blocks new
		// admissions, existing enrollments stay.
		cohort.EnrollmentLimit = reqData.EnrollmentLimit
	}

	if err := db.Save(&cohort).Error; err != nil {
		log.Printf("Error updating cohort: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to update cohort!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Cohort updated successfully!", cohort)
}

// DeleteCohort removes an empty cohort
func DeleteCohort(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	cohortID := c.Locals("cohortID").(uint)

	db := database.Database.Db

	var cohort models.Cohort
	if err := db.Where("id = ? AND course_id = ?", cohortID, courseID).First(&cohort).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Cohort not found!")
	}

	var count int64
	if err := db.Model(&models.Enrollment{}).Where("cohort_id = ?", cohort.ID).Count(&count).Error; err != nil {
		log.Printf("Error counting cohort enrollments: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Something went wrong!")
	}
	if count > 0 {
		return middleware.ErrorResponse(c, fiber.StatusConflict, middleware.CodeConflict,
			"Cohort still has enrollments. Reassign them before deleting.")
	}

	if err := db.Unscoped().Delete(&cohort).Error; err != nil {
		log.Printf("Error deleting cohort: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to delete cohort!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Cohort deleted successfully!", nil)
}
