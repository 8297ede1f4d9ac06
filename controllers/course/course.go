package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseValidator "lms/validators/course"
	"log"

	"github.com/gofiber/fiber/v2"
)

// CreateCourse creates a new course under an organization
func CreateCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, middleware.CodeUnauthorized, "Unauthorized!")
	}

	reqData, ok := c.Locals("validatedCourse").(*courseValidator.CreateCourseRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request data!")
	}

	db := database.Database.Db

	var org models.Organization
	if err := db.Where("id = ? AND is_deleted = ?", reqData.OrganizationID, false).First(&org).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Organization not found!")
	}

	course := models.Course{
		Title:          reqData.Title,
		Description:    reqData.Description,
		OrganizationID: org.ID,
		CreatedBy:      userID,
		EnrollmentOpen: true,
	}

	if err := db.Create(&course).Error; err != nil {
		log.Printf("Error creating course: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to create course!")
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, "Course created successfully!", course)
}

// GetCourses lists courses with pagination
func GetCourses(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedList").(*courseValidator.ListQuery)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid query parameters!")
	}

	db := database.Database.Db

	query := db.Model(&models.Course{}).Where("is_deleted = ?", false)

	var total int64
	query.Count(&total)

	offset := (reqData.Page - 1) * reqData.Limit

	var courses []models.Course
	if err := query.Offset(offset).Limit(reqData.Limit).Order("created_at desc").Find(&courses).Error; err != nil {
		log.Printf("Error fetching courses: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to fetch courses!")
	}

	response := fiber.Map{
		"courses": courses,
		"pagination": fiber.Map{
			"total": total,
			"page":  reqData.Page,
			"limit": reqData.Limit,
		},
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Courses fetched successfully!", response)
}

// GetCourseDetails returns one course
func GetCourseDetails(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	var course models.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Course not found!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Course fetched successfully!", course)
}

// UpdateCourse updates an existing course
func UpdateCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	reqData, ok := c.Locals("validatedCourseUpdate").(*courseValidator.UpdateCourseRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request data!")
	}

	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Course not found!")
	}

	// Update only provided fields
	if reqData.Title != "" {
		course.Title = reqData.Title
	}
	if reqData.Description != "" {
		course.Description = reqData.Description
	}

	if err := db.Save(&course).Error; err != nil {
		log.Printf("Error updating course: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to update course!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Course updated successfully!", course)
}

// ToggleEnrollmentOpen flips the enrollment gate independently of enrollment operations
func ToggleEnrollmentOpen(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	reqData, ok := c.Locals("validatedEnrollmentOpen").(*courseValidator.EnrollmentOpenRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request data!")
	}

	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Course not found!")
	}

	course.EnrollmentOpen = *reqData.EnrollmentOpen
	if err := db.Save(&course).Error; err != nil {
		log.Printf("Error toggling enrollment: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to update course!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Course updated successfully!", course)
}

// DeleteCourse soft deletes a course
func DeleteCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Course not found!")
	}

	course.IsDeleted = true
	if err := db.Save(&course).Error; err != nil {
		log.Printf("Error deleting course: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to delete course!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Course deleted successfully!", nil)
}
