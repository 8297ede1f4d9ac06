package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseValidator "lms/validators/course"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// CreateQuiz creates a quiz under a course
func CreateQuiz(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	reqData, ok := c.Locals("validatedQuiz").(*courseValidator.QuizRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request data!")
	}

	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Course not found!")
	}

	quiz := models.Quiz{
		CourseID:  course.ID,
		Title:     reqData.Title,
		Questions: datatypes.JSON(reqData.Questions),
	}
	if reqData.IsPublished != nil {
		quiz.IsPublished = *reqData.IsPublished
	}

	if err := db.Create(&quiz).Error; err != nil {
		log.Printf("Error creating quiz: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to create quiz!")
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, "Quiz created successfully!", quiz)
}

// ListQuizzes lists a course's quizzes
func ListQuizzes(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Course not found!")
	}

	var quizzes []models.Quiz
	if err := db.Where("course_id = ?", course.ID).Order("created_at desc").Find(&quizzes).Error; err != nil {
		log.Printf("Error fetching quizzes: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to fetch quizzes!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Quizzes fetched successfully!", quizzes)
}

// GetQuiz returns one quiz
func GetQuiz(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	quizID := c.Locals("quizID").(uint)

	var quiz models.Quiz
	if err := database.Database.Db.Where("id = ? AND course_id = ?", quizID, courseID).First(&quiz).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Quiz not found!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Quiz fetched successfully!", quiz)
}

// UpdateQuiz updates a quiz's title, questions, or published flag
func UpdateQuiz(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	quizID := c.Locals("quizID").(uint)

	reqData, ok := c.Locals("validatedQuizUpdate").(*courseValidator.QuizRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request data!")
	}

	db := database.Database.Db

	var quiz models.Quiz
	if err := db.Where("id = ? AND course_id = ?", quizID, courseID).First(&quiz).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Quiz not found!")
	}

	if reqData.Title != "" {
		quiz.Title = reqData.Title
	}
	if len(reqData.Questions) > 0 {
		quiz.Questions = datatypes.JSON(reqData.Questions)
	}
	if reqData.IsPublished != nil {
		quiz.IsPublished = *reqData.IsPublished
	}

	if err := db.Save(&quiz).Error; err != nil {
		log.Printf("Error updating quiz: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to update quiz!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Quiz updated successfully!", quiz)
}

// DeleteQuiz removes a quiz
func DeleteQuiz(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	quizID := c.Locals("quizID").(uint)

	db := database.Database.Db

	var quiz models.Quiz
	if err := db.Where("id = ? AND course_id = ?", quizID, courseID).First(&quiz).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Quiz not found!")
	}

	if err := db.Unscoped().Delete(&quiz).Error; err != nil {
		log.Printf("Error deleting quiz: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to delete quiz!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Quiz deleted successfully!", nil)
}
