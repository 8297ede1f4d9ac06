package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	courseValidator "lms/validators/course"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// EnrollStudents handles POST /courses/:courseId/enrollments for both the
// single and the bulk variant. The validator has already decided which arm of
// the request applies.
func EnrollStudents(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	reqData, ok := c.Locals("validatedEnroll").(*courseValidator.EnrollRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request data!")
	}

	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Course not found!")
	}

	if !course.EnrollmentOpen {
		return middleware.ErrorResponse(c, fiber.StatusForbidden, middleware.CodeForbidden, "Enrollment is closed for this course!")
	}

	if reqData.Single != nil {
		return enrollSingle(c, db, &course, reqData.Single)
	}
	return enrollBulk(c, db, &course, reqData.Bulk)
}

func enrollSingle(c *fiber.Ctx, db *gorm.DB, course *models.Course, req *courseValidator.SingleEnroll) error {
	var student models.User
	if err := db.Where("id = ? AND is_deleted = ?", req.StudentID, false).First(&student).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Student not found!")
	}

	if student.Role != "STUDENT" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "User is not a student!")
	}

	// Uniqueness probe: one enrollment per (student, course)
	var existing models.Enrollment
	if err := db.Where("student_id = ? AND course_id = ?", student.ID, course.ID).First(&existing).Error; err == nil {
		return middleware.ErrorResponse(c, fiber.StatusConflict, middleware.CodeConflict, "Student is already enrolled in this course!")
	}

	// Enrollment plus optional group membership is one atomic unit; capacity
	// checks run inside the same transaction against locked parent rows.
	tx := db.Begin()

	if req.CohortID != nil {
		if _, aerr := lockCohortWithHeadroom(tx, course.ID, *req.CohortID, 1); aerr != nil {
			tx.Rollback()
			return respondAdmission(c, aerr)
		}
	}

	if req.GroupID != nil {
		if _, aerr := lockGroupWithHeadroom(tx, course.ID, *req.GroupID, 1); aerr != nil {
			tx.Rollback()
			return respondAdmission(c, aerr)
		}
	}

	enrollment := models.Enrollment{
		StudentID:  student.ID,
		CourseID:   course.ID,
		CohortID:   req.CohortID,
		EnrolledAt: time.Now(),
	}

	if err := tx.Create(&enrollment).Error; err != nil {
		tx.Rollback()
		log.Printf("Error creating enrollment: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to enroll student!")
	}

	if req.GroupID != nil {
		membership := models.CourseGroupMembership{
			GroupID:      *req.GroupID,
			StudentID:    student.ID,
			EnrollmentID: enrollment.ID,
			JoinedAt:     time.Now(),
		}
		if err := tx.Create(&membership).Error; err != nil {
			tx.Rollback()
			log.Printf("Error creating group membership: %v", err)
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to enroll student!")
		}
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("Error committing enrollment: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to enroll student!")
	}

	go utils.SendEnrollmentEmail(student.Email, student.Name, course.Title)

	enrollment.Student = student
	return middleware.JsonResponse(c, fiber.StatusCreated, "Student enrolled successfully!", enrollment)
}

func enrollBulk(c *fiber.Ctx, db *gorm.DB, course *models.Course, req *courseValidator.BulkEnroll) error {
	var students []models.User
	if err := db.Where("id IN ? AND is_deleted = ?", req.StudentIDs, false).Find(&students).Error; err != nil {
		log.Printf("Error loading students: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Something went wrong!")
	}

	roleByID := make(map[uint]string, len(students))
	for _, s := range students {
		roleByID[s.ID] = s.Role
	}

	// Fail-fast on bad input: any missing or non-student id rejects the batch.
	invalidIDs := make([]uint, 0)
	for _, id := range req.StudentIDs {
		if role, found := roleByID[id]; !found || role != "STUDENT" {
			invalidIDs = append(invalidIDs, id)
		}
	}
	if len(invalidIDs) > 0 {
		return middleware.ErrorResponseWithDetails(c, fiber.StatusBadRequest, middleware.CodeValidation,
			"Some ids do not reference students!", fiber.Map{"invalidIds": invalidIDs})
	}

	var enrolledIDs []uint
	if err := db.Model(&models.Enrollment{}).
		Where("course_id = ? AND student_id IN ?", course.ID, req.StudentIDs).
		Pluck("student_id", &enrolledIDs).Error; err != nil {
		log.Printf("Error loading existing enrollments: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Something went wrong!")
	}

	enrolledSet := make(map[uint]bool, len(enrolledIDs))
	for _, id := range enrolledIDs {
		enrolledSet[id] = true
	}

	toEnroll := make([]uint, 0, len(req.StudentIDs))
	skippedIDs := make([]uint, 0)
	for _, id := range req.StudentIDs {
		if enrolledSet[id] {
			skippedIDs = append(skippedIDs, id)
		} else {
			toEnroll = append(toEnroll, id)
		}
	}

	if len(toEnroll) == 0 {
		return middleware.ErrorResponse(c, fiber.StatusConflict, middleware.CodeConflict, "All students are already enrolled in this course!")
	}

	// No partial batch: the combined headroom check rejects the whole request
	// if it cannot fit. A batch that lands exactly on the limit is allowed.
	tx := db.Begin()

	if req.CohortID != nil {
		if _, aerr := lockCohortWithHeadroom(tx, course.ID, *req.CohortID, len(toEnroll)); aerr != nil {
			tx.Rollback()
			return respondAdmission(c, aerr)
		}
	}

	if req.GroupID != nil {
		if _, aerr := lockGroupWithHeadroom(tx, course.ID, *req.GroupID, len(toEnroll)); aerr != nil {
			tx.Rollback()
			return respondAdmission(c, aerr)
		}
	}

	now := time.Now()
	enrollments := make([]models.Enrollment, 0, len(toEnroll))
	for _, id := range toEnroll {
		enrollments = append(enrollments, models.Enrollment{
			StudentID:  id,
			CourseID:   course.ID,
			CohortID:   req.CohortID,
			EnrolledAt: now,
		})
	}

	if err := tx.Create(&enrollments).Error; err != nil {
		tx.Rollback()
		log.Printf("Error creating enrollments: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to enroll students!")
	}

	if req.GroupID != nil {
		memberships := make([]models.CourseGroupMembership, 0, len(enrollments))
		for _, e := range enrollments {
			memberships = append(memberships, models.CourseGroupMembership{
				GroupID:      *req.GroupID,
				StudentID:    e.StudentID,
				EnrollmentID: e.ID,
				JoinedAt:     now,
			})
		}
		if err := tx.Create(&memberships).Error; err != nil {
			tx.Rollback()
			log.Printf("Error creating group memberships: %v", err)
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to enroll students!")
		}
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("Error committing bulk enrollment: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to enroll students!")
	}

	response := fiber.Map{
		"enrolled":   len(toEnroll),
		"skipped":    len(skippedIDs),
		"skippedIds": skippedIDs,
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, "Students enrolled successfully!", response)
}

// UpdateEnrollment handles PUT /courses/:courseId/enrollments/:enrollmentId
func UpdateEnrollment(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	enrollmentID := c.Locals("enrollmentID").(uint)

	reqData, ok := c.Locals("validatedEnrollmentUpdate").(*courseValidator.UpdateEnrollmentRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request data!")
	}

	db := database.Database.Db

	var enrollment models.Enrollment
	if err := db.Where("id = ? AND course_id = ?", enrollmentID, courseID).First(&enrollment).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Enrollment not found!")
	}

	tx := db.Begin()

	if reqData.CohortID != nil && (enrollment.CohortID == nil || *enrollment.CohortID != *reqData.CohortID) {
		// Only the new cohort is checked; the old slot frees implicitly.
		if _, aerr := lockCohortWithHeadroom(tx, courseID, *reqData.CohortID, 1); aerr != nil {
			tx.Rollback()
			return respondAdmission(c, aerr)
		}
		enrollment.CohortID = reqData.CohortID
	}

	if reqData.Progress != nil {
		enrollment.Progress = *reqData.Progress
		if *reqData.Progress == 100 {
			if enrollment.CompletedAt == nil {
				now := time.Now()
				enrollment.CompletedAt = &now
			}
		} else {
			enrollment.CompletedAt = nil
		}
	}

	if err := tx.Save(&enrollment).Error; err != nil {
		tx.Rollback()
		log.Printf("Error updating enrollment: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to update enrollment!")
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("Error committing enrollment update: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to update enrollment!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Enrollment updated successfully!", enrollment)
}

// ReassignCohort handles PATCH /courses/:courseId/enrollments/:enrollmentId
func ReassignCohort(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	enrollmentID := c.Locals("enrollmentID").(uint)

	reqData, ok := c.Locals("validatedReassign").(*courseValidator.ReassignCohortRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request data!")
	}

	db := database.Database.Db

	var enrollment models.Enrollment
	if err := db.Where("id = ? AND course_id = ?", enrollmentID, courseID).First(&enrollment).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Enrollment not found!")
	}

	if reqData.CohortID == nil {
		if err := db.Model(&enrollment).Update("cohort_id", nil).Error; err != nil {
			log.Printf("Error clearing cohort: %v", err)
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to reassign cohort!")
		}
		enrollment.CohortID = nil
		return middleware.JsonResponse(c, fiber.StatusOK, "Cohort cleared successfully!", enrollment)
	}

	if enrollment.CohortID != nil && *enrollment.CohortID == *reqData.CohortID {
		return middleware.JsonResponse(c, fiber.StatusOK, "Cohort unchanged.", enrollment)
	}

	tx := db.Begin()

	if _, aerr := lockCohortWithHeadroom(tx, courseID, *reqData.CohortID, 1); aerr != nil {
		tx.Rollback()
		return respondAdmission(c, aerr)
	}

	enrollment.CohortID = reqData.CohortID
	if err := tx.Save(&enrollment).Error; err != nil {
		tx.Rollback()
		log.Printf("Error reassigning cohort: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to reassign cohort!")
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("Error committing cohort reassignment: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to reassign cohort!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Cohort reassigned successfully!", enrollment)
}

// Unenroll handles DELETE /courses/:courseId/enrollments/:enrollmentId?force=true
func Unenroll(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	enrollmentID := c.Locals("enrollmentID").(uint)
	force := c.Query("force") == "true"

	db := database.Database.Db

	var enrollment models.Enrollment
	if err := db.Where("id = ? AND course_id = ?", enrollmentID, courseID).First(&enrollment).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Enrollment not found!")
	}

	if !force {
		var recordCount int64
		if err := db.Model(&models.ProgressRecord{}).Where("enrollment_id = ?", enrollment.ID).Count(&recordCount).Error; err != nil {
			log.Printf("Error counting progress records: %v", err)
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Something went wrong!")
		}
		if enrollment.Progress > 0 || recordCount > 0 {
			return middleware.ErrorResponse(c, fiber.StatusConflict, middleware.CodeConflict,
				"Student has recorded progress in this course. Add ?force=true to unenroll anyway.")
		}
	}

	// Ordered multi-table delete; no reliance on DB-level cascade.
	tx := db.Begin()

	if err := tx.Unscoped().Where("enrollment_id = ?", enrollment.ID).Delete(&models.CourseGroupMembership{}).Error; err != nil {
		tx.Rollback()
		log.Printf("Error deleting memberships: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to unenroll student!")
	}

	if err := tx.Unscoped().Where("enrollment_id = ?", enrollment.ID).Delete(&models.ProgressRecord{}).Error; err != nil {
		tx.Rollback()
		log.Printf("Error deleting progress records: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to unenroll student!")
	}

	if err := tx.Unscoped().Delete(&enrollment).Error; err != nil {
		tx.Rollback()
		log.Printf("Error deleting enrollment: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to unenroll student!")
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("Error committing unenroll: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to unenroll student!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Student unenrolled successfully!", nil)
}

// ListEnrollments handles GET /courses/:courseId/enrollments
func ListEnrollments(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	reqData, ok := c.Locals("validatedEnrollmentList").(*courseValidator.EnrollmentListQuery)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid query parameters!")
	}

	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Course not found!")
	}

	query := db.Model(&models.Enrollment{}).Where("enrollments.course_id = ?", courseID)

	if reqData.Search != "" {
		like := "%" + reqData.Search + "%"
		query = query.Joins("JOIN users ON users.id = enrollments.student_id").
			Where("users.name LIKE ? OR users.email LIKE ?", like, like)
	}
	if reqData.CohortID != nil {
		query = query.Where("enrollments.cohort_id = ?", *reqData.CohortID)
	}
	if reqData.GroupID != nil {
		query = query.Where("enrollments.id IN (?)",
			db.Model(&models.CourseGroupMembership{}).Select("enrollment_id").Where("group_id = ?", *reqData.GroupID))
	}
	switch reqData.Status {
	case "completed":
		query = query.Where("enrollments.progress = 100")
	case "in_progress":
		query = query.Where("enrollments.progress > 0 AND enrollments.progress < 100")
	case "not_started":
		query = query.Where("enrollments.progress = 0")
	}
	if reqData.StartDate != nil {
		query = query.Where("enrollments.enrolled_at >= ?", *reqData.StartDate)
	}
	if reqData.EndDate != nil {
		query = query.Where("enrollments.enrolled_at <= ?", *reqData.EndDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Printf("Error counting enrollments: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to fetch enrollments!")
	}

	offset := (reqData.Page - 1) * reqData.Limit

	var enrollments []models.Enrollment
	if err := query.Preload("Student").Order("enrollments.enrolled_at desc").
		Offset(offset).Limit(reqData.Limit).Find(&enrollments).Error; err != nil {
		log.Printf("Error fetching enrollments: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to fetch enrollments!")
	}

	response := fiber.Map{
		"enrollments": enrollments,
		"pagination": fiber.Map{
			"total": total,
			"page":  reqData.Page,
			"limit": reqData.Limit,
		},
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Enrollments fetched successfully!", response)
}
