package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseValidator "lms/validators/course"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AddGroupMembers handles POST /courses/:courseId/groups/:groupId/members for
// both the single and the bulk variant.
func AddGroupMembers(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	groupID := c.Locals("groupID").(uint)

	reqData, ok := c.Locals("validatedMembers").(*courseValidator.AddMembersRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request data!")
	}

	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Course not found!")
	}

	// Archived groups are filtered out of the existence query.
	var group models.CourseGroup
	if err := db.Where("id = ? AND course_id = ? AND is_archived = ?", groupID, courseID, false).First(&group).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Group not found!")
	}

	if reqData.Single != nil {
		return addSingleMember(c, db, &group, reqData.Single)
	}
	return addBulkMembers(c, db, &group, reqData.Bulk)
}

func addSingleMember(c *fiber.Ctx, db *gorm.DB, group *models.CourseGroup, req *courseValidator.SingleMember) error {
	var enrollment models.Enrollment
	if err := db.Where("id = ? AND course_id = ?", req.EnrollmentID, group.CourseID).First(&enrollment).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Enrollment not found!")
	}

	var existing models.CourseGroupMembership
	if err := db.Where("group_id = ? AND student_id = ?", group.ID, enrollment.StudentID).First(&existing).Error; err == nil {
		return middleware.ErrorResponse(c, fiber.StatusConflict, middleware.CodeConflict, "Student is already a member of this group!")
	}

	tx := db.Begin()

	if _, aerr := lockGroupWithHeadroom(tx, group.CourseID, group.ID, 1); aerr != nil {
		tx.Rollback()
		return respondAdmission(c, aerr)
	}

	membership := models.CourseGroupMembership{
		GroupID:      group.ID,
		StudentID:    enrollment.StudentID,
		EnrollmentID: enrollment.ID,
		IsLeader:     req.IsLeader,
		JoinedAt:     time.Now(),
	}

	if err := tx.Create(&membership).Error; err != nil {
		tx.Rollback()
		log.Printf("Error creating membership: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to add member!")
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("Error committing membership: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to add member!")
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, "Member added to group successfully!", membership)
}

func addBulkMembers(c *fiber.Ctx, db *gorm.DB, group *models.CourseGroup, req *courseValidator.BulkMembers) error {
	var enrollments []models.Enrollment
	if err := db.Where("id IN ? AND course_id = ?", req.EnrollmentIDs, group.CourseID).Find(&enrollments).Error; err != nil {
		log.Printf("Error loading enrollments: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Something went wrong!")
	}

	byID := make(map[uint]models.Enrollment, len(enrollments))
	for _, e := range enrollments {
		byID[e.ID] = e
	}

	invalidIDs := make([]uint, 0)
	for _, id := range req.EnrollmentIDs {
		if _, found := byID[id]; !found {
			invalidIDs = append(invalidIDs, id)
		}
	}
	if len(invalidIDs) > 0 {
		return middleware.ErrorResponseWithDetails(c, fiber.StatusBadRequest, middleware.CodeValidation,
			"Some ids do not reference enrollments in this course!", fiber.Map{"invalidIds": invalidIDs})
	}

	var memberStudentIDs []uint
	if err := db.Model(&models.CourseGroupMembership{}).
		Where("group_id = ?", group.ID).
		Pluck("student_id", &memberStudentIDs).Error; err != nil {
		log.Printf("Error loading existing members: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Something went wrong!")
	}

	memberSet := make(map[uint]bool, len(memberStudentIDs))
	for _, id := range memberStudentIDs {
		memberSet[id] = true
	}

	toAdd := make([]models.Enrollment, 0, len(req.EnrollmentIDs))
	skippedIDs := make([]uint, 0)
	for _, id := range req.EnrollmentIDs {
		e := byID[id]
		if memberSet[e.StudentID] {
			skippedIDs = append(skippedIDs, id)
		} else {
			toAdd = append(toAdd, e)
		}
	}

	if len(toAdd) == 0 {
		return middleware.ErrorResponse(c, fiber.StatusConflict, middleware.CodeConflict, "All students are already members of this group!")
	}

	// Same headroom policy as bulk enrollment: one combined check, whole batch
	// rejected on overflow.
	tx := db.Begin()

	if _, aerr := lockGroupWithHeadroom(tx, group.CourseID, group.ID, len(toAdd)); aerr != nil {
		tx.Rollback()
		return respondAdmission(c, aerr)
	}

	now := time.Now()
	memberships := make([]models.CourseGroupMembership, 0, len(toAdd))
	for _, e := range toAdd {
		memberships = append(memberships, models.CourseGroupMembership{
			GroupID:      group.ID,
			StudentID:    e.StudentID,
			EnrollmentID: e.ID,
			JoinedAt:     now,
		})
	}

	if err := tx.Create(&memberships).Error; err != nil {
		tx.Rollback()
		log.Printf("Error creating memberships: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to add members!")
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("Error committing memberships: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to add members!")
	}

	response := fiber.Map{
		"added":      len(toAdd),
		"skipped":    len(skippedIDs),
		"skippedIds": skippedIDs,
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, "Members added to group successfully!", response)
}

// UpdateGroupMember handles PATCH .../groups/:groupId/members/:membershipId (leader toggle)
func UpdateGroupMember(c *fiber.Ctx) error {
	groupID := c.Locals("groupID").(uint)
	membershipID := c.Locals("membershipID").(uint)

	reqData, ok := c.Locals("validatedMemberUpdate").(*courseValidator.UpdateMemberRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request data!")
	}

	db := database.Database.Db

	var membership models.CourseGroupMembership
	if err := db.Where("id = ? AND group_id = ?", membershipID, groupID).First(&membership).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Membership not found!")
	}

	membership.IsLeader = *reqData.IsLeader
	if err := db.Save(&membership).Error; err != nil {
		log.Printf("Error updating membership: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to update member!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Member updated successfully!", membership)
}

// RemoveGroupMember handles DELETE .../groups/:groupId/members/:membershipId.
// Removing from a group never unenrolls the student.
func RemoveGroupMember(c *fiber.Ctx) error {
	groupID := c.Locals("groupID").(uint)
	membershipID := c.Locals("membershipID").(uint)

	db := database.Database.Db

	var membership models.CourseGroupMembership
	if err := db.Where("id = ? AND group_id = ?", membershipID, groupID).First(&membership).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Membership not found!")
	}

	if err := db.Unscoped().Delete(&membership).Error; err != nil {
		log.Printf("Error removing membership: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to remove member!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Member removed from group successfully!", nil)
}

// ListGroupMembers handles GET .../groups/:groupId/members
func ListGroupMembers(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	groupID := c.Locals("groupID").(uint)

	db := database.Database.Db

	// Listing still works for archived groups; only admission filters them.
	var group models.CourseGroup
	if err := db.Where("id = ? AND course_id = ?", groupID, courseID).First(&group).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Group not found!")
	}

	var memberships []models.CourseGroupMembership
	if err := db.Where("group_id = ?", group.ID).Preload("Student").Order("joined_at asc").Find(&memberships).Error; err != nil {
		log.Printf("Error fetching members: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to fetch members!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Members fetched successfully!", memberships)
}
