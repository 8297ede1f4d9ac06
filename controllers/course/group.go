package controllers

import (
	"encoding/json"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseValidator "lms/validators/course"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

func allowedSubCoursesJSON(ids []uint) datatypes.JSON {
	if ids == nil {
		return nil
	}
	raw, _ := json.Marshal(ids)
	return datatypes.JSON(raw)
}

// CreateGroup creates a group under a course
func CreateGroup(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	reqData, ok := c.Locals("validatedGroup").(*courseValidator.GroupRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request data!")
	}

	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Course not found!")
	}

	group := models.CourseGroup{
		CourseID:            course.ID,
		Name:                reqData.Name,
		MaxMembers:          reqData.MaxMembers,
		AllowedSubCourseIDs: allowedSubCoursesJSON(reqData.AllowedSubCourseIDs),
	}

	if err := db.Create(&group).Error; err != nil {
		log.Printf("Error creating group: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to create group!")
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, "Group created successfully!", group)
}

// ListGroups lists a course's groups with member counts
func ListGroups(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Course not found!")
	}

	var groups []models.CourseGroup
	if err := db.Where("course_id = ?", course.ID).Order("created_at asc").Find(&groups).Error; err != nil {
		log.Printf("Error fetching groups: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to fetch groups!")
	}

	out := make([]fiber.Map, 0, len(groups))
	for _, group := range groups {
		var count int64
		if err := db.Model(&models.CourseGroupMembership{}).Where("group_id = ?", group.ID).Count(&count).Error; err != nil {
			log.Printf("Error counting group members: %v", err)
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to fetch groups!")
		}
		out = append(out, fiber.Map{
			"group":       group,
			"memberCount": count,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Groups fetched successfully!", out)
}

// UpdateGroup updates a group's name, capacity, or allowed sub-courses
func UpdateGroup(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	groupID := c.Locals("groupID").(uint)

	reqData, ok := c.Locals("validatedGroupUpdate").(*courseValidator.GroupRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request data!")
	}

	db := database.Database.Db

	var group models.CourseGroup
	if err := db.Where("id = ? AND course_id = ?", groupID, courseID).First(&group).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Group not found!")
	}

	if reqData.Name != "" {
		group.Name = reqData.Name
	}
	if reqData.MaxMembers != nil {
		group.MaxMembers = reqData.MaxMembers
	}
	if reqData.AllowedSubCourseIDs != nil {
		group.AllowedSubCourseIDs = allowedSubCoursesJSON(reqData.AllowedSubCourseIDs)
	}

	if err := db.Save(&group).Error; err != nil {
		log.Printf("Error updating group: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to update group!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Group updated successfully!", group)
}

// ArchiveGroup toggles the archived flag; archived groups reject new members
func ArchiveGroup(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	groupID := c.Locals("groupID").(uint)

	reqData, ok := c.Locals("validatedArchive").(*courseValidator.ArchiveGroupRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request data!")
	}

	db := database.Database.Db

	var group models.CourseGroup
	if err := db.Where("id = ? AND course_id = ?", groupID, courseID).First(&group).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Group not found!")
	}

	group.IsArchived = *reqData.IsArchived
	if err := db.Save(&group).Error; err != nil {
		log.Printf("Error archiving group: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to update group!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Group updated successfully!", group)
}

// DeleteGroup removes an empty group
func DeleteGroup(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	groupID := c.Locals("groupID").(uint)

	db := database.Database.Db

	var group models.CourseGroup
	if err := db.Where("id = ? AND course_id = ?", groupID, courseID).First(&group).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Group not found!")
	}

	var count int64
	if err := db.Model(&models.CourseGroupMembership{}).Where("group_id = ?", group.ID).Count(&count).Error; err != nil {
		log.Printf("Error counting group members: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Something went wrong!")
	}
	if count > 0 {
		return middleware.ErrorResponse(c, fiber.StatusConflict, middleware.CodeConflict,
			"Group still has members. Remove them before deleting.")
	}

	if err := db.Unscoped().Delete(&group).Error; err != nil {
		log.Printf("Error deleting group: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to delete group!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Group deleted successfully!", nil)
}
