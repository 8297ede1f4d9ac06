package userController

import (
	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	userValidator "lms/validators/user"
	"log"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// CreateUser lets an admin provision a platform user (student or instructor)
func CreateUser(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedUser").(*userValidator.CreateUserRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request data!")
	}

	db := database.Database.Db

	if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.ErrorResponse(c, fiber.StatusConflict, middleware.CodeConflict, "Email is already registered!")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to process your request!")
	}

	user := models.User{
		Name:           reqData.Name,
		Email:          reqData.Email,
		Password:       string(hashedPassword),
		Role:           reqData.Role,
		OrganizationID: reqData.OrganizationID,
	}

	if err := db.Create(&user).Error; err != nil {
		log.Printf("Error creating user: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to create user!")
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, "User created successfully!", user)
}

// ListUsers lists platform users, filterable by role and search term
func ListUsers(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedUserList").(*userValidator.UserListQuery)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid query parameters!")
	}

	db := database.Database.Db

	query := db.Model(&models.User{}).Where("is_deleted = ?", false)
	if reqData.Role != "" {
		query = query.Where("role = ?", reqData.Role)
	}
	if reqData.Search != "" {
		like := "%" + reqData.Search + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", like, like)
	}

	var total int64
	query.Count(&total)

	offset := (reqData.Page - 1) * reqData.Limit

	var users []models.User
	if err := query.Offset(offset).Limit(reqData.Limit).Order("created_at desc").Find(&users).Error; err != nil {
		log.Printf("Error fetching users: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to fetch users!")
	}

	response := fiber.Map{
		"users": users,
		"pagination": fiber.Map{
			"total": total,
			"page":  reqData.Page,
			"limit": reqData.Limit,
		},
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Users fetched successfully!", response)
}

// GetUser returns one platform user
func GetUser(c *fiber.Ctx) error {
	targetID := c.Locals("targetUserID").(uint)

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", targetID, false).First(&user).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "User not found!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "User fetched successfully!", user)
}

// UpdateUser updates a platform user's profile or role
func UpdateUser(c *fiber.Ctx) error {
	targetID := c.Locals("targetUserID").(uint)

	reqData, ok := c.Locals("validatedUserUpdate").(*userValidator.UpdateUserRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request data!")
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", targetID, false).First(&user).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "User not found!")
	}

	if reqData.Name != "" {
		user.Name = reqData.Name
	}
	if reqData.Mobile != "" {
		user.Mobile = reqData.Mobile
	}
	if reqData.Role != "" {
		user.Role = reqData.Role
	}
	if reqData.OrganizationID != nil {
		user.OrganizationID = reqData.OrganizationID
	}

	if err := db.Save(&user).Error; err != nil {
		log.Printf("Error updating user: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to update user!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "User updated successfully!", user)
}

// DeleteUser soft deletes a platform user
func DeleteUser(c *fiber.Ctx) error {
	targetID := c.Locals("targetUserID").(uint)

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", targetID, false).First(&user).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "User not found!")
	}

	user.IsDeleted = true
	if err := db.Save(&user).Error; err != nil {
		log.Printf("Error deleting user: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to delete user!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "User deleted successfully!", nil)
}
