package authController

import (
	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	authValidator "lms/validators/auth"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// Signup registers a new back-office user (default role STUDENT)
func Signup(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedSignup").(*authValidator.SignupRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request data!")
	}

	db := database.Database.Db

	// Check if email already exists
	if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.ErrorResponse(c, fiber.StatusConflict, middleware.CodeConflict, "Email is already registered!")
	}

	// Hash Password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to process your request!")
	}

	newUser := models.User{
		Name:     reqData.Name,
		Email:    reqData.Email,
		Mobile:   reqData.Mobile,
		Role:     "STUDENT",
		Password: string(hashedPassword),
	}

	if err := db.Create(&newUser).Error; err != nil {
		log.Printf("Error saving user to database: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to sign up user!")
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, "User registered successfully.", newUser)
}

// Login verifies credentials and issues a JWT
func Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLogin").(*authValidator.LoginRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request data!")
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&user).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, middleware.CodeUnauthorized, "Invalid email or password!")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, middleware.CodeUnauthorized, "Invalid email or password!")
	}

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	if err != nil {
		log.Printf("Error generating JWT: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to process your request!")
	}

	now := time.Now()
	user.LastLogin = &now
	if err := db.Save(&user).Error; err != nil {
		log.Printf("Error updating last login: %v", err)
	}

	response := fiber.Map{
		"token": token,
		"user":  user,
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Logged in successfully!", response)
}
