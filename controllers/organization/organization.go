package orgController

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	orgValidator "lms/validators/organization"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// CreateOrganization creates an organization with a fresh invite code
func CreateOrganization(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedOrg").(*orgValidator.OrganizationRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request data!")
	}

	org := models.Organization{
		Name:       reqData.Name,
		InviteCode: uuid.NewString(),
	}

	if err := database.Database.Db.Create(&org).Error; err != nil {
		log.Printf("Error creating organization: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to create organization!")
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, "Organization created successfully!", org)
}

// ListOrganizations lists all organizations
func ListOrganizations(c *fiber.Ctx) error {
	var orgs []models.Organization
	if err := database.Database.Db.Where("is_deleted = ?", false).Order("name asc").Find(&orgs).Error; err != nil {
		log.Printf("Error fetching organizations: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to fetch organizations!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Organizations fetched successfully!", orgs)
}

// GetOrganization returns one organization
func GetOrganization(c *fiber.Ctx) error {
	orgID := c.Locals("orgID").(uint)

	var org models.Organization
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", orgID, false).First(&org).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Organization not found!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Organization fetched successfully!", org)
}

// UpdateOrganization renames an organization
func UpdateOrganization(c *fiber.Ctx) error {
	orgID := c.Locals("orgID").(uint)

	reqData, ok := c.Locals("validatedOrgUpdate").(*orgValidator.OrganizationRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request data!")
	}

	db := database.Database.Db

	var org models.Organization
	if err := db.Where("id = ? AND is_deleted = ?", orgID, false).First(&org).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Organization not found!")
	}

	if reqData.Name != "" {
		org.Name = reqData.Name
	}

	if err := db.Save(&org).Error; err != nil {
		log.Printf("Error updating organization: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to update organization!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Organization updated successfully!", org)
}

// RotateInviteCode replaces the organization's invite code
func RotateInviteCode(c *fiber.Ctx) error {
	orgID := c.Locals("orgID").(uint)

	db := database.Database.Db

	var org models.Organization
	if err := db.Where("id = ? AND is_deleted = ?", orgID, false).First(&org).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Organization not found!")
	}

	org.InviteCode = uuid.NewString()
	if err := db.Save(&org).Error; err != nil {
		log.Printf("Error rotating invite code: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to rotate invite code!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Invite code rotated successfully!", org)
}

// DeleteOrganization soft deletes an organization
func DeleteOrganization(c *fiber.Ctx) error {
	orgID := c.Locals("orgID").(uint)

	db := database.Database.Db

	var org models.Organization
	if err := db.Where("id = ? AND is_deleted = ?", orgID, false).First(&org).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Organization not found!")
	}

	org.IsDeleted = true
	if err := db.Save(&org).Error; err != nil {
		log.Printf("Error deleting organization: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, "Failed to delete organization!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Organization deleted successfully!", nil)
}
