package adminController

import (
	"atomq/database"
	"atomq/middleware"
	"atomq/models"
	"log"

	"github.com/gofiber/fiber/v2"
)

// GetSettings returns the site settings row
func GetSettings(c *fiber.Ctx) error {
	db := database.Database.Db

	var settings models.Settings
	if err := db.First(&settings).Error; err != nil {
		log.Printf("Error fetching settings: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch settings!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Settings fetched successfully.", settings)
}

// UpdateSettings applies the fields present in the request
func UpdateSettings(c *fiber.Ctx) error {
	reqData := new(struct {
		SiteTitle         *string `json:"site_title"`
		SiteDescription   *string `json:"site_description"`
		MaintenanceMode   *bool   `json:"maintenance_mode"`
		AllowRegistration *bool   `json:"allow_registration"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var settings models.Settings
	if err := db.First(&settings).Error; err != nil {
		log.Printf("Error fetching settings: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update settings!", nil)
	}

	if reqData.SiteTitle != nil {
		settings.SiteTitle = *reqData.SiteTitle
	}
	if reqData.SiteDescription != nil {
		settings.SiteDescription = *reqData.SiteDescription
	}
	if reqData.MaintenanceMode != nil {
		settings.MaintenanceMode = *reqData.MaintenanceMode
	}
	if reqData.AllowRegistration != nil {
		settings.AllowRegistration = *reqData.AllowRegistration
	}

	if err := db.Save(&settings).Error; err != nil {
		log.Printf("Error updating settings: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update settings!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Settings updated successfully.", settings)
}
