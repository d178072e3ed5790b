package controllers

import (
	"errors"
	"log"

	"skilltrack/config"
	"skilltrack/database"
	"skilltrack/middleware"
	"skilltrack/models"
	"skilltrack/services/progress"
	"skilltrack/utils"

	"github.com/gofiber/fiber/v2"
)

// GetCertificate verifies completion and returns certificate data.
// Eligibility is re-derived from telemetry inside the service; the stored
// enrollment progress is never trusted here.
func GetCertificate(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	skillID := c.Locals("skillID").(int)

	data, err := progress.Default().RequestCertificate(userID, uint(skillID), config.AppConfig.VerifyBaseURL)
	if err != nil {
		var notCompleted *progress.NotCompletedError
		switch {
		case errors.Is(err, progress.ErrNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Skill not found!", nil)
		case errors.Is(err, progress.ErrNotEnrolled):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You are not enrolled in this skill!", nil)
		case errors.As(err, &notCompleted):
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Skill not completed yet! Keep learning.", fiber.Map{
				"progress": notCompleted.Percentage,
			})
		default:
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to issue certificate!", nil)
		}
	}

	// Notify on first issuance only; a failed email never blocks issuance
	if data.NewlyIssued {
		go func(email, name string, data progress.CertificateData) {
			if err := utils.SendCertificateIssuedEmail(email, name, data.SkillName, data.CertificateNumber, data.VerifyURL); err != nil {
				log.Printf("[CERTIFICATE] Email to %s failed: %v", email, err)
			}
		}(user.Email, user.Name, *data)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate issued successfully!", data)
}
