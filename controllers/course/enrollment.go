package controllers

import (
	"errors"

	"skilltrack/database"
	"skilltrack/middleware"
	"skilltrack/models"
	courseModels "skilltrack/models/course"
	"skilltrack/services/progress"

	"github.com/gofiber/fiber/v2"
)

func EnrollInSkill(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	skillID := c.Locals("skillID").(int)

	enrollment, err := progress.Default().Enroll(userID, uint(skillID))
	if err != nil {
		switch {
		case errors.Is(err, progress.ErrNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Skill not found or not active!", nil)
		case errors.Is(err, progress.ErrAlreadyEnrolled):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "You are already enrolled in this skill!", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in skill!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled in skill successfully!", enrollment)
}

func UnenrollFromSkill(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	skillID := c.Locals("skillID").(int)

	if err := progress.Default().Unenroll(userID, uint(skillID)); err != nil {
		if errors.Is(err, progress.ErrNotEnrolled) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "You are not enrolled in this skill!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to unenroll!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Unenrolled from skill successfully!", nil)
}

// GetUserEnrollments gets all enrollments for the current user with skill details
func GetUserEnrollments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	type EnrollmentWithSkill struct {
		courseModels.Enrollment
		SkillName        string `json:"skill_name"`
		SkillDescription string `json:"skill_description"`
		SkillAuthor      string `json:"skill_author"`
	}

	var enrollments []courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("updated_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	result := make([]EnrollmentWithSkill, len(enrollments))
	for i, e := range enrollments {
		var skill courseModels.Skill
		database.Database.Db.Where("id = ?", e.SkillID).First(&skill)
		result[i] = EnrollmentWithSkill{
			Enrollment:       e,
			SkillName:        skill.Name,
			SkillDescription: skill.Description,
			SkillAuthor:      skill.Author,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": result,
		"total":       len(result),
	})
}
