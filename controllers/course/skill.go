package controllers

import (
	"skilltrack/database"
	"skilltrack/middleware"
	"skilltrack/models"
	courseModels "skilltrack/models/course"
	"skilltrack/utils"

	"github.com/gofiber/fiber/v2"
)

// GetAllSkills lists active skills for browsing
func GetAllSkills(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	var skills []courseModels.Skill
	if err := database.Database.Db.Where("is_deleted = ? AND status = ?", false, "ACTIVE").
		Order("created_at desc").Find(&skills).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch skills!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Skills fetched successfully!", fiber.Map{
		"skills": skills,
		"total":  len(skills),
	})
}

// GetSkillDetails gets a skill with its ordered lessons and the caller's enrollment state
func GetSkillDetails(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	skillID := c.Locals("skillID").(int)

	var skill courseModels.Skill
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", skillID, false).First(&skill).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Skill not found!", nil)
	}

	var lessons []courseModels.Lesson
	database.Database.Db.Where("skill_id = ? AND is_deleted = ?", skillID, false).
		Order("lesson_order asc").Find(&lessons)

	// Check if user is enrolled
	var enrollment courseModels.Enrollment
	isEnrolled := database.Database.Db.Where("user_id = ? AND skill_id = ? AND is_deleted = ?", userID, skillID, false).
		First(&enrollment).Error == nil

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Skill details fetched successfully!", fiber.Map{
		"skill":       skill,
		"lessons":     lessons,
		"is_enrolled": isEnrolled,
		"enrollment":  enrollment,
	})
}

// CreateSkill creates a skill with its lessons (admin). Lesson durations
// missing from the request are resolved through the YouTube lookup.
func CreateSkill(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND role = ?", userID, false, "ADMIN").First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Admin access required!", nil)
	}

	reqData, ok := c.Locals("validatedSkill").(*struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Author      string `json:"author"`
		Lessons     []struct {
			Title    string `json:"title"`
			VideoID  string `json:"video_id"`
			Duration int    `json:"duration"`
		} `json:"lessons"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	skill := courseModels.Skill{
		Name:        reqData.Name,
		Description: reqData.Description,
		Author:      reqData.Author,
		Status:      "ACTIVE",
	}

	tx := database.Database.Db.Begin()
	if err := tx.Create(&skill).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create skill!", nil)
	}

	lessons := make([]courseModels.Lesson, 0, len(reqData.Lessons))
	for i, l := range reqData.Lessons {
		duration := l.Duration
		if duration <= 0 {
			duration = utils.FetchVideoDuration(l.VideoID)
		}
		lessons = append(lessons, courseModels.Lesson{
			SkillID:     skill.ID,
			Title:       l.Title,
			VideoID:     l.VideoID,
			Duration:    duration,
			LessonOrder: i + 1,
		})
	}
	if len(lessons) > 0 {
		if err := tx.Create(&lessons).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create lessons!", nil)
		}
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Skill created successfully!", fiber.Map{
		"skill":   skill,
		"lessons": lessons,
	})
}
