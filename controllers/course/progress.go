package controllers

import (
	"errors"

	"skilltrack/database"
	"skilltrack/middleware"
	"skilltrack/models"
	"skilltrack/services/progress"

	"github.com/gofiber/fiber/v2"
)

// SaveProgress handles the playback heartbeat for a lesson
func SaveProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	lessonID := c.Locals("lessonID").(int)
	reqData := c.Locals("validatedHeartbeat").(*struct {
		Position     int `json:"position"`
		WatchedDelta int `json:"watched_delta"`
	})

	telemetry, err := progress.Default().RecordHeartbeat(userID, uint(lessonID), reqData.Position, reqData.WatchedDelta)
	if err != nil {
		if errors.Is(err, progress.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress saved successfully!", fiber.Map{
		"last_position": telemetry.LastPosition,
		"total_watched": telemetry.TotalWatched,
	})
}

// GetLessonProgress returns the stored resume position for a lesson
func GetLessonProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	lessonID := c.Locals("lessonID").(int)

	position := progress.Default().LessonPosition(userID, uint(lessonID))

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"last_position": position,
	})
}

// CompleteLesson marks a lesson complete and returns the new course percentage
func CompleteLesson(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	lessonID := c.Locals("lessonID").(int)
	skillID := c.Locals("skillID").(int)

	percentage, err := progress.Default().MarkLessonComplete(userID, uint(lessonID), uint(skillID))
	if err != nil {
		switch {
		case errors.Is(err, progress.ErrNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found in this skill!", nil)
		case errors.Is(err, progress.ErrNotEnrolled):
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Please enroll in this skill first!", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to complete lesson!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson completed successfully!", fiber.Map{
		"progress": percentage,
	})
}

// GetCourseProgress returns the stored completion percentage for a skill
func GetCourseProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	skillID := c.Locals("skillID").(int)

	percentage := progress.Default().CourseProgress(userID, uint(skillID))

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course progress fetched successfully!", fiber.Map{
		"progress": percentage,
	})
}
