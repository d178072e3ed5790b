package courseValidator

import (
	"strconv"
	"strings"

	"skilltrack/middleware"

	"github.com/gofiber/fiber/v2"
)

// LessonID validates the :lesson_id path parameter and stores it in Locals
func LessonID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		lessonIDStr := strings.TrimSpace(c.Params("lesson_id"))
		if lessonIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Lesson ID is required!", nil)
		}

		lessonID, err := strconv.Atoi(lessonIDStr)
		if err != nil || lessonID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Lesson ID!", nil)
		}

		c.Locals("lessonID", lessonID)
		return c.Next()
	}
}

// Heartbeat validates the heartbeat body: position and delta must be
// non-negative, so bad values never reach storage.
func Heartbeat() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Position     int `json:"position"`
			WatchedDelta int `json:"watched_delta"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Position < 0 {
			errors["position"] = "Position cannot be negative!"
		}
		if reqData.WatchedDelta < 0 {
			errors["watched_delta"] = "Watched delta cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedHeartbeat", reqData)
		return c.Next()
	}
}

// CompleteLesson validates the :lesson_id and :skill_id path parameters
func CompleteLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		lessonID, err := strconv.Atoi(strings.TrimSpace(c.Params("lesson_id")))
		if err != nil || lessonID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Lesson ID!", nil)
		}

		skillID, err := strconv.Atoi(strings.TrimSpace(c.Params("skill_id")))
		if err != nil || skillID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Skill ID!", nil)
		}

		c.Locals("lessonID", lessonID)
		c.Locals("skillID", skillID)
		return c.Next()
	}
}

// CourseProgress validates the :skill_id path parameter
func CourseProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		skillID, err := strconv.Atoi(strings.TrimSpace(c.Params("skill_id")))
		if err != nil || skillID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Skill ID!", nil)
		}

		c.Locals("skillID", skillID)
		return c.Next()
	}
}
