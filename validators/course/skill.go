package courseValidator

import (
	"strconv"
	"strings"

	"skilltrack/middleware"

	"github.com/gofiber/fiber/v2"
)

// SkillID validates the :id path parameter and stores it in Locals
func SkillID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		skillIDStr := strings.TrimSpace(c.Params("id"))
		if skillIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Skill ID is required!", nil)
		}

		skillID, err := strconv.Atoi(skillIDStr)
		if err != nil || skillID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Skill ID!", nil)
		}

		c.Locals("skillID", skillID)
		return c.Next()
	}
}

// CreateSkill validates the admin skill creation body
func CreateSkill() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name        string `json:"name"`
			Description string `json:"description"`
			Author      string `json:"author"`
			Lessons     []struct {
				Title    string `json:"title"`
				VideoID  string `json:"video_id"`
				Duration int    `json:"duration"`
			} `json:"lessons"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Name) == "" {
			errors["name"] = "Skill name is required!"
		}
		for _, l := range reqData.Lessons {
			if strings.TrimSpace(l.Title) == "" {
				errors["lessons"] = "Every lesson needs a title!"
				break
			}
			if l.Duration < 0 {
				errors["lessons"] = "Lesson duration cannot be negative!"
				break
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSkill", reqData)
		return c.Next()
	}
}
