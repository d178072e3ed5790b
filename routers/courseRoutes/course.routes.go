package courseRoutes

import (
	controllers "skilltrack/controllers/course"
	"skilltrack/middleware"
	validators "skilltrack/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all skill, progress and certificate routes
func SetupCourseRoutes(app *fiber.App) {
	skillGroup := app.Group("/skills")

	// Skill catalog
	skillGroup.Get("/list", middleware.JWTMiddleware, controllers.GetAllSkills)
	skillGroup.Get("/leaderboard", middleware.JWTMiddleware, controllers.GetLeaderboard)
	skillGroup.Post("/", middleware.JWTMiddleware, validators.CreateSkill(), controllers.CreateSkill)
	skillGroup.Get("/:id", middleware.JWTMiddleware, validators.SkillID(), controllers.GetSkillDetails)

	// Enrollment
	skillGroup.Post("/:id/enroll", middleware.JWTMiddleware, validators.SkillID(), controllers.EnrollInSkill)
	skillGroup.Delete("/:id/enroll", middleware.JWTMiddleware, validators.SkillID(), controllers.UnenrollFromSkill)

	// Certificate (re-verifies completion from telemetry)
	skillGroup.Get("/:id/certificate", middleware.JWTMiddleware, validators.SkillID(), controllers.GetCertificate)

	// Lesson progress. The literal /course route must be registered before
	// the :lesson_id routes or Fiber matches "course" as a lesson ID.
	progressGroup := app.Group("/progress")
	progressGroup.Get("/course/:skill_id", middleware.JWTMiddleware, validators.CourseProgress(), controllers.GetCourseProgress)
	progressGroup.Post("/:lesson_id", middleware.JWTMiddleware, validators.LessonID(), validators.Heartbeat(), controllers.SaveProgress)
	progressGroup.Get("/:lesson_id", middleware.JWTMiddleware, validators.LessonID(), controllers.GetLessonProgress)
	progressGroup.Post("/:lesson_id/complete/:skill_id", middleware.JWTMiddleware, validators.CompleteLesson(), controllers.CompleteLesson)

	// User aggregates
	userGroup := app.Group("/user")
	userGroup.Get("/enrollments", middleware.JWTMiddleware, controllers.GetUserEnrollments)
	userGroup.Get("/stats", middleware.JWTMiddleware, controllers.GetStudentStats)
}
