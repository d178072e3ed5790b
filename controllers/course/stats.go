package controllers

import (
	"math"
	"sort"

	"skilltrack/database"
	"skilltrack/middleware"
	"skilltrack/models"
	courseModels "skilltrack/models/course"

	"github.com/gofiber/fiber/v2"
)

// GetStudentStats returns aggregate learning numbers for the current user
func GetStudentStats(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	var enrollments []courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).
		Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch stats!", nil)
	}

	completed := 0
	inProgress := 0
	progressSum := 0
	for _, e := range enrollments {
		if e.Progress >= 100 {
			completed++
		} else if e.Progress > 0 {
			inProgress++
		}
		progressSum += e.Progress
	}

	avgProgress := 0
	if len(enrollments) > 0 {
		avgProgress = int(math.Round(float64(progressSum) / float64(len(enrollments))))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Stats fetched successfully!", fiber.Map{
		"user_name":        user.Name,
		"email":            user.Email,
		"total_enrolled":   len(enrollments),
		"completed":        completed,
		"in_progress":      inProgress,
		"average_progress": avgProgress,
	})
}

// GetLeaderboard ranks students by completions, then average progress
func GetLeaderboard(c *fiber.Ctx) error {
	if _, ok := c.Locals("userId").(uint); !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var students []models.User
	if err := database.Database.Db.Where("is_deleted = ? AND role = ?", false, "STUDENT").
		Find(&students).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch leaderboard!", nil)
	}

	type LeaderboardEntry struct {
		Name          string `json:"name"`
		Completions   int    `json:"completions"`
		AvgProgress   int    `json:"avg_progress"`
		TotalEnrolled int    `json:"total_enrolled"`
	}

	leaderboard := make([]LeaderboardEntry, 0, len(students))
	for _, student := range students {
		var enrollments []courseModels.Enrollment
		database.Database.Db.Where("user_id = ? AND is_deleted = ?", student.ID, false).Find(&enrollments)

		completions := 0
		progressSum := 0
		for _, e := range enrollments {
			if e.Progress >= 100 {
				completions++
			}
			progressSum += e.Progress
		}

		avgProgress := 0
		if len(enrollments) > 0 {
			avgProgress = int(math.Round(float64(progressSum) / float64(len(enrollments))))
		}

		leaderboard = append(leaderboard, LeaderboardEntry{
			Name:          student.Name,
			Completions:   completions,
			AvgProgress:   avgProgress,
			TotalEnrolled: len(enrollments),
		})
	}

	sort.Slice(leaderboard, func(i, j int) bool {
		if leaderboard[i].Completions != leaderboard[j].Completions {
			return leaderboard[i].Completions > leaderboard[j].Completions
		}
		return leaderboard[i].AvgProgress > leaderboard[j].AvgProgress
	})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Leaderboard fetched successfully!", fiber.Map{
		"leaderboard": leaderboard,
	})
}
