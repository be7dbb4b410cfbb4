package userController

import (
	"atomq/database"
	"atomq/middleware"
	"atomq/models"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RecentActivity returns the user's latest submitted attempts, newest first
func RecentActivity(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)

	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if limit < 1 || limit > 50 {
		limit = 10
	}

	db := database.Database.Db

	var attempts []models.QuizAttempt
	if err := db.Where("user_id = ? AND status = ?", userID, models.AttemptSubmitted).
		Preload("Quiz").
		Order("submitted_at desc").
		Limit(limit).
		Find(&attempts).Error; err != nil {
		log.Printf("Error fetching recent activity: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch recent activity!", nil)
	}

	type activityRow struct {
		ID          uint      `json:"id"`
		QuizTitle   string    `json:"quiz_title"`
		Score       float64   `json:"score"`
		TotalPoints float64   `json:"total_points"`
		TimeTaken   int       `json:"time_taken"`
		CompletedAt time.Time `json:"completed_at"`
	}

	rows := make([]activityRow, 0, len(attempts))
	for i := range attempts {
		attempt := &attempts[i]
		row := activityRow{
			ID:          attempt.ID,
			QuizTitle:   attempt.Quiz.Title,
			CompletedAt: attempt.CreatedAt,
		}
		if attempt.Score != nil {
			row.Score = *attempt.Score
		}
		if attempt.TotalPoints != nil {
			row.TotalPoints = *attempt.TotalPoints
		}
		if attempt.TimeTaken != nil {
			row.TimeTaken = *attempt.TimeTaken
		}
		if attempt.SubmittedAt != nil {
			row.CompletedAt = *attempt.SubmittedAt
		}
		rows = append(rows, row)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Recent activity fetched successfully.", rows)
}
