package userController

import (
	"atomq/database"
	"atomq/middleware"
	"atomq/quiz"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Leaderboard is the student-facing ranking of submitted attempts. Same
// filters as the admin view: ?quiz_id=, ?difficulty=, ?window=, ?limit=.
func Leaderboard(c *fiber.Ctx) error {
	var quizID uint
	if quizIDStr := c.Query("quiz_id"); quizIDStr != "" {
		parsed, err := strconv.Atoi(quizIDStr)
		if err != nil || parsed <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Quiz ID!", nil)
		}
		quizID = uint(parsed)
	}

	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if limit < 0 {
		limit = 50
	}

	aggregator := quiz.NewAggregator(quiz.NewGormStore(database.Database.Db))
	entries, err := aggregator.Leaderboard(quizID, c.Query("difficulty"), c.Query("window", quiz.WindowAll), limit)
	if err != nil {
		log.Printf("Error building leaderboard: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch leaderboard!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Leaderboard fetched successfully.", entries)
}
