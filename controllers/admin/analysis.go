package adminController

import (
	"atomq/database"
	"atomq/middleware"
	"atomq/models"
	"atomq/quiz"
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Leaderboard ranks submitted attempts. Supports ?quiz_id=, ?difficulty=,
// ?window= (today, week, month), and ?limit= filters.
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

// ResultMatrix returns one row per rostered or attempting user for a quiz,
// with NOT_STARTED rows for enrolled students who never began
func ResultMatrix(c *fiber.Ctx) error {
	quizID := c.Locals("quizID").(uint)

	aggregator := quiz.NewAggregator(quiz.NewGormStore(database.Database.Db))
	rows, err := aggregator.ResultMatrix(quizID)
	if err != nil {
		if errors.Is(err, quiz.ErrQuizNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
		}
		log.Printf("Error building result matrix: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch results!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Results fetched successfully.", rows)
}

// DashboardStats returns the headline counts for the admin dashboard
func DashboardStats(c *fiber.Ctx) error {
	db := database.Database.Db

	var stats struct {
		TotalStudents     int64 `json:"total_students"`
		TotalQuizzes      int64 `json:"total_quizzes"`
		ActiveQuizzes     int64 `json:"active_quizzes"`
		TotalQuestions    int64 `json:"total_questions"`
		TotalAttempts     int64 `json:"total_attempts"`
		SubmittedAttempts int64 `json:"submitted_attempts"`
		InProgress        int64 `json:"in_progress"`
	}

	db.Model(&models.User{}).Where("role = ?", "USER").Count(&stats.TotalStudents)
	db.Model(&models.Quiz{}).Count(&stats.TotalQuizzes)
	db.Model(&models.Quiz{}).Where("status = ?", models.QuizStatusActive).Count(&stats.ActiveQuizzes)
	db.Model(&models.Question{}).Where("is_active = ?", true).Count(&stats.TotalQuestions)
	db.Model(&models.QuizAttempt{}).Count(&stats.TotalAttempts)
	db.Model(&models.QuizAttempt{}).Where("status = ?", models.AttemptSubmitted).Count(&stats.SubmittedAttempts)
	db.Model(&models.QuizAttempt{}).Where("status = ?", models.AttemptInProgress).Count(&stats.InProgress)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Stats fetched successfully.", stats)
}
