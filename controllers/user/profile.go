package userController

import (
	"atomq/config"
	"atomq/database"
	"atomq/middleware"
	"atomq/models"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// GetProfile returns the logged-in user's account
func GetProfile(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully.", user)
}

// UpdateProfile edits name, phone, avatar, and optionally the password
func UpdateProfile(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	reqData := new(struct {
		Name     *string `json:"name"`
		Phone    *string `json:"phone"`
		Avatar   *string `json:"avatar"`
		Password *string `json:"password"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if reqData.Name != nil {
		name := strings.TrimSpace(*reqData.Name)
		if len(name) < 2 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Name must be at least 2 characters long!", nil)
		}
		user.Name = name
	}
	if reqData.Phone != nil {
		user.Phone = strings.TrimSpace(*reqData.Phone)
	}
	if reqData.Avatar != nil {
		user.Avatar = strings.TrimSpace(*reqData.Avatar)
	}
	if reqData.Password != nil {
		if len(*reqData.Password) < 6 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Password must be at least 6 characters long!", nil)
		}
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*reqData.Password), config.AppConfig.SaltRound)
		if err != nil {
			log.Printf("Error hashing password: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
		}
		user.Password = string(hashedPassword)
	}

	if err := database.Database.Db.Save(user).Error; err != nil {
		log.Printf("Error updating profile: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully.", user)
}

// MyStats summarizes the user's submitted attempts
func MyStats(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)

	db := database.Database.Db

	var stats struct {
		QuizzesTaken   int64    `json:"quizzes_taken"`
		TotalAttempts  int64    `json:"total_attempts"`
		AverageScore   *float64 `json:"average_score"`
		BestScore      *float64 `json:"best_score"`
		TotalTimeTaken *int64   `json:"total_time_taken"`
	}

	db.Model(&models.QuizAttempt{}).
		Where("user_id = ? AND status = ?", userID, models.AttemptSubmitted).
		Distinct("quiz_id").Count(&stats.QuizzesTaken)
	db.Model(&models.QuizAttempt{}).
		Where("user_id = ?", userID).Count(&stats.TotalAttempts)
	db.Model(&models.QuizAttempt{}).
		Where("user_id = ? AND status = ?", userID, models.AttemptSubmitted).
		Select("AVG(score)").Scan(&stats.AverageScore)
	db.Model(&models.QuizAttempt{}).
		Where("user_id = ? AND status = ?", userID, models.AttemptSubmitted).
		Select("MAX(score)").Scan(&stats.BestScore)
	db.Model(&models.QuizAttempt{}).
		Where("user_id = ? AND status = ?", userID, models.AttemptSubmitted).
		Select("SUM(time_taken)").Scan(&stats.TotalTimeTaken)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Stats fetched successfully.", stats)
}
