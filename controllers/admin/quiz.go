package adminController

import (
	"atomq/database"
	"atomq/middleware"
	"atomq/models"
	quizValidator "atomq/validators/quiz"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// QuizList returns all quizzes with question and attempt counts, newest first.
// Supports ?status= and ?difficulty= filters plus page/limit pagination.
func QuizList(c *fiber.Ctx) error {
	db := database.Database.Db

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := db.Model(&models.Quiz{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if difficulty := c.Query("difficulty"); difficulty != "" {
		query = query.Where("difficulty = ?", difficulty)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Printf("Error counting quizzes: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quizzes!", nil)
	}

	var quizzes []models.Quiz
	if err := query.Order("created_at desc").
		Offset((page - 1) * limit).Limit(limit).
		Find(&quizzes).Error; err != nil {
		log.Printf("Error fetching quizzes: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quizzes!", nil)
	}

	type quizRow struct {
		models.Quiz
		QuestionCount int64 `json:"question_count"`
		AttemptCount  int64 `json:"attempt_count"`
		EnrolledCount int64 `json:"enrolled_count"`
	}

	rows := make([]quizRow, 0, len(quizzes))
	for _, qz := range quizzes {
		row := quizRow{Quiz: qz}
		db.Model(&models.QuizQuestion{}).Where("quiz_id = ?", qz.ID).Count(&row.QuestionCount)
		db.Model(&models.QuizAttempt{}).Where("quiz_id = ?", qz.ID).Count(&row.AttemptCount)
		db.Model(&models.QuizUser{}).Where("quiz_id = ?", qz.ID).Count(&row.EnrolledCount)
		rows = append(rows, row)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quizzes fetched successfully.", fiber.Map{
		"quizzes": rows,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

// CreateQuiz creates a quiz in DRAFT unless a status is given
func CreateQuiz(c *fiber.Ctx) error {
	reqData := c.Locals("validatedQuiz").(*quizValidator.QuizRequest)
	userID := c.Locals("userId").(uint)

	db := database.Database.Db

	newQuiz := models.Quiz{
		Title:     *reqData.Title,
		CreatorID: userID,
	}
	applyQuizFields(&newQuiz, reqData)

	if err := db.Create(&newQuiz).Error; err != nil {
		log.Printf("Error creating quiz: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz created successfully.", newQuiz)
}

// GetQuiz returns one quiz with its questions in order
func GetQuiz(c *fiber.Ctx) error {
	quizID := c.Locals("quizID").(uint)

	db := database.Database.Db

	var qz models.Quiz
	if err := db.First(&qz, quizID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	var questions []models.QuizQuestion
	if err := db.Where("quiz_id = ?", quizID).
		Preload("Question").
		Order("order_index asc").
		Find(&questions).Error; err != nil {
		log.Printf("Error fetching quiz questions: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully.", fiber.Map{
		"quiz":      qz,
		"questions": questions,
	})
}

// UpdateQuiz applies the fields present in the request
func UpdateQuiz(c *fiber.Ctx) error {
	quizID := c.Locals("quizID").(uint)
	reqData := c.Locals("validatedQuiz").(*quizValidator.QuizRequest)

	db := database.Database.Db

	var qz models.Quiz
	if err := db.First(&qz, quizID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	if reqData.Title != nil {
		qz.Title = *reqData.Title
	}
	applyQuizFields(&qz, reqData)

	if err := db.Save(&qz).Error; err != nil {
		log.Printf("Error updating quiz: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz updated successfully.", qz)
}

// DeleteQuiz soft-deletes a quiz; question bindings, roster rows, and attempts
// cascade at the database level
func DeleteQuiz(c *fiber.Ctx) error {
	quizID := c.Locals("quizID").(uint)

	db := database.Database.Db

	var qz models.Quiz
	if err := db.First(&qz, quizID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	if err := db.Delete(&qz).Error; err != nil {
		log.Printf("Error deleting quiz: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz deleted successfully.", nil)
}

func applyQuizFields(qz *models.Quiz, reqData *quizValidator.QuizRequest) {
	if reqData.Description != nil {
		qz.Description = *reqData.Description
	}
	if reqData.TimeLimit != nil {
		qz.TimeLimit = reqData.TimeLimit
	}
	if reqData.Difficulty != nil {
		qz.Difficulty = *reqData.Difficulty
	}
	if reqData.Status != nil {
		qz.Status = *reqData.Status
	}
	if reqData.NegativeMarking != nil {
		qz.NegativeMarking = *reqData.NegativeMarking
	}
	if reqData.NegativePoints != nil {
		qz.NegativePoints = *reqData.NegativePoints
	}
	if reqData.RandomOrder != nil {
		qz.RandomOrder = *reqData.RandomOrder
	}
	if reqData.MaxAttempts != nil {
		qz.MaxAttempts = reqData.MaxAttempts
	}
	if reqData.StartTime != nil {
		qz.StartTime = reqData.StartTime
	}
	if reqData.EndTime != nil {
		qz.EndTime = reqData.EndTime
	}
}
