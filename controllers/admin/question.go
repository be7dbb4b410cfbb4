package adminController

import (
	"atomq/database"
	"atomq/middleware"
	"atomq/models"
	questionValidator "atomq/validators/question"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// QuestionList returns active bank questions. Supports ?search=, ?type=,
// ?difficulty=, and ?exclude_quiz= (questions not yet on that quiz) filters.
func QuestionList(c *fiber.Ctx) error {
	db := database.Database.Db

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := db.Model(&models.Question{}).Where("is_active = ?", true)

	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("title ILIKE ? OR content ILIKE ?", like, like)
	}
	if questionType := c.Query("type"); questionType != "" {
		query = query.Where("type = ?", questionType)
	}
	if difficulty := c.Query("difficulty"); difficulty != "" {
		query = query.Where("difficulty = ?", difficulty)
	}
	if excludeQuiz := c.Query("exclude_quiz"); excludeQuiz != "" {
		query = query.Where(
			"id NOT IN (SELECT question_id FROM quiz_questions WHERE quiz_id = ? AND deleted_at IS NULL)",
			excludeQuiz)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Printf("Error counting questions: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch questions!", nil)
	}

	var questions []models.Question
	if err := query.Order("created_at desc").
		Offset((page - 1) * limit).Limit(limit).
		Find(&questions).Error; err != nil {
		log.Printf("Error fetching questions: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch questions!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Questions fetched successfully.", fiber.Map{
		"questions": questions,
		"total":     total,
		"page":      page,
		"limit":     limit,
	})
}

// CreateQuestion adds a question to the bank
func CreateQuestion(c *fiber.Ctx) error {
	reqData := c.Locals("validatedQuestion").(*questionValidator.QuestionRequest)

	db := database.Database.Db

	newQuestion := models.Question{
		Title:         reqData.Title,
		Content:       reqData.Content,
		Type:          reqData.Type,
		CorrectAnswer: reqData.CorrectAnswer,
		Explanation:   reqData.Explanation,
	}
	if reqData.Difficulty != "" {
		newQuestion.Difficulty = reqData.Difficulty
	}
	if err := newQuestion.SetOptions(reqData.Options); err != nil {
		log.Printf("Error encoding question options: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create question!", nil)
	}

	if err := db.Create(&newQuestion).Error; err != nil {
		log.Printf("Error creating question: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create question!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Question created successfully.", newQuestion)
}

// UpdateQuestion edits a bank question. Attempts already scored against the
// old answer keep their recorded points.
func UpdateQuestion(c *fiber.Ctx) error {
	questionID := c.Locals("questionID").(uint)
	reqData := c.Locals("validatedQuestion").(*questionValidator.QuestionRequest)

	db := database.Database.Db

	var question models.Question
	if err := db.First(&question, questionID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Question not found!", nil)
	}

	question.Title = reqData.Title
	question.Content = reqData.Content
	question.Type = reqData.Type
	question.CorrectAnswer = reqData.CorrectAnswer
	question.Explanation = reqData.Explanation
	if reqData.Difficulty != "" {
		question.Difficulty = reqData.Difficulty
	}
	if err := question.SetOptions(reqData.Options); err != nil {
		log.Printf("Error encoding question options: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update question!", nil)
	}

	if err := db.Save(&question).Error; err != nil {
		log.Printf("Error updating question: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update question!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Question updated successfully.", question)
}

// DeleteQuestion retires a question from the bank. It is deactivated rather
// than removed so existing quiz bindings and past answers stay intact.
func DeleteQuestion(c *fiber.Ctx) error {
	questionID := c.Locals("questionID").(uint)

	db := database.Database.Db

	var question models.Question
	if err := db.First(&question, questionID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Question not found!", nil)
	}

	question.IsActive = false
	if err := db.Save(&question).Error; err != nil {
		log.Printf("Error deactivating question: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete question!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Question deleted successfully.", nil)
}
