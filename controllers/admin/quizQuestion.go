package adminController

import (
	"atomq/database"
	"atomq/middleware"
	"atomq/models"
	quizValidator "atomq/validators/quiz"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// QuizQuestionList returns the quiz's question bindings in presentation order
func QuizQuestionList(c *fiber.Ctx) error {
	quizID := c.Locals("quizID").(uint)

	db := database.Database.Db

	if err := db.First(&models.Quiz{}, quizID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	var questions []models.QuizQuestion
	if err := db.Where("quiz_id = ?", quizID).
		Preload("Question").
		Order("order_index asc").
		Find(&questions).Error; err != nil {
		log.Printf("Error fetching quiz questions: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quiz questions!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz questions fetched successfully.", questions)
}

// AddQuizQuestion attaches a question to a quiz, creating it in the bank first
// when given inline. Order defaults to the end of the quiz and points to 1.
func AddQuizQuestion(c *fiber.Ctx) error {
	quizID := c.Locals("quizID").(uint)
	reqData := c.Locals("validatedQuizQuestion").(*quizValidator.QuizQuestionRequest)

	db := database.Database.Db

	if err := db.First(&models.Quiz{}, quizID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	var question models.Question
	if reqData.Question != nil {
		question = models.Question{
			Title:         reqData.Question.Title,
			Content:       reqData.Question.Content,
			Type:          reqData.Question.Type,
			CorrectAnswer: reqData.Question.CorrectAnswer,
			Explanation:   reqData.Question.Explanation,
		}
		if reqData.Question.Difficulty != "" {
			question.Difficulty = reqData.Question.Difficulty
		}
		if err := question.SetOptions(reqData.Question.Options); err != nil {
			log.Printf("Error encoding question options: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add question to quiz!", nil)
		}
		if err := db.Create(&question).Error; err != nil {
			log.Printf("Error creating inline question: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add question to quiz!", nil)
		}
		reqData.QuestionID = question.ID
	} else if err := db.Where("id = ? AND is_active = ?", reqData.QuestionID, true).First(&question).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Question not found!", nil)
	}

	if err := db.Where("quiz_id = ? AND question_id = ?", quizID, reqData.QuestionID).
		First(&models.QuizQuestion{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Question is already on this quiz!", nil)
	}

	order := 0
	if reqData.Order != nil {
		order = *reqData.Order
	} else {
		var maxOrder int
		db.Model(&models.QuizQuestion{}).Where("quiz_id = ?", quizID).
			Select("COALESCE(MAX(order_index), 0)").Scan(&maxOrder)
		order = maxOrder + 1
	}

	points := 1.0
	if reqData.Points != nil {
		points = *reqData.Points
	}

	binding := models.QuizQuestion{
		QuizID:     quizID,
		QuestionID: reqData.QuestionID,
		Order:      order,
		Points:     points,
	}
	if err := db.Create(&binding).Error; err != nil {
		log.Printf("Error attaching question to quiz: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add question to quiz!", nil)
	}

	binding.Question = question
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Question added to quiz successfully.", binding)
}

// UpdateQuizQuestion changes a binding's points and/or order
func UpdateQuizQuestion(c *fiber.Ctx) error {
	quizID := c.Locals("quizID").(uint)
	questionID := c.Locals("questionID").(uint)
	reqData := c.Locals("validatedQuizQuestion").(*quizValidator.QuizQuestionRequest)

	db := database.Database.Db

	var binding models.QuizQuestion
	if err := db.Where("quiz_id = ? AND question_id = ?", quizID, questionID).First(&binding).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Question is not on this quiz!", nil)
	}

	if reqData.Points != nil {
		binding.Points = *reqData.Points
	}
	if reqData.Order != nil {
		binding.Order = *reqData.Order
	}

	if err := db.Save(&binding).Error; err != nil {
		log.Printf("Error updating quiz question: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update quiz question!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz question updated successfully.", binding)
}

// RemoveQuizQuestion detaches a question from a quiz. The bank question and
// answers recorded on past attempts are untouched.
func RemoveQuizQuestion(c *fiber.Ctx) error {
	quizID := c.Locals("quizID").(uint)
	questionID := c.Locals("questionID").(uint)

	db := database.Database.Db

	var binding models.QuizQuestion
	if err := db.Where("quiz_id = ? AND question_id = ?", quizID, questionID).First(&binding).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Question is not on this quiz!", nil)
	}

	if err := db.Delete(&binding).Error; err != nil {
		log.Printf("Error removing question from quiz: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to remove question from quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Question removed from quiz successfully.", nil)
}

// ReorderQuizQuestions rewrites the order of every question on the quiz. The
// request must list each bound question exactly once.
func ReorderQuizQuestions(c *fiber.Ctx) error {
	quizID := c.Locals("quizID").(uint)
	reqData := c.Locals("validatedReorder").(*quizValidator.ReorderRequest)

	db := database.Database.Db

	var bindings []models.QuizQuestion
	if err := db.Where("quiz_id = ?", quizID).Find(&bindings).Error; err != nil {
		log.Printf("Error fetching quiz questions: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reorder questions!", nil)
	}

	if len(bindings) != len(reqData.QuestionIDs) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Order must include every question on the quiz!", nil)
	}

	bound := make(map[uint]bool, len(bindings))
	for _, binding := range bindings {
		bound[binding.QuestionID] = true
	}
	for _, questionID := range reqData.QuestionIDs {
		if !bound[questionID] {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Order contains a question not on this quiz!", nil)
		}
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for position, questionID := range reqData.QuestionIDs {
			if err := tx.Model(&models.QuizQuestion{}).
				Where("quiz_id = ? AND question_id = ?", quizID, questionID).
				Update("order_index", position+1).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("Error reordering quiz questions: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reorder questions!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Questions reordered successfully.", nil)
}
