package userController

import (
	"atomq/database"
	"atomq/middleware"
	"atomq/models"
	"atomq/quiz"
	attemptValidator "atomq/validators/attempt"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
)

func lifecycle() *quiz.Service {
	return quiz.NewService(quiz.NewGormStore(database.Database.Db))
}

// quizErrorResponse maps attempt lifecycle errors to HTTP responses
func quizErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, quiz.ErrQuizNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	case errors.Is(err, quiz.ErrQuestionNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Question not found!", nil)
	case errors.Is(err, quiz.ErrNotYetAvailable):
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "This quiz is not yet available!", nil)
	case errors.Is(err, quiz.ErrExpired):
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "This quiz is no longer available!", nil)
	case errors.Is(err, quiz.ErrForbidden):
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You don't have access to this quiz!", nil)
	case errors.Is(err, quiz.ErrAttemptsExhausted):
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You have used all attempts for this quiz!", nil)
	case errors.Is(err, quiz.ErrInvalidState):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "No active attempt for this quiz!", nil)
	case errors.Is(err, quiz.ErrAttemptNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Attempt not found!", nil)
	default:
		log.Printf("Quiz operation failed: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}
}

// attemptQuestion is a question as shown to the taker: no correct answer, no
// explanation.
type attemptQuestion struct {
	QuestionID uint     `json:"question_id"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Type       string   `json:"type"`
	Options    []string `json:"options"`
	Points     float64  `json:"points"`
	Order      int      `json:"order"`
}

func presentQuestions(bindings []models.QuizQuestion) []attemptQuestion {
	questions := make([]attemptQuestion, 0, len(bindings))
	for i := range bindings {
		binding := &bindings[i]
		questions = append(questions, attemptQuestion{
			QuestionID: binding.QuestionID,
			Title:      binding.Question.Title,
			Content:    binding.Question.Content,
			Type:       binding.Question.Type,
			Options:    binding.Question.OptionList(),
			Points:     binding.Points,
			Order:      binding.Order,
		})
	}
	return questions
}

// AvailableQuizzes lists ACTIVE quizzes the student may take: open quizzes
// plus restricted ones they are rostered on, with their attempt state.
func AvailableQuizzes(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)

	db := database.Database.Db

	var quizzes []models.Quiz
	if err := db.Where("status = ?", models.QuizStatusActive).
		Where(`NOT EXISTS (SELECT 1 FROM quiz_users WHERE quiz_users.quiz_id = quizzes.id AND quiz_users.deleted_at IS NULL)
			OR EXISTS (SELECT 1 FROM quiz_users WHERE quiz_users.quiz_id = quizzes.id AND quiz_users.user_id = ? AND quiz_users.deleted_at IS NULL)`,
			userID).
		Order("created_at desc").
		Find(&quizzes).Error; err != nil {
		log.Printf("Error fetching available quizzes: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quizzes!", nil)
	}

	type quizRow struct {
		models.Quiz
		QuestionCount int64    `json:"question_count"`
		AttemptStatus string   `json:"attempt_status"`
		AttemptCount  int64    `json:"attempt_count"`
		LastScore     *float64 `json:"last_score"`
	}

	rows := make([]quizRow, 0, len(quizzes))
	for _, qz := range quizzes {
		row := quizRow{Quiz: qz, AttemptStatus: models.AttemptNotStarted}
		db.Model(&models.QuizQuestion{}).Where("quiz_id = ?", qz.ID).Count(&row.QuestionCount)
		db.Model(&models.QuizAttempt{}).Where("quiz_id = ? AND user_id = ?", qz.ID, userID).Count(&row.AttemptCount)

		var attempt models.QuizAttempt
		if err := db.Where("quiz_id = ? AND user_id = ?", qz.ID, userID).
			Order("created_at desc").First(&attempt).Error; err == nil {
			row.AttemptStatus = attempt.Status
			row.LastScore = attempt.Score
		}
		rows = append(rows, row)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quizzes fetched successfully.", rows)
}

// StartQuiz begins or resumes the user's attempt
func StartQuiz(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	quizID := c.Locals("quizID").(uint)

	attempt, resumed, err := lifecycle().Start(userID, quizID)
	if err != nil {
		return quizErrorResponse(c, err)
	}

	message := "Quiz started successfully."
	if resumed {
		message = "Quiz resumed successfully."
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, fiber.Map{
		"attempt": attempt,
		"resumed": resumed,
	})
}

// GetAttempt returns the active attempt with its questions in presentation
// order, previously saved answers, and seconds remaining on the timer
func GetAttempt(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	quizID := c.Locals("quizID").(uint)

	service := lifecycle()
	attempt, err := service.Active(userID, quizID)
	if err != nil {
		return quizErrorResponse(c, err)
	}

	bindings, err := service.AttemptQuestions(attempt)
	if err != nil {
		return quizErrorResponse(c, err)
	}

	db := database.Database.Db

	var answers []models.QuizAnswer
	if err := db.Where("attempt_id = ?", attempt.ID).Find(&answers).Error; err != nil {
		log.Printf("Error fetching attempt answers: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch attempt!", nil)
	}
	saved := make(map[uint]string, len(answers))
	for _, answer := range answers {
		saved[answer.QuestionID] = answer.UserAnswer
	}

	var qz models.Quiz
	if err := db.First(&qz, quizID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	var remainingSeconds *int
	if qz.TimeLimit != nil {
		deadline := attempt.StartedAt.Add(time.Duration(*qz.TimeLimit) * time.Minute)
		remaining := int(time.Until(deadline).Seconds())
		if remaining < 0 {
			remaining = 0
		}
		remainingSeconds = &remaining
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempt fetched successfully.", fiber.Map{
		"attempt":           attempt,
		"quiz":              qz,
		"questions":         presentQuestions(bindings),
		"answers":           saved,
		"remaining_seconds": remainingSeconds,
	})
}

// SaveAnswer records one answer on the active attempt
func SaveAnswer(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	quizID := c.Locals("quizID").(uint)
	reqData := c.Locals("validatedAnswer").(*attemptValidator.SaveAnswerRequest)

	answer, err := lifecycle().RecordAnswer(userID, quizID, reqData.QuestionID, reqData.Answer)
	if err != nil {
		return quizErrorResponse(c, err)
	}

	// Correctness and points are withheld until submission
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Answer saved successfully.", fiber.Map{
		"question_id": answer.QuestionID,
		"answer":      answer.UserAnswer,
	})
}

// SubmitQuiz closes the active attempt and returns the scored result
func SubmitQuiz(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	quizID := c.Locals("quizID").(uint)
	reqData := c.Locals("validatedSubmit").(*attemptValidator.SubmitRequest)

	attempt, err := lifecycle().Submit(userID, quizID, reqData.Answers, reqData.AutoSubmit)
	if err != nil {
		return quizErrorResponse(c, err)
	}

	message := "Quiz submitted successfully."
	if reqData.AutoSubmit {
		message = "Quiz auto-submitted; time is up."
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, attempt)
}

// AttemptResult returns the user's latest submitted attempt with a
// per-question breakdown including correct answers and explanations
func AttemptResult(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	quizID := c.Locals("quizID").(uint)

	db := database.Database.Db

	var attempt models.QuizAttempt
	if err := db.Where("quiz_id = ? AND user_id = ? AND status = ?",
		quizID, userID, models.AttemptSubmitted).
		Order("created_at desc").
		Preload("Quiz").
		First(&attempt).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No submitted attempt for this quiz!", nil)
	}

	var bindings []models.QuizQuestion
	if err := db.Where("quiz_id = ?", quizID).
		Preload("Question").
		Order("order_index asc").
		Find(&bindings).Error; err != nil {
		log.Printf("Error fetching quiz questions: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch result!", nil)
	}

	var answers []models.QuizAnswer
	if err := db.Where("attempt_id = ?", attempt.ID).Find(&answers).Error; err != nil {
		log.Printf("Error fetching attempt answers: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch result!", nil)
	}
	byQuestion := make(map[uint]*models.QuizAnswer, len(answers))
	for i := range answers {
		byQuestion[answers[i].QuestionID] = &answers[i]
	}

	type resultQuestion struct {
		QuestionID    uint     `json:"question_id"`
		Title         string   `json:"title"`
		Content       string   `json:"content"`
		Type          string   `json:"type"`
		Options       []string `json:"options"`
		CorrectAnswer string   `json:"correct_answer"`
		Explanation   string   `json:"explanation"`
		Points        float64  `json:"points"`
		UserAnswer    *string  `json:"user_answer"`
		IsCorrect     *bool    `json:"is_correct"`
		PointsEarned  float64  `json:"points_earned"`
	}

	breakdown := make([]resultQuestion, 0, len(bindings))
	for i := range bindings {
		binding := &bindings[i]
		row := resultQuestion{
			QuestionID:    binding.QuestionID,
			Title:         binding.Question.Title,
			Content:       binding.Question.Content,
			Type:          binding.Question.Type,
			Options:       binding.Question.OptionList(),
			CorrectAnswer: binding.Question.CorrectAnswer,
			Explanation:   binding.Question.Explanation,
			Points:        binding.Points,
		}
		if answer, ok := byQuestion[binding.QuestionID]; ok {
			row.UserAnswer = &answer.UserAnswer
			row.IsCorrect = &answer.IsCorrect
			row.PointsEarned = answer.PointsEarned
		}
		breakdown = append(breakdown, row)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Result fetched successfully.", fiber.Map{
		"attempt":   attempt,
		"questions": breakdown,
	})
}
