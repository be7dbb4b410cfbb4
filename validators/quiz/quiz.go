package quizValidator

import (
	"atomq/middleware"
	"atomq/models"
	questionValidator "atomq/validators/question"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

var validDifficulties = map[string]bool{
	models.DifficultyEasy:   true,
	models.DifficultyMedium: true,
	models.DifficultyHard:   true,
}

var validStatuses = map[string]bool{
	models.QuizStatusDraft:    true,
	models.QuizStatusActive:   true,
	models.QuizStatusArchived: true,
}

// QuizRequest is the validated quiz create/update payload. Pointer fields
// distinguish "absent" from zero on updates.
type QuizRequest struct {
	Title           *string    `json:"title"`
	Description     *string    `json:"description"`
	TimeLimit       *int       `json:"time_limit"`
	Difficulty      *string    `json:"difficulty"`
	Status          *string    `json:"status"`
	NegativeMarking *bool      `json:"negative_marking"`
	NegativePoints  *float64   `json:"negative_points"`
	RandomOrder     *bool      `json:"random_order"`
	MaxAttempts     *int       `json:"max_attempts"`
	StartTime       *time.Time `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
}

// EnrollRequest carries the students to put on a quiz roster
type EnrollRequest struct {
	StudentIDs []uint `json:"student_ids"`
}

// ReorderRequest carries the new question order for a quiz
type ReorderRequest struct {
	QuestionIDs []uint `json:"question_ids"`
}

// QuizQuestionRequest attaches a question to a quiz: either an existing one by
// question_id, or a new one created inline from the question payload.
type QuizQuestionRequest struct {
	QuestionID uint                               `json:"question_id"`
	Question   *questionValidator.QuestionRequest `json:"question"`
	Order      *int                               `json:"order"`
	Points     *float64                           `json:"points"`
}

// QuizID validates the :id path parameter
func QuizID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("id"))
		if idStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Quiz ID is required!", nil)
		}

		quizID, err := strconv.Atoi(idStr)
		if err != nil || quizID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Quiz ID!", nil)
		}

		c.Locals("quizID", uint(quizID))
		return c.Next()
	}
}

func validateQuizFields(reqData *QuizRequest, requireTitle bool) map[string]string {
	errors := make(map[string]string)

	if reqData.Title != nil {
		*reqData.Title = strings.TrimSpace(*reqData.Title)
		if *reqData.Title == "" {
			errors["title"] = "Title is required!"
		} else if len(*reqData.Title) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}
	} else if requireTitle {
		errors["title"] = "Title is required!"
	}

	if reqData.Difficulty != nil && !validDifficulties[*reqData.Difficulty] {
		errors["difficulty"] = "Difficulty must be EASY, MEDIUM, or HARD!"
	}

	if reqData.Status != nil && !validStatuses[*reqData.Status] {
		errors["status"] = "Status must be DRAFT, ACTIVE, or ARCHIVED!"
	}

	if reqData.TimeLimit != nil && *reqData.TimeLimit <= 0 {
		errors["time_limit"] = "Time limit must be a positive number of minutes!"
	}

	if reqData.MaxAttempts != nil && *reqData.MaxAttempts <= 0 {
		errors["max_attempts"] = "Max attempts must be a positive number!"
	}

	if reqData.NegativePoints != nil && *reqData.NegativePoints < 0 {
		errors["negative_points"] = "Negative points cannot be negative!"
	}

	if reqData.StartTime != nil && reqData.EndTime != nil && reqData.EndTime.Before(*reqData.StartTime) {
		errors["end_time"] = "End time must be after start time!"
	}

	return errors
}

// CreateQuiz validates admin quiz creation request
func CreateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(QuizRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := validateQuizFields(reqData, true); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuiz", reqData)
		return c.Next()
	}
}

// UpdateQuiz validates admin quiz update request
func UpdateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(QuizRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := validateQuizFields(reqData, false); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuiz", reqData)
		return c.Next()
	}
}

// EnrollStudents validates the roster enrollment request
func EnrollStudents() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(EnrollRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if len(reqData.StudentIDs) == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Student IDs are required!", nil)
		}

		c.Locals("validatedEnroll", reqData)
		return c.Next()
	}
}

// StudentID validates the :student_id path parameter
func StudentID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("student_id"))
		studentID, err := strconv.Atoi(idStr)
		if err != nil || studentID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Student ID!", nil)
		}

		c.Locals("studentID", uint(studentID))
		return c.Next()
	}
}

// AddQuizQuestion validates attaching a question to a quiz, either an existing
// one by id or a new one created inline
func AddQuizQuestion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(QuizQuestionRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.QuestionID == 0 && reqData.Question == nil {
			errors["question_id"] = "Question ID or an inline question is required!"
		}
		if reqData.QuestionID != 0 && reqData.Question != nil {
			errors["question_id"] = "Provide either a question ID or an inline question, not both!"
		}
		if reqData.Question != nil {
			for field, message := range questionValidator.ValidateFields(reqData.Question) {
				errors[field] = message
			}
		}
		if reqData.Points != nil && *reqData.Points <= 0 {
			errors["points"] = "Points must be a positive number!"
		}
		if reqData.Order != nil && *reqData.Order <= 0 {
			errors["order"] = "Order must be a positive number!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuizQuestion", reqData)
		return c.Next()
	}
}

// UpdateQuizQuestion validates editing a binding's points and order; the
// question itself is addressed by the path
func UpdateQuizQuestion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(QuizQuestionRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.Points != nil && *reqData.Points <= 0 {
			errors["points"] = "Points must be a positive number!"
		}
		if reqData.Order != nil && *reqData.Order <= 0 {
			errors["order"] = "Order must be a positive number!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuizQuestion", reqData)
		return c.Next()
	}
}

// ReorderQuestions validates the full reorder request
func ReorderQuestions() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ReorderRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if len(reqData.QuestionIDs) == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Question IDs are required!", nil)
		}

		seen := make(map[uint]bool)
		for _, id := range reqData.QuestionIDs {
			if seen[id] {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Duplicate question IDs in order!", nil)
			}
			seen[id] = true
		}

		c.Locals("validatedReorder", reqData)
		return c.Next()
	}
}
