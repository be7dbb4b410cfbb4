package questionValidator

import (
	"atomq/middleware"
	"atomq/models"
	"atomq/quiz"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

var validTypes = map[string]bool{
	models.QuestionMultipleChoice: true,
	models.QuestionTrueFalse:      true,
	models.QuestionFillInBlank:    true,
}

var validDifficulties = map[string]bool{
	models.DifficultyEasy:   true,
	models.DifficultyMedium: true,
	models.DifficultyHard:   true,
}

// QuestionRequest is the validated question create/update payload
type QuestionRequest struct {
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	Type          string   `json:"type"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
	Difficulty    string   `json:"difficulty"`
}

// QuestionID validates the :question_id path parameter
func QuestionID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("question_id"))
		questionID, err := strconv.Atoi(idStr)
		if err != nil || questionID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Question ID!", nil)
		}

		c.Locals("questionID", uint(questionID))
		return c.Next()
	}
}

// ValidateFields trims and checks a question payload, returning field errors.
// Shared with the quiz validator for inline question creation.
func ValidateFields(reqData *QuestionRequest) map[string]string {
	errors := make(map[string]string)

	reqData.Title = strings.TrimSpace(reqData.Title)
	reqData.Content = strings.TrimSpace(reqData.Content)
	reqData.CorrectAnswer = strings.TrimSpace(reqData.CorrectAnswer)

	if reqData.Title == "" {
		errors["title"] = "Question title is required!"
	}
	if reqData.Content == "" {
		errors["content"] = "Question content is required!"
	}

	if !validTypes[reqData.Type] {
		errors["type"] = "Type must be MULTIPLE_CHOICE, TRUE_FALSE, or FILL_IN_BLANK!"
	}

	if reqData.Difficulty != "" && !validDifficulties[reqData.Difficulty] {
		errors["difficulty"] = "Difficulty must be EASY, MEDIUM, or HARD!"
	}

	if reqData.CorrectAnswer == "" {
		errors["correct_answer"] = "Correct answer is required!"
	}

	if len(errors) > 0 {
		return errors
	}

	if err := quiz.ValidateQuestion(reqData.Type, reqData.Options, reqData.CorrectAnswer); err != nil {
		errors["options"] = err.Error()
	}
	return errors
}

// CreateQuestion validates a new question for the bank
func CreateQuestion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(QuestionRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := ValidateFields(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuestion", reqData)
		return c.Next()
	}
}

// UpdateQuestion validates a question edit; the full payload is required so
// the type/options/answer consistency check always runs against final state
func UpdateQuestion() fiber.Handler {
	return CreateQuestion()
}
