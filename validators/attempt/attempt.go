package attemptValidator

import (
	"atomq/middleware"

	"github.com/gofiber/fiber/v2"
)

// SaveAnswerRequest is one buffered answer flush
type SaveAnswerRequest struct {
	QuestionID uint   `json:"question_id"`
	Answer     string `json:"answer"`
}

// SubmitRequest carries client-buffered answers applied at submission time
type SubmitRequest struct {
	Answers    map[uint]string `json:"answers"`
	AutoSubmit bool            `json:"auto_submit"`
}

// SaveAnswer validates recording a single answer on an active attempt
func SaveAnswer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SaveAnswerRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.QuestionID == 0 {
			errors["question_id"] = "Question ID is required!"
		}
		if reqData.Answer == "" {
			errors["answer"] = "Answer is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAnswer", reqData)
		return c.Next()
	}
}

// SubmitQuiz validates the final submission body. An empty body is allowed;
// all answers may already be flushed through the save-answer endpoint.
func SubmitQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SubmitRequest)

		if len(c.Body()) > 0 {
			if err := c.BodyParser(reqData); err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
			}
		}

		c.Locals("validatedSubmit", reqData)
		return c.Next()
	}
}
