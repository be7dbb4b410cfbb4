package quiz

import (
	"fmt"

	"atomq/models"
)

// ValidateQuestion checks the option rules for a question type:
// true/false questions need exactly 2 options, multiple choice at least 2,
// fill-in-the-blank none. For option-based types the correct answer must be
// one of the options. Violations wrap ErrValidation.
func ValidateQuestion(questionType string, options []string, correctAnswer string) error {
	if correctAnswer == "" {
		return fmt.Errorf("%w: correct answer is required", ErrValidation)
	}

	switch questionType {
	case models.QuestionMultipleChoice:
		if len(options) < 2 {
			return fmt.Errorf("%w: multiple choice questions must have at least 2 options", ErrValidation)
		}
	case models.QuestionTrueFalse:
		if len(options) != 2 {
			return fmt.Errorf("%w: true/false questions must have exactly 2 options", ErrValidation)
		}
	case models.QuestionFillInBlank:
		if len(options) > 0 {
			return fmt.Errorf("%w: fill in the blank questions must not have options", ErrValidation)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown question type %q", ErrValidation, questionType)
	}

	for _, option := range options {
		if option == correctAnswer {
			return nil
		}
	}
	return fmt.Errorf("%w: correct answer must be one of the options", ErrValidation)
}
