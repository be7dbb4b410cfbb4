package userController

import (
	"errors"
	"net/http/httptest"
	"testing"

	"atomq/quiz"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuizErrorResponseStatuses(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"quiz not found", quiz.ErrQuizNotFound, fiber.StatusNotFound},
		{"question not found", quiz.ErrQuestionNotFound, fiber.StatusNotFound},
		{"attempt not found", quiz.ErrAttemptNotFound, fiber.StatusNotFound},
		{"not yet available", quiz.ErrNotYetAvailable, fiber.StatusForbidden},
		{"expired", quiz.ErrExpired, fiber.StatusForbidden},
		{"forbidden", quiz.ErrForbidden, fiber.StatusForbidden},
		{"attempts exhausted", quiz.ErrAttemptsExhausted, fiber.StatusForbidden},
		{"invalid state", quiz.ErrInvalidState, fiber.StatusConflict},
		{"unknown error", errors.New("connection refused"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/errcase", func(c *fiber.Ctx) error {
				return quizErrorResponse(c, tt.err)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/errcase", nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}
