package userRoutes

import (
	userController "atomq/controllers/user"
	"atomq/middleware"
	attemptValidator "atomq/validators/attempt"
	quizValidator "atomq/validators/quiz"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/user", middleware.JWTMiddleware, middleware.RequireRole("USER"))

	// Taking quizzes
	userGroup.Get("/quizzes", userController.AvailableQuizzes)
	userGroup.Post("/quizzes/:id/start", quizValidator.QuizID(), userController.StartQuiz)
	userGroup.Get("/quizzes/:id/attempt", quizValidator.QuizID(), userController.GetAttempt)
	userGroup.Post("/quizzes/:id/answer", quizValidator.QuizID(), attemptValidator.SaveAnswer(), userController.SaveAnswer)
	userGroup.Post("/quizzes/:id/submit", quizValidator.QuizID(), attemptValidator.SubmitQuiz(), userController.SubmitQuiz)
	userGroup.Get("/quizzes/:id/result", quizValidator.QuizID(), userController.AttemptResult)

	// Rankings
	userGroup.Get("/leaderboard", userController.Leaderboard)

	// Activity feed
	userGroup.Get("/recent-activity", userController.RecentActivity)

	// Account
	userGroup.Get("/profile", userController.GetProfile)
	userGroup.Put("/profile", userController.UpdateProfile)
	userGroup.Get("/stats", userController.MyStats)
}
