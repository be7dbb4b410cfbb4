package adminRoutes

import (
	adminController "atomq/controllers/admin"
	"atomq/middleware"
	questionValidator "atomq/validators/question"
	quizValidator "atomq/validators/quiz"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"))

	// Quiz CRUD
	adminGroup.Get("/quizzes", adminController.QuizList)
	adminGroup.Post("/quizzes", quizValidator.CreateQuiz(), adminController.CreateQuiz)
	adminGroup.Get("/quizzes/:id", quizValidator.QuizID(), adminController.GetQuiz)
	adminGroup.Put("/quizzes/:id", quizValidator.QuizID(), quizValidator.UpdateQuiz(), adminController.UpdateQuiz)
	adminGroup.Delete("/quizzes/:id", quizValidator.QuizID(), adminController.DeleteQuiz)

	// Question bank
	adminGroup.Get("/questions", adminController.QuestionList)
	adminGroup.Post("/questions", questionValidator.CreateQuestion(), adminController.CreateQuestion)
	adminGroup.Put("/questions/:question_id", questionValidator.QuestionID(), questionValidator.UpdateQuestion(), adminController.UpdateQuestion)
	adminGroup.Delete("/questions/:question_id", questionValidator.QuestionID(), adminController.DeleteQuestion)

	// Quiz question bindings
	adminGroup.Get("/quizzes/:id/questions", quizValidator.QuizID(), adminController.QuizQuestionList)
	adminGroup.Post("/quizzes/:id/questions", quizValidator.QuizID(), quizValidator.AddQuizQuestion(), adminController.AddQuizQuestion)
	adminGroup.Put("/quizzes/:id/questions/reorder", quizValidator.QuizID(), quizValidator.ReorderQuestions(), adminController.ReorderQuizQuestions)
	adminGroup.Put("/quizzes/:id/questions/:question_id", quizValidator.QuizID(), questionValidator.QuestionID(), quizValidator.UpdateQuizQuestion(), adminController.UpdateQuizQuestion)
	adminGroup.Delete("/quizzes/:id/questions/:question_id", quizValidator.QuizID(), questionValidator.QuestionID(), adminController.RemoveQuizQuestion)

	// Roster
	adminGroup.Get("/students", adminController.StudentList)
	adminGroup.Post("/quizzes/:id/students", quizValidator.QuizID(), quizValidator.EnrollStudents(), adminController.EnrollStudents)
	adminGroup.Delete("/quizzes/:id/students/:student_id", quizValidator.QuizID(), quizValidator.StudentID(), adminController.UnenrollStudent)

	// Reporting
	adminGroup.Get("/leaderboard", adminController.Leaderboard)
	adminGroup.Get("/quizzes/:id/results", quizValidator.QuizID(), adminController.ResultMatrix)
	adminGroup.Get("/stats", adminController.DashboardStats)

	// Settings
	adminGroup.Get("/settings", adminController.GetSettings)
	adminGroup.Put("/settings", adminController.UpdateSettings)
}
