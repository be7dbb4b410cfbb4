package quiz

import (
	"time"

	"atomq/models"
)

// AttemptFilter narrows submitted-attempt queries for the leaderboard.
// Zero values mean "no filter".
type AttemptFilter struct {
	QuizID     uint
	Difficulty string
	Since      *time.Time // submitted at or after
}

// Store is the persistence adapter consumed by the lifecycle service and the
// aggregator. The production implementation wraps gorm; tests use the
// in-memory MemoryStore.
type Store interface {
	// Quiz content
	GetQuiz(quizID uint) (*models.Quiz, error)
	QuizQuestions(quizID uint) ([]models.QuizQuestion, error) // ordered, question populated
	GetQuestion(questionID uint) (*models.Question, error)
	GetQuizQuestion(quizID, questionID uint) (*models.QuizQuestion, error)

	// Enrollment roster
	CountEnrollments(quizID uint) (int64, error)
	IsEnrolled(quizID, userID uint) (bool, error)
	Enrollments(quizID uint) ([]models.QuizUser, error) // user populated

	// Attempts
	CountAttempts(quizID, userID uint) (int64, error)
	ActiveAttempt(quizID, userID uint) (*models.QuizAttempt, error) // IN_PROGRESS, ErrAttemptNotFound if none
	LatestAttempt(quizID, userID uint) (*models.QuizAttempt, error) // newest of any status
	CreateAttempt(attempt *models.QuizAttempt) error
	SaveAttempt(attempt *models.QuizAttempt) error
	QuizAttempts(quizID uint) ([]models.QuizAttempt, error)            // any status, user populated
	SubmittedAttempts(filter AttemptFilter) ([]models.QuizAttempt, error) // user and quiz populated
	OverdueAttempts(now time.Time) ([]models.QuizAttempt, error)       // IN_PROGRESS past their quiz time limit

	// Answers
	AttemptAnswers(attemptID uint) ([]models.QuizAnswer, error)
	UpsertAnswer(answer *models.QuizAnswer) error // keyed by (attempt, question)
	CountWrongAnswers(attemptID uint) (int64, error)

	// InTransaction runs fn against a transactional view of the store;
	// the mutations either all apply or none do.
	InTransaction(fn func(Store) error) error
}
