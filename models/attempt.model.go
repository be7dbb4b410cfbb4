package models

import (
	"time"

	"gorm.io/gorm"
)

// Attempt statuses. NOT_STARTED is a virtual state (no row exists) used in
// the admin result matrix.
const (
	AttemptNotStarted = "NOT_STARTED"
	AttemptInProgress = "IN_PROGRESS"
	AttemptSubmitted  = "SUBMITTED"
)

// QuizAttempt is one user's pass through a quiz. At most one IN_PROGRESS
// attempt may exist per (user, quiz); a SUBMITTED attempt is reset in place
// on restart.
type QuizAttempt struct {
	gorm.Model
	UserID      uint       `json:"user_id" gorm:"index:idx_attempt_user_quiz;not null"`
	QuizID      uint       `json:"quiz_id" gorm:"index:idx_attempt_user_quiz;not null"`
	Status      string     `json:"status" gorm:"default:'IN_PROGRESS'"` // IN_PROGRESS, SUBMITTED
	StartedAt   time.Time  `json:"started_at"`
	SubmittedAt *time.Time `json:"submitted_at"`
	Score       *float64   `json:"score"`        // nil until submission
	TotalPoints *float64   `json:"total_points"` // nil until submission
	TimeTaken   *int       `json:"time_taken"`   // whole seconds, nil until submission
	User        User       `json:"user" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Quiz        Quiz       `json:"quiz" gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE"`
}

// QuizAnswer stores a user's answer to one question within an attempt.
// Upsert semantics: at most one row per (attempt, question).
type QuizAnswer struct {
	gorm.Model
	AttemptID    uint    `json:"attempt_id" gorm:"uniqueIndex:idx_attempt_question;not null"`
	QuestionID   uint    `json:"question_id" gorm:"uniqueIndex:idx_attempt_question;not null"`
	UserAnswer   string  `json:"user_answer"`
	IsCorrect    bool    `json:"is_correct" gorm:"default:false"`
	PointsEarned float64 `json:"points_earned" gorm:"default:0"`
}
