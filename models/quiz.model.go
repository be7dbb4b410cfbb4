package models

import (
	"time"

	"gorm.io/gorm"
)

// Quiz statuses
const (
	QuizStatusDraft    = "DRAFT"
	QuizStatusActive   = "ACTIVE"
	QuizStatusArchived = "ARCHIVED"
)

// Quiz groups questions and carries the attempt policy for them
type Quiz struct {
	gorm.Model
	Title           string     `json:"title"`
	Description     string     `json:"description" gorm:"type:text"`
	TimeLimit       *int       `json:"time_limit"`                        // minutes, nil means unlimited
	Difficulty      string     `json:"difficulty" gorm:"default:'MEDIUM'"`
	Status          string     `json:"status" gorm:"default:'DRAFT'"` // DRAFT, ACTIVE, ARCHIVED
	NegativeMarking bool       `json:"negative_marking" gorm:"default:false"`
	NegativePoints  float64    `json:"negative_points" gorm:"default:0.5"` // penalty per wrong answer
	RandomOrder     bool       `json:"random_order" gorm:"default:false"`
	MaxAttempts     *int       `json:"max_attempts"` // nil means unlimited
	StartTime       *time.Time `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	CreatorID       uint       `json:"creator_id" gorm:"index"`
}

// QuizQuestion binds a Question into a Quiz at a position with a point value.
// The same question may be worth different points in different quizzes.
type QuizQuestion struct {
	gorm.Model
	QuizID     uint     `json:"quiz_id" gorm:"uniqueIndex:idx_quiz_question;not null"`
	QuestionID uint     `json:"question_id" gorm:"uniqueIndex:idx_quiz_question;not null"`
	Order      int      `json:"order" gorm:"column:order_index;default:1"` // 1-based, unique within a quiz
	Points     float64  `json:"points" gorm:"default:1"`
	Quiz       Quiz     `json:"-" gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE"`
	Question   Question `json:"question" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
}

// QuizUser is the enrollment roster. A quiz with no rows is open to all users.
type QuizUser struct {
	gorm.Model
	QuizID uint `json:"quiz_id" gorm:"uniqueIndex:idx_quiz_user;not null"`
	UserID uint `json:"user_id" gorm:"uniqueIndex:idx_quiz_user;not null"`
	Quiz   Quiz `json:"-" gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE"`
	User   User `json:"user" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
