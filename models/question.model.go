package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Question types
const (
	QuestionMultipleChoice = "MULTIPLE_CHOICE"
	QuestionTrueFalse      = "TRUE_FALSE"
	QuestionFillInBlank    = "FILL_IN_BLANK"
)

// Difficulty levels shared by quizzes and questions
const (
	DifficultyEasy   = "EASY"
	DifficultyMedium = "MEDIUM"
	DifficultyHard   = "HARD"
)

// Question is a reusable bank question; it joins quizzes through QuizQuestion
type Question struct {
	gorm.Model
	Title         string         `json:"title"`
	Content       string         `json:"content" gorm:"type:text"`
	Type          string         `json:"type" gorm:"default:'MULTIPLE_CHOICE'"` // MULTIPLE_CHOICE, TRUE_FALSE, FILL_IN_BLANK
	Options       datatypes.JSON `json:"options"`                               // JSON array of option strings, empty for FILL_IN_BLANK
	CorrectAnswer string         `json:"correct_answer"`
	Explanation   string         `json:"explanation" gorm:"type:text"`
	Difficulty    string         `json:"difficulty" gorm:"default:'MEDIUM'"` // EASY, MEDIUM, HARD
	IsActive      bool           `json:"is_active" gorm:"default:true"`
}

// OptionList decodes the Options JSON column into a string slice
func (q *Question) OptionList() []string {
	var options []string
	if len(q.Options) == 0 {
		return options
	}
	if err := json.Unmarshal(q.Options, &options); err != nil {
		return nil
	}
	return options
}

// SetOptions encodes a string slice into the Options JSON column
func (q *Question) SetOptions(options []string) error {
	if options == nil {
		options = []string{}
	}
	data, err := json.Marshal(options)
	if err != nil {
		return err
	}
	q.Options = datatypes.JSON(data)
	return nil
}
