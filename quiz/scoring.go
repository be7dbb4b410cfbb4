package quiz

import (
	"strings"

	"atomq/models"
)

// EvaluateAnswer reports whether a submitted answer matches the question's
// correct answer. The comparison trims leading/trailing whitespace and is
// case-insensitive; any other difference makes the answer incorrect. The rule
// is the same for all question types, including fill-in-the-blank.
func EvaluateAnswer(correctAnswer, submitted string) bool {
	return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(correctAnswer))
}

// PointsFor returns the quiz-question's configured points for a correct
// answer, zero otherwise.
func PointsFor(isCorrect bool, quizQuestionPoints float64) float64 {
	if isCorrect {
		return quizQuestionPoints
	}
	return 0
}

// AggregateScore sums the points earned across answers. With negative marking
// enabled, each answered-but-wrong answer subtracts negativePoints. Questions
// with no answer row incur no penalty.
func AggregateScore(answers []models.QuizAnswer, negativeMarking bool, negativePoints float64) float64 {
	var score float64
	for _, answer := range answers {
		score += answer.PointsEarned
		if negativeMarking && !answer.IsCorrect {
			score -= negativePoints
		}
	}
	return score
}
