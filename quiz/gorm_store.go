package quiz

import (
	"errors"
	"time"

	"atomq/models"

	"gorm.io/gorm"
)

// GormStore is the production Store over a gorm connection.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) GetQuiz(quizID uint) (*models.Quiz, error) {
	var qz models.Quiz
	if err := s.db.Where("id = ?", quizID).First(&qz).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}
	return &qz, nil
}

func (s *GormStore) QuizQuestions(quizID uint) ([]models.QuizQuestion, error) {
	var questions []models.QuizQuestion
	err := s.db.Where("quiz_id = ?", quizID).
		Preload("Question").
		Order("order_index asc").
		Find(&questions).Error
	return questions, err
}

func (s *GormStore) GetQuestion(questionID uint) (*models.Question, error) {
	var question models.Question
	if err := s.db.Where("id = ?", questionID).First(&question).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	return &question, nil
}

func (s *GormStore) GetQuizQuestion(quizID, questionID uint) (*models.QuizQuestion, error) {
	var qq models.QuizQuestion
	err := s.db.Where("quiz_id = ? AND question_id = ?", quizID, questionID).First(&qq).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	return &qq, nil
}

func (s *GormStore) CountEnrollments(quizID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.QuizUser{}).Where("quiz_id = ?", quizID).Count(&count).Error
	return count, err
}

func (s *GormStore) IsEnrolled(quizID, userID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.QuizUser{}).
		Where("quiz_id = ? AND user_id = ?", quizID, userID).
		Count(&count).Error
	return count > 0, err
}

func (s *GormStore) Enrollments(quizID uint) ([]models.QuizUser, error) {
	var enrollments []models.QuizUser
	err := s.db.Where("quiz_id = ?", quizID).Preload("User").Find(&enrollments).Error
	return enrollments, err
}

func (s *GormStore) CountAttempts(quizID, userID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.QuizAttempt{}).
		Where("quiz_id = ? AND user_id = ?", quizID, userID).
		Count(&count).Error
	return count, err
}

func (s *GormStore) ActiveAttempt(quizID, userID uint) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	err := s.db.Where("quiz_id = ? AND user_id = ? AND status = ?",
		quizID, userID, models.AttemptInProgress).First(&attempt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttemptNotFound
		}
		return nil, err
	}
	return &attempt, nil
}

func (s *GormStore) LatestAttempt(quizID, userID uint) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	err := s.db.Where("quiz_id = ? AND user_id = ?", quizID, userID).
		Order("created_at desc").
		First(&attempt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttemptNotFound
		}
		return nil, err
	}
	return &attempt, nil
}

func (s *GormStore) CreateAttempt(attempt *models.QuizAttempt) error {
	return s.db.Create(attempt).Error
}

func (s *GormStore) SaveAttempt(attempt *models.QuizAttempt) error {
	return s.db.Save(attempt).Error
}

func (s *GormStore) QuizAttempts(quizID uint) ([]models.QuizAttempt, error) {
	var attempts []models.QuizAttempt
	err := s.db.Where("quiz_id = ?", quizID).Preload("User").Find(&attempts).Error
	return attempts, err
}

func (s *GormStore) SubmittedAttempts(filter AttemptFilter) ([]models.QuizAttempt, error) {
	query := s.db.Model(&models.QuizAttempt{}).
		Where("quiz_attempts.status = ?", models.AttemptSubmitted)

	if filter.QuizID != 0 {
		query = query.Where("quiz_attempts.quiz_id = ?", filter.QuizID)
	}
	if filter.Difficulty != "" {
		query = query.Joins("JOIN quizzes ON quizzes.id = quiz_attempts.quiz_id").
			Where("quizzes.difficulty = ?", filter.Difficulty)
	}
	if filter.Since != nil {
		query = query.Where("quiz_attempts.submitted_at >= ?", *filter.Since)
	}

	var attempts []models.QuizAttempt
	err := query.Preload("User").Preload("Quiz").Find(&attempts).Error
	return attempts, err
}

func (s *GormStore) OverdueAttempts(now time.Time) ([]models.QuizAttempt, error) {
	// The cutoff comparison happens in Go because minute arithmetic on a
	// column differs between postgres and the sqlite used in tests.
	var attempts []models.QuizAttempt
	err := s.db.Joins("JOIN quizzes ON quizzes.id = quiz_attempts.quiz_id").
		Where("quiz_attempts.status = ? AND quizzes.time_limit IS NOT NULL", models.AttemptInProgress).
		Preload("Quiz").
		Find(&attempts).Error
	if err != nil {
		return nil, err
	}

	var overdue []models.QuizAttempt
	for i := range attempts {
		attempt := attempts[i]
		if attempt.Quiz.TimeLimit == nil {
			continue
		}
		deadline := attempt.StartedAt.Add(time.Duration(*attempt.Quiz.TimeLimit) * time.Minute)
		if now.After(deadline) {
			overdue = append(overdue, attempt)
		}
	}
	return overdue, nil
}

func (s *GormStore) AttemptAnswers(attemptID uint) ([]models.QuizAnswer, error) {
	var answers []models.QuizAnswer
	err := s.db.Where("attempt_id = ?", attemptID).Find(&answers).Error
	return answers, err
}

func (s *GormStore) UpsertAnswer(answer *models.QuizAnswer) error {
	var existing models.QuizAnswer
	err := s.db.Where("attempt_id = ? AND question_id = ?",
		answer.AttemptID, answer.QuestionID).First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.db.Create(answer).Error
		}
		return err
	}

	existing.UserAnswer = answer.UserAnswer
	existing.IsCorrect = answer.IsCorrect
	existing.PointsEarned = answer.PointsEarned
	if err := s.db.Save(&existing).Error; err != nil {
		return err
	}
	answer.ID = existing.ID
	return nil
}

func (s *GormStore) CountWrongAnswers(attemptID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.QuizAnswer{}).
		Where("attempt_id = ? AND is_correct = ?", attemptID, false).
		Count(&count).Error
	return count, err
}

func (s *GormStore) InTransaction(fn func(Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewGormStore(tx))
	})
}
