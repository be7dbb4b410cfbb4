package quiz

import (
	"math/rand"
	"time"

	"atomq/models"
)

// Service drives the attempt state machine: NOT_STARTED (no row) ->
// IN_PROGRESS -> SUBMITTED, with SUBMITTED reset back to a fresh IN_PROGRESS
// only through Start.
type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// NewServiceWithClock allows deterministic timestamps in tests.
func NewServiceWithClock(store Store, now func() time.Time) *Service {
	return &Service{store: store, now: now}
}

// Start begins or resumes an attempt for (user, quiz). It returns the attempt
// and whether an existing IN_PROGRESS attempt was resumed. Eligibility is
// checked in order: quiz exists, quiz is active, attempt window is open,
// enrollment roster, max attempts cap.
func (s *Service) Start(userID, quizID uint) (*models.QuizAttempt, bool, error) {
	qz, err := s.store.GetQuiz(quizID)
	if err != nil {
		return nil, false, err
	}

	if qz.Status != models.QuizStatusActive {
		return nil, false, ErrInvalidState
	}

	now := s.now()
	if qz.StartTime != nil && now.Before(*qz.StartTime) {
		return nil, false, ErrNotYetAvailable
	}
	if qz.EndTime != nil && now.After(*qz.EndTime) {
		return nil, false, ErrExpired
	}

	// A quiz with any roster rows is restricted to that roster
	rosterSize, err := s.store.CountEnrollments(quizID)
	if err != nil {
		return nil, false, err
	}
	if rosterSize > 0 {
		enrolled, err := s.store.IsEnrolled(quizID, userID)
		if err != nil {
			return nil, false, err
		}
		if !enrolled {
			return nil, false, ErrForbidden
		}
	}

	if qz.MaxAttempts != nil {
		attemptCount, err := s.store.CountAttempts(quizID, userID)
		if err != nil {
			return nil, false, err
		}
		if attemptCount >= int64(*qz.MaxAttempts) {
			return nil, false, ErrAttemptsExhausted
		}
	}

	// Idempotent resume: an in-progress attempt is returned unchanged,
	// keeping its timer and answers.
	if attempt, err := s.store.ActiveAttempt(quizID, userID); err == nil {
		return attempt, true, nil
	} else if err != ErrAttemptNotFound {
		return nil, false, err
	}

	totalPoints, err := s.totalPoints(quizID)
	if err != nil {
		return nil, false, err
	}

	// A prior submitted attempt is reset in place; totals are recomputed
	// because quiz content may have changed since the last attempt.
	latest, err := s.store.LatestAttempt(quizID, userID)
	if err == nil {
		latest.Status = models.AttemptInProgress
		latest.StartedAt = now
		latest.SubmittedAt = nil
		latest.Score = nil
		latest.TimeTaken = nil
		latest.TotalPoints = &totalPoints
		if err := s.store.SaveAttempt(latest); err != nil {
			return nil, false, err
		}
		return latest, false, nil
	}
	if err != ErrAttemptNotFound {
		return nil, false, err
	}

	attempt := &models.QuizAttempt{
		UserID:      userID,
		QuizID:      quizID,
		Status:      models.AttemptInProgress,
		StartedAt:   now,
		TotalPoints: &totalPoints,
	}
	if err := s.store.CreateAttempt(attempt); err != nil {
		// A concurrent Start may have won the unique-index race; the
		// surviving attempt is the one to resume.
		if existing, aerr := s.store.ActiveAttempt(quizID, userID); aerr == nil {
			return existing, true, nil
		}
		return nil, false, err
	}
	return attempt, false, nil
}

// Active returns the user's IN_PROGRESS attempt for a quiz, or
// ErrAttemptNotFound.
func (s *Service) Active(userID, quizID uint) (*models.QuizAttempt, error) {
	return s.store.ActiveAttempt(quizID, userID)
}

// AttemptQuestions returns the quiz's questions in presentation order for an
// attempt. With RandomOrder set on the quiz the order is shuffled, seeded by
// the attempt id so repeated fetches of the same attempt see a stable order.
func (s *Service) AttemptQuestions(attempt *models.QuizAttempt) ([]models.QuizQuestion, error) {
	qz, err := s.store.GetQuiz(attempt.QuizID)
	if err != nil {
		return nil, err
	}

	questions, err := s.store.QuizQuestions(attempt.QuizID)
	if err != nil {
		return nil, err
	}

	if qz.RandomOrder {
		rnd := rand.New(rand.NewSource(int64(attempt.ID)))
		rnd.Shuffle(len(questions), func(i, j int) {
			questions[i], questions[j] = questions[j], questions[i]
		})
	}
	return questions, nil
}

// RecordAnswer evaluates and upserts the user's answer to one question of
// their IN_PROGRESS attempt. Recording the same question again overwrites the
// previous answer. The attempt's score is untouched; it is computed at
// submission.
func (s *Service) RecordAnswer(userID, quizID, questionID uint, rawAnswer string) (*models.QuizAnswer, error) {
	attempt, err := s.store.ActiveAttempt(quizID, userID)
	if err != nil {
		if err == ErrAttemptNotFound {
			return nil, ErrInvalidState
		}
		return nil, err
	}

	answer, err := s.evaluate(attempt, quizID, questionID, rawAnswer, s.store)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpsertAnswer(answer); err != nil {
		return nil, err
	}
	return answer, nil
}

// Submit closes the user's IN_PROGRESS attempt. finalAnswers carries
// client-buffered answers not yet flushed through RecordAnswer; they are
// applied with the same upsert before scoring. The whole submission runs in
// one transaction so a failure cannot leave a half-submitted attempt.
// autoSubmit marks timer-driven submissions and does not alter scoring.
func (s *Service) Submit(userID, quizID uint, finalAnswers map[uint]string, autoSubmit bool) (*models.QuizAttempt, error) {
	var submitted *models.QuizAttempt

	err := s.store.InTransaction(func(tx Store) error {
		attempt, err := tx.ActiveAttempt(quizID, userID)
		if err != nil {
			if err == ErrAttemptNotFound {
				return ErrInvalidState
			}
			return err
		}

		qz, err := tx.GetQuiz(quizID)
		if err != nil {
			return err
		}

		for questionID, rawAnswer := range finalAnswers {
			if rawAnswer == "" {
				continue
			}
			answer, err := s.evaluate(attempt, quizID, questionID, rawAnswer, tx)
			if err != nil {
				// Answers for questions no longer on the quiz are dropped
				if err == ErrInvalidState || err == ErrQuestionNotFound {
					continue
				}
				return err
			}
			if err := tx.UpsertAnswer(answer); err != nil {
				return err
			}
		}

		answers, err := tx.AttemptAnswers(attempt.ID)
		if err != nil {
			return err
		}

		questions, err := tx.QuizQuestions(quizID)
		if err != nil {
			return err
		}
		var totalPoints float64
		for _, qq := range questions {
			totalPoints += qq.Points
		}

		now := s.now()
		score := AggregateScore(answers, qz.NegativeMarking, qz.NegativePoints)
		timeTaken := int(now.Sub(attempt.StartedAt).Seconds())

		attempt.Status = models.AttemptSubmitted
		attempt.SubmittedAt = &now
		attempt.Score = &score
		attempt.TotalPoints = &totalPoints
		attempt.TimeTaken = &timeTaken
		if err := tx.SaveAttempt(attempt); err != nil {
			return err
		}
		submitted = attempt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return submitted, nil
}

// ExpireOverdue auto-submits IN_PROGRESS attempts whose quiz time limit has
// elapsed. It returns how many attempts were closed.
func (s *Service) ExpireOverdue() (int, error) {
	overdue, err := s.store.OverdueAttempts(s.now())
	if err != nil {
		return 0, err
	}

	closed := 0
	for _, attempt := range overdue {
		if _, err := s.Submit(attempt.UserID, attempt.QuizID, nil, true); err != nil {
			// Another request may have submitted it in the meantime
			if err == ErrInvalidState {
				continue
			}
			return closed, err
		}
		closed++
	}
	return closed, nil
}

// evaluate builds an answer row for (attempt, question) against the
// quiz-question's configured points, failing when the question is not
// assigned to the quiz.
func (s *Service) evaluate(attempt *models.QuizAttempt, quizID, questionID uint, rawAnswer string, store Store) (*models.QuizAnswer, error) {
	qq, err := store.GetQuizQuestion(quizID, questionID)
	if err != nil {
		if err == ErrQuestionNotFound {
			return nil, ErrInvalidState
		}
		return nil, err
	}

	question, err := store.GetQuestion(questionID)
	if err != nil {
		return nil, err
	}

	isCorrect := EvaluateAnswer(question.CorrectAnswer, rawAnswer)
	return &models.QuizAnswer{
		AttemptID:    attempt.ID,
		QuestionID:   questionID,
		UserAnswer:   rawAnswer,
		IsCorrect:    isCorrect,
		PointsEarned: PointsFor(isCorrect, qq.Points),
	}, nil
}

func (s *Service) totalPoints(quizID uint) (float64, error) {
	questions, err := s.store.QuizQuestions(quizID)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, qq := range questions {
		total += qq.Points
	}
	return total, nil
}
