package quiz

import (
	"sync"
	"testing"
	"time"

	"atomq/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func intPtr(v int) *int { return &v }

// newQuizFixture seeds a store with one active quiz holding two one-point
// multiple choice questions and returns (store, quiz, user).
func newQuizFixture(t *testing.T) (*MemoryStore, *models.Quiz, *models.User) {
	t.Helper()
	store := NewMemoryStore()

	user := store.AddUser(&models.User{Name: "Alice", Email: "alice@example.com"})
	qz := store.AddQuiz(&models.Quiz{Title: "Capitals", Status: models.QuizStatusActive})

	q1 := store.AddQuestion(&models.Question{
		Model: gorm.Model{ID: 101},
		Title: "Capital of France", Type: models.QuestionMultipleChoice, CorrectAnswer: "Paris",
	})
	q2 := store.AddQuestion(&models.Question{
		Model: gorm.Model{ID: 102},
		Title: "Capital of Japan", Type: models.QuestionMultipleChoice, CorrectAnswer: "Tokyo",
	})
	store.AttachQuestion(qz.ID, q1.ID, 1, 1)
	store.AttachQuestion(qz.ID, q2.ID, 2, 1)

	return store, qz, user
}

func TestStartCreatesAttempt(t *testing.T) {
	store, qz, user := newQuizFixture(t)
	service := NewService(store)

	attempt, resumed, err := service.Start(user.ID, qz.ID)
	require.NoError(t, err)
	assert.False(t, resumed)
	assert.Equal(t, models.AttemptInProgress, attempt.Status)
	require.NotNil(t, attempt.TotalPoints)
	assert.Equal(t, 2.0, *attempt.TotalPoints)
	assert.Nil(t, attempt.Score)
	assert.Nil(t, attempt.SubmittedAt)
}

func TestStartIsIdempotentWhileInProgress(t *testing.T) {
	store, qz, user := newQuizFixture(t)
	service := NewService(store)

	first, _, err := service.Start(user.ID, qz.ID)
	require.NoError(t, err)

	second, resumed, err := service.Start(user.ID, qz.ID)
	require.NoError(t, err)
	assert.True(t, resumed)
	assert.Equal(t, first.ID, second.ID)
	// Resuming must not reset the timer
	assert.Equal(t, first.StartedAt.Unix(), second.StartedAt.Unix())
}

func TestStartQuizNotFound(t *testing.T) {
	store, _, user := newQuizFixture(t)
	service := NewService(store)

	_, _, err := service.Start(user.ID, 999)
	assert.ErrorIs(t, err, ErrQuizNotFound)
}

func TestStartInactiveQuiz(t *testing.T) {
	store, qz, user := newQuizFixture(t)
	qz.Status = models.QuizStatusDraft
	store.AddQuiz(qz)
	service := NewService(store)

	_, _, err := service.Start(user.ID, qz.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestStartRespectsAvailabilityWindow(t *testing.T) {
	store, qz, user := newQuizFixture(t)
	service := NewService(store)

	future := time.Now().Add(time.Hour)
	qz.StartTime = &future
	store.AddQuiz(qz)
	_, _, err := service.Start(user.ID, qz.ID)
	assert.ErrorIs(t, err, ErrNotYetAvailable)

	past := time.Now().Add(-time.Hour)
	qz.StartTime = nil
	qz.EndTime = &past
	store.AddQuiz(qz)
	_, _, err = service.Start(user.ID, qz.ID)
	assert.ErrorIs(t, err, ErrExpired)

	// Inside the window the start goes through
	qz.StartTime = &past
	qz.EndTime = &future
	store.AddQuiz(qz)
	_, _, err = service.Start(user.ID, qz.ID)
	assert.NoError(t, err)
}

func TestStartEnforcesRoster(t *testing.T) {
	store, qz, user := newQuizFixture(t)
	other := store.AddUser(&models.User{Name: "Bob", Email: "bob@example.com"})
	store.Enroll(qz.ID, other.ID)
	service := NewService(store)

	_, _, err := service.Start(user.ID, qz.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, _, err = service.Start(other.ID, qz.ID)
	assert.NoError(t, err)
}

func TestStartEnforcesMaxAttempts(t *testing.T) {
	store, qz, user := newQuizFixture(t)
	qz.MaxAttempts = intPtr(1)
	store.AddQuiz(qz)
	service := NewService(store)

	_, _, err := service.Start(user.ID, qz.ID)
	require.NoError(t, err)
	_, err = service.Submit(user.ID, qz.ID, nil, false)
	require.NoError(t, err)

	_, _, err = service.Start(user.ID, qz.ID)
	assert.ErrorIs(t, err, ErrAttemptsExhausted)
}

func TestStartResetsSubmittedAttemptInPlace(t *testing.T) {
	store, qz, user := newQuizFixture(t)
	service := NewService(store)

	first, _, err := service.Start(user.ID, qz.ID)
	require.NoError(t, err)
	_, err = service.RecordAnswer(user.ID, qz.ID, 101, "Paris")
	require.NoError(t, err)
	submitted, err := service.Submit(user.ID, qz.ID, nil, false)
	require.NoError(t, err)
	require.NotNil(t, submitted.Score)

	restarted, resumed, err := service.Start(user.ID, qz.ID)
	require.NoError(t, err)
	assert.False(t, resumed)
	// Same row, cleared back to a fresh in-progress state
	assert.Equal(t, first.ID, restarted.ID)
	assert.Equal(t, models.AttemptInProgress, restarted.Status)
	assert.Nil(t, restarted.Score)
	assert.Nil(t, restarted.TimeTaken)
	assert.Nil(t, restarted.SubmittedAt)
	require.NotNil(t, restarted.TotalPoints)
	assert.Equal(t, 2.0, *restarted.TotalPoints)
	assert.True(t, restarted.StartedAt.After(submitted.StartedAt) || restarted.StartedAt.Equal(submitted.StartedAt))
}

func TestRecordAnswerUpserts(t *testing.T) {
	store, qz, user := newQuizFixture(t)
	service := NewService(store)

	attempt, _, err := service.Start(user.ID, qz.ID)
	require.NoError(t, err)

	first, err := service.RecordAnswer(user.ID, qz.ID, 101, "London")
	require.NoError(t, err)
	assert.False(t, first.IsCorrect)
	assert.Equal(t, 0.0, first.PointsEarned)

	// Answering the same question again overwrites, not duplicates
	second, err := service.RecordAnswer(user.ID, qz.ID, 101, " paris ")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.IsCorrect)
	assert.Equal(t, 1.0, second.PointsEarned)

	answers, err := store.AttemptAnswers(attempt.ID)
	require.NoError(t, err)
	assert.Len(t, answers, 1)
}

func TestRecordAnswerRequiresActiveAttempt(t *testing.T) {
	store, qz, user := newQuizFixture(t)
	service := NewService(store)

	_, err := service.RecordAnswer(user.ID, qz.ID, 101, "Paris")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestRecordAnswerRejectsQuestionNotOnQuiz(t *testing.T) {
	store, qz, user := newQuizFixture(t)
	stray := store.AddQuestion(&models.Question{
		Title: "Stray", Type: models.QuestionFillInBlank, CorrectAnswer: "x",
	})
	service := NewService(store)

	_, _, err := service.Start(user.ID, qz.ID)
	require.NoError(t, err)

	_, err = service.RecordAnswer(user.ID, qz.ID, stray.ID, "x")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestSubmitScoresAndCloses(t *testing.T) {
	store, qz, user := newQuizFixture(t)
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	clock := start
	service := NewServiceWithClock(store, func() time.Time { return clock })

	_, _, err := service.Start(user.ID, qz.ID)
	require.NoError(t, err)
	_, err = service.RecordAnswer(user.ID, qz.ID, 101, "Paris")
	require.NoError(t, err)

	clock = start.Add(95 * time.Second)
	// Second question answered through the final-answers buffer
	attempt, err := service.Submit(user.ID, qz.ID, map[uint]string{102: "Kyoto"}, false)
	require.NoError(t, err)

	assert.Equal(t, models.AttemptSubmitted, attempt.Status)
	require.NotNil(t, attempt.Score)
	assert.Equal(t, 1.0, *attempt.Score)
	require.NotNil(t, attempt.TotalPoints)
	assert.Equal(t, 2.0, *attempt.TotalPoints)
	require.NotNil(t, attempt.TimeTaken)
	assert.Equal(t, 95, *attempt.TimeTaken)
	require.NotNil(t, attempt.SubmittedAt)
	assert.Equal(t, clock, *attempt.SubmittedAt)
}

func TestSubmitAppliesNegativeMarking(t *testing.T) {
	store, qz, user := newQuizFixture(t)
	qz.NegativeMarking = true
	qz.NegativePoints = 0.5
	store.AddQuiz(qz)
	service := NewService(store)

	_, _, err := service.Start(user.ID, qz.ID)
	require.NoError(t, err)

	attempt, err := service.Submit(user.ID, qz.ID, map[uint]string{101: "Paris", 102: "Kyoto"}, false)
	require.NoError(t, err)
	require.NotNil(t, attempt.Score)
	assert.Equal(t, 0.5, *attempt.Score)
}

func TestSubmitSkipsEmptyAndUnknownFinalAnswers(t *testing.T) {
	store, qz, user := newQuizFixture(t)
	service := NewService(store)

	attempt, _, err := service.Start(user.ID, qz.ID)
	require.NoError(t, err)

	_, err = service.Submit(user.ID, qz.ID, map[uint]string{
		101: "Paris",
		102: "",    // blank answers are not recorded
		999: "???", // not on the quiz, dropped
	}, false)
	require.NoError(t, err)

	answers, err := store.AttemptAnswers(attempt.ID)
	require.NoError(t, err)
	assert.Len(t, answers, 1)
}

func TestSubmitIsTerminal(t *testing.T) {
	store, qz, user := newQuizFixture(t)
	service := NewService(store)

	_, _, err := service.Start(user.ID, qz.ID)
	require.NoError(t, err)
	_, err = service.Submit(user.ID, qz.ID, nil, false)
	require.NoError(t, err)

	_, err = service.Submit(user.ID, qz.ID, nil, false)
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = service.RecordAnswer(user.ID, qz.ID, 101, "Paris")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestAttemptQuestionsRandomOrderIsStable(t *testing.T) {
	store := NewMemoryStore()
	user := store.AddUser(&models.User{Name: "Alice", Email: "alice@example.com"})
	qz := store.AddQuiz(&models.Quiz{Title: "Shuffled", Status: models.QuizStatusActive, RandomOrder: true})
	for i := 0; i < 8; i++ {
		q := store.AddQuestion(&models.Question{
			Title: "Q", Type: models.QuestionFillInBlank, CorrectAnswer: "x",
		})
		store.AttachQuestion(qz.ID, q.ID, i+1, 1)
	}
	service := NewService(store)

	attempt, _, err := service.Start(user.ID, qz.ID)
	require.NoError(t, err)

	first, err := service.AttemptQuestions(attempt)
	require.NoError(t, err)
	second, err := service.AttemptQuestions(attempt)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].QuestionID, second[i].QuestionID)
	}
}

func TestStartConcurrentKeepsSingleAttempt(t *testing.T) {
	store, qz, user := newQuizFixture(t)
	service := NewService(store)

	type startResult struct {
		id  uint
		err error
	}

	const callers = 16
	results := make(chan startResult, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			attempt, _, err := service.Start(user.ID, qz.ID)
			if err != nil {
				results <- startResult{err: err}
				return
			}
			results <- startResult{id: attempt.ID}
		}()
	}
	wg.Wait()
	close(results)

	var first uint
	for result := range results {
		require.NoError(t, result.err)
		if first == 0 {
			first = result.id
		}
		assert.Equal(t, first, result.id)
	}
	assert.NotZero(t, first)

	count, err := store.CountAttempts(qz.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

// racingCreateStore interposes on CreateAttempt to slip a rival IN_PROGRESS
// attempt in just before the insert, forcing the uniqueness violation a
// concurrent Start would produce.
type racingCreateStore struct {
	*MemoryStore
	raced bool
	rival *models.QuizAttempt
}

func (r *racingCreateStore) CreateAttempt(attempt *models.QuizAttempt) error {
	if !r.raced {
		r.raced = true
		rival := &models.QuizAttempt{
			UserID:    attempt.UserID,
			QuizID:    attempt.QuizID,
			Status:    models.AttemptInProgress,
			StartedAt: attempt.StartedAt,
		}
		if err := r.MemoryStore.CreateAttempt(rival); err != nil {
			return err
		}
		r.rival = rival
	}
	return r.MemoryStore.CreateAttempt(attempt)
}

func TestStartRecoversFromCreateRace(t *testing.T) {
	base, qz, user := newQuizFixture(t)
	store := &racingCreateStore{MemoryStore: base}
	service := NewService(store)

	attempt, resumed, err := service.Start(user.ID, qz.ID)
	require.NoError(t, err)
	require.NotNil(t, store.rival)
	// The attempt that won the race is the one handed back, as a resume
	assert.True(t, resumed)
	assert.Equal(t, store.rival.ID, attempt.ID)

	count, err := base.CountAttempts(qz.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMemoryStoreRejectsDuplicateInProgress(t *testing.T) {
	store, qz, user := newQuizFixture(t)

	first := &models.QuizAttempt{
		UserID: user.ID, QuizID: qz.ID, Status: models.AttemptInProgress, StartedAt: time.Now(),
	}
	require.NoError(t, store.CreateAttempt(first))

	second := &models.QuizAttempt{
		UserID: user.ID, QuizID: qz.ID, Status: models.AttemptInProgress, StartedAt: time.Now(),
	}
	assert.Error(t, store.CreateAttempt(second))
}

func TestExpireOverdueAutoSubmits(t *testing.T) {
	store, qz, user := newQuizFixture(t)
	qz.TimeLimit = intPtr(10)
	store.AddQuiz(qz)

	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	clock := start
	service := NewServiceWithClock(store, func() time.Time { return clock })

	attempt, _, err := service.Start(user.ID, qz.ID)
	require.NoError(t, err)
	_, err = service.RecordAnswer(user.ID, qz.ID, 101, "Paris")
	require.NoError(t, err)

	// Still within the limit: nothing to close
	clock = start.Add(5 * time.Minute)
	closed, err := service.ExpireOverdue()
	require.NoError(t, err)
	assert.Equal(t, 0, closed)

	clock = start.Add(11 * time.Minute)
	closed, err = service.ExpireOverdue()
	require.NoError(t, err)
	assert.Equal(t, 1, closed)

	final, err := store.LatestAttempt(qz.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, attempt.ID, final.ID)
	assert.Equal(t, models.AttemptSubmitted, final.Status)
	require.NotNil(t, final.Score)
	assert.Equal(t, 1.0, *final.Score)

	// Sweeping again finds nothing
	closed, err = service.ExpireOverdue()
	require.NoError(t, err)
	assert.Equal(t, 0, closed)
}
