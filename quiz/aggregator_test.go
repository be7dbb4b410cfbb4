package quiz

import (
	"testing"
	"time"

	"atomq/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func addSubmittedAttempt(t *testing.T, store *MemoryStore, userID, quizID uint, score float64, timeTaken int, submittedAt time.Time) *models.QuizAttempt {
	t.Helper()
	attempt := &models.QuizAttempt{
		UserID:      userID,
		QuizID:      quizID,
		Status:      models.AttemptSubmitted,
		StartedAt:   submittedAt.Add(-time.Duration(timeTaken) * time.Second),
		SubmittedAt: &submittedAt,
		Score:       floatPtr(score),
		TotalPoints: floatPtr(100),
		TimeTaken:   &timeTaken,
	}
	require.NoError(t, store.CreateAttempt(attempt))
	return attempt
}

func TestLeaderboardOrdering(t *testing.T) {
	store := NewMemoryStore()
	qz := store.AddQuiz(&models.Quiz{Title: "Ranked", Status: models.QuizStatusActive, Difficulty: models.DifficultyMedium})
	u1 := store.AddUser(&models.User{Name: "Alice", Email: "alice@example.com"})
	u2 := store.AddUser(&models.User{Name: "Bob", Email: "bob@example.com"})
	u3 := store.AddUser(&models.User{Name: "Cara", Email: "cara@example.com"})

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	addSubmittedAttempt(t, store, u1.ID, qz.ID, 80, 120, base)
	addSubmittedAttempt(t, store, u2.ID, qz.ID, 80, 100, base.Add(time.Minute))
	addSubmittedAttempt(t, store, u3.ID, qz.ID, 90, 50, base.Add(2*time.Minute))

	aggregator := NewAggregator(store)
	entries, err := aggregator.Leaderboard(qz.ID, "", WindowAll, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Highest score first, faster time breaks the tie
	assert.Equal(t, "Cara", entries[0].User.Name)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "Bob", entries[1].User.Name)
	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, "Alice", entries[2].User.Name)
	assert.Equal(t, 3, entries[2].Rank)
}

func TestLeaderboardSubmittedAtBreaksFullTie(t *testing.T) {
	store := NewMemoryStore()
	qz := store.AddQuiz(&models.Quiz{Title: "Ranked", Status: models.QuizStatusActive})
	u1 := store.AddUser(&models.User{Name: "Late", Email: "late@example.com"})
	u2 := store.AddUser(&models.User{Name: "Early", Email: "early@example.com"})

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	addSubmittedAttempt(t, store, u1.ID, qz.ID, 70, 60, base.Add(time.Hour))
	addSubmittedAttempt(t, store, u2.ID, qz.ID, 70, 60, base)

	entries, err := NewAggregator(store).Leaderboard(qz.ID, "", WindowAll, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Early", entries[0].User.Name)
	assert.Equal(t, "Late", entries[1].User.Name)
}

func TestLeaderboardFilters(t *testing.T) {
	store := NewMemoryStore()
	easy := store.AddQuiz(&models.Quiz{Title: "Easy", Status: models.QuizStatusActive, Difficulty: models.DifficultyEasy})
	hard := store.AddQuiz(&models.Quiz{Title: "Hard", Status: models.QuizStatusActive, Difficulty: models.DifficultyHard})
	user := store.AddUser(&models.User{Name: "Alice", Email: "alice@example.com"})

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	addSubmittedAttempt(t, store, user.ID, easy.ID, 50, 30, now.Add(-2*time.Hour))
	addSubmittedAttempt(t, store, user.ID, hard.ID, 60, 40, now.Add(-10*24*time.Hour))

	aggregator := NewAggregatorWithClock(store, func() time.Time { return now })

	byQuiz, err := aggregator.Leaderboard(easy.ID, "", WindowAll, 0)
	require.NoError(t, err)
	require.Len(t, byQuiz, 1)
	assert.Equal(t, "Easy", byQuiz[0].QuizTitle)

	byDifficulty, err := aggregator.Leaderboard(0, models.DifficultyHard, WindowAll, 0)
	require.NoError(t, err)
	require.Len(t, byDifficulty, 1)
	assert.Equal(t, "Hard", byDifficulty[0].QuizTitle)

	// The 10-day-old attempt falls outside the week window
	thisWeek, err := aggregator.Leaderboard(0, "", WindowWeek, 0)
	require.NoError(t, err)
	require.Len(t, thisWeek, 1)
	assert.Equal(t, "Easy", thisWeek[0].QuizTitle)

	// Only the attempt from after midnight counts as today
	today, err := aggregator.Leaderboard(0, "", WindowToday, 0)
	require.NoError(t, err)
	require.Len(t, today, 1)

	limited, err := aggregator.Leaderboard(0, "", WindowAll, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestResultMatrix(t *testing.T) {
	store := NewMemoryStore()
	qz := store.AddQuiz(&models.Quiz{Title: "Graded", Status: models.QuizStatusActive})
	enrolledDone := store.AddUser(&models.User{Name: "Alice", Email: "alice@example.com"})
	enrolledIdle := store.AddUser(&models.User{Name: "Bob", Email: "bob@example.com"})
	walkIn := store.AddUser(&models.User{Name: "Cara", Email: "cara@example.com"})

	store.Enroll(qz.ID, enrolledDone.ID)
	store.Enroll(qz.ID, enrolledIdle.ID)

	submittedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	done := addSubmittedAttempt(t, store, enrolledDone.ID, qz.ID, 75, 90, submittedAt)
	require.NoError(t, store.UpsertAnswer(&models.QuizAnswer{AttemptID: done.ID, QuestionID: 1, IsCorrect: true, PointsEarned: 1}))
	require.NoError(t, store.UpsertAnswer(&models.QuizAnswer{AttemptID: done.ID, QuestionID: 2, IsCorrect: false}))
	require.NoError(t, store.UpsertAnswer(&models.QuizAnswer{AttemptID: done.ID, QuestionID: 3, IsCorrect: false}))

	// Not on the roster but attempted anyway (roster added after the fact)
	walkInAttempt := addSubmittedAttempt(t, store, walkIn.ID, qz.ID, 40, 30, submittedAt.Add(time.Hour))

	rows, err := NewAggregator(store).ResultMatrix(qz.ID)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Rows come back sorted by user name
	alice, bob, cara := rows[0], rows[1], rows[2]

	assert.Equal(t, "Alice", alice.User.Name)
	assert.Equal(t, models.AttemptSubmitted, alice.Status)
	require.NotNil(t, alice.AttemptID)
	assert.Equal(t, done.ID, *alice.AttemptID)
	require.NotNil(t, alice.Score)
	assert.Equal(t, 75.0, *alice.Score)
	require.NotNil(t, alice.Errors)
	assert.Equal(t, int64(2), *alice.Errors)

	// Enrolled but never started: virtual NOT_STARTED row with no numbers
	assert.Equal(t, "Bob", bob.User.Name)
	assert.Equal(t, models.AttemptNotStarted, bob.Status)
	assert.Nil(t, bob.AttemptID)
	assert.Nil(t, bob.Score)
	assert.Nil(t, bob.Errors)

	assert.Equal(t, "Cara", cara.User.Name)
	require.NotNil(t, cara.AttemptID)
	assert.Equal(t, walkInAttempt.ID, *cara.AttemptID)
}

func TestResultMatrixQuizNotFound(t *testing.T) {
	store := NewMemoryStore()
	_, err := NewAggregator(store).ResultMatrix(42)
	assert.ErrorIs(t, err, ErrQuizNotFound)
}
