package quiz

import (
	"sort"
	"time"

	"atomq/models"
)

// Leaderboard time windows
const (
	WindowAll   = "all"
	WindowToday = "today"
	WindowWeek  = "week"
	WindowMonth = "month"
)

// UserSummary is the slice of user fields exposed by read projections.
type UserSummary struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

// LeaderboardEntry is one ranked row of submitted attempts.
type LeaderboardEntry struct {
	Rank           int         `json:"rank"`
	AttemptID      uint        `json:"attempt_id"`
	User           UserSummary `json:"user"`
	Score          float64     `json:"score"`
	TotalPoints    float64     `json:"total_points"`
	TimeTaken      int         `json:"time_taken"`
	SubmittedAt    time.Time   `json:"submitted_at"`
	QuizTitle      string      `json:"quiz_title"`
	QuizDifficulty string      `json:"quiz_difficulty"`
}

// ResultRow is one user's line in the admin result matrix. Numeric fields are
// nil for users who have not started.
type ResultRow struct {
	AttemptID   *uint       `json:"attempt_id"`
	User        UserSummary `json:"user"`
	Status      string      `json:"status"`
	Score       *float64    `json:"score"`
	TimeTaken   *int        `json:"time_taken"`
	Errors      *int64      `json:"errors"`
	SubmittedAt *time.Time  `json:"submitted_at"`
}

// Aggregator builds read-only projections over submitted attempts.
type Aggregator struct {
	store Store
	now   func() time.Time
}

func NewAggregator(store Store) *Aggregator {
	return &Aggregator{store: store, now: time.Now}
}

// NewAggregatorWithClock allows deterministic time windows in tests.
func NewAggregatorWithClock(store Store, now func() time.Time) *Aggregator {
	return &Aggregator{store: store, now: now}
}

// Leaderboard ranks submitted attempts by score descending, then time taken
// ascending, then submission time ascending. quizID 0 and empty difficulty
// mean no filter; window is one of the Window constants; limit 0 means no cap.
func (a *Aggregator) Leaderboard(quizID uint, difficulty, window string, limit int) ([]LeaderboardEntry, error) {
	filter := AttemptFilter{QuizID: quizID, Difficulty: difficulty}
	if since := a.windowStart(window); since != nil {
		filter.Since = since
	}

	attempts, err := a.store.SubmittedAttempts(filter)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(attempts, func(i, j int) bool {
		si, sj := deref(attempts[i].Score), deref(attempts[j].Score)
		if si != sj {
			return si > sj
		}
		ti, tj := derefInt(attempts[i].TimeTaken), derefInt(attempts[j].TimeTaken)
		if ti != tj {
			return ti < tj
		}
		return submittedTime(&attempts[i]).Before(submittedTime(&attempts[j]))
	})

	if limit > 0 && len(attempts) > limit {
		attempts = attempts[:limit]
	}

	entries := make([]LeaderboardEntry, 0, len(attempts))
	for i := range attempts {
		attempt := &attempts[i]
		entries = append(entries, LeaderboardEntry{
			Rank:           i + 1,
			AttemptID:      attempt.ID,
			User:           summarize(&attempt.User),
			Score:          deref(attempt.Score),
			TotalPoints:    deref(attempt.TotalPoints),
			TimeTaken:      derefInt(attempt.TimeTaken),
			SubmittedAt:    submittedTime(attempt),
			QuizTitle:      attempt.Quiz.Title,
			QuizDifficulty: attempt.Quiz.Difficulty,
		})
	}
	return entries, nil
}

// ResultMatrix produces one row per user who is either on the quiz roster or
// has an attempt. Rostered users without an attempt appear as NOT_STARTED;
// users with neither are excluded.
func (a *Aggregator) ResultMatrix(quizID uint) ([]ResultRow, error) {
	if _, err := a.store.GetQuiz(quizID); err != nil {
		return nil, err
	}

	enrollments, err := a.store.Enrollments(quizID)
	if err != nil {
		return nil, err
	}
	attempts, err := a.store.QuizAttempts(quizID)
	if err != nil {
		return nil, err
	}

	// Latest attempt per user; attempts are normally reset in place so a
	// user has at most one row, but dedupe defensively by recency.
	latestByUser := make(map[uint]*models.QuizAttempt)
	for i := range attempts {
		attempt := &attempts[i]
		if prev, ok := latestByUser[attempt.UserID]; !ok || attempt.CreatedAt.After(prev.CreatedAt) {
			latestByUser[attempt.UserID] = attempt
		}
	}

	rows := make([]ResultRow, 0, len(enrollments)+len(attempts))
	seen := make(map[uint]bool)

	appendRow := func(user UserSummary, attempt *models.QuizAttempt) error {
		if seen[user.ID] {
			return nil
		}
		seen[user.ID] = true

		if attempt == nil {
			rows = append(rows, ResultRow{User: user, Status: models.AttemptNotStarted})
			return nil
		}

		errorCount, err := a.store.CountWrongAnswers(attempt.ID)
		if err != nil {
			return err
		}
		attemptID := attempt.ID
		rows = append(rows, ResultRow{
			AttemptID:   &attemptID,
			User:        user,
			Status:      attempt.Status,
			Score:       attempt.Score,
			TimeTaken:   attempt.TimeTaken,
			Errors:      &errorCount,
			SubmittedAt: attempt.SubmittedAt,
		})
		return nil
	}

	for i := range enrollments {
		enrollment := &enrollments[i]
		if err := appendRow(summarize(&enrollment.User), latestByUser[enrollment.UserID]); err != nil {
			return nil, err
		}
	}
	for i := range attempts {
		attempt := &attempts[i]
		if err := appendRow(summarize(&attempt.User), latestByUser[attempt.UserID]); err != nil {
			return nil, err
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].User.Name != rows[j].User.Name {
			return rows[i].User.Name < rows[j].User.Name
		}
		return rows[i].User.ID < rows[j].User.ID
	})
	return rows, nil
}

func (a *Aggregator) windowStart(window string) *time.Time {
	now := a.now()
	var since time.Time
	switch window {
	case WindowToday:
		since = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case WindowWeek:
		since = now.AddDate(0, 0, -7)
	case WindowMonth:
		since = now.AddDate(0, -1, 0)
	default:
		return nil
	}
	return &since
}

func summarize(user *models.User) UserSummary {
	return UserSummary{ID: user.ID, Name: user.Name, Email: user.Email, Avatar: user.Avatar}
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func submittedTime(attempt *models.QuizAttempt) time.Time {
	if attempt.SubmittedAt != nil {
		return *attempt.SubmittedAt
	}
	return attempt.CreatedAt
}
