package quiz

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"atomq/models"
)

// MemoryStore is an in-memory Store used by tests. Composite-key maps give
// the same upsert-by-(attempt,question) and (quiz,question) semantics the
// database enforces with unique indexes.
type MemoryStore struct {
	mu sync.Mutex

	users         map[uint]*models.User
	quizzes       map[uint]*models.Quiz
	questions     map[uint]*models.Question
	quizQuestions map[string]*models.QuizQuestion
	enrollments   map[string]*models.QuizUser
	attempts      map[uint]*models.QuizAttempt
	answers       map[string]*models.QuizAnswer

	nextID uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:         make(map[uint]*models.User),
		quizzes:       make(map[uint]*models.Quiz),
		questions:     make(map[uint]*models.Question),
		quizQuestions: make(map[string]*models.QuizQuestion),
		enrollments:   make(map[string]*models.QuizUser),
		attempts:      make(map[uint]*models.QuizAttempt),
		answers:       make(map[string]*models.QuizAnswer),
	}
}

func compositeKey(a, b uint) string {
	return fmt.Sprintf("%d:%d", a, b)
}

func (m *MemoryStore) nextIDLocked() uint {
	m.nextID++
	return m.nextID
}

// AddUser seeds a user for tests
func (m *MemoryStore) AddUser(user *models.User) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID == 0 {
		user.ID = m.nextIDLocked()
	}
	m.users[user.ID] = user
	return user
}

// AddQuiz seeds a quiz for tests
func (m *MemoryStore) AddQuiz(qz *models.Quiz) *models.Quiz {
	m.mu.Lock()
	defer m.mu.Unlock()
	if qz.ID == 0 {
		qz.ID = m.nextIDLocked()
	}
	m.quizzes[qz.ID] = qz
	return qz
}

// AddQuestion seeds a bank question for tests
func (m *MemoryStore) AddQuestion(q *models.Question) *models.Question {
	m.mu.Lock()
	defer m.mu.Unlock()
	if q.ID == 0 {
		q.ID = m.nextIDLocked()
	}
	m.questions[q.ID] = q
	return q
}

// AttachQuestion binds a question to a quiz with order and points
func (m *MemoryStore) AttachQuestion(quizID, questionID uint, order int, points float64) *models.QuizQuestion {
	m.mu.Lock()
	defer m.mu.Unlock()
	qq := &models.QuizQuestion{QuizID: quizID, QuestionID: questionID, Order: order, Points: points}
	qq.ID = m.nextIDLocked()
	m.quizQuestions[compositeKey(quizID, questionID)] = qq
	return qq
}

// Enroll puts a user on a quiz roster
func (m *MemoryStore) Enroll(quizID, userID uint) *models.QuizUser {
	m.mu.Lock()
	defer m.mu.Unlock()
	qu := &models.QuizUser{QuizID: quizID, UserID: userID}
	qu.ID = m.nextIDLocked()
	m.enrollments[compositeKey(quizID, userID)] = qu
	return qu
}

func (m *MemoryStore) GetQuiz(quizID uint) (*models.Quiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	qz, ok := m.quizzes[quizID]
	if !ok {
		return nil, ErrQuizNotFound
	}
	copied := *qz
	return &copied, nil
}

func (m *MemoryStore) QuizQuestions(quizID uint) ([]models.QuizQuestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []models.QuizQuestion
	for _, qq := range m.quizQuestions {
		if qq.QuizID != quizID {
			continue
		}
		copied := *qq
		if question, ok := m.questions[qq.QuestionID]; ok {
			copied.Question = *question
		}
		result = append(result, copied)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Order < result[j].Order })
	return result, nil
}

func (m *MemoryStore) GetQuestion(questionID uint) (*models.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.questions[questionID]
	if !ok {
		return nil, ErrQuestionNotFound
	}
	copied := *q
	return &copied, nil
}

func (m *MemoryStore) GetQuizQuestion(quizID, questionID uint) (*models.QuizQuestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	qq, ok := m.quizQuestions[compositeKey(quizID, questionID)]
	if !ok {
		return nil, ErrQuestionNotFound
	}
	copied := *qq
	return &copied, nil
}

func (m *MemoryStore) CountEnrollments(quizID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, qu := range m.enrollments {
		if qu.QuizID == quizID {
			count++
		}
	}
	return count, nil
}

func (m *MemoryStore) IsEnrolled(quizID, userID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.enrollments[compositeKey(quizID, userID)]
	return ok, nil
}

func (m *MemoryStore) Enrollments(quizID uint) ([]models.QuizUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []models.QuizUser
	for _, qu := range m.enrollments {
		if qu.QuizID != quizID {
			continue
		}
		copied := *qu
		if user, ok := m.users[qu.UserID]; ok {
			copied.User = *user
		}
		result = append(result, copied)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return result, nil
}

func (m *MemoryStore) CountAttempts(quizID, userID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, attempt := range m.attempts {
		if attempt.QuizID == quizID && attempt.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (m *MemoryStore) ActiveAttempt(quizID, userID uint) (*models.QuizAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, attempt := range m.attempts {
		if attempt.QuizID == quizID && attempt.UserID == userID && attempt.Status == models.AttemptInProgress {
			copied := *attempt
			return &copied, nil
		}
	}
	return nil, ErrAttemptNotFound
}

func (m *MemoryStore) LatestAttempt(quizID, userID uint) (*models.QuizAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *models.QuizAttempt
	for _, attempt := range m.attempts {
		if attempt.QuizID != quizID || attempt.UserID != userID {
			continue
		}
		if latest == nil || attempt.CreatedAt.After(latest.CreatedAt) {
			latest = attempt
		}
	}
	if latest == nil {
		return nil, ErrAttemptNotFound
	}
	copied := *latest
	return &copied, nil
}

func (m *MemoryStore) CreateAttempt(attempt *models.QuizAttempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	// Mirror the database's partial unique index on IN_PROGRESS attempts
	for _, existing := range m.attempts {
		if existing.QuizID == attempt.QuizID && existing.UserID == attempt.UserID &&
			existing.Status == models.AttemptInProgress && attempt.Status == models.AttemptInProgress {
			return fmt.Errorf("duplicate in-progress attempt for user %d quiz %d", attempt.UserID, attempt.QuizID)
		}
	}
	attempt.ID = m.nextIDLocked()
	attempt.CreatedAt = time.Now()
	copied := *attempt
	m.attempts[attempt.ID] = &copied
	return nil
}

func (m *MemoryStore) SaveAttempt(attempt *models.QuizAttempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.attempts[attempt.ID]; !ok {
		return ErrAttemptNotFound
	}
	copied := *attempt
	m.attempts[attempt.ID] = &copied
	return nil
}

func (m *MemoryStore) QuizAttempts(quizID uint) ([]models.QuizAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []models.QuizAttempt
	for _, attempt := range m.attempts {
		if attempt.QuizID != quizID {
			continue
		}
		copied := *attempt
		if user, ok := m.users[attempt.UserID]; ok {
			copied.User = *user
		}
		result = append(result, copied)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MemoryStore) SubmittedAttempts(filter AttemptFilter) ([]models.QuizAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []models.QuizAttempt
	for _, attempt := range m.attempts {
		if attempt.Status != models.AttemptSubmitted {
			continue
		}
		if filter.QuizID != 0 && attempt.QuizID != filter.QuizID {
			continue
		}
		qz := m.quizzes[attempt.QuizID]
		if filter.Difficulty != "" && (qz == nil || qz.Difficulty != filter.Difficulty) {
			continue
		}
		if filter.Since != nil && (attempt.SubmittedAt == nil || attempt.SubmittedAt.Before(*filter.Since)) {
			continue
		}
		copied := *attempt
		if user, ok := m.users[attempt.UserID]; ok {
			copied.User = *user
		}
		if qz != nil {
			copied.Quiz = *qz
		}
		result = append(result, copied)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MemoryStore) OverdueAttempts(now time.Time) ([]models.QuizAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []models.QuizAttempt
	for _, attempt := range m.attempts {
		if attempt.Status != models.AttemptInProgress {
			continue
		}
		qz := m.quizzes[attempt.QuizID]
		if qz == nil || qz.TimeLimit == nil {
			continue
		}
		deadline := attempt.StartedAt.Add(time.Duration(*qz.TimeLimit) * time.Minute)
		if now.After(deadline) {
			copied := *attempt
			result = append(result, copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MemoryStore) AttemptAnswers(attemptID uint) ([]models.QuizAnswer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []models.QuizAnswer
	for _, answer := range m.answers {
		if answer.AttemptID == attemptID {
			result = append(result, *answer)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].QuestionID < result[j].QuestionID })
	return result, nil
}

func (m *MemoryStore) UpsertAnswer(answer *models.QuizAnswer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := compositeKey(answer.AttemptID, answer.QuestionID)
	if existing, ok := m.answers[key]; ok {
		existing.UserAnswer = answer.UserAnswer
		existing.IsCorrect = answer.IsCorrect
		existing.PointsEarned = answer.PointsEarned
		answer.ID = existing.ID
		return nil
	}
	answer.ID = m.nextIDLocked()
	copied := *answer
	m.answers[key] = &copied
	return nil
}

func (m *MemoryStore) CountWrongAnswers(attemptID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, answer := range m.answers {
		if answer.AttemptID == attemptID && !answer.IsCorrect {
			count++
		}
	}
	return count, nil
}

// InTransaction runs fn against the store itself; the in-memory double does
// not implement rollback, which is fine for the unit tests it serves.
func (m *MemoryStore) InTransaction(fn func(Store) error) error {
	return fn(m)
}
