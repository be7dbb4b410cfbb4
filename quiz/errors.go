package quiz

import "errors"

// Domain errors returned by the lifecycle service and aggregator. Controllers
// map these to HTTP statuses; anything else is an internal error.
var (
	// ErrQuizNotFound indicates the quiz does not exist.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuestionNotFound indicates the question does not exist.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrAttemptNotFound indicates no attempt row exists for the lookup.
	ErrAttemptNotFound = errors.New("attempt not found")
	// ErrInvalidState is returned when an operation is attempted from a state
	// that does not permit it, e.g. answering with no IN_PROGRESS attempt.
	ErrInvalidState = errors.New("operation not allowed in current state")
	// ErrForbidden is returned when the quiz has an enrollment roster and the
	// user is not on it.
	ErrForbidden = errors.New("you don't have access to this quiz")
	// ErrNotYetAvailable is returned when the quiz start time is in the future.
	ErrNotYetAvailable = errors.New("quiz has not started yet")
	// ErrExpired is returned when the quiz end time is in the past.
	ErrExpired = errors.New("quiz has expired")
	// ErrAttemptsExhausted is returned when the max attempts cap is reached.
	ErrAttemptsExhausted = errors.New("maximum attempts reached")
	// ErrValidation is returned for malformed quiz/question input.
	ErrValidation = errors.New("validation error")
)
