package quiz

import "errors"

// Errors returned by Session. All of them indicate caller misuse.
var (
	// Construction errors
	ErrNoQuestions       = errors.New("quiz has no questions")
	ErrInvalidQuestion   = errors.New("invalid question")
	ErrInvalidTimeBudget = errors.New("time budget must be positive")

	// Operation errors
	ErrInvalidAnswerIndex     = errors.New("answer index out of range")
	ErrQuestionAlreadyLocked  = errors.New("question already locked")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrNotComplete            = errors.New("quiz is not complete")
)
