package quiz

import "errors"

// Sentinel errors for quiz authoring and attempts.
var (
	ErrInvalidQuestion = errors.New("invalid question")
	ErrInvalidQuiz     = errors.New("invalid quiz")
	ErrInactiveQuiz    = errors.New("quiz is not active")
	ErrNoQuestions     = errors.New("quiz has no questions")
	ErrAlreadyDone     = errors.New("assignment already completed")
)
