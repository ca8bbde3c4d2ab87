package seed

import "errors"

var (
	// ErrEmptyBank is returned when the bank holds no quizzes.
	ErrEmptyBank = errors.New("quiz bank is empty")
	// ErrLoadBank wraps failures reading or parsing the bank file.
	ErrLoadBank = errors.New("failed to load quiz bank")
	// ErrRequest is returned for non-2xx API responses.
	ErrRequest = errors.New("api request failed")
	// ErrSeed is returned when at least one quiz could not be published.
	ErrSeed = errors.New("seeding incomplete")
)
