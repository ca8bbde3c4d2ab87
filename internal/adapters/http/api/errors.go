package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/linguist/internal/adapters/mq/queue"
	"github.com/okian/linguist/internal/adapters/repository"
	service "github.com/okian/linguist/internal/app"
	"github.com/okian/linguist/internal/domain/freelancer"
	"github.com/okian/linguist/internal/domain/quality"
	"github.com/okian/linguist/internal/domain/quiz"
)

// Sentinel kinds for API errors.
var (
	ErrServe        = errors.New("http serve failed")
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBackpressure = errors.New("backpressure")
)

// Error tags an underlying error with the handler op and a kind sentinel.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Kind != nil:
		return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
}

// Unwrap exposes both the kind and the cause to errors.Is.
func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// Wrap tags err with op.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// WrapKind tags err with op and kind.
func WrapKind(op string, kind, err error) error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// NewKind builds an error that is only a kind.
func NewKind(op string, kind error) error {
	return &Error{Op: op, Kind: kind}
}

type errorClass struct {
	status int
	code   string
}

// classes is checked in order; the first match wins.
var classes = []struct {
	target error
	class  errorClass
}{
	{ErrUnauthorized, errorClass{http.StatusUnauthorized, "unauthorized"}},
	{ErrBadRequest, errorClass{http.StatusBadRequest, "bad_request"}},
	{ErrBackpressure, errorClass{http.StatusTooManyRequests, "backpressure"}},
	{queue.ErrFull, errorClass{http.StatusTooManyRequests, "backpressure"}},

	{service.ErrForbidden, errorClass{http.StatusForbidden, "forbidden"}},
	{quality.ErrForbidden, errorClass{http.StatusForbidden, "forbidden"}},

	{repository.ErrNotFound, errorClass{http.StatusNotFound, "not_found"}},

	{quality.ErrInvalidTransition, errorClass{http.StatusConflict, "invalid_transition"}},
	{repository.ErrConflict, errorClass{http.StatusConflict, "conflict"}},
	{service.ErrInFlight, errorClass{http.StatusConflict, "in_flight"}},
	{quiz.ErrInactiveQuiz, errorClass{http.StatusConflict, "quiz_inactive"}},
	{quiz.ErrNoQuestions, errorClass{http.StatusConflict, "quiz_empty"}},

	{quality.ErrUnknownAction, errorClass{http.StatusBadRequest, "unknown_action"}},
	{quality.ErrCommentsRequired, errorClass{http.StatusBadRequest, "comments_required"}},
	{quality.ErrMissingScore, errorClass{http.StatusBadRequest, "missing_score"}},
	{quality.ErrScoreOutOfRange, errorClass{http.StatusBadRequest, "score_out_of_range"}},
	{quality.ErrInvalidSettings, errorClass{http.StatusBadRequest, "invalid_settings"}},
	{quiz.ErrInvalidQuiz, errorClass{http.StatusBadRequest, "invalid_quiz"}},
	{quiz.ErrInvalidQuestion, errorClass{http.StatusBadRequest, "invalid_question"}},
	{freelancer.ErrUnknownStage, errorClass{http.StatusBadRequest, "unknown_stage"}},
	{freelancer.ErrInvalid, errorClass{http.StatusBadRequest, "invalid_freelancer"}},
	{repository.ErrInvalidID, errorClass{http.StatusBadRequest, "bad_request"}},
	{service.ErrInvalidInput, errorClass{http.StatusBadRequest, "bad_request"}},

	{service.ErrNotStarted, errorClass{http.StatusServiceUnavailable, "unavailable"}},
}

// classify maps an error to an HTTP status and a stable code.
func classify(err error) (int, string) {
	for _, c := range classes {
		if errors.Is(err, c.target) {
			return c.class.status, c.class.code
		}
	}
	return http.StatusInternalServerError, "internal_error"
}
