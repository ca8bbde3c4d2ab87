package quiz

import (
	"fmt"
	"strings"

	"github.com/okian/linguist/internal/domain/model"
)

// ValidateQuiz checks authoring constraints on a quiz.
func ValidateQuiz(q model.Quiz) error {
	if strings.TrimSpace(q.Title) == "" {
		return fmt.Errorf("title: %w", ErrInvalidQuiz)
	}
	if q.PassingScore < 0 || q.PassingScore > 100 {
		return fmt.Errorf("passing_score %d: %w", q.PassingScore, ErrInvalidQuiz)
	}
	if q.TimeLimitMinutes < 0 {
		return fmt.Errorf("time_limit_minutes %d: %w", q.TimeLimitMinutes, ErrInvalidQuiz)
	}
	return nil
}

// ValidateQuestion checks that the answer key is usable.
func ValidateQuestion(q model.Question) error {
	if strings.TrimSpace(q.QuestionText) == "" {
		return fmt.Errorf("question_text: %w", ErrInvalidQuestion)
	}
	if q.Points <= 0 {
		return fmt.Errorf("points %v: %w", q.Points, ErrInvalidQuestion)
	}
	if strings.TrimSpace(q.CorrectAnswer) == "" {
		return fmt.Errorf("correct_answer: %w", ErrInvalidQuestion)
	}
	switch q.QuestionType {
	case model.QuestionTrueFalse:
		if q.CorrectAnswer != "True" && q.CorrectAnswer != "False" &&
			q.CorrectAnswer != "true" && q.CorrectAnswer != "false" {
			return fmt.Errorf("true_false answer %q: %w", q.CorrectAnswer, ErrInvalidQuestion)
		}
	case model.QuestionMultipleChoice, model.QuestionMultiSelect:
		if len(q.Options) == 0 {
			return nil
		}
		opts := make(map[string]struct{}, len(q.Options))
		for _, o := range q.Options {
			opts[strings.TrimSpace(o)] = struct{}{}
		}
		want := []string{q.CorrectAnswer}
		if IsMultiSelect(q) {
			want = tokens(q.CorrectAnswer)
		}
		for _, w := range want {
			if _, ok := opts[strings.TrimSpace(w)]; !ok {
				return fmt.Errorf("answer %q not among options: %w", w, ErrInvalidQuestion)
			}
		}
	default:
		return fmt.Errorf("question_type %q: %w", q.QuestionType, ErrInvalidQuestion)
	}
	return nil
}
