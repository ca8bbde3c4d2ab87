// Package quiz scores quiz attempts and keeps assignment bookkeeping.
package quiz

import (
	"math"
	"sort"
	"strings"

	"github.com/okian/linguist/internal/domain/model"
)

const multiSelectSep = "|"

// Result is the outcome of scoring one attempt.
type Result struct {
	Score       float64               `json:"score"`
	TotalPoints float64               `json:"total_points"`
	Percentage  int                   `json:"percentage"`
	Passed      bool                  `json:"passed"`
	PerQuestion []model.AttemptAnswer `json:"per_question"`
}

// Score grades answers (question id -> submitted value) against the
// answer key. Unanswered questions count toward the total and score zero.
func Score(q model.Quiz, questions []model.Question, answers map[string]string) Result {
	ordered := Ordered(questions)
	res := Result{PerQuestion: make([]model.AttemptAnswer, 0, len(ordered))}
	for _, question := range ordered {
		res.TotalPoints += question.Points
		given := answers[question.ID]
		ok := IsCorrect(question, given)
		aa := model.AttemptAnswer{QuestionID: question.ID, Answer: given, Correct: ok}
		if ok {
			aa.PointsAwarded = question.Points
			res.Score += question.Points
		}
		res.PerQuestion = append(res.PerQuestion, aa)
	}
	res.Percentage = Percentage(res.Score, res.TotalPoints)
	res.Passed = res.Percentage >= q.PassingScore
	return res
}

// Percentage is round(score/total*100), or 0 when total is not positive.
func Percentage(score, total float64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(score / total * 100))
}

// IsMultiSelect reports whether the question takes a set of answers.
func IsMultiSelect(q model.Question) bool {
	return q.QuestionType == model.QuestionMultiSelect || strings.Contains(q.CorrectAnswer, multiSelectSep)
}

// IsCorrect checks one answer. Single answers compare exactly and are
// case sensitive. Multi-select answers must match the full set in any order.
func IsCorrect(q model.Question, given string) bool {
	if IsMultiSelect(q) {
		want, got := tokens(q.CorrectAnswer), tokens(given)
		if len(want) == 0 || len(want) != len(got) {
			return false
		}
		for i := range want {
			if want[i] != got[i] {
				return false
			}
		}
		return true
	}
	return given != "" && given == q.CorrectAnswer
}

// tokens splits a pipe-delimited set into sorted unique trimmed values.
func tokens(s string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range strings.Split(s, multiSelectSep) {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Ordered returns questions sorted by Order, then id, without touching the input.
func Ordered(questions []model.Question) []model.Question {
	out := append([]model.Question(nil), questions...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out
}
