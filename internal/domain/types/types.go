// Package types holds the read shapes shared by the service and the HTTP API.
package types

import (
	"github.com/okian/linguist/internal/domain/model"
	"github.com/okian/linguist/internal/domain/quality"
)

// ReportView is a report with its derived fields computed on read.
type ReportView struct {
	model.QualityReport
	CombinedScore *float64 `json:"combined_score"`
	Overdue       bool     `json:"overdue"`
}

// AssignmentView is an assignment with the derived overdue flag.
type AssignmentView struct {
	model.QuizAssignment
	Overdue bool `json:"overdue"`
}

// QuizView is a quiz with its ordered questions. Answer keys are blanked
// for callers that may take the quiz.
type QuizView struct {
	model.Quiz
	Questions   []model.Question `json:"questions"`
	TotalPoints float64          `json:"total_points"`
}

// QualityView is a freelancer's quality rollup.
type QualityView struct {
	FreelancerID string  `json:"freelancer_id"`
	quality.Summary
	ValueIndex *float64 `json:"value_index"`
}

// RankingEntry is one row of the cost-effectiveness ranking.
type RankingEntry struct {
	Rank         int      `json:"rank"`
	FreelancerID string   `json:"freelancer_id"`
	FullName     string   `json:"full_name"`
	QualityScore *float64 `json:"quality_score"`
	ValueIndex   *float64 `json:"value_index"`
	Rate         *float64 `json:"rate"`
}

// AttemptResult is returned after submitting a quiz attempt.
type AttemptResult struct {
	model.QuizAttempt
	Duplicate bool `json:"duplicate"`
}
