package quality

import (
	"fmt"
	"math"

	"github.com/okian/linguist/internal/domain/model"
)

const (
	maxLQA      = 100.0
	maxQS       = 5.0
	wordsPerLQA = 1000.0
)

// severityPoints is the penalty charged for one error of each severity.
var severityPoints = map[model.Severity]float64{
	model.SeverityCritical:     10,
	model.SeverityMajor:        5,
	model.SeverityMinor:        1,
	model.SeverityPreferential: 0,
}

// PenaltyPoints sums severity points over an error table.
func PenaltyPoints(errs []model.LQAError) float64 {
	var total float64
	for _, e := range errs {
		if e.Count <= 0 {
			continue
		}
		total += severityPoints[e.Severity] * float64(e.Count)
	}
	return total
}

// LQAScoreFromErrors derives an LQA score from an error table, normalised
// per thousand reviewed words and clamped to 0..100. Nil without words.
func LQAScoreFromErrors(errs []model.LQAError, wordsReviewed int) *float64 {
	if wordsReviewed <= 0 {
		return nil
	}
	score := maxLQA - PenaltyPoints(errs)*wordsPerLQA/float64(wordsReviewed)
	score = math.Max(0, math.Min(maxLQA, score))
	score = math.Round(score*100) / 100
	return &score
}

// ValidateScores checks score ranges and severities.
func ValidateScores(r model.QualityReport) error {
	if r.LQAScore != nil && (*r.LQAScore < 0 || *r.LQAScore > maxLQA || math.IsNaN(*r.LQAScore)) {
		return fmt.Errorf("lqa_score %v: %w", *r.LQAScore, ErrScoreOutOfRange)
	}
	if r.QSScore != nil && (*r.QSScore < 0 || *r.QSScore > maxQS || math.IsNaN(*r.QSScore)) {
		return fmt.Errorf("qs_score %v: %w", *r.QSScore, ErrScoreOutOfRange)
	}
	for _, e := range r.LQAErrors {
		if _, ok := severityPoints[e.Severity]; !ok {
			return fmt.Errorf("severity %q: %w", e.Severity, ErrScoreOutOfRange)
		}
	}
	return nil
}

// Breakdown counts errors across eligible reports.
type Breakdown struct {
	BySeverity  map[model.Severity]int `json:"by_severity"`
	ByErrorType map[string]int         `json:"by_error_type"`
	Reports     int                    `json:"reports"`
	Words       int                    `json:"words_reviewed"`
}

// ErrorBreakdown tallies LQA errors per severity and per error type.
func ErrorBreakdown(reports []model.QualityReport) Breakdown {
	b := Breakdown{
		BySeverity:  make(map[model.Severity]int),
		ByErrorType: make(map[string]int),
	}
	for _, r := range reports {
		if !Eligible(r.Status) {
			continue
		}
		b.Reports++
		b.Words += r.LQAWordsReviewed
		for _, e := range r.LQAErrors {
			if e.Count <= 0 {
				continue
			}
			b.BySeverity[e.Severity] += e.Count
			b.ByErrorType[e.ErrorType] += e.Count
		}
	}
	return b
}
