package quality

import (
	"github.com/okian/linguist/internal/domain/model"
)

// Summary is the per-freelancer rollup of eligible reports.
type Summary struct {
	AvgLQA        *float64 `json:"avg_lqa"`
	AvgQS         *float64 `json:"avg_qs"`
	CombinedScore *float64 `json:"combined_score"`
	LQACount      int      `json:"lqa_count"`
	QSCount       int      `json:"qs_count"`
	Eligible      int      `json:"eligible_reports"`
}

// Eligible reports whether a report in this status counts toward rollups.
func Eligible(s model.ReportStatus) bool {
	return s == model.StatusFinalized || s == model.StatusTranslatorAccepted
}

// Aggregate averages LQA and QS scores over finalized or accepted reports
// and blends them with CombinedScore.
func Aggregate(reports []model.QualityReport, s Settings) Summary {
	var out Summary
	var lqaSum, qsSum float64
	for _, r := range reports {
		if !Eligible(r.Status) {
			continue
		}
		out.Eligible++
		if r.LQAScore != nil {
			lqaSum += *r.LQAScore
			out.LQACount++
		}
		if r.QSScore != nil {
			qsSum += *r.QSScore
			out.QSCount++
		}
	}
	if out.LQACount > 0 {
		out.AvgLQA = ptr(lqaSum / float64(out.LQACount))
	}
	if out.QSCount > 0 {
		out.AvgQS = ptr(qsSum / float64(out.QSCount))
	}
	out.CombinedScore = CombinedScore(out.AvgLQA, out.AvgQS, s)
	return out
}

// CombinedScore blends an LQA average (0..100) with a QS average (0..5).
// QS is scaled by QSMultiplier before blending. Nil when neither exists.
func CombinedScore(avgLQA, avgQS *float64, s Settings) *float64 {
	s = s.WithDefaults()
	switch {
	case avgLQA != nil && avgQS != nil:
		v := (*avgLQA*s.LQAWeight + *avgQS*s.QSMultiplier) / (s.LQAWeight + 1)
		return &v
	case avgLQA != nil:
		v := *avgLQA
		return &v
	case avgQS != nil:
		v := *avgQS * s.QSMultiplier
		return &v
	default:
		return nil
	}
}

// ReportScore is the combined score of a single report, used on detail views.
func ReportScore(r model.QualityReport, s Settings) *float64 {
	return CombinedScore(r.LQAScore, r.QSScore, s)
}

func ptr(v float64) *float64 { return &v }
