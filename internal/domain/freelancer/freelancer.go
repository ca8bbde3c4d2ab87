// Package freelancer holds pipeline-stage rules and the cost-effectiveness
// ranking derived from quality scores and rates.
package freelancer

import (
	"errors"
	"fmt"
	"math"
	"net/mail"
	"sort"
	"strings"

	"github.com/okian/linguist/internal/domain/model"
)

// Sentinel errors.
var (
	ErrUnknownStage = errors.New("unknown pipeline stage")
	ErrInvalid      = errors.New("invalid freelancer")
)

// Stages lists the pipeline in display order.
var Stages = []model.Stage{
	model.StageNewApplication,
	model.StageFormSent,
	model.StagePriceNegotiation,
	model.StageTestSent,
	model.StageApproved,
	model.StageOnHold,
	model.StageRejected,
	model.StageRedFlag,
}

// ParseStage matches a stage name case-insensitively.
func ParseStage(s string) (model.Stage, error) {
	want := strings.TrimSpace(s)
	for _, st := range Stages {
		if strings.EqualFold(string(st), want) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownStage)
}

// Validate checks the fields a new freelancer record needs.
func Validate(f model.Freelancer) error {
	if strings.TrimSpace(f.FullName) == "" {
		return fmt.Errorf("full_name: %w", ErrInvalid)
	}
	if _, err := mail.ParseAddress(f.Email); err != nil {
		return fmt.Errorf("email %q: %w", f.Email, ErrInvalid)
	}
	for _, r := range f.Rates {
		if r.Amount < 0 || math.IsNaN(r.Amount) {
			return fmt.Errorf("rate %s/%s: %w", r.Service, r.Unit, ErrInvalid)
		}
	}
	return nil
}

// ValueIndex is round((q^2 / (rate*100)) * 100) / 100. Quality is
// rewarded quadratically and rate penalised linearly. Nil when either
// input is not positive.
func ValueIndex(qualityScore, rate float64) *float64 {
	if qualityScore <= 0 || rate <= 0 || math.IsNaN(qualityScore) || math.IsNaN(rate) {
		return nil
	}
	v := math.Round((qualityScore*qualityScore/(rate*100))*100) / 100
	if math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// PrimaryRate is the lowest positive per-word rate, falling back to the
// lowest positive rate of any unit.
func PrimaryRate(f model.Freelancer) (float64, bool) {
	best, fallback := math.Inf(1), math.Inf(1)
	for _, r := range f.Rates {
		if r.Amount <= 0 {
			continue
		}
		if r.Amount < fallback {
			fallback = r.Amount
		}
		if strings.EqualFold(r.Unit, "word") && r.Amount < best {
			best = r.Amount
		}
	}
	switch {
	case !math.IsInf(best, 1):
		return best, true
	case !math.IsInf(fallback, 1):
		return fallback, true
	default:
		return 0, false
	}
}

// Rescore sets QualityScore and ValueIndex from a combined score.
func Rescore(f model.Freelancer, combined *float64) model.Freelancer {
	f.QualityScore = combined
	f.ValueIndex = nil
	if combined == nil {
		return f
	}
	if rate, ok := PrimaryRate(f); ok {
		f.ValueIndex = ValueIndex(*combined, rate)
	}
	return f
}

// Rank orders by value index desc, then quality desc, then id asc.
// Freelancers without a value index sort last.
func Rank(fs []model.Freelancer) []model.Freelancer {
	out := append([]model.Freelancer(nil), fs...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if c := cmpDesc(a.ValueIndex, b.ValueIndex); c != 0 {
			return c < 0
		}
		if c := cmpDesc(a.QualityScore, b.QualityScore); c != 0 {
			return c < 0
		}
		return a.ID < b.ID
	})
	return out
}

// cmpDesc orders present values high to low with nil last.
func cmpDesc(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a > *b:
		return -1
	case *a < *b:
		return 1
	}
	return 0
}
