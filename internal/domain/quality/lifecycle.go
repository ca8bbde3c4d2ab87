package quality

import (
	"fmt"
	"strings"
	"time"

	"github.com/okian/linguist/internal/domain/access"
	"github.com/okian/linguist/internal/domain/model"
)

// Action is a lifecycle verb applied to a QualityReport.
type Action string

// Report actions.
const (
	ActionSubmit   Action = "submit"
	ActionAccept   Action = "accept"
	ActionDispute  Action = "dispute"
	ActionReview   Action = "review"
	ActionFinalize Action = "finalize"
	ActionImport   Action = "import"
)

// ParseAction validates a client-supplied action name.
func ParseAction(s string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := transitions[a]; !ok {
		return "", fmt.Errorf("%q: %w", s, ErrUnknownAction)
	}
	return a, nil
}

type rule struct {
	from    []model.ReportStatus
	to      model.ReportStatus
	allowed func(model.User, model.QualityReport) bool
}

// transitions is the full lifecycle table. Anything absent is invalid.
var transitions = map[Action]rule{
	ActionSubmit: {
		from:    []model.ReportStatus{model.StatusDraft},
		to:      model.StatusPendingTranslatorReview,
		allowed: func(u model.User, _ model.QualityReport) bool { return access.CanManageReports(u) },
	},
	ActionAccept: {
		from:    []model.ReportStatus{model.StatusPendingTranslatorReview, model.StatusSubmitted},
		to:      model.StatusTranslatorAccepted,
		allowed: access.CanReviewAsTranslator,
	},
	ActionDispute: {
		from:    []model.ReportStatus{model.StatusPendingTranslatorReview, model.StatusSubmitted},
		to:      model.StatusTranslatorDisputed,
		allowed: access.CanReviewAsTranslator,
	},
	ActionReview: {
		from:    []model.ReportStatus{model.StatusTranslatorDisputed},
		to:      model.StatusPendingFinalReview,
		allowed: func(u model.User, _ model.QualityReport) bool { return access.CanFinalizeReports(u) },
	},
	ActionFinalize: {
		from:    []model.ReportStatus{model.StatusTranslatorDisputed, model.StatusPendingFinalReview},
		to:      model.StatusFinalized,
		allowed: func(u model.User, _ model.QualityReport) bool { return access.CanFinalizeReports(u) },
	},
	ActionImport: {
		from:    []model.ReportStatus{model.StatusDraft},
		to:      model.StatusFinalized,
		allowed: func(u model.User, _ model.QualityReport) bool { return access.CanFinalizeReports(u) },
	},
}

// CanTransition reports whether action is legal from status, ignoring the actor.
func CanTransition(from model.ReportStatus, action Action) bool {
	r, ok := transitions[action]
	if !ok {
		return false
	}
	for _, s := range r.from {
		if s == from {
			return true
		}
	}
	return false
}

// Transition applies action to a copy of r and returns it. The input is
// never mutated. Checks run in order: legality, actor, comments, scores.
func Transition(r model.QualityReport, action Action, actor model.User, comments string, s Settings, now time.Time) (model.QualityReport, error) {
	rl, ok := transitions[action]
	if !ok {
		return r, fmt.Errorf("%q: %w", action, ErrUnknownAction)
	}
	if !CanTransition(r.Status, action) {
		return r, fmt.Errorf("%s from %s: %w", action, r.Status, ErrInvalidTransition)
	}
	if !rl.allowed(actor, r) {
		return r, fmt.Errorf("%s by %s: %w", action, actor.Role, ErrForbidden)
	}
	comments = strings.TrimSpace(comments)
	if action == ActionDispute && comments == "" {
		return r, ErrCommentsRequired
	}
	if r.Status == model.StatusDraft && !r.HasScore() {
		return r, ErrMissingScore
	}

	s = s.WithDefaults()
	now = now.UTC()
	next := r
	next.Status = rl.to
	next.UpdatedAt = now

	switch action {
	case ActionSubmit:
		deadline := now.AddDate(0, 0, s.DisputePeriodDays)
		next.SubmissionDate = &now
		next.ReviewDeadline = &deadline
	case ActionAccept:
		next.FinalizationDate = &now
		if comments != "" {
			next.TranslatorComments = comments
		}
	case ActionDispute:
		next.TranslatorComments = comments
	case ActionReview:
		if comments != "" {
			next.FinalReviewerComments = comments
		}
	case ActionFinalize, ActionImport:
		next.FinalizationDate = &now
		if comments != "" {
			next.FinalReviewerComments = comments
		}
	}
	return next, nil
}

// AwaitingTranslator reports whether the translator still owes a response.
func AwaitingTranslator(s model.ReportStatus) bool {
	return s == model.StatusPendingTranslatorReview || s == model.StatusSubmitted
}

// IsReviewOverdue reports whether the translator missed the review
// deadline. It is derived on read and never stored.
func IsReviewOverdue(r model.QualityReport, now time.Time) bool {
	return AwaitingTranslator(r.Status) && r.ReviewDeadline != nil && now.After(*r.ReviewDeadline)
}
