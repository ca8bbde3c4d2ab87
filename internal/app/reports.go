package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/okian/linguist/internal/adapters/repository"
	"github.com/okian/linguist/internal/domain/access"
	"github.com/okian/linguist/internal/domain/model"
	"github.com/okian/linguist/internal/domain/quality"
	"github.com/okian/linguist/internal/domain/types"
	"github.com/okian/linguist/pkg/logger"
	"github.com/okian/linguist/pkg/metrics"
)

// ReportFilter narrows ListReports.
type ReportFilter struct {
	FreelancerID string
	Status       model.ReportStatus
}

// CreateReport stores a new draft report. LQA reports with an error table
// but no explicit score get one derived from the errors.
func (s *Service) CreateReport(ctx context.Context, actor model.User, in model.QualityReport) (types.ReportView, error) {
	if !access.CanManageReports(actor) {
		return types.ReportView{}, forbidden("create report")
	}
	if in.ReportType != model.ReportLQA && in.ReportType != model.ReportQS {
		return types.ReportView{}, invalid("report_type %q", in.ReportType)
	}
	if in.ReportType == model.ReportLQA && in.LQAScore == nil && len(in.LQAErrors) > 0 {
		in.LQAScore = quality.LQAScoreFromErrors(in.LQAErrors, in.LQAWordsReviewed)
	}
	if err := quality.ValidateScores(in); err != nil {
		return types.ReportView{}, err
	}

	f, err := s.freelancers.Get(ctx, in.FreelancerID)
	if err != nil {
		return types.ReportView{}, err
	}

	now := s.now().UTC()
	r := model.QualityReport{
		ID:               s.newID(),
		FreelancerID:     f.ID,
		FreelancerEmail:  f.Email,
		ReportType:       in.ReportType,
		LQAScore:         in.LQAScore,
		QSScore:          in.QSScore,
		LQAErrors:        in.LQAErrors,
		LQAWordsReviewed: in.LQAWordsReviewed,
		Status:           model.StatusDraft,
		ReviewerComments: strings.TrimSpace(in.ReviewerComments),
		ProjectName:      in.ProjectName,
		ClientName:       in.ClientName,
		SourceLanguage:   in.SourceLanguage,
		TargetLanguage:   in.TargetLanguage,
		CreatedBy:        actor.Email,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.reports.Create(ctx, &r); err != nil {
		return types.ReportView{}, err
	}
	metrics.RecordReportCreated(string(r.ReportType))
	s.logger.Info(ctx, "report created",
		logger.String("report_id", r.ID),
		logger.String("freelancer_id", r.FreelancerID),
		logger.String("type", string(r.ReportType)),
	)
	return s.view(ctx, r), nil
}

// GetReport returns a report with its combined score and overdue flag.
func (s *Service) GetReport(ctx context.Context, actor model.User, id string) (types.ReportView, error) {
	r, err := s.reports.Get(ctx, id)
	if err != nil {
		return types.ReportView{}, err
	}
	if !access.CanViewReport(actor, r) {
		return types.ReportView{}, forbidden("view report")
	}
	return s.view(ctx, r), nil
}

// ListReports returns reports visible to actor, newest first.
func (s *Service) ListReports(ctx context.Context, actor model.User, f ReportFilter) ([]types.ReportView, error) {
	criteria := repository.Criteria{}
	if f.FreelancerID != "" {
		criteria["freelancer_id"] = f.FreelancerID
	}
	if f.Status != "" {
		if !f.Status.Valid() {
			return nil, invalid("status %q", f.Status)
		}
		criteria["status"] = f.Status
	}
	if !access.IsStaff(actor) {
		criteria["freelancer_email"] = strings.ToLower(strings.TrimSpace(actor.Email))
	}

	rs, err := s.reports.Find(ctx, repository.Query{Match: criteria, Sort: repository.NewestFirst})
	if err != nil {
		return nil, err
	}
	qs := s.currentSettings(ctx)
	now := s.now()
	out := make([]types.ReportView, 0, len(rs))
	for _, r := range rs {
		if !access.CanViewReport(actor, r) {
			continue
		}
		out = append(out, viewWith(r, qs, now))
	}
	return out, nil
}

// TransitionReport applies a lifecycle action and persists the result.
func (s *Service) TransitionReport(ctx context.Context, actor model.User, id, action, comments string) (types.ReportView, error) {
	a, err := quality.ParseAction(action)
	if err != nil {
		return types.ReportView{}, err
	}
	if a == quality.ActionDispute && strings.TrimSpace(comments) == "" {
		metrics.RecordTransitionRejected(string(a), "comments_required")
		return types.ReportView{}, quality.ErrCommentsRequired
	}

	r, err := s.reports.Get(ctx, id)
	if err != nil {
		return types.ReportView{}, err
	}
	qs := s.currentSettings(ctx)
	next, err := quality.Transition(r, a, actor, comments, qs, s.now())
	if err != nil {
		metrics.RecordTransitionRejected(string(a), rejectReason(err))
		return types.ReportView{}, err
	}
	if err := s.reports.Save(ctx, next); err != nil {
		return types.ReportView{}, err
	}
	metrics.RecordReportTransition(string(a), string(next.Status))
	s.logger.Info(ctx, "report transitioned",
		logger.String("report_id", id),
		logger.String("action", string(a)),
		logger.String("from", string(r.Status)),
		logger.String("to", string(next.Status)),
		logger.String("actor", actor.Email),
	)

	switch a {
	case quality.ActionSubmit:
		s.enqueueBestEffort(ctx, notifyJob(TopicReportSubmittedJob, next.ID, ""))
	case quality.ActionDispute:
		s.enqueueBestEffort(ctx, notifyJob(TopicDisputeRaisedJob, next.ID, ""))
	}
	return viewWith(next, qs, s.now()), nil
}

// FreelancerQuality aggregates a freelancer's eligible reports.
func (s *Service) FreelancerQuality(ctx context.Context, actor model.User, freelancerID string) (types.QualityView, error) {
	f, err := s.freelancers.Get(ctx, freelancerID)
	if err != nil {
		return types.QualityView{}, err
	}
	if !access.CanViewFreelancer(actor, f) {
		return types.QualityView{}, forbidden("view freelancer quality")
	}
	rs, err := s.reports.Filter(ctx, repository.Criteria{"freelancer_id": freelancerID})
	if err != nil {
		return types.QualityView{}, err
	}
	sum := quality.Aggregate(rs, s.currentSettings(ctx))
	return types.QualityView{
		FreelancerID: freelancerID,
		Summary:      sum,
		ValueIndex:   valueIndexFor(f, sum.CombinedScore),
	}, nil
}

// QualityBreakdown tallies LQA errors, optionally for one freelancer.
func (s *Service) QualityBreakdown(ctx context.Context, actor model.User, freelancerID string) (quality.Breakdown, error) {
	if !access.IsStaff(actor) {
		return quality.Breakdown{}, forbidden("view analytics")
	}
	criteria := repository.Criteria{}
	if freelancerID != "" {
		criteria["freelancer_id"] = freelancerID
	}
	rs, err := s.reports.Filter(ctx, criteria)
	if err != nil {
		return quality.Breakdown{}, err
	}
	return quality.ErrorBreakdown(rs), nil
}

// Settings returns the current quality settings.
func (s *Service) Settings(ctx context.Context) (quality.Settings, error) {
	return s.settings.Get(ctx)
}

// UpdateSettings stores new quality settings and rescores everybody.
func (s *Service) UpdateSettings(ctx context.Context, actor model.User, qs quality.Settings) (quality.Settings, error) {
	if !access.CanManageSettings(actor) {
		return quality.Settings{}, forbidden("update settings")
	}
	if err := s.settings.Put(ctx, qs); err != nil {
		return quality.Settings{}, err
	}
	fs, err := s.freelancers.List(ctx, repository.OldestFirst)
	if err != nil {
		return qs, nil
	}
	for _, f := range fs {
		s.enqueueBestEffort(ctx, rescoreJob(f.ID))
	}
	return s.settings.Get(ctx)
}

func (s *Service) view(ctx context.Context, r model.QualityReport) types.ReportView {
	return viewWith(r, s.currentSettings(ctx), s.now())
}

func viewWith(r model.QualityReport, qs quality.Settings, now time.Time) types.ReportView {
	return types.ReportView{
		QualityReport: r,
		CombinedScore: quality.ReportScore(r, qs),
		Overdue:       quality.IsReviewOverdue(r, now),
	}
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, quality.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, quality.ErrForbidden):
		return "forbidden"
	case errors.Is(err, quality.ErrCommentsRequired):
		return "comments_required"
	case errors.Is(err, quality.ErrMissingScore):
		return "missing_score"
	default:
		return "other"
	}
}
