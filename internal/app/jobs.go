package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/linguist/internal/adapters/notify"
	"github.com/okian/linguist/internal/adapters/repository"
	"github.com/okian/linguist/internal/domain/freelancer"
	"github.com/okian/linguist/internal/domain/model"
	"github.com/okian/linguist/internal/domain/quality"
	"github.com/okian/linguist/pkg/logger"
	"github.com/okian/linguist/pkg/metrics"
)

// Notification topics carried by notify jobs.
const (
	TopicReportSubmittedJob = notify.TopicReportSubmitted
	TopicDisputeRaisedJob   = notify.TopicDisputeRaised
	TopicQuizAssignedJob    = notify.TopicQuizAssigned
)

func notifyJob(topic, reportID, assignmentID string) model.Job {
	return model.Job{
		ID:           "notify:" + uuid.NewString(),
		Kind:         model.JobNotify,
		Topic:        topic,
		ReportID:     reportID,
		AssignmentID: assignmentID,
	}
}

// rescoreJob ids are stable per freelancer so bursts of report changes
// collapse into one queued job.
func rescoreJob(freelancerID string) model.Job {
	return model.Job{
		ID:           "rescore:" + freelancerID,
		Kind:         model.JobRescoreFreelancer,
		FreelancerID: freelancerID,
	}
}

func (s *Service) onReportChange(c repository.Change) {
	if c.Op == repository.OpDelete {
		return
	}
	ctx := context.Background()
	r, err := s.reports.Get(ctx, c.ID)
	if err != nil {
		s.logger.Warn(ctx, "changed report not readable", logger.String("report_id", c.ID), logger.Error(err))
		return
	}
	s.enqueueBestEffort(ctx, rescoreJob(r.FreelancerID))
}

// HandleJob runs one background job. It is the worker pool handler.
func (s *Service) HandleJob(ctx context.Context, j model.Job) error {
	// Release the id first so changes made while this job runs queue again.
	s.deduper.Unrecord(ctx, j.ID)

	switch j.Kind {
	case model.JobRescoreFreelancer:
		_, err := s.Rescore(ctx, j.FreelancerID)
		return err
	case model.JobNotify:
		return s.deliver(ctx, j)
	default:
		return fmt.Errorf("%s: %w", j.Kind, ErrUnknownJobKind)
	}
}

// Rescore recomputes a freelancer's quality score and value index from
// their eligible reports and stores both.
func (s *Service) Rescore(ctx context.Context, freelancerID string) (model.Freelancer, error) {
	start := time.Now()
	f, err := s.rescore(ctx, freelancerID)
	if err != nil {
		metrics.RecordRescoreError()
		return model.Freelancer{}, err
	}
	metrics.RecordRescoreLatency(float64(time.Since(start).Milliseconds()))
	return f, nil
}

func (s *Service) rescore(ctx context.Context, freelancerID string) (model.Freelancer, error) {
	f, err := s.freelancers.Get(ctx, freelancerID)
	if err != nil {
		return model.Freelancer{}, err
	}
	rs, err := s.reports.Filter(ctx, repository.Criteria{"freelancer_id": freelancerID})
	if err != nil {
		return model.Freelancer{}, err
	}
	sum := quality.Aggregate(rs, s.currentSettings(ctx))
	next := freelancer.Rescore(f, sum.CombinedScore)

	updated, err := s.freelancers.Update(ctx, freelancerID, map[string]any{
		"quality_score": next.QualityScore,
		"value_index":   next.ValueIndex,
		"updated_at":    s.now().UTC(),
	})
	if err != nil {
		return model.Freelancer{}, err
	}
	s.logger.Debug(ctx, "freelancer rescored",
		logger.String("freelancer_id", freelancerID),
		logger.Int("eligible_reports", sum.Eligible),
		logger.Any("quality_score", updated.QualityScore),
		logger.Any("value_index", updated.ValueIndex),
	)
	return updated, nil
}

func (s *Service) deliver(ctx context.Context, j model.Job) error {
	var msg notify.Message
	switch j.Topic {
	case TopicReportSubmittedJob, TopicDisputeRaisedJob:
		r, err := s.reports.Get(ctx, j.ReportID)
		if err != nil {
			return err
		}
		if j.Topic == TopicReportSubmittedJob {
			msg = notify.ReportSubmitted(r)
		} else {
			msg = notify.DisputeRaised(r, s.reviewers)
		}
	case TopicQuizAssignedJob:
		a, err := s.assignments.Get(ctx, j.AssignmentID)
		if err != nil {
			return err
		}
		q, err := s.quizzes.Get(ctx, a.QuizID)
		if err != nil {
			return err
		}
		f, err := s.freelancers.Get(ctx, a.FreelancerID)
		if err != nil {
			return err
		}
		msg = notify.QuizAssigned(a, q, f)
	default:
		return fmt.Errorf("topic %q: %w", j.Topic, ErrUnknownJobKind)
	}

	err := s.notifier.Notify(ctx, msg)
	metrics.RecordNotification(j.Topic, err == nil)
	return err
}
