package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/okian/linguist/internal/adapters/repository"
	"github.com/okian/linguist/internal/domain/access"
	"github.com/okian/linguist/internal/domain/model"
	"github.com/okian/linguist/internal/domain/quiz"
	"github.com/okian/linguist/internal/domain/types"
	"github.com/okian/linguist/pkg/logger"
	"github.com/okian/linguist/pkg/metrics"
)

// AttemptRequest is a submitted set of answers.
type AttemptRequest struct {
	QuizID         string
	FreelancerID   string
	Answers        map[string]string
	StartedAt      *time.Time
	IdempotencyKey string
}

// CreateQuiz stores a new quiz.
func (s *Service) CreateQuiz(ctx context.Context, actor model.User, in model.Quiz) (model.Quiz, error) {
	if !access.CanManageQuizzes(actor) {
		return model.Quiz{}, forbidden("create quiz")
	}
	in.Title = strings.TrimSpace(in.Title)
	if err := quiz.ValidateQuiz(in); err != nil {
		return model.Quiz{}, err
	}
	in.ID = s.newID()
	in.CreatedAt = s.now().UTC()
	if err := s.quizzes.Create(ctx, &in); err != nil {
		return model.Quiz{}, err
	}
	s.logger.Info(ctx, "quiz created", logger.String("quiz_id", in.ID), logger.String("title", in.Title))
	return in, nil
}

// AddQuestion appends a question to a quiz. A zero Order places it last.
func (s *Service) AddQuestion(ctx context.Context, actor model.User, quizID string, q model.Question) (model.Question, error) {
	if !access.CanManageQuizzes(actor) {
		return model.Question{}, forbidden("add question")
	}
	if _, err := s.quizzes.Get(ctx, quizID); err != nil {
		return model.Question{}, err
	}
	if err := quiz.ValidateQuestion(q); err != nil {
		return model.Question{}, err
	}
	if q.Order <= 0 {
		existing, err := s.questions.Filter(ctx, repository.Criteria{"quiz_id": quizID})
		if err != nil {
			return model.Question{}, err
		}
		for _, e := range existing {
			if e.Order > q.Order {
				q.Order = e.Order
			}
		}
		q.Order++
	}
	q.ID = s.newID()
	q.QuizID = quizID
	if err := s.questions.Create(ctx, &q); err != nil {
		return model.Question{}, err
	}
	return q, nil
}

// GetQuiz returns a quiz with its ordered questions. Answer keys are only
// included for quiz managers.
func (s *Service) GetQuiz(ctx context.Context, actor model.User, id string) (types.QuizView, error) {
	qz, err := s.quizzes.Get(ctx, id)
	if err != nil {
		return types.QuizView{}, err
	}
	manager := access.CanManageQuizzes(actor)
	if !manager && !qz.Active {
		return types.QuizView{}, quiz.ErrInactiveQuiz
	}
	qs, err := s.questions.Filter(ctx, repository.Criteria{"quiz_id": id})
	if err != nil {
		return types.QuizView{}, err
	}
	qs = quiz.Ordered(qs)

	view := types.QuizView{Quiz: qz, Questions: make([]model.Question, len(qs))}
	for i, q := range qs {
		view.TotalPoints += q.Points
		if !manager {
			q.CorrectAnswer = ""
			q.Explanation = ""
		}
		view.Questions[i] = q
	}
	return view, nil
}

// SubmitAttempt scores answers, stores the attempt and completes any
// pending assignment. Repeating an idempotency key returns the first result.
func (s *Service) SubmitAttempt(ctx context.Context, actor model.User, req AttemptRequest) (types.AttemptResult, error) {
	if req.FreelancerID == "" {
		if f, ok := s.freelancerForUser(ctx, actor); ok {
			req.FreelancerID = f.ID
		}
	}
	f, err := s.freelancers.Get(ctx, req.FreelancerID)
	if err != nil {
		return types.AttemptResult{}, err
	}
	if !access.CanTakeQuiz(actor, f) {
		return types.AttemptResult{}, forbidden("submit attempt")
	}

	if req.IdempotencyKey != "" {
		key := "attempt:" + f.ID + ":" + req.QuizID + ":" + req.IdempotencyKey
		if s.deduper.SeenAndRecord(ctx, key) {
			metrics.RecordDuplicate()
			id, ok := s.deduper.Lookup(ctx, key)
			if !ok {
				return types.AttemptResult{}, ErrInFlight
			}
			prev, err := s.attempts.Get(ctx, id)
			if err != nil {
				return types.AttemptResult{}, err
			}
			return types.AttemptResult{QuizAttempt: prev, Duplicate: true}, nil
		}
		res, err := s.recordAttempt(ctx, f, req)
		if err != nil {
			s.deduper.Unrecord(ctx, key)
			return types.AttemptResult{}, err
		}
		s.deduper.Remember(ctx, key, res.ID)
		return res, nil
	}
	return s.recordAttempt(ctx, f, req)
}

func (s *Service) recordAttempt(ctx context.Context, f model.Freelancer, req AttemptRequest) (types.AttemptResult, error) {
	qz, err := s.quizzes.Get(ctx, req.QuizID)
	if err != nil {
		return types.AttemptResult{}, err
	}
	if !qz.Active {
		return types.AttemptResult{}, quiz.ErrInactiveQuiz
	}
	qs, err := s.questions.Filter(ctx, repository.Criteria{"quiz_id": qz.ID})
	if err != nil {
		return types.AttemptResult{}, err
	}
	if len(qs) == 0 {
		return types.AttemptResult{}, quiz.ErrNoQuestions
	}

	res := quiz.Score(qz, qs, req.Answers)
	now := s.now().UTC()
	att := model.QuizAttempt{
		ID:           s.newID(),
		QuizID:       qz.ID,
		FreelancerID: f.ID,
		Answers:      res.PerQuestion,
		Score:        res.Score,
		TotalPoints:  res.TotalPoints,
		Percentage:   res.Percentage,
		Passed:       res.Passed,
		StartedAt:    req.StartedAt,
		CompletedAt:  now,
	}
	if err := s.attempts.Create(ctx, &att); err != nil {
		return types.AttemptResult{}, err
	}
	metrics.RecordQuizAttempt(att.Passed, att.Percentage)
	s.logger.Info(ctx, "quiz attempt recorded",
		logger.String("attempt_id", att.ID),
		logger.String("quiz_id", qz.ID),
		logger.String("freelancer_id", f.ID),
		logger.Int("percentage", att.Percentage),
		logger.Bool("passed", att.Passed),
	)

	pending, err := s.assignments.Filter(ctx, repository.Criteria{
		"freelancer_id": f.ID,
		"quiz_id":       qz.ID,
		"status":        model.AssignmentPending,
	})
	if err != nil {
		s.logger.Warn(ctx, "assignment lookup failed", logger.Error(err))
		return types.AttemptResult{QuizAttempt: att}, nil
	}
	if a, ok := quiz.PendingFor(pending, f.ID, qz.ID); ok {
		done, err := quiz.Complete(a, att, now)
		if err == nil {
			err = s.assignments.Save(ctx, done)
		}
		if err != nil && !errors.Is(err, quiz.ErrAlreadyDone) {
			s.logger.Warn(ctx, "assignment completion failed",
				logger.String("assignment_id", a.ID), logger.Error(err))
		}
	}
	return types.AttemptResult{QuizAttempt: att}, nil
}

// AssignQuiz creates or refreshes the pending assignment for
// (freelancer, quiz). created is false when an existing one was reused.
func (s *Service) AssignQuiz(ctx context.Context, actor model.User, quizID, freelancerID string, deadline *time.Time) (types.AssignmentView, bool, error) {
	if !access.CanManageQuizzes(actor) {
		return types.AssignmentView{}, false, forbidden("assign quiz")
	}
	if _, err := s.quizzes.Get(ctx, quizID); err != nil {
		return types.AssignmentView{}, false, err
	}
	if _, err := s.freelancers.Get(ctx, freelancerID); err != nil {
		return types.AssignmentView{}, false, err
	}
	existing, err := s.assignments.Filter(ctx, repository.Criteria{"freelancer_id": freelancerID, "quiz_id": quizID})
	if err != nil {
		return types.AssignmentView{}, false, err
	}

	now := s.now()
	a, created := quiz.Assign(existing, freelancerID, quizID, actor.Email, deadline, now, s.newID)
	if created {
		err = s.assignments.Create(ctx, &a)
	} else {
		err = s.assignments.Save(ctx, a)
	}
	if err != nil {
		return types.AssignmentView{}, false, err
	}
	metrics.RecordAssignment()
	s.enqueueBestEffort(ctx, notifyJob(TopicQuizAssignedJob, "", a.ID))

	return types.AssignmentView{QuizAssignment: a, Overdue: quiz.IsOverdue(a, now)}, created, nil
}

// ListAssignments returns assignments with the derived overdue flag.
// Applicants only see their own.
func (s *Service) ListAssignments(ctx context.Context, actor model.User, freelancerID string) ([]types.AssignmentView, error) {
	criteria := repository.Criteria{}
	if !access.IsStaff(actor) {
		f, ok := s.freelancerForUser(ctx, actor)
		if !ok {
			return []types.AssignmentView{}, nil
		}
		if freelancerID != "" && freelancerID != f.ID {
			return nil, forbidden("list assignments")
		}
		freelancerID = f.ID
	}
	if freelancerID != "" {
		criteria["freelancer_id"] = freelancerID
	}

	as, err := s.assignments.Find(ctx, repository.Query{Match: criteria, Sort: repository.NewestFirst})
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]types.AssignmentView, len(as))
	for i, a := range as {
		out[i] = types.AssignmentView{QuizAssignment: a, Overdue: quiz.IsOverdue(a, now)}
	}
	return out, nil
}
