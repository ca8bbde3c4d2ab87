package quiz

import (
	"time"

	"github.com/okian/linguist/internal/domain/model"
)

// Assign returns the assignment for (freelancer, quiz). When a pending one
// already exists its deadline is refreshed and it is returned with
// created=false. Completed assignments do not block a new one.
func Assign(existing []model.QuizAssignment, freelancerID, quizID, assignedBy string, deadline *time.Time, now time.Time, newID func() string) (model.QuizAssignment, bool) {
	for _, a := range existing {
		if a.FreelancerID == freelancerID && a.QuizID == quizID && a.Status == model.AssignmentPending {
			a.Deadline = deadline
			if assignedBy != "" {
				a.AssignedBy = assignedBy
			}
			return a, false
		}
	}
	return model.QuizAssignment{
		ID:           newID(),
		QuizID:       quizID,
		FreelancerID: freelancerID,
		AssignedBy:   assignedBy,
		Deadline:     deadline,
		Status:       model.AssignmentPending,
		AssignedAt:   now.UTC(),
	}, true
}

// IsOverdue is derived on read: not completed and past a set deadline.
func IsOverdue(a model.QuizAssignment, now time.Time) bool {
	return a.Status != model.AssignmentCompleted && a.Deadline != nil && a.Deadline.Before(now)
}

// Complete marks a pending assignment done by the given attempt.
func Complete(a model.QuizAssignment, attempt model.QuizAttempt, now time.Time) (model.QuizAssignment, error) {
	if a.Status == model.AssignmentCompleted {
		return a, ErrAlreadyDone
	}
	done := now.UTC()
	a.Status = model.AssignmentCompleted
	a.AttemptID = attempt.ID
	a.CompletedAt = &done
	return a, nil
}

// PendingFor picks the pending assignment matching an attempt, if any.
func PendingFor(assignments []model.QuizAssignment, freelancerID, quizID string) (model.QuizAssignment, bool) {
	for _, a := range assignments {
		if a.FreelancerID == freelancerID && a.QuizID == quizID && a.Status == model.AssignmentPending {
			return a, true
		}
	}
	return model.QuizAssignment{}, false
}
