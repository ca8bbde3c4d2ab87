package notify

import (
	"fmt"
	"strings"

	"github.com/okian/linguist/internal/domain/model"
)

// Notification topics.
const (
	TopicReportSubmitted = "report_submitted"
	TopicDisputeRaised   = "dispute_raised"
	TopicQuizAssigned    = "quiz_assigned"
)

// ReportSubmitted asks the translator to accept or dispute a report.
func ReportSubmitted(r model.QualityReport) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "A %s quality report was submitted for your review", r.ReportType)
	if r.ProjectName != "" {
		fmt.Fprintf(&b, " (project %s)", r.ProjectName)
	}
	b.WriteString(".\n")
	if r.ReviewDeadline != nil {
		fmt.Fprintf(&b, "Please accept or dispute it before %s.\n", r.ReviewDeadline.Format("2006-01-02"))
	}
	return Message{
		Topic:   TopicReportSubmitted,
		To:      []string{r.FreelancerEmail},
		Subject: "Quality report awaiting your review",
		Body:    b.String(),
	}
}

// DisputeRaised tells reviewers that a translator contested a report.
func DisputeRaised(r model.QualityReport, reviewers []string) Message {
	return Message{
		Topic:   TopicDisputeRaised,
		To:      reviewers,
		Subject: fmt.Sprintf("Report %s disputed by %s", r.ID, r.FreelancerEmail),
		Body:    fmt.Sprintf("Translator comments:\n%s\n", r.TranslatorComments),
	}
}

// QuizAssigned tells a freelancer about a new quiz.
func QuizAssigned(a model.QuizAssignment, q model.Quiz, f model.Freelancer) Message {
	body := fmt.Sprintf("Hi %s,\nyou have been assigned the quiz %q.\n", f.FullName, q.Title)
	if a.Deadline != nil {
		body += fmt.Sprintf("Please complete it by %s.\n", a.Deadline.Format("2006-01-02"))
	}
	return Message{
		Topic:   TopicQuizAssigned,
		To:      []string{f.Email},
		Subject: "New quiz: " + q.Title,
		Body:    body,
	}
}
