package model

import "time"

// QuestionType selects how a question's answer is checked.
type QuestionType string

// Question types.
const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionTrueFalse      QuestionType = "true_false"
	QuestionMultiSelect    QuestionType = "multi_select"
)

// Quiz is an ordered skill assessment.
type Quiz struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description,omitempty"`
	SourceLanguage   string    `json:"source_language,omitempty"`
	TargetLanguage   string    `json:"target_language,omitempty"`
	PassingScore     int       `json:"passing_score"` // percent
	TimeLimitMinutes int       `json:"time_limit_minutes,omitempty"`
	Active           bool      `json:"active"`
	CreatedAt        time.Time `json:"created_at"`
}

// EntityID implements the repository entity contract.
func (q Quiz) EntityID() string { return q.ID }

// Question belongs to a quiz. CorrectAnswer holds one option text, or for
// multi-select questions a pipe-delimited set such as "Accuracy|Punctuation".
type Question struct {
	ID            string       `json:"id"`
	QuizID        string       `json:"quiz_id"`
	Order         int          `json:"order"`
	QuestionType  QuestionType `json:"question_type"`
	QuestionText  string       `json:"question_text"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer string       `json:"correct_answer"`
	Points        float64      `json:"points"`
	Explanation   string       `json:"explanation,omitempty"`
}

// EntityID implements the repository entity contract.
func (q Question) EntityID() string { return q.ID }

// AttemptAnswer is one scored answer inside an attempt.
type AttemptAnswer struct {
	QuestionID    string  `json:"question_id"`
	Answer        string  `json:"answer"`
	Correct       bool    `json:"correct"`
	PointsAwarded float64 `json:"points_awarded"`
}

// QuizAttempt records a freelancer's submitted answers and the result.
type QuizAttempt struct {
	ID           string          `json:"id"`
	QuizID       string          `json:"quiz_id"`
	FreelancerID string          `json:"freelancer_id"`
	Answers      []AttemptAnswer `json:"answers"`
	Score        float64         `json:"score"`
	TotalPoints  float64         `json:"total_points"`
	Percentage   int             `json:"percentage"`
	Passed       bool            `json:"passed"`
	StartedAt    *time.Time      `json:"started_at,omitempty"`
	CompletedAt  time.Time       `json:"completed_at"`
}

// EntityID implements the repository entity contract.
func (a QuizAttempt) EntityID() string { return a.ID }

// AssignmentStatus is the stored state of a QuizAssignment. Overdue is
// derived and never stored.
type AssignmentStatus string

// Assignment states.
const (
	AssignmentPending   AssignmentStatus = "pending"
	AssignmentCompleted AssignmentStatus = "completed"
)

// QuizAssignment tracks that a freelancer must complete a quiz.
type QuizAssignment struct {
	ID           string           `json:"id"`
	QuizID       string           `json:"quiz_id"`
	FreelancerID string           `json:"freelancer_id"`
	AssignedBy   string           `json:"assigned_by,omitempty"`
	Deadline     *time.Time       `json:"deadline,omitempty"`
	Status       AssignmentStatus `json:"status"`
	AttemptID    string           `json:"attempt_id,omitempty"`
	AssignedAt   time.Time        `json:"assigned_at"`
	CompletedAt  *time.Time       `json:"completed_at,omitempty"`
}

// EntityID implements the repository entity contract.
func (a QuizAssignment) EntityID() string { return a.ID }
