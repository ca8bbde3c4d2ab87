// Package model contains domain models passed between layers.
package model

import "time"

// ReportType distinguishes error-based LQA reports from star-rated QS reports.
type ReportType string

// Report types.
const (
	ReportLQA ReportType = "LQA"
	ReportQS  ReportType = "QS"
)

// ReportStatus is a QualityReport lifecycle state.
type ReportStatus string

// Lifecycle states of a QualityReport.
const (
	StatusDraft                   ReportStatus = "draft"
	StatusSubmitted               ReportStatus = "submitted"
	StatusPendingTranslatorReview ReportStatus = "pending_translator_review"
	StatusTranslatorAccepted      ReportStatus = "translator_accepted"
	StatusTranslatorDisputed      ReportStatus = "translator_disputed"
	StatusPendingFinalReview      ReportStatus = "pending_final_review"
	StatusFinalized               ReportStatus = "finalized"
)

// Valid reports whether s is a known lifecycle state.
func (s ReportStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusPendingTranslatorReview, StatusTranslatorAccepted,
		StatusTranslatorDisputed, StatusPendingFinalReview, StatusFinalized:
		return true
	}
	return false
}

// Severity grades a single LQA error.
type Severity string

// LQA error severities.
const (
	SeverityCritical     Severity = "Critical"
	SeverityMajor        Severity = "Major"
	SeverityMinor        Severity = "Minor"
	SeverityPreferential Severity = "Preferential"
)

// LQAError is one row of an LQA error table.
type LQAError struct {
	ErrorType string   `json:"error_type"`
	Severity  Severity `json:"severity"`
	Count     int      `json:"count"`
	Examples  string   `json:"examples,omitempty"`
}

// QualityReport is one quality assessment of one freelancer on one project.
type QualityReport struct {
	ID              string     `json:"id"`
	FreelancerID    string     `json:"freelancer_id"`
	FreelancerEmail string     `json:"freelancer_email"`
	ReportType      ReportType `json:"report_type"`

	LQAScore         *float64   `json:"lqa_score,omitempty"` // 0..100
	QSScore          *float64   `json:"qs_score,omitempty"`  // 0..5
	LQAErrors        []LQAError `json:"lqa_errors,omitempty"`
	LQAWordsReviewed int        `json:"lqa_words_reviewed,omitempty"`

	Status                ReportStatus `json:"status"`
	ReviewerComments      string       `json:"reviewer_comments,omitempty"`
	TranslatorComments    string       `json:"translator_comments,omitempty"`
	FinalReviewerComments string       `json:"final_reviewer_comments,omitempty"`

	SubmissionDate   *time.Time `json:"submission_date,omitempty"`
	ReviewDeadline   *time.Time `json:"review_deadline,omitempty"`
	FinalizationDate *time.Time `json:"finalization_date,omitempty"`

	ProjectName    string `json:"project_name,omitempty"`
	ClientName     string `json:"client_name,omitempty"`
	SourceLanguage string `json:"source_language,omitempty"`
	TargetLanguage string `json:"target_language,omitempty"`

	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EntityID implements the repository entity contract.
func (r QualityReport) EntityID() string { return r.ID }

// HasScore reports whether at least one of the LQA or QS scores is present.
func (r QualityReport) HasScore() bool {
	return r.LQAScore != nil || r.QSScore != nil
}

// QualitySettings holds the tenant-wide knobs for quality scoring.
type QualitySettings struct {
	ID                string  `json:"id"`
	LQAWeight         float64 `json:"lqa_weight"`
	QSMultiplier      float64 `json:"qs_multiplier"`
	DisputePeriodDays int     `json:"dispute_period_days"`
}

// EntityID implements the repository entity contract.
func (s QualitySettings) EntityID() string { return s.ID }
