package model

import "time"

// Stage is a freelancer's position in the hiring pipeline.
type Stage string

// Pipeline stages.
const (
	StageNewApplication   Stage = "New Application"
	StageFormSent         Stage = "Form Sent"
	StagePriceNegotiation Stage = "Price Negotiation"
	StageTestSent         Stage = "Test Sent"
	StageApproved         Stage = "Approved"
	StageOnHold           Stage = "On Hold"
	StageRejected         Stage = "Rejected"
	StageRedFlag          Stage = "Red Flag"
)

// LanguagePair is a source/target combination a freelancer works in.
type LanguagePair struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Rate is a price for one service, e.g. translation per word.
type Rate struct {
	Service  string  `json:"service"`
	Unit     string  `json:"unit"` // "word", "hour", ...
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency,omitempty"`
}

// Freelancer is an applicant or contractor.
type Freelancer struct {
	ID            string         `json:"id"`
	FullName      string         `json:"full_name"`
	Email         string         `json:"email"`
	Status        Stage          `json:"status"`
	LanguagePairs []LanguagePair `json:"language_pairs,omitempty"`
	Rates         []Rate         `json:"rates,omitempty"`

	// Recomputed from quality reports; nil means no quality signal yet.
	QualityScore *float64 `json:"quality_score,omitempty"`
	ValueIndex   *float64 `json:"value_index,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EntityID implements the repository entity contract.
func (f Freelancer) EntityID() string { return f.ID }

// Role gates what a user may do.
type Role string

// Roles.
const (
	RoleAdmin          Role = "admin"
	RoleProjectManager Role = "project_manager"
	RoleApplicant      Role = "applicant"
)

// User is the authenticated identity.
type User struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
}
