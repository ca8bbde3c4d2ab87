// Package access holds the capability checks that gate every mutation and
// read path. Callers ask a question about a user instead of comparing roles.
package access

import (
	"strings"

	"github.com/okian/linguist/internal/domain/model"
)

// IsStaff reports whether the user is an admin or a project manager.
func IsStaff(u model.User) bool {
	return u.Role == model.RoleAdmin || u.Role == model.RoleProjectManager
}

// IsAdmin reports whether the user is an admin.
func IsAdmin(u model.User) bool {
	return u.Role == model.RoleAdmin
}

// CanManageReports allows creating and submitting quality reports.
func CanManageReports(u model.User) bool {
	return IsStaff(u)
}

// CanFinalizeReports allows resolving disputes and importing history.
func CanFinalizeReports(u model.User) bool {
	return IsAdmin(u)
}

// CanReviewAsTranslator allows accepting or disputing a report. Only the
// freelancer the report is about may respond.
func CanReviewAsTranslator(u model.User, r model.QualityReport) bool {
	return u.Email != "" && sameEmail(u.Email, r.FreelancerEmail)
}

// CanViewReport allows staff and the translator the report is about.
func CanViewReport(u model.User, r model.QualityReport) bool {
	return IsStaff(u) || CanReviewAsTranslator(u, r)
}

// CanManageQuizzes allows authoring quizzes and assigning them.
func CanManageQuizzes(u model.User) bool {
	return IsStaff(u)
}

// CanManageSettings allows changing tenant quality settings.
func CanManageSettings(u model.User) bool {
	return IsAdmin(u)
}

// CanTakeQuiz allows a freelancer to submit attempts for themselves.
// Staff may record attempts on behalf of any freelancer.
func CanTakeQuiz(u model.User, f model.Freelancer) bool {
	return IsStaff(u) || (u.Email != "" && sameEmail(u.Email, f.Email))
}

// CanViewFreelancer allows staff and the freelancer themselves.
func CanViewFreelancer(u model.User, f model.Freelancer) bool {
	return CanTakeQuiz(u, f)
}

func sameEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
