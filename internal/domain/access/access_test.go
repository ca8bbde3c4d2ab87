package access_test

import (
	"testing"

	"github.com/okian/linguist/internal/domain/access"
	"github.com/okian/linguist/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCapabilities(t *testing.T) {
	Convey("Given users with each role", t, func() {
		admin := model.User{Email: "boss@agency.io", Role: model.RoleAdmin}
		pm := model.User{Email: "pm@agency.io", Role: model.RoleProjectManager}
		translator := model.User{Email: "Ana@Mail.com ", Role: model.RoleApplicant}
		stranger := model.User{Email: "x@mail.com", Role: model.RoleApplicant}

		report := model.QualityReport{FreelancerEmail: "ana@mail.com"}
		ana := model.Freelancer{Email: "ana@mail.com"}

		Convey("Then staff manage reports and quizzes", func() {
			So(access.CanManageReports(admin), ShouldBeTrue)
			So(access.CanManageReports(pm), ShouldBeTrue)
			So(access.CanManageReports(translator), ShouldBeFalse)
			So(access.CanManageQuizzes(pm), ShouldBeTrue)
			So(access.CanManageQuizzes(stranger), ShouldBeFalse)
		})

		Convey("Then only admins finalize and change settings", func() {
			So(access.CanFinalizeReports(admin), ShouldBeTrue)
			So(access.CanFinalizeReports(pm), ShouldBeFalse)
			So(access.CanManageSettings(admin), ShouldBeTrue)
			So(access.CanManageSettings(pm), ShouldBeFalse)
		})

		Convey("Then only the named translator reviews a report", func() {
			So(access.CanReviewAsTranslator(translator, report), ShouldBeTrue)
			So(access.CanReviewAsTranslator(stranger, report), ShouldBeFalse)
			So(access.CanReviewAsTranslator(admin, report), ShouldBeFalse)
			So(access.CanReviewAsTranslator(model.User{}, model.QualityReport{}), ShouldBeFalse)
		})

		Convey("Then report visibility covers staff and the translator", func() {
			So(access.CanViewReport(pm, report), ShouldBeTrue)
			So(access.CanViewReport(translator, report), ShouldBeTrue)
			So(access.CanViewReport(stranger, report), ShouldBeFalse)
		})

		Convey("Then freelancers only act for themselves", func() {
			So(access.CanTakeQuiz(translator, ana), ShouldBeTrue)
			So(access.CanTakeQuiz(stranger, ana), ShouldBeFalse)
			So(access.CanTakeQuiz(admin, ana), ShouldBeTrue)
			So(access.CanViewFreelancer(stranger, ana), ShouldBeFalse)
			So(access.CanViewFreelancer(pm, ana), ShouldBeTrue)
		})
	})
}
