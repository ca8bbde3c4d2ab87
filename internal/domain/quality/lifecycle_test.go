package quality_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/linguist/internal/domain/model"
	"github.com/okian/linguist/internal/domain/quality"
	. "github.com/smartystreets/goconvey/convey"
)

var (
	admin      = model.User{Email: "admin@agency.io", Role: model.RoleAdmin}
	pm         = model.User{Email: "pm@agency.io", Role: model.RoleProjectManager}
	translator = model.User{Email: "ana@mail.com", Role: model.RoleApplicant}
	other      = model.User{Email: "bob@mail.com", Role: model.RoleApplicant}
)

func draft() model.QualityReport {
	return model.QualityReport{
		ID:              "r-1",
		FreelancerEmail: "ana@mail.com",
		ReportType:      model.ReportLQA,
		LQAScore:        f(92),
		Status:          model.StatusDraft,
	}
}

func TestTransition(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s := quality.DefaultSettings()

	Convey("Given a draft report with a score", t, func() {
		r := draft()

		Convey("When a PM submits it", func() {
			next, err := quality.Transition(r, quality.ActionSubmit, pm, "", s, now)

			Convey("Then it awaits the translator with a deadline", func() {
				So(err, ShouldBeNil)
				So(next.Status, ShouldEqual, model.StatusPendingTranslatorReview)
				So(next.SubmissionDate.Equal(now), ShouldBeTrue)
				So(next.ReviewDeadline.Equal(now.AddDate(0, 0, 7)), ShouldBeTrue)
				So(r.Status, ShouldEqual, model.StatusDraft)
			})

			Convey("And the translator accepts", func() {
				later := now.Add(time.Hour)
				acc, err := quality.Transition(next, quality.ActionAccept, translator, "", s, later)
				So(err, ShouldBeNil)
				So(acc.Status, ShouldEqual, model.StatusTranslatorAccepted)
				So(acc.FinalizationDate.Equal(later), ShouldBeTrue)
			})

			Convey("And another applicant tries to accept", func() {
				_, err := quality.Transition(next, quality.ActionAccept, other, "", s, now)
				So(errors.Is(err, quality.ErrForbidden), ShouldBeTrue)
			})

			Convey("And the translator disputes with blank comments", func() {
				_, err := quality.Transition(next, quality.ActionDispute, translator, "   ", s, now)
				So(errors.Is(err, quality.ErrCommentsRequired), ShouldBeTrue)
			})

			Convey("And the dispute goes through review to finalization", func() {
				d, err := quality.Transition(next, quality.ActionDispute, translator, " terminology was client-approved ", s, now)
				So(err, ShouldBeNil)
				So(d.Status, ShouldEqual, model.StatusTranslatorDisputed)
				So(d.TranslatorComments, ShouldEqual, "terminology was client-approved")

				_, err = quality.Transition(d, quality.ActionReview, pm, "", s, now)
				So(errors.Is(err, quality.ErrForbidden), ShouldBeTrue)

				rv, err := quality.Transition(d, quality.ActionReview, admin, "", s, now)
				So(err, ShouldBeNil)
				So(rv.Status, ShouldEqual, model.StatusPendingFinalReview)

				fin, err := quality.Transition(rv, quality.ActionFinalize, admin, "upheld", s, now)
				So(err, ShouldBeNil)
				So(fin.Status, ShouldEqual, model.StatusFinalized)
				So(fin.FinalReviewerComments, ShouldEqual, "upheld")
				So(fin.FinalizationDate, ShouldNotBeNil)

				Convey("Then a finalized report is immutable", func() {
					for _, a := range []quality.Action{quality.ActionSubmit, quality.ActionAccept, quality.ActionDispute, quality.ActionReview, quality.ActionFinalize, quality.ActionImport} {
						_, err := quality.Transition(fin, a, admin, "x", s, now)
						So(errors.Is(err, quality.ErrInvalidTransition), ShouldBeTrue)
					}
				})
			})
		})

		Convey("When the translator accepts straight from draft", func() {
			_, err := quality.Transition(r, quality.ActionAccept, translator, "", s, now)
			So(errors.Is(err, quality.ErrInvalidTransition), ShouldBeTrue)
		})

		Convey("When an admin imports it as history", func() {
			next, err := quality.Transition(r, quality.ActionImport, admin, "", s, now)
			So(err, ShouldBeNil)
			So(next.Status, ShouldEqual, model.StatusFinalized)
			So(next.SubmissionDate, ShouldBeNil)
		})

		Convey("When a translator tries to submit", func() {
			_, err := quality.Transition(r, quality.ActionSubmit, translator, "", s, now)
			So(errors.Is(err, quality.ErrForbidden), ShouldBeTrue)
		})
	})

	Convey("Given a draft without any score", t, func() {
		r := draft()
		r.LQAScore = nil

		Convey("Then it cannot leave draft", func() {
			_, err := quality.Transition(r, quality.ActionSubmit, admin, "", s, now)
			So(errors.Is(err, quality.ErrMissingScore), ShouldBeTrue)
			_, err = quality.Transition(r, quality.ActionImport, admin, "", s, now)
			So(errors.Is(err, quality.ErrMissingScore), ShouldBeTrue)
		})
	})

	Convey("Given a legacy submitted report", t, func() {
		r := draft()
		r.Status = model.StatusSubmitted

		Convey("Then the translator can still respond", func() {
			next, err := quality.Transition(r, quality.ActionDispute, translator, "disagree", s, now)
			So(err, ShouldBeNil)
			So(next.Status, ShouldEqual, model.StatusTranslatorDisputed)
		})
	})
}

func TestParseAction(t *testing.T) {
	Convey("Given action names", t, func() {
		a, err := quality.ParseAction(" Submit ")
		So(err, ShouldBeNil)
		So(a, ShouldEqual, quality.ActionSubmit)

		_, err = quality.ParseAction("approve")
		So(errors.Is(err, quality.ErrUnknownAction), ShouldBeTrue)
	})
}

func TestIsReviewOverdue(t *testing.T) {
	Convey("Given a report awaiting the translator", t, func() {
		now := time.Now()
		deadline := now.Add(-time.Hour)
		r := draft()
		r.Status = model.StatusPendingTranslatorReview
		r.ReviewDeadline = &deadline

		Convey("Then a passed deadline is overdue", func() {
			So(quality.IsReviewOverdue(r, now), ShouldBeTrue)
		})

		Convey("Then a future deadline is not", func() {
			So(quality.IsReviewOverdue(r, now.Add(-2*time.Hour)), ShouldBeFalse)
		})

		Convey("Then a responded report is never overdue", func() {
			r.Status = model.StatusTranslatorAccepted
			So(quality.IsReviewOverdue(r, now), ShouldBeFalse)
		})

		Convey("Then a missing deadline is not overdue", func() {
			r.ReviewDeadline = nil
			So(quality.IsReviewOverdue(r, now), ShouldBeFalse)
		})
	})
}
