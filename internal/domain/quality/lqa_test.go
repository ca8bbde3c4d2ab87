package quality_test

import (
	"errors"
	"testing"

	"github.com/okian/linguist/internal/domain/model"
	"github.com/okian/linguist/internal/domain/quality"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLQAScoreFromErrors(t *testing.T) {
	Convey("Given an error table", t, func() {
		errs := []model.LQAError{
			{ErrorType: "Accuracy", Severity: model.SeverityMajor, Count: 2},
			{ErrorType: "Terminology", Severity: model.SeverityMinor, Count: 3},
			{ErrorType: "Style", Severity: model.SeverityPreferential, Count: 7},
		}

		Convey("Then penalty points follow severity weights", func() {
			So(quality.PenaltyPoints(errs), ShouldEqual, 13)
		})

		Convey("When 1000 words were reviewed", func() {
			So(*quality.LQAScoreFromErrors(errs, 1000), ShouldEqual, 87)
		})

		Convey("When 2000 words were reviewed", func() {
			So(*quality.LQAScoreFromErrors(errs, 2000), ShouldEqual, 93.5)
		})

		Convey("When the penalty exceeds the scale", func() {
			crit := []model.LQAError{{Severity: model.SeverityCritical, Count: 50}}
			So(*quality.LQAScoreFromErrors(crit, 100), ShouldEqual, 0)
		})

		Convey("When no words were reviewed", func() {
			So(quality.LQAScoreFromErrors(errs, 0), ShouldBeNil)
		})
	})
}

func TestValidateScores(t *testing.T) {
	Convey("Given reports with out-of-range values", t, func() {
		So(quality.ValidateScores(model.QualityReport{LQAScore: f(101)}), ShouldNotBeNil)
		So(errors.Is(quality.ValidateScores(model.QualityReport{QSScore: f(6)}), quality.ErrScoreOutOfRange), ShouldBeTrue)
		So(quality.ValidateScores(model.QualityReport{LQAErrors: []model.LQAError{{Severity: "Huge"}}}), ShouldNotBeNil)
		So(quality.ValidateScores(model.QualityReport{LQAScore: f(100), QSScore: f(0)}), ShouldBeNil)
	})
}

func TestErrorBreakdown(t *testing.T) {
	Convey("Given eligible and ineligible reports", t, func() {
		reports := []model.QualityReport{
			{Status: model.StatusFinalized, LQAWordsReviewed: 500, LQAErrors: []model.LQAError{
				{ErrorType: "Accuracy", Severity: model.SeverityMajor, Count: 2},
				{ErrorType: "Grammar", Severity: model.SeverityMinor, Count: 1},
			}},
			{Status: model.StatusTranslatorAccepted, LQAWordsReviewed: 1500, LQAErrors: []model.LQAError{
				{ErrorType: "Accuracy", Severity: model.SeverityCritical, Count: 1},
			}},
			{Status: model.StatusDraft, LQAErrors: []model.LQAError{
				{ErrorType: "Accuracy", Severity: model.SeverityMajor, Count: 9},
			}},
		}

		b := quality.ErrorBreakdown(reports)

		Convey("Then counts cover only eligible reports", func() {
			So(b.Reports, ShouldEqual, 2)
			So(b.Words, ShouldEqual, 2000)
			So(b.ByErrorType["Accuracy"], ShouldEqual, 3)
			So(b.BySeverity[model.SeverityMajor], ShouldEqual, 2)
			So(b.BySeverity[model.SeverityCritical], ShouldEqual, 1)
		})
	})
}
