package quality_test

import (
	"testing"

	"github.com/okian/linguist/internal/domain/model"
	"github.com/okian/linguist/internal/domain/quality"
	. "github.com/smartystreets/goconvey/convey"
)

func f(v float64) *float64 { return &v }

func TestCombinedScore(t *testing.T) {
	Convey("Given default settings (weight 4, multiplier 20)", t, func() {
		s := quality.DefaultSettings()

		Convey("When both averages are present", func() {
			got := quality.CombinedScore(f(90), f(4), s)

			Convey("Then QS is normalised before blending", func() {
				So(got, ShouldNotBeNil)
				So(*got, ShouldEqual, 88.0)
			})
		})

		Convey("When only LQA is present", func() {
			got := quality.CombinedScore(f(75), nil, s)
			So(*got, ShouldEqual, 75)
		})

		Convey("When only QS is present", func() {
			got := quality.CombinedScore(nil, f(3), s)
			So(*got, ShouldEqual, 60)
		})

		Convey("When neither is present", func() {
			So(quality.CombinedScore(nil, nil, s), ShouldBeNil)
		})

		Convey("When settings are zero valued", func() {
			got := quality.CombinedScore(f(90), f(4), quality.Settings{})
			Convey("Then defaults apply", func() {
				So(*got, ShouldEqual, 88.0)
			})
		})
	})
}

func TestAggregate(t *testing.T) {
	Convey("Given reports in mixed states", t, func() {
		reports := []model.QualityReport{
			{Status: model.StatusFinalized, LQAScore: f(80)},
			{Status: model.StatusTranslatorAccepted, LQAScore: f(100), QSScore: f(4)},
			{Status: model.StatusTranslatorAccepted, QSScore: f(5)},
			{Status: model.StatusDraft, LQAScore: f(10)},
			{Status: model.StatusTranslatorDisputed, QSScore: f(1)},
			{Status: model.StatusPendingTranslatorReview, LQAScore: f(0)},
		}

		Convey("When aggregating", func() {
			sum := quality.Aggregate(reports, quality.DefaultSettings())

			Convey("Then only finalized and accepted reports count", func() {
				So(sum.Eligible, ShouldEqual, 3)
				So(sum.LQACount, ShouldEqual, 2)
				So(sum.QSCount, ShouldEqual, 2)
				So(*sum.AvgLQA, ShouldEqual, 90)
				So(*sum.AvgQS, ShouldEqual, 4.5)
			})

			Convey("Then the combined score uses the same formula", func() {
				So(*sum.CombinedScore, ShouldEqual, (90*4+4.5*20)/5.0)
			})
		})

		Convey("When nothing is eligible", func() {
			sum := quality.Aggregate(reports[3:], quality.DefaultSettings())
			So(sum.AvgLQA, ShouldBeNil)
			So(sum.AvgQS, ShouldBeNil)
			So(sum.CombinedScore, ShouldBeNil)
		})
	})
}

func TestSettingsDefaults(t *testing.T) {
	Convey("Given a stored record with missing fields", t, func() {
		s := quality.FromModel(model.QualitySettings{QSMultiplier: 25})

		Convey("Then defaults fill the gaps", func() {
			So(s.LQAWeight, ShouldEqual, 4)
			So(s.QSMultiplier, ShouldEqual, 25)
			So(s.DisputePeriodDays, ShouldEqual, 7)
			So(s.ToModel("quality").ID, ShouldEqual, "quality")
		})
	})
}

func TestSettingsValidate(t *testing.T) {
	Convey("Given candidate settings", t, func() {
		So(quality.DefaultSettings().Validate(), ShouldBeNil)
		So(quality.Settings{LQAWeight: 0, QSMultiplier: 20, DisputePeriodDays: 7}.Validate(), ShouldNotBeNil)
		So(quality.Settings{LQAWeight: 4, QSMultiplier: -1, DisputePeriodDays: 7}.Validate(), ShouldNotBeNil)
		So(quality.Settings{LQAWeight: 4, QSMultiplier: 20, DisputePeriodDays: 400}.Validate(), ShouldNotBeNil)
	})
}
