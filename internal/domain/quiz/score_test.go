package quiz_test

import (
	"errors"
	"testing"

	"github.com/okian/linguist/internal/domain/model"
	"github.com/okian/linguist/internal/domain/quiz"
	. "github.com/smartystreets/goconvey/convey"
)

func TestScore(t *testing.T) {
	Convey("Given a quiz with two questions worth 1.5 points each", t, func() {
		q := model.Quiz{ID: "qz", PassingScore: 50}
		questions := []model.Question{
			{ID: "q2", Order: 2, QuestionType: model.QuestionTrueFalse, CorrectAnswer: "True", Points: 1.5},
			{ID: "q1", Order: 1, QuestionType: model.QuestionMultipleChoice, CorrectAnswer: "Paris", Points: 1.5},
		}

		Convey("When one answer is right and one wrong", func() {
			res := quiz.Score(q, questions, map[string]string{"q1": "Paris", "q2": "False"})

			Convey("Then score and percentage follow", func() {
				So(res.Score, ShouldEqual, 1.5)
				So(res.TotalPoints, ShouldEqual, 3)
				So(res.Percentage, ShouldEqual, 50)
				So(res.Passed, ShouldBeTrue)
			})

			Convey("Then per-question results come back in quiz order", func() {
				So(res.PerQuestion, ShouldHaveLength, 2)
				So(res.PerQuestion[0].QuestionID, ShouldEqual, "q1")
				So(res.PerQuestion[0].PointsAwarded, ShouldEqual, 1.5)
				So(res.PerQuestion[1].Correct, ShouldBeFalse)
			})
		})

		Convey("When the passing score is above the result", func() {
			q.PassingScore = 51
			res := quiz.Score(q, questions, map[string]string{"q1": "Paris"})
			So(res.Passed, ShouldBeFalse)
		})

		Convey("When answers differ in case", func() {
			res := quiz.Score(q, questions, map[string]string{"q1": "paris", "q2": "True"})
			So(res.Score, ShouldEqual, 1.5)
		})

		Convey("When nothing is answered", func() {
			res := quiz.Score(q, questions, nil)
			So(res.Score, ShouldEqual, 0)
			So(res.TotalPoints, ShouldEqual, 3)
			So(res.Percentage, ShouldEqual, 0)
		})
	})

	Convey("Given a quiz with no points at all", t, func() {
		res := quiz.Score(model.Quiz{PassingScore: 0}, nil, nil)
		So(res.Percentage, ShouldEqual, 0)
		So(res.Passed, ShouldBeTrue)
	})
}

func TestMultiSelect(t *testing.T) {
	Convey("Given a categorisation question", t, func() {
		q := model.Question{ID: "m", QuestionType: model.QuestionMultiSelect, CorrectAnswer: "Accuracy|Punctuation", Points: 2}

		Convey("Then the full set matches in any order", func() {
			So(quiz.IsCorrect(q, "Punctuation | Accuracy"), ShouldBeTrue)
			So(quiz.IsCorrect(q, "Accuracy|Punctuation"), ShouldBeTrue)
		})

		Convey("Then partial or extra selections are wrong", func() {
			So(quiz.IsCorrect(q, "Accuracy"), ShouldBeFalse)
			So(quiz.IsCorrect(q, "Accuracy|Punctuation|Style"), ShouldBeFalse)
			So(quiz.IsCorrect(q, ""), ShouldBeFalse)
		})

		Convey("Then a pipe in the key implies multi-select", func() {
			legacy := model.Question{QuestionType: model.QuestionMultipleChoice, CorrectAnswer: "A|B"}
			So(quiz.IsMultiSelect(legacy), ShouldBeTrue)
			So(quiz.IsCorrect(legacy, "B|A"), ShouldBeTrue)
		})
	})
}

func TestValidateQuestion(t *testing.T) {
	Convey("Given question drafts", t, func() {
		ok := model.Question{QuestionText: "Capital?", QuestionType: model.QuestionMultipleChoice, Options: []string{"Paris", "Rome"}, CorrectAnswer: "Paris", Points: 1}
		So(quiz.ValidateQuestion(ok), ShouldBeNil)

		bad := ok
		bad.CorrectAnswer = "Berlin"
		So(errors.Is(quiz.ValidateQuestion(bad), quiz.ErrInvalidQuestion), ShouldBeTrue)

		bad = ok
		bad.Points = 0
		So(quiz.ValidateQuestion(bad), ShouldNotBeNil)

		tf := model.Question{QuestionText: "Sky is blue", QuestionType: model.QuestionTrueFalse, CorrectAnswer: "Maybe", Points: 1}
		So(quiz.ValidateQuestion(tf), ShouldNotBeNil)

		multi := model.Question{QuestionText: "Pick", QuestionType: model.QuestionMultiSelect, Options: []string{"A", "B", "C"}, CorrectAnswer: "A|C", Points: 1}
		So(quiz.ValidateQuestion(multi), ShouldBeNil)

		So(quiz.ValidateQuestion(model.Question{QuestionText: "x", QuestionType: "essay", CorrectAnswer: "y", Points: 1}), ShouldNotBeNil)
	})

	Convey("Given quiz drafts", t, func() {
		So(quiz.ValidateQuiz(model.Quiz{Title: "EN-DE", PassingScore: 70}), ShouldBeNil)
		So(errors.Is(quiz.ValidateQuiz(model.Quiz{Title: " "}), quiz.ErrInvalidQuiz), ShouldBeTrue)
		So(quiz.ValidateQuiz(model.Quiz{Title: "x", PassingScore: 120}), ShouldNotBeNil)
	})
}
