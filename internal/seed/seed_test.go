package seed_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/linguist/internal/adapters/http/api"
	service "github.com/okian/linguist/internal/app"
	"github.com/okian/linguist/internal/domain/model"
	"github.com/okian/linguist/internal/seed"
	"github.com/okian/linguist/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

const secret = "seed-test-secret"

var admin = model.User{Email: "admin@example.com", Role: model.RoleAdmin}

func newAPI(t *testing.T) (*service.Service, *httptest.Server) {
	svc := service.New(service.WithLogger(logger.Nop()))
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	srv, err := api.NewServer(svc, svc, api.WithJWTSecret(secret), api.WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("api server: %v", err)
	}
	mux := http.NewServeMux()
	srv.Register(context.Background(), mux)
	ts := httptest.NewServer(srv.Handler(mux))
	t.Cleanup(func() {
		ts.Close()
		svc.Stop()
	})
	return svc, ts
}

func token(t *testing.T, u model.User) string {
	tok, err := api.NewAuthenticator(secret).SignToken(u, time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func TestLoadBank(t *testing.T) {
	Convey("Given quiz bank files", t, func() {
		Convey("When the bank is well formed", func() {
			b, err := seed.LoadBank("testdata/bank.yaml")

			Convey("Then quizzes and questions keep file order", func() {
				So(err, ShouldBeNil)
				So(b.Quizzes, ShouldHaveLength, 2)
				So(b.Quizzes[0].Title, ShouldEqual, "LQA Fundamentals")
				So(b.Quizzes[0].Questions, ShouldHaveLength, 3)
				So(b.Quizzes[0].Questions[2].Options, ShouldResemble, []string{"Accuracy", "Fluency", "Terminology", "Pricing"})
				So(b.Quizzes[1].SourceLanguage, ShouldEqual, "en")
				So(b.Quizzes[0].Active, ShouldBeNil)
			})
		})

		Convey("When the bank is empty", func() {
			_, err := seed.LoadBank("testdata/empty.yaml")
			So(err, ShouldWrap, seed.ErrEmptyBank)
		})

		Convey("When a quiz has no title", func() {
			_, err := seed.LoadBank("testdata/untitled.yaml")
			So(err, ShouldWrap, seed.ErrLoadBank)
		})

		Convey("When the file does not exist", func() {
			_, err := seed.LoadBank("testdata/missing.yaml")
			So(err, ShouldWrap, seed.ErrLoadBank)
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given a running API", t, func() {
		svc, ts := newAPI(t)
		ctx := context.Background()
		cfg := seed.Config{
			BaseURL:  ts.URL,
			Token:    token(t, admin),
			BankFile: "testdata/bank.yaml",
			Workers:  2,
			Timeout:  5 * time.Second,
			Logger:   logger.Nop(),
		}

		Convey("When an admin seeds the bank", func() {
			stats, err := seed.Run(ctx, cfg)

			Convey("Then every quiz is published active with ordered questions", func() {
				So(err, ShouldBeNil)
				So(stats.QuizzesCreated, ShouldEqual, 2)
				So(stats.QuestionsCreated, ShouldEqual, 5)
				So(stats.QuizIDs, ShouldHaveLength, 2)

				v, err := svc.GetQuiz(ctx, admin, stats.QuizIDs[0])
				So(err, ShouldBeNil)
				So(v.Quiz.Active, ShouldBeTrue)
				So(v.Questions, ShouldHaveLength, 3)
				So(v.Questions[0].Order, ShouldEqual, 1)
				So(v.Questions[2].QuestionType, ShouldEqual, model.QuestionMultiSelect)
				So(v.TotalPoints, ShouldEqual, 6.0)
			})
		})

		Convey("When the token belongs to an applicant", func() {
			cfg.Token = token(t, model.User{Email: "maria@example.com", Role: model.RoleApplicant})
			stats, err := seed.Run(ctx, cfg)

			Convey("Then every quiz fails with a forbidden response", func() {
				So(err, ShouldWrap, seed.ErrSeed)
				So(stats.QuizzesFailed, ShouldEqual, 2)
				So(stats.QuizzesCreated, ShouldEqual, 0)
			})
		})

		Convey("When a question's answer key is not among its options", func() {
			cfg.BankFile = "testdata/bad_answer.yaml"
			stats, err := seed.Run(ctx, cfg)

			Convey("Then the quiz is reported as failed", func() {
				So(err, ShouldWrap, seed.ErrSeed)
				So(stats.QuizzesFailed, ShouldEqual, 1)
				So(stats.QuestionsCreated, ShouldEqual, 0)
			})
		})
	})
}
