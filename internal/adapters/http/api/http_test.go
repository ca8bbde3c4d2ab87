package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/linguist/internal/adapters/http/api"
	service "github.com/okian/linguist/internal/app"
	"github.com/okian/linguist/internal/domain/model"
	"github.com/okian/linguist/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

const secret = "test-secret"

var (
	admin     = model.User{Email: "admin@agency.test", FullName: "Ada", Role: model.RoleAdmin}
	pm        = model.User{Email: "pm@agency.test", FullName: "Pat", Role: model.RoleProjectManager}
	applicant = model.User{Email: "maria@example.com", FullName: "Maria", Role: model.RoleApplicant}
)

type harness struct {
	handler http.Handler
	auth    *api.Authenticator
}

func newHarness() *harness {
	svc := service.New(service.WithLogger(logger.Nop()))
	auth := api.NewAuthenticator(secret)
	srv, err := api.NewServer(svc, svc, api.WithAuthenticator(auth), api.WithLogger(logger.Nop()))
	So(err, ShouldBeNil)
	mux := http.NewServeMux()
	srv.Register(context.Background(), mux)
	return &harness{handler: srv.Handler(mux), auth: auth}
}

func (h *harness) do(u *model.User, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			_ = json.NewEncoder(&buf).Encode(b)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if u != nil {
		tok, err := h.auth.SignToken(*u, time.Hour)
		So(err, ShouldBeNil)
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	h.handler.ServeHTTP(w, req)
	return w
}

func decodeBody(w *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	So(json.Unmarshal(w.Body.Bytes(), &out), ShouldBeNil)
	return out
}

func TestNewServer(t *testing.T) {
	Convey("Given no jwt secret", t, func() {
		_, err := api.NewServer(service.New(service.WithLogger(logger.Nop())), nil)

		Convey("Then the server refuses to start", func() {
			So(err, ShouldNotBeNil)
		})
	})
}

func TestOpenRoutes(t *testing.T) {
	Convey("Given a registered server", t, func() {
		h := newHarness()

		Convey("Then /healthz serves the metrics exposition", func() {
			w := h.do(nil, http.MethodGet, "/healthz", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("Then /stats serves JSON", func() {
			w := h.do(nil, http.MethodGet, "/stats", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decodeBody(w)["started"], ShouldEqual, false)
		})
	})
}

func TestAuth(t *testing.T) {
	Convey("Given a registered server", t, func() {
		h := newHarness()

		Convey("When /me is called without a token", func() {
			w := h.do(nil, http.MethodGet, "/me", nil)

			Convey("Then it is unauthorized", func() {
				So(w.Code, ShouldEqual, http.StatusUnauthorized)
				So(decodeBody(w)["code"], ShouldEqual, "unauthorized")
			})
		})

		Convey("When the token is signed with another secret", func() {
			other := api.NewAuthenticator("nope")
			tok, err := other.SignToken(admin, time.Hour)
			So(err, ShouldBeNil)
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			req.Header.Set("Authorization", "Bearer "+tok)
			w := httptest.NewRecorder()
			h.handler.ServeHTTP(w, req)

			Convey("Then it is unauthorized", func() {
				So(w.Code, ShouldEqual, http.StatusUnauthorized)
			})
		})

		Convey("When the token has expired", func() {
			tok, err := h.auth.SignToken(admin, -time.Minute)
			So(err, ShouldBeNil)
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			req.Header.Set("Authorization", "Bearer "+tok)
			w := httptest.NewRecorder()
			h.handler.ServeHTTP(w, req)

			Convey("Then it is unauthorized", func() {
				So(w.Code, ShouldEqual, http.StatusUnauthorized)
			})
		})

		Convey("When /me is called with a valid token", func() {
			w := h.do(&pm, http.MethodGet, "/me", nil)

			Convey("Then the caller is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				body := decodeBody(w)
				So(body["email"], ShouldEqual, pm.Email)
				So(body["role"], ShouldEqual, string(model.RoleProjectManager))
			})
		})
	})
}

func TestReportFlow(t *testing.T) {
	Convey("Given a freelancer created over HTTP", t, func() {
		h := newHarness()

		w := h.do(&pm, http.MethodPost, "/freelancers", map[string]any{
			"full_name": "Maria Rossi",
			"email":     "maria@example.com",
			"rates":     []map[string]any{{"service": "translation", "unit": "word", "amount": 0.1}},
		})
		So(w.Code, ShouldEqual, http.StatusCreated)
		fid := decodeBody(w)["id"].(string)

		Convey("When the same email is posted again", func() {
			w := h.do(&pm, http.MethodPost, "/freelancers", map[string]any{"full_name": "Dup", "email": "maria@example.com"})

			Convey("Then it conflicts", func() {
				So(w.Code, ShouldEqual, http.StatusConflict)
			})
		})

		Convey("When a body misses required fields", func() {
			w := h.do(&pm, http.MethodPost, "/freelancers", map[string]any{"full_name": "No Email"})

			Convey("Then schema validation rejects it", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeBody(w)["code"], ShouldEqual, "bad_request")
			})
		})

		Convey("When an unknown freelancer is fetched", func() {
			w := h.do(&pm, http.MethodGet, "/freelancers/missing", nil)

			Convey("Then it is not found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When a report is created, submitted and accepted", func() {
			w := h.do(&pm, http.MethodPost, "/reports", map[string]any{
				"freelancer_id": fid,
				"report_type":   "LQA",
				"lqa_score":     80,
			})
			So(w.Code, ShouldEqual, http.StatusCreated)
			rid := decodeBody(w)["id"].(string)

			w = h.do(&applicant, http.MethodPost, "/reports/"+rid+"/transitions", map[string]any{"action": "accept"})
			So(w.Code, ShouldEqual, http.StatusConflict)
			So(decodeBody(w)["code"], ShouldEqual, "invalid_transition")

			w = h.do(&pm, http.MethodPost, "/reports/"+rid+"/transitions", map[string]any{"action": "submit"})
			So(w.Code, ShouldEqual, http.StatusOK)

			w = h.do(&applicant, http.MethodPost, "/reports/"+rid+"/transitions", map[string]any{"action": "dispute", "comments": ""})
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeBody(w)["code"], ShouldEqual, "comments_required")

			w = h.do(&applicant, http.MethodPost, "/reports/"+rid+"/transitions", map[string]any{"action": "accept"})
			So(w.Code, ShouldEqual, http.StatusOK)

			Convey("Then the freelancer quality reflects it", func() {
				w := h.do(&applicant, http.MethodGet, "/freelancers/"+fid+"/quality", nil)
				So(w.Code, ShouldEqual, http.StatusOK)
				body := decodeBody(w)
				So(body["combined_score"], ShouldEqual, 80.0)
				So(body["value_index"], ShouldEqual, 640.0)
			})

			Convey("Then the applicant lists their report", func() {
				w := h.do(&applicant, http.MethodGet, "/reports", nil)
				So(w.Code, ShouldEqual, http.StatusOK)
				var list []map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &list), ShouldBeNil)
				So(len(list), ShouldEqual, 1)
				So(list[0]["status"], ShouldEqual, string(model.StatusTranslatorAccepted))
			})

			Convey("Then analytics are staff only", func() {
				So(h.do(&applicant, http.MethodGet, "/analytics/quality", nil).Code, ShouldEqual, http.StatusForbidden)
				So(h.do(&pm, http.MethodGet, "/analytics/quality", nil).Code, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When the stage is patched", func() {
			w := h.do(&pm, http.MethodPatch, "/freelancers/"+fid+"/stage", map[string]any{"stage": "test sent"})

			Convey("Then the canonical stage is stored", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decodeBody(w)["status"], ShouldEqual, string(model.StageTestSent))
			})
		})

		Convey("When the ranking is requested with a bad limit", func() {
			w := h.do(&pm, http.MethodGet, "/freelancers/ranking?limit=abc", nil)

			Convey("Then it is a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestSettingsRoutes(t *testing.T) {
	Convey("Given a registered server", t, func() {
		h := newHarness()

		Convey("When settings are read", func() {
			w := h.do(&pm, http.MethodGet, "/settings/quality", nil)

			Convey("Then defaults are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				body := decodeBody(w)
				So(body["lqa_weight"], ShouldEqual, 4.0)
				So(body["qs_multiplier"], ShouldEqual, 20.0)
				So(body["dispute_period_days"], ShouldEqual, 7.0)
			})
		})

		Convey("When a project manager updates settings", func() {
			w := h.do(&pm, http.MethodPut, "/settings/quality", map[string]any{"lqa_weight": 2, "qs_multiplier": 10, "dispute_period_days": 5})

			Convey("Then it is forbidden", func() {
				So(w.Code, ShouldEqual, http.StatusForbidden)
			})
		})

		Convey("When an admin updates settings", func() {
			w := h.do(&admin, http.MethodPut, "/settings/quality", map[string]any{"lqa_weight": 2, "qs_multiplier": 10, "dispute_period_days": 5})

			Convey("Then the new values are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decodeBody(w)["dispute_period_days"], ShouldEqual, 5.0)
			})
		})

		Convey("When the dispute period is out of range", func() {
			w := h.do(&admin, http.MethodPut, "/settings/quality", map[string]any{"lqa_weight": 2, "qs_multiplier": 10, "dispute_period_days": 0})

			Convey("Then it is a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestQuizRoutes(t *testing.T) {
	Convey("Given a quiz with one question and an applicant", t, func() {
		h := newHarness()

		w := h.do(&pm, http.MethodPost, "/freelancers", map[string]any{"full_name": "Maria", "email": "maria@example.com"})
		So(w.Code, ShouldEqual, http.StatusCreated)
		fid := decodeBody(w)["id"].(string)

		w = h.do(&pm, http.MethodPost, "/quizzes", map[string]any{"title": "Basics", "passing_score": 50, "active": true})
		So(w.Code, ShouldEqual, http.StatusCreated)
		qid := decodeBody(w)["id"].(string)

		w = h.do(&pm, http.MethodPost, "/quizzes/"+qid+"/questions", map[string]any{
			"question_type":  "multiple_choice",
			"question_text":  "Pick the formal pronoun",
			"options":        []string{"tu", "Lei"},
			"correct_answer": "Lei",
			"points":         2,
		})
		So(w.Code, ShouldEqual, http.StatusCreated)
		questionID := decodeBody(w)["id"].(string)

		Convey("When it is assigned twice", func() {
			first := h.do(&pm, http.MethodPost, "/assignments", map[string]any{"quiz_id": qid, "freelancer_id": fid})
			second := h.do(&pm, http.MethodPost, "/assignments", map[string]any{"quiz_id": qid, "freelancer_id": fid})

			Convey("Then the second call reuses the assignment", func() {
				So(first.Code, ShouldEqual, http.StatusCreated)
				So(second.Code, ShouldEqual, http.StatusOK)
				So(decodeBody(second)["id"], ShouldEqual, decodeBody(first)["id"])
			})
		})

		Convey("When the applicant reads the quiz", func() {
			w := h.do(&applicant, http.MethodGet, "/quizzes/"+qid, nil)
			So(w.Code, ShouldEqual, http.StatusOK)

			Convey("Then answers are hidden", func() {
				qs := decodeBody(w)["questions"]
				first := qs.([]any)[0].(map[string]any)
				So(first["correct_answer"], ShouldEqual, "")
			})
		})

		Convey("When the applicant submits with an idempotency key twice", func() {
			body := map[string]any{"answers": map[string]string{questionID: "Lei"}}
			first := h.do(&applicant, http.MethodPost, "/quizzes/"+qid+"/attempts", body, api.IdempotencyHeader, "abc")
			second := h.do(&applicant, http.MethodPost, "/quizzes/"+qid+"/attempts", body, api.IdempotencyHeader, "abc")

			Convey("Then the retry returns the stored attempt", func() {
				So(first.Code, ShouldEqual, http.StatusCreated)
				So(second.Code, ShouldEqual, http.StatusOK)
				a, b := decodeBody(first), decodeBody(second)
				So(b["id"], ShouldEqual, a["id"])
				So(a["percentage"], ShouldEqual, 100.0)
				So(a["passed"], ShouldEqual, true)
			})
		})

		Convey("When the applicant tries to author a quiz", func() {
			w := h.do(&applicant, http.MethodPost, "/quizzes", map[string]any{"title": "Mine"})

			Convey("Then it is forbidden", func() {
				So(w.Code, ShouldEqual, http.StatusForbidden)
			})
		})

		Convey("When an attempt body is not JSON", func() {
			w := h.do(&applicant, http.MethodPost, "/quizzes/"+qid+"/attempts", "{not json")

			Convey("Then it is a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}
