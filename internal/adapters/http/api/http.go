// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	service "github.com/okian/linguist/internal/app"
	"github.com/okian/linguist/internal/domain/model"
	"github.com/okian/linguist/internal/domain/quality"
	"github.com/okian/linguist/internal/domain/types"
	"github.com/okian/linguist/pkg/logger"
)

const defaultMaxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	CreateFreelancer(ctx context.Context, actor model.User, in model.Freelancer) (model.Freelancer, error)
	GetFreelancer(ctx context.Context, actor model.User, id string) (model.Freelancer, error)
	ListFreelancers(ctx context.Context, actor model.User, stage string) ([]model.Freelancer, error)
	UpdateFreelancerStage(ctx context.Context, actor model.User, id, stage string) (model.Freelancer, error)
	Ranking(ctx context.Context, actor model.User, limit int) ([]types.RankingEntry, error)
	FreelancerQuality(ctx context.Context, actor model.User, freelancerID string) (types.QualityView, error)

	CreateReport(ctx context.Context, actor model.User, in model.QualityReport) (types.ReportView, error)
	GetReport(ctx context.Context, actor model.User, id string) (types.ReportView, error)
	ListReports(ctx context.Context, actor model.User, f service.ReportFilter) ([]types.ReportView, error)
	TransitionReport(ctx context.Context, actor model.User, id, action, comments string) (types.ReportView, error)
	QualityBreakdown(ctx context.Context, actor model.User, freelancerID string) (quality.Breakdown, error)

	Settings(ctx context.Context) (quality.Settings, error)
	UpdateSettings(ctx context.Context, actor model.User, qs quality.Settings) (quality.Settings, error)

	CreateQuiz(ctx context.Context, actor model.User, in model.Quiz) (model.Quiz, error)
	AddQuestion(ctx context.Context, actor model.User, quizID string, q model.Question) (model.Question, error)
	GetQuiz(ctx context.Context, actor model.User, id string) (types.QuizView, error)
	SubmitAttempt(ctx context.Context, actor model.User, req service.AttemptRequest) (types.AttemptResult, error)
	AssignQuiz(ctx context.Context, actor model.User, quizID, freelancerID string, deadline *time.Time) (types.AssignmentView, bool, error)
	ListAssignments(ctx context.Context, actor model.User, freelancerID string) ([]types.AssignmentView, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	deps         Dependencies
	health       *HealthHandler
	stats        *StatsHandler
	auth         *Authenticator
	schemas      schemas
	maxBodyBytes int64
	logger       logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) (*Server, error) {
	sc, err := compileSchemas()
	if err != nil {
		return nil, err
	}
	s := &Server{
		deps:         deps,
		health:       NewHealthHandler(),
		stats:        NewStatsHandler(statsProvider),
		schemas:      sc,
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.auth == nil {
		return nil, fmt.Errorf("jwt secret: %w", ErrUnauthorized)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("api")
	}
	return s, nil
}

// Handler returns mux wrapped so bearer tokens are resolved for every route.
func (s *Server) Handler(mux *http.ServeMux) http.Handler {
	return s.auth.WithAuth(mux)
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	open := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, MetricsMiddleware(h, endpoint))
	}
	authed := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, MetricsMiddleware(RequireAuth(h), endpoint))
	}

	open("GET /healthz", "healthz", s.health.HandleHealth)
	open("GET /stats", "stats", s.stats.HandleStats)

	authed("GET /me", "me", s.handleMe)

	authed("GET /settings/quality", "settings", s.handleGetSettings)
	authed("PUT /settings/quality", "settings", s.handlePutSettings)

	authed("POST /freelancers", "freelancers", s.handleCreateFreelancer)
	authed("GET /freelancers", "freelancers", s.handleListFreelancers)
	authed("GET /freelancers/ranking", "ranking", s.handleRanking)
	authed("GET /freelancers/{id}", "freelancer", s.handleGetFreelancer)
	authed("PATCH /freelancers/{id}/stage", "freelancer_stage", s.handleUpdateStage)
	authed("GET /freelancers/{id}/quality", "freelancer_quality", s.handleFreelancerQuality)

	authed("POST /reports", "reports", s.handleCreateReport)
	authed("GET /reports", "reports", s.handleListReports)
	authed("GET /reports/{id}", "report", s.handleGetReport)
	authed("POST /reports/{id}/transitions", "report_transitions", s.handleTransition)
	authed("GET /analytics/quality", "analytics", s.handleBreakdown)

	authed("POST /quizzes", "quizzes", s.handleCreateQuiz)
	authed("GET /quizzes/{id}", "quiz", s.handleGetQuiz)
	authed("POST /quizzes/{id}/questions", "quiz_questions", s.handleAddQuestion)
	authed("POST /quizzes/{id}/attempts", "quiz_attempts", s.handleSubmitAttempt)

	authed("POST /assignments", "assignments", s.handleAssign)
	authed("GET /assignments", "assignments", s.handleListAssignments)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currentUser(r))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	msg := http.StatusText(status)
	if err != nil && status < http.StatusInternalServerError {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// fail logs server-side failures and writes the mapped error response.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if status, _ := classify(err); status >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Error(err),
		)
	}
	writeError(w, err)
}

// decode reads the body, validates it against the named schema and
// unmarshals it into v.
func (s *Server) decode(r *http.Request, op, schema string, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, s.maxBodyBytes+1))
	if err != nil {
		return WrapKind(op, ErrBadRequest, err)
	}
	if int64(len(body)) > s.maxBodyBytes {
		return WrapKind(op, ErrBadRequest, errors.New("request body too large"))
	}
	if len(body) == 0 {
		return WrapKind(op, ErrBadRequest, errors.New("empty body"))
	}
	if err := s.schemas.validate(schema, body); err != nil {
		return WrapKind(op, ErrBadRequest, err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return WrapKind(op, ErrBadRequest, err)
	}
	return nil
}

func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", key)
	}
	return n, nil
}
