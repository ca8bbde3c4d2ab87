package api

import (
	"net/http"
	"strings"
	"time"

	service "github.com/okian/linguist/internal/app"
	"github.com/okian/linguist/internal/domain/model"
)

// IdempotencyHeader lets clients retry attempt submissions safely.
const IdempotencyHeader = "Idempotency-Key"

type attemptRequest struct {
	FreelancerID string            `json:"freelancer_id"`
	Answers      map[string]string `json:"answers"`
	StartedAt    *time.Time        `json:"started_at"`
}

type assignmentRequest struct {
	QuizID       string     `json:"quiz_id"`
	FreelancerID string     `json:"freelancer_id"`
	Deadline     *time.Time `json:"deadline"`
}

func (s *Server) handleCreateQuiz(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_quiz"
	var in model.Quiz
	if err := s.decode(r, op, "quiz", &in); err != nil {
		writeError(w, err)
		return
	}
	q, err := s.deps.CreateQuiz(r.Context(), currentUser(r), in)
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, q)
}

func (s *Server) handleGetQuiz(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_quiz"
	v, err := s.deps.GetQuiz(r.Context(), currentUser(r), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleAddQuestion(w http.ResponseWriter, r *http.Request) {
	const op = "api.add_question"
	var in model.Question
	if err := s.decode(r, op, "question", &in); err != nil {
		writeError(w, err)
		return
	}
	q, err := s.deps.AddQuestion(r.Context(), currentUser(r), r.PathValue("id"), in)
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, q)
}

func (s *Server) handleSubmitAttempt(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_attempt"
	var req attemptRequest
	if err := s.decode(r, op, "attempt", &req); err != nil {
		writeError(w, err)
		return
	}
	res, err := s.deps.SubmitAttempt(r.Context(), currentUser(r), service.AttemptRequest{
		QuizID:         r.PathValue("id"),
		FreelancerID:   req.FreelancerID,
		Answers:        req.Answers,
		StartedAt:      req.StartedAt,
		IdempotencyKey: strings.TrimSpace(r.Header.Get(IdempotencyHeader)),
	})
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	status := http.StatusCreated
	if res.Duplicate {
		status = http.StatusOK
	}
	writeJSON(w, status, res)
}

func (s *Server) handleAssign(w http.ResponseWriter, r *http.Request) {
	const op = "api.assign_quiz"
	var req assignmentRequest
	if err := s.decode(r, op, "assignment", &req); err != nil {
		writeError(w, err)
		return
	}
	v, created, err := s.deps.AssignQuiz(r.Context(), currentUser(r), req.QuizID, req.FreelancerID, req.Deadline)
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, v)
}

func (s *Server) handleListAssignments(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_assignments"
	vs, err := s.deps.ListAssignments(r.Context(), currentUser(r), r.URL.Query().Get("freelancer_id"))
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, vs)
}
