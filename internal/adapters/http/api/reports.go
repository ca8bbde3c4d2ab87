package api

import (
	"net/http"

	service "github.com/okian/linguist/internal/app"
	"github.com/okian/linguist/internal/domain/model"
)

type transitionRequest struct {
	Action   string `json:"action"`
	Comments string `json:"comments"`
}

func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_report"
	var in model.QualityReport
	if err := s.decode(r, op, "report", &in); err != nil {
		writeError(w, err)
		return
	}
	v, err := s.deps.CreateReport(r.Context(), currentUser(r), in)
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_reports"
	q := r.URL.Query()
	vs, err := s.deps.ListReports(r.Context(), currentUser(r), service.ReportFilter{
		FreelancerID: q.Get("freelancer_id"),
		Status:       model.ReportStatus(q.Get("status")),
	})
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, vs)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_report"
	v, err := s.deps.GetReport(r.Context(), currentUser(r), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleTransition(w http.ResponseWriter, r *http.Request) {
	const op = "api.transition_report"
	var req transitionRequest
	if err := s.decode(r, op, "transition", &req); err != nil {
		writeError(w, err)
		return
	}
	v, err := s.deps.TransitionReport(r.Context(), currentUser(r), r.PathValue("id"), req.Action, req.Comments)
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	const op = "api.quality_breakdown"
	b, err := s.deps.QualityBreakdown(r.Context(), currentUser(r), r.URL.Query().Get("freelancer_id"))
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, b)
}
