package api

import (
	"net/http"

	"github.com/okian/linguist/internal/domain/model"
)

type stageRequest struct {
	Stage string `json:"stage"`
}

func (s *Server) handleCreateFreelancer(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_freelancer"
	var in model.Freelancer
	if err := s.decode(r, op, "freelancer", &in); err != nil {
		writeError(w, err)
		return
	}
	f, err := s.deps.CreateFreelancer(r.Context(), currentUser(r), in)
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

func (s *Server) handleListFreelancers(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_freelancers"
	fs, err := s.deps.ListFreelancers(r.Context(), currentUser(r), r.URL.Query().Get("stage"))
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, fs)
}

func (s *Server) handleGetFreelancer(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_freelancer"
	f, err := s.deps.GetFreelancer(r.Context(), currentUser(r), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) handleUpdateStage(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_stage"
	var req stageRequest
	if err := s.decode(r, op, "stage", &req); err != nil {
		writeError(w, err)
		return
	}
	f, err := s.deps.UpdateFreelancerStage(r.Context(), currentUser(r), r.PathValue("id"), req.Stage)
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) handleFreelancerQuality(w http.ResponseWriter, r *http.Request) {
	const op = "api.freelancer_quality"
	q, err := s.deps.FreelancerQuality(r.Context(), currentUser(r), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) handleRanking(w http.ResponseWriter, r *http.Request) {
	const op = "api.ranking"
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	entries, err := s.deps.Ranking(r.Context(), currentUser(r), limit)
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
