package api

import (
	"net/http"

	"github.com/okian/linguist/internal/domain/model"
	"github.com/okian/linguist/internal/domain/quality"
)

const settingsID = "quality"

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_settings"
	qs, err := s.deps.Settings(r.Context())
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, qs.ToModel(settingsID))
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_settings"
	var in model.QualitySettings
	if err := s.decode(r, op, "settings", &in); err != nil {
		writeError(w, err)
		return
	}
	qs, err := s.deps.UpdateSettings(r.Context(), currentUser(r), quality.FromModel(in))
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, qs.ToModel(settingsID))
}
