package http

import (
	"net/http"
)

func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.uc.Settings.Get(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, settingsToPayload(settings))
}

func (s *Server) putSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsPayload
	if !s.decode(w, r, &req) {
		return
	}

	settings, err := s.uc.Settings.Save(r.Context(), req.toModel())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, settingsToPayload(settings))
}
