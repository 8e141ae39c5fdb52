package http

import (
	"net/http"
)

func (s *Server) listDeficiencies(w http.ResponseWriter, r *http.Request) {
	defs, err := s.uc.Deficiency.List(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	payload := make([]*deficiencyPayload, 0, len(defs))
	for _, d := range defs {
		payload = append(payload, deficiencyToPayload(d))
	}
	s.respondJSON(w, http.StatusOK, payload)
}

func (s *Server) createDeficiency(w http.ResponseWriter, r *http.Request) {
	var req deficiencyPayload
	if !s.decode(w, r, &req) {
		return
	}

	def, err := s.uc.Deficiency.Create(r.Context(), req.toModel())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, deficiencyToPayload(def))
}

func (s *Server) getDeficiency(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	def, err := s.uc.Deficiency.Get(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, deficiencyToPayload(def))
}

func (s *Server) updateDeficiency(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	var req deficiencyPayload
	if !s.decode(w, r, &req) {
		return
	}
	def := req.toModel()
	def.ID = id

	updated, err := s.uc.Deficiency.Update(r.Context(), def)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, deficiencyToPayload(updated))
}

func (s *Server) deleteDeficiency(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	if err := s.uc.Deficiency.Delete(r.Context(), id); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) closeDeficiency(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		ClosureNotes string `json:"closure_notes"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	def, err := s.uc.Deficiency.Close(r.Context(), id, req.ClosureNotes)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, deficiencyToPayload(def))
}
