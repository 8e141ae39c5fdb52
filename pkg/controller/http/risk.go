package http

import (
	"net/http"
)

func (s *Server) listRisks(w http.ResponseWriter, r *http.Request) {
	risks, err := s.uc.Risk.List(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	payload := make([]*riskPayload, 0, len(risks))
	for _, risk := range risks {
		payload = append(payload, riskToPayload(risk))
	}
	s.respondJSON(w, http.StatusOK, payload)
}

func (s *Server) createRisk(w http.ResponseWriter, r *http.Request) {
	var req riskPayload
	if !s.decode(w, r, &req) {
		return
	}

	risk, err := s.uc.Risk.Create(r.Context(), req.toModel())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, riskToPayload(risk))
}

func (s *Server) getRisk(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	risk, err := s.uc.Risk.Get(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, riskToPayload(risk))
}

func (s *Server) updateRisk(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	var req riskPayload
	if !s.decode(w, r, &req) {
		return
	}
	risk := req.toModel()
	risk.ID = id

	updated, err := s.uc.Risk.Update(r.Context(), risk)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, riskToPayload(updated))
}

func (s *Server) deleteRisk(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	if err := s.uc.Risk.Delete(r.Context(), id); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) getRiskLevel(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	risk, err := s.uc.Risk.Get(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	level, err := s.uc.Risk.Classify(r.Context(), risk)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"id":             risk.ID,
		"residual_score": risk.ResidualScore,
		"level":          string(level),
	})
}
