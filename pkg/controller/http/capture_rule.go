package http

import (
	"net/http"
)

func (s *Server) listCaptureRules(w http.ResponseWriter, r *http.Request) {
	rules, err := s.uc.CaptureRule.List(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	payload := make([]*captureRulePayload, 0, len(rules))
	for _, rule := range rules {
		payload = append(payload, captureRuleToPayload(rule))
	}
	s.respondJSON(w, http.StatusOK, payload)
}

func (s *Server) createCaptureRule(w http.ResponseWriter, r *http.Request) {
	var req captureRulePayload
	if !s.decode(w, r, &req) {
		return
	}

	rule, err := s.uc.CaptureRule.Create(r.Context(), req.toModel())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, captureRuleToPayload(rule))
}

func (s *Server) getCaptureRule(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	rule, err := s.uc.CaptureRule.Get(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, captureRuleToPayload(rule))
}

func (s *Server) updateCaptureRule(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	var req captureRulePayload
	if !s.decode(w, r, &req) {
		return
	}
	rule := req.toModel()
	rule.ID = id

	updated, err := s.uc.CaptureRule.Update(r.Context(), rule)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, captureRuleToPayload(updated))
}

func (s *Server) deleteCaptureRule(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	if err := s.uc.CaptureRule.Delete(r.Context(), id); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusNoContent, nil)
}
