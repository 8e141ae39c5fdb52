package http

import (
	"net/http"
)

func (s *Server) listEvidence(w http.ResponseWriter, r *http.Request) {
	evs, err := s.uc.Evidence.List(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	payload := make([]*evidencePayload, 0, len(evs))
	for _, ev := range evs {
		payload = append(payload, evidenceToPayload(ev))
	}
	s.respondJSON(w, http.StatusOK, payload)
}

func (s *Server) getEvidence(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	ev, err := s.uc.Evidence.Get(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, evidenceToPayload(ev))
}

func (s *Server) verifyEvidence(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	if err := s.uc.Evidence.Verify(r.Context(), id); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"id":    id,
		"valid": true,
	})
}

func (s *Server) deleteEvidence(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	if err := s.uc.Evidence.Delete(r.Context(), id); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusNoContent, nil)
}
