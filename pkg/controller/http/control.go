package http

import (
	"net/http"
)

func (s *Server) listControls(w http.ResponseWriter, r *http.Request) {
	controls, err := s.uc.Control.List(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	payload := make([]*controlPayload, 0, len(controls))
	for _, c := range controls {
		payload = append(payload, controlToPayload(c))
	}
	s.respondJSON(w, http.StatusOK, payload)
}

func (s *Server) createControl(w http.ResponseWriter, r *http.Request) {
	var req controlPayload
	if !s.decode(w, r, &req) {
		return
	}

	control, err := s.uc.Control.Create(r.Context(), req.toModel())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, controlToPayload(control))
}

func (s *Server) getControl(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	control, err := s.uc.Control.Get(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, controlToPayload(control))
}

func (s *Server) updateControl(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	var req controlPayload
	if !s.decode(w, r, &req) {
		return
	}
	control := req.toModel()
	control.ID = id

	updated, err := s.uc.Control.Update(r.Context(), control)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, controlToPayload(updated))
}

func (s *Server) deleteControl(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	if err := s.uc.Control.Delete(r.Context(), id); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) listControlExecutions(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	execs, err := s.uc.TestExecution.ListByControl(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	payload := make([]*executionPayload, 0, len(execs))
	for _, e := range execs {
		payload = append(payload, executionToPayload(e))
	}
	s.respondJSON(w, http.StatusOK, payload)
}

func (s *Server) listControlDeficiencies(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	defs, err := s.uc.Deficiency.ListByControl(r.Context(), id)
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

func (s *Server) listControlEvidence(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	evs, err := s.uc.Evidence.ListByControl(r.Context(), id)
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
