package http

import (
	"net/http"
)

func (s *Server) listExecutions(w http.ResponseWriter, r *http.Request) {
	execs, err := s.uc.TestExecution.List(r.Context())
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

func (s *Server) createExecution(w http.ResponseWriter, r *http.Request) {
	var req executionPayload
	if !s.decode(w, r, &req) {
		return
	}

	exec, err := s.uc.TestExecution.Create(r.Context(), req.toModel())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, executionToPayload(exec))
}

func (s *Server) getExecution(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	exec, err := s.uc.TestExecution.Get(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, executionToPayload(exec))
}

func (s *Server) updateExecution(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	var req executionPayload
	if !s.decode(w, r, &req) {
		return
	}
	exec := req.toModel()
	exec.ID = id

	updated, err := s.uc.TestExecution.Update(r.Context(), exec)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, executionToPayload(updated))
}

func (s *Server) deleteExecution(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	if err := s.uc.TestExecution.Delete(r.Context(), id); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) submitExecution(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	exec, err := s.uc.TestExecution.Submit(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, executionToPayload(exec))
}

func (s *Server) cancelExecution(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	exec, err := s.uc.TestExecution.Cancel(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, executionToPayload(exec))
}
