package http

import (
	"net/http"

	"github.com/grc-lab/attest/pkg/domain/model"
)

func (s *Server) listRegulatoryUpdates(w http.ResponseWriter, r *http.Request) {
	updates, err := s.uc.Regulatory.ListUpdates(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	payload := make([]*regulatoryUpdatePayload, 0, len(updates))
	for _, u := range updates {
		payload = append(payload, regulatoryUpdateToPayload(u))
	}
	s.respondJSON(w, http.StatusOK, payload)
}

func (s *Server) createRegulatoryUpdate(w http.ResponseWriter, r *http.Request) {
	var req regulatoryUpdatePayload
	if !s.decode(w, r, &req) {
		return
	}

	update, err := s.uc.Regulatory.CreateUpdate(r.Context(), req.toModel())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, regulatoryUpdateToPayload(update))
}

func (s *Server) getRegulatoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	update, err := s.uc.Regulatory.GetUpdate(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, regulatoryUpdateToPayload(update))
}

func (s *Server) listRegulatoryChanges(w http.ResponseWriter, r *http.Request) {
	changes, err := s.uc.Regulatory.ListChanges(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	payload := make([]*regulatoryChangePayload, 0, len(changes))
	for _, c := range changes {
		payload = append(payload, regulatoryChangeToPayload(c))
	}
	s.respondJSON(w, http.StatusOK, payload)
}

func (s *Server) createRegulatoryChange(w http.ResponseWriter, r *http.Request) {
	var req regulatoryChangePayload
	if !s.decode(w, r, &req) {
		return
	}

	change, err := s.uc.Regulatory.CreateChange(r.Context(), req.toModel())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, regulatoryChangeToPayload(change))
}

func (s *Server) getRegulatoryChange(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	change, err := s.uc.Regulatory.GetChange(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, regulatoryChangeToPayload(change))
}

func (s *Server) assessRegulatoryChange(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		MinConfidence float64 `json:"min_confidence"`
	}
	if r.ContentLength > 0 && !s.decode(w, r, &req) {
		return
	}

	created, err := s.uc.Regulatory.AssessImpact(r.Context(), id, req.MinConfidence)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	payload := make([]*assessmentPayload, 0, len(created))
	for _, a := range created {
		payload = append(payload, assessmentToPayload(a))
	}
	s.respondJSON(w, http.StatusOK, payload)
}

func (s *Server) listAssessments(w http.ResponseWriter, r *http.Request) {
	var (
		assessments []*model.RegulatoryAssessment
		err         error
	)
	if r.URL.Query().Get("pending") == "true" {
		assessments, err = s.uc.Regulatory.ListPendingAssessments(r.Context())
	} else {
		assessments, err = s.uc.Regulatory.ListAssessments(r.Context())
	}
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	payload := make([]*assessmentPayload, 0, len(assessments))
	for _, a := range assessments {
		payload = append(payload, assessmentToPayload(a))
	}
	s.respondJSON(w, http.StatusOK, payload)
}

func (s *Server) getAssessment(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	assessment, err := s.uc.Regulatory.GetAssessment(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, assessmentToPayload(assessment))
}

func (s *Server) completeAssessment(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		ActionTaken     string `json:"action_taken"`
		CompletionNotes string `json:"completion_notes"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	assessment, err := s.uc.Regulatory.CompleteAssessment(r.Context(), id, req.ActionTaken, req.CompletionNotes)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, assessmentToPayload(assessment))
}

func (s *Server) dismissAssessment(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	assessment, err := s.uc.Regulatory.DismissAssessment(r.Context(), id, req.Reason)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, assessmentToPayload(assessment))
}
