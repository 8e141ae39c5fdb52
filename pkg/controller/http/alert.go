package http

import (
	"net/http"

	"github.com/grc-lab/attest/pkg/domain/types"
	"github.com/grc-lab/attest/pkg/utils/errutil"
	"github.com/m-mizutani/goerr/v2"
)

func (s *Server) listAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := s.uc.Alert.List(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	payload := make([]*alertPayload, 0, len(alerts))
	for _, a := range alerts {
		payload = append(payload, alertToPayload(a))
	}
	s.respondJSON(w, http.StatusOK, payload)
}

func (s *Server) getAlert(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	alert, err := s.uc.Alert.Get(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, alertToPayload(alert))
}

func (s *Server) updateAlertStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	status := types.AlertStatus(req.Status)
	switch status {
	case types.AlertStatusNew, types.AlertStatusAcknowledged,
		types.AlertStatusInProgress, types.AlertStatusResolved:
	default:
		errutil.HandleHTTP(r.Context(), w,
			goerr.New("invalid alert status", goerr.V("status", req.Status)),
			http.StatusBadRequest)
		return
	}

	alert, err := s.uc.Alert.UpdateStatus(r.Context(), id, status)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, alertToPayload(alert))
}

func (s *Server) deleteAlert(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	if err := s.uc.Alert.Delete(r.Context(), id); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) scanOverdue(w http.ResponseWriter, r *http.Request) {
	result, err := s.uc.Alert.ScanOverdue(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]int{
		"scanned":    result.Scanned,
		"created":    result.Created,
		"suppressed": result.Suppressed,
	})
}
