package http

import (
	"net/http"
)

func (s *Server) getHeatMap(w http.ResponseWriter, r *http.Request) {
	report, err := s.uc.Report.HeatMap(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	type cell struct {
		Likelihood int    `json:"likelihood"`
		Impact     int    `json:"impact"`
		Count      int    `json:"count"`
		Level      string `json:"level"`
	}
	cells := make([]cell, 0, len(report.Cells))
	for _, c := range report.Cells {
		cells = append(cells, cell{
			Likelihood: c.Likelihood,
			Impact:     c.Impact,
			Count:      c.Count,
			Level:      string(c.Level),
		})
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"cells":   cells,
		"unrated": report.Unrated,
	})
}

func (s *Server) getControlStatus(w http.ResponseWriter, r *http.Request) {
	summary, err := s.uc.Report.ControlStatus(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	byStatus := make(map[string]int, len(summary.ByStatus))
	for status, count := range summary.ByStatus {
		byStatus[string(status)] = count
	}
	byResult := make(map[string]int, len(summary.ByResult))
	for result, count := range summary.ByResult {
		byResult[string(result)] = count
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"by_status":    byStatus,
		"by_result":    byResult,
		"key_controls": summary.KeyControls,
		"overdue":      summary.Overdue,
		"total":        summary.Total,
	})
}
