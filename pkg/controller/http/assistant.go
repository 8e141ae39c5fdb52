package http

import (
	"net/http"
	"strconv"
	"time"
)

type queryRecordPayload struct {
	ID     int64  `json:"id"`
	Label  string `json:"label"`
	Status string `json:"status,omitempty"`
}

type queryAnswerPayload struct {
	Question  string               `json:"question"`
	Intents   []string             `json:"intents,omitempty"`
	Kind      string               `json:"kind"`
	Count     int                  `json:"count"`
	CountOnly bool                 `json:"count_only,omitempty"`
	Records   []queryRecordPayload `json:"records,omitempty"`
	Answer    string               `json:"answer"`
	LLMUsed   bool                 `json:"llm_used"`
}

func (s *Server) assistantQuery(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	answer, err := s.uc.Assistant.Query(r.Context(), req.Question)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	payload := &queryAnswerPayload{
		Question:  answer.Question,
		Intents:   answer.Intents,
		Kind:      string(answer.Kind),
		Count:     answer.Count,
		CountOnly: answer.CountOnly,
		Answer:    answer.Answer,
		LLMUsed:   answer.LLMUsed,
	}
	for _, rec := range answer.Records {
		payload.Records = append(payload.Records, queryRecordPayload{
			ID:     rec.ID,
			Label:  rec.Label,
			Status: rec.Status,
		})
	}
	s.respondJSON(w, http.StatusOK, payload)
}

type testingSuggestionPayload struct {
	ControlID     int64     `json:"control_id"`
	ControlName   string    `json:"control_name"`
	PriorityScore float64   `json:"priority_score"`
	Reasons       []string  `json:"reasons,omitempty"`
	LastTestDate  time.Time `json:"last_test_date,omitempty"`
	TestFrequency string    `json:"test_frequency,omitempty"`
}

func (s *Server) suggestTestingPriority(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	suggestions, err := s.uc.Assistant.SuggestTestingPriority(r.Context(), limit)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	payload := make([]*testingSuggestionPayload, 0, len(suggestions))
	for _, sug := range suggestions {
		payload = append(payload, &testingSuggestionPayload{
			ControlID:     sug.ControlID,
			ControlName:   sug.ControlName,
			PriorityScore: sug.PriorityScore,
			Reasons:       sug.Reasons,
			LastTestDate:  sug.LastTestDate,
			TestFrequency: string(sug.TestFrequency),
		})
	}
	s.respondJSON(w, http.StatusOK, payload)
}

type controlSuggestionPayload struct {
	ControlID      int64   `json:"control_id"`
	ControlName    string  `json:"control_name"`
	RelevanceScore float64 `json:"relevance_score"`
	Reasoning      string  `json:"reasoning,omitempty"`
}

func (s *Server) suggestControlsForRisk(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	suggestions, err := s.uc.Assistant.SuggestControlsForRisk(r.Context(), id, limit)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	payload := make([]*controlSuggestionPayload, 0, len(suggestions))
	for _, sug := range suggestions {
		payload = append(payload, &controlSuggestionPayload{
			ControlID:      sug.ControlID,
			ControlName:    sug.ControlName,
			RelevanceScore: sug.RelevanceScore,
			Reasoning:      sug.Reasoning,
		})
	}
	s.respondJSON(w, http.StatusOK, payload)
}
