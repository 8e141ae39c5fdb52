package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	httpctrl "github.com/grc-lab/attest/pkg/controller/http"
	"github.com/grc-lab/attest/pkg/repository/memory"
	"github.com/grc-lab/attest/pkg/usecase"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	uc := usecase.New(memory.New())
	srv := httptest.NewServer(httpctrl.New(uc).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var out bytes.Buffer
	if _, err := out.ReadFrom(resp.Body); err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return resp, out.Bytes()
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/health", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if string(body) != "OK" {
		t.Errorf("expected OK body, got %s", body)
	}
}

func TestRiskEndpoints(t *testing.T) {
	srv := newTestServer(t)

	t.Run("create derives scores", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/risks", map[string]any{
			"title":               "Unauthorized journal entries",
			"residual_likelihood": "4 - Likely",
			"residual_impact":     "5 - Severe",
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", resp.StatusCode, body)
		}

		var created struct {
			ID            int64  `json:"id"`
			Status        string `json:"status"`
			ResidualScore int    `json:"residual_score"`
		}
		if err := json.Unmarshal(body, &created); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if created.ResidualScore != 20 {
			t.Errorf("expected residual score 20, got %d", created.ResidualScore)
		}
		if created.Status != "Open" {
			t.Errorf("expected status Open, got %s", created.Status)
		}
	})

	t.Run("create without title is 400", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/risks", map[string]any{
			"description": "missing title",
		})
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", resp.StatusCode)
		}
	})

	t.Run("get missing risk is 404", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/risks/99999", nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404, got %d", resp.StatusCode)
		}
	})

	t.Run("level needs configured thresholds", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/risks/1/level", nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400 before settings exist, got %d", resp.StatusCode)
		}

		resp, _ = doJSON(t, http.MethodPut, srv.URL+"/api/settings", map[string]any{
			"high_risk_threshold":     10,
			"critical_risk_threshold": 17,
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200 saving settings, got %d", resp.StatusCode)
		}

		resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/risks/1/level", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
		}
		var level struct {
			Level string `json:"level"`
		}
		if err := json.Unmarshal(body, &level); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if level.Level != "Critical" {
			t.Errorf("expected Critical, got %s", level.Level)
		}
	})
}

func TestExecutionLifecycleEndpoints(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/controls", map[string]any{
		"name":           "Quarterly access review",
		"status":         "Active",
		"test_frequency": "Quarterly",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 creating control, got %d: %s", resp.StatusCode, body)
	}
	var control struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(body, &control); err != nil {
		t.Fatalf("failed to decode control: %v", err)
	}

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/executions", map[string]any{
		"control_id":  control.ID,
		"tester":      "auditor@example.com",
		"test_result": "Effective",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 creating execution, got %d: %s", resp.StatusCode, body)
	}
	var exec struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &exec); err != nil {
		t.Fatalf("failed to decode execution: %v", err)
	}
	if exec.Status != "Draft" {
		t.Errorf("expected Draft status, got %s", exec.Status)
	}

	submitURL := fmt.Sprintf("%s/api/executions/%d/submit", srv.URL, exec.ID)
	resp, body = doJSON(t, http.MethodPost, submitURL, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 submitting, got %d: %s", resp.StatusCode, body)
	}

	// Submitting twice is a lifecycle conflict
	resp, _ = doJSON(t, http.MethodPost, submitURL, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 on double submit, got %d", resp.StatusCode)
	}

	// Submitted executions are immutable
	resp, _ = doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/executions/%d", srv.URL, exec.ID), map[string]any{
		"control_id": control.ID,
		"procedure":  "changed after the fact",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 updating submitted execution, got %d", resp.StatusCode)
	}

	// The control carries the rolling summary
	resp, body = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/controls/%d", srv.URL, control.ID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var updated struct {
		LastTestResult string `json:"last_test_result"`
	}
	if err := json.Unmarshal(body, &updated); err != nil {
		t.Fatalf("failed to decode control: %v", err)
	}
	if updated.LastTestResult != "Effective" {
		t.Errorf("expected last test result Effective, got %s", updated.LastTestResult)
	}

	resp, body = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/executions/%d/cancel", srv.URL, exec.ID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 cancelling, got %d: %s", resp.StatusCode, body)
	}
}

func TestScanEndpoint(t *testing.T) {
	srv := newTestServer(t)

	// Without settings the scan is a no-op
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/scans/overdue", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	var result struct {
		Scanned int `json:"scanned"`
		Created int `json:"created"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
	if result.Created != 0 {
		t.Errorf("expected no alerts without settings, got %d", result.Created)
	}
}

func TestRegulatoryEndpoints(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/controls", map[string]any{
		"name":        "ICFR attestation",
		"description": "Attestation of internal control per SOX 404(b)",
		"status":      "Active",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 for control, got %d: %s", resp.StatusCode, body)
	}
	var control struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(body, &control); err != nil {
		t.Fatalf("failed to decode control: %v", err)
	}

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/regulatory/updates", map[string]any{
		"source_name": "SEC",
		"title":       "SOX amendment",
		"reference":   "SOX 404(b)",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 for update, got %d: %s", resp.StatusCode, body)
	}
	var update struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &update); err != nil {
		t.Fatalf("failed to decode update: %v", err)
	}
	if update.Status != "New" {
		t.Errorf("expected default status New, got %s", update.Status)
	}

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/regulatory/changes", map[string]any{
		"regulatory_update_id": update.ID,
		"summary":              "auditor attestation scope widened",
		"severity":             "Major",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 for change, got %d: %s", resp.StatusCode, body)
	}
	var change struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(body, &change); err != nil {
		t.Fatalf("failed to decode change: %v", err)
	}

	resp, body = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/regulatory/changes/%d/assess", srv.URL, change.ID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for assess, got %d: %s", resp.StatusCode, body)
	}
	var assessments []struct {
		ID              int64   `json:"id"`
		ControlID       int64   `json:"control_id"`
		ConfidenceScore float64 `json:"confidence_score"`
		Status          string  `json:"status"`
	}
	if err := json.Unmarshal(body, &assessments); err != nil {
		t.Fatalf("failed to decode assessments: %v", err)
	}
	if len(assessments) != 1 {
		t.Fatalf("expected 1 assessment, got %d", len(assessments))
	}
	if assessments[0].ControlID != control.ID {
		t.Errorf("expected assessment against control %d, got %d", control.ID, assessments[0].ControlID)
	}
	if assessments[0].ConfidenceScore != 90 {
		t.Errorf("expected citation confidence 90, got %v", assessments[0].ConfidenceScore)
	}

	resp, body = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/regulatory/assessments/%d/complete", srv.URL, assessments[0].ID), map[string]any{
		"action_taken": "control procedure updated",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for complete, got %d: %s", resp.StatusCode, body)
	}

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/regulatory/assessments?pending=true", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for pending list, got %d: %s", resp.StatusCode, body)
	}
	var pending []json.RawMessage
	if err := json.Unmarshal(body, &pending); err != nil {
		t.Fatalf("failed to decode pending list: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("expected no pending assessments after completion, got %d", len(pending))
	}
}

func TestAssistantEndpoints(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/controls", map[string]any{
		"name":   "access review",
		"status": "Active",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 for control, got %d: %s", resp.StatusCode, body)
	}

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/assistant/query", map[string]any{
		"question": "show me all controls",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for query, got %d: %s", resp.StatusCode, body)
	}
	var answer struct {
		Kind    string `json:"kind"`
		Count   int    `json:"count"`
		LLMUsed bool   `json:"llm_used"`
	}
	if err := json.Unmarshal(body, &answer); err != nil {
		t.Fatalf("failed to decode answer: %v", err)
	}
	if answer.Kind != "control" || answer.Count != 1 {
		t.Errorf("expected 1 control record, got kind=%s count=%d", answer.Kind, answer.Count)
	}
	if answer.LLMUsed {
		t.Error("expected rule-based answer without an LLM client")
	}

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/assistant/query", map[string]any{"question": ""})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for empty question, got %d: %s", resp.StatusCode, body)
	}

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/assistant/suggestions/testing", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for suggestions, got %d: %s", resp.StatusCode, body)
	}
	var suggestions []struct {
		ControlID int64 `json:"control_id"`
	}
	if err := json.Unmarshal(body, &suggestions); err != nil {
		t.Fatalf("failed to decode suggestions: %v", err)
	}
	if len(suggestions) != 1 {
		t.Errorf("expected the never-tested control suggested, got %d", len(suggestions))
	}
}
