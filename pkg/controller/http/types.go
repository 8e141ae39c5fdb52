package http

import (
	"time"

	"github.com/grc-lab/attest/pkg/domain/model"
	"github.com/grc-lab/attest/pkg/domain/types"
)

// API payload types. Field names follow the persisted snake_case
// naming so capture-rule conditions and API clients agree on one
// vocabulary.

type riskPayload struct {
	ID                 int64     `json:"id,omitempty"`
	Title              string    `json:"title"`
	Description        string    `json:"description,omitempty"`
	Category           string    `json:"category,omitempty"`
	Status             string    `json:"status,omitempty"`
	Owner              string    `json:"owner,omitempty"`
	InherentLikelihood string    `json:"inherent_likelihood,omitempty"`
	InherentImpact     string    `json:"inherent_impact,omitempty"`
	ResidualLikelihood string    `json:"residual_likelihood,omitempty"`
	ResidualImpact     string    `json:"residual_impact,omitempty"`
	InherentScore      int       `json:"inherent_score,omitempty"`
	ResidualScore      int       `json:"residual_score,omitempty"`
	CreatedAt          time.Time `json:"created_at,omitempty"`
	UpdatedAt          time.Time `json:"updated_at,omitempty"`
}

func (p *riskPayload) toModel() *model.Risk {
	return &model.Risk{
		ID:                 p.ID,
		Title:              p.Title,
		Description:        p.Description,
		Category:           p.Category,
		Status:             types.RiskStatus(p.Status),
		Owner:              p.Owner,
		InherentLikelihood: types.Rating(p.InherentLikelihood),
		InherentImpact:     types.Rating(p.InherentImpact),
		ResidualLikelihood: types.Rating(p.ResidualLikelihood),
		ResidualImpact:     types.Rating(p.ResidualImpact),
	}
}

func riskToPayload(r *model.Risk) *riskPayload {
	return &riskPayload{
		ID:                 r.ID,
		Title:              r.Title,
		Description:        r.Description,
		Category:           r.Category,
		Status:             string(r.Status),
		Owner:              r.Owner,
		InherentLikelihood: string(r.InherentLikelihood),
		InherentImpact:     string(r.InherentImpact),
		ResidualLikelihood: string(r.ResidualLikelihood),
		ResidualImpact:     string(r.ResidualImpact),
		InherentScore:      r.InherentScore,
		ResidualScore:      r.ResidualScore,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

type controlPayload struct {
	ID             int64     `json:"id,omitempty"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	Category       string    `json:"category,omitempty"`
	Status         string    `json:"status,omitempty"`
	Owner          string    `json:"owner,omitempty"`
	IsKeyControl   bool      `json:"is_key_control,omitempty"`
	TestFrequency  string    `json:"test_frequency,omitempty"`
	CosoComponent  string    `json:"coso_component,omitempty"`
	CosoPrinciple  string    `json:"coso_principle,omitempty"`
	LastTestDate   time.Time `json:"last_test_date,omitempty"`
	LastTestResult string    `json:"last_test_result,omitempty"`
	NextTestDate   time.Time `json:"next_test_date,omitempty"`
	CreatedAt      time.Time `json:"created_at,omitempty"`
	UpdatedAt      time.Time `json:"updated_at,omitempty"`
}

func (p *controlPayload) toModel() *model.Control {
	return &model.Control{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Category:       p.Category,
		Status:         types.ControlStatus(p.Status),
		Owner:          p.Owner,
		IsKeyControl:   p.IsKeyControl,
		TestFrequency:  types.TestFrequency(p.TestFrequency),
		CosoComponent:  p.CosoComponent,
		CosoPrinciple:  p.CosoPrinciple,
		LastTestDate:   p.LastTestDate,
		LastTestResult: types.TestResult(p.LastTestResult),
		NextTestDate:   p.NextTestDate,
	}
}

func controlToPayload(c *model.Control) *controlPayload {
	return &controlPayload{
		ID:             c.ID,
		Name:           c.Name,
		Description:    c.Description,
		Category:       c.Category,
		Status:         string(c.Status),
		Owner:          c.Owner,
		IsKeyControl:   c.IsKeyControl,
		TestFrequency:  string(c.TestFrequency),
		CosoComponent:  c.CosoComponent,
		CosoPrinciple:  c.CosoPrinciple,
		LastTestDate:   c.LastTestDate,
		LastTestResult: string(c.LastTestResult),
		NextTestDate:   c.NextTestDate,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

type executionPayload struct {
	ID         int64     `json:"id,omitempty"`
	ControlID  int64     `json:"control_id"`
	TestDate   time.Time `json:"test_date,omitempty"`
	Tester     string    `json:"tester,omitempty"`
	TestResult string    `json:"test_result,omitempty"`
	Procedure  string    `json:"procedure,omitempty"`
	Conclusion string    `json:"conclusion,omitempty"`
	SampleSize int       `json:"sample_size,omitempty"`
	Status     string    `json:"status,omitempty"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
	UpdatedAt  time.Time `json:"updated_at,omitempty"`
}

func (p *executionPayload) toModel() *model.TestExecution {
	return &model.TestExecution{
		ID:         p.ID,
		ControlID:  p.ControlID,
		TestDate:   p.TestDate,
		Tester:     p.Tester,
		TestResult: types.TestResult(p.TestResult),
		Procedure:  p.Procedure,
		Conclusion: p.Conclusion,
		SampleSize: p.SampleSize,
		Status:     types.ExecutionStatus(p.Status),
	}
}

func executionToPayload(e *model.TestExecution) *executionPayload {
	return &executionPayload{
		ID:         e.ID,
		ControlID:  e.ControlID,
		TestDate:   e.TestDate,
		Tester:     e.Tester,
		TestResult: string(e.TestResult),
		Procedure:  e.Procedure,
		Conclusion: e.Conclusion,
		SampleSize: e.SampleSize,
		Status:     string(e.Status),
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

type deficiencyPayload struct {
	ID              int64     `json:"id,omitempty"`
	ControlID       int64     `json:"control_id,omitempty"`
	TestExecutionID int64     `json:"test_execution_id,omitempty"`
	Severity        string    `json:"severity,omitempty"`
	Description     string    `json:"description,omitempty"`
	Status          string    `json:"status,omitempty"`
	IdentifiedDate  time.Time `json:"identified_date,omitempty"`
	IdentifiedBy    string    `json:"identified_by,omitempty"`
	TargetDate      time.Time `json:"target_date,omitempty"`
	ClosureDate     time.Time `json:"closure_date,omitempty"`
	ClosureNotes    string    `json:"closure_notes,omitempty"`
	CreatedAt       time.Time `json:"created_at,omitempty"`
	UpdatedAt       time.Time `json:"updated_at,omitempty"`
}

func (p *deficiencyPayload) toModel() *model.Deficiency {
	return &model.Deficiency{
		ID:              p.ID,
		ControlID:       p.ControlID,
		TestExecutionID: p.TestExecutionID,
		Severity:        types.DeficiencySeverity(p.Severity),
		Description:     p.Description,
		Status:          types.DeficiencyStatus(p.Status),
		IdentifiedDate:  p.IdentifiedDate,
		IdentifiedBy:    p.IdentifiedBy,
		TargetDate:      p.TargetDate,
		ClosureDate:     p.ClosureDate,
		ClosureNotes:    p.ClosureNotes,
	}
}

func deficiencyToPayload(d *model.Deficiency) *deficiencyPayload {
	return &deficiencyPayload{
		ID:              d.ID,
		ControlID:       d.ControlID,
		TestExecutionID: d.TestExecutionID,
		Severity:        string(d.Severity),
		Description:     d.Description,
		Status:          string(d.Status),
		IdentifiedDate:  d.IdentifiedDate,
		IdentifiedBy:    d.IdentifiedBy,
		TargetDate:      d.TargetDate,
		ClosureDate:     d.ClosureDate,
		ClosureNotes:    d.ClosureNotes,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

type alertPayload struct {
	ID          int64          `json:"id"`
	Type        string         `json:"type"`
	Severity    string         `json:"severity"`
	Status      string         `json:"status"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	RelatedKind string         `json:"related_kind,omitempty"`
	RelatedID   int64          `json:"related_id,omitempty"`
	Details     map[string]any `json:"details,omitempty"`
	CreatedAt   time.Time      `json:"created_at,omitempty"`
	UpdatedAt   time.Time      `json:"updated_at,omitempty"`
}

func alertToPayload(a *model.Alert) *alertPayload {
	return &alertPayload{
		ID:          a.ID,
		Type:        string(a.Type),
		Severity:    string(a.Severity),
		Status:      string(a.Status),
		Title:       a.Title,
		Description: a.Description,
		RelatedKind: string(a.RelatedKind),
		RelatedID:   a.RelatedID,
		Details:     a.Details,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

type ruleConditionPayload struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type captureRulePayload struct {
	ID           int64                  `json:"id,omitempty"`
	Name         string                 `json:"name"`
	Enabled      bool                   `json:"enabled"`
	SourceKind   string                 `json:"source_kind"`
	TriggerEvent string                 `json:"trigger_event"`
	Conditions   []ruleConditionPayload `json:"conditions,omitempty"`
	LinkedKinds  []string               `json:"linked_kinds,omitempty"`
	CreatedAt    time.Time              `json:"created_at,omitempty"`
	UpdatedAt    time.Time              `json:"updated_at,omitempty"`
}

func (p *captureRulePayload) toModel() *model.CaptureRule {
	rule := &model.CaptureRule{
		ID:           p.ID,
		Name:         p.Name,
		Enabled:      p.Enabled,
		SourceKind:   types.DocKind(p.SourceKind),
		TriggerEvent: types.DocEvent(p.TriggerEvent),
	}
	for _, cond := range p.Conditions {
		rule.Conditions = append(rule.Conditions, model.RuleCondition{
			Field: cond.Field,
			Value: cond.Value,
		})
	}
	for _, kind := range p.LinkedKinds {
		rule.LinkedKinds = append(rule.LinkedKinds, types.DocKind(kind))
	}
	return rule
}

func captureRuleToPayload(r *model.CaptureRule) *captureRulePayload {
	p := &captureRulePayload{
		ID:           r.ID,
		Name:         r.Name,
		Enabled:      r.Enabled,
		SourceKind:   string(r.SourceKind),
		TriggerEvent: string(r.TriggerEvent),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	for _, cond := range r.Conditions {
		p.Conditions = append(p.Conditions, ruleConditionPayload{
			Field: cond.Field,
			Value: cond.Value,
		})
	}
	for _, kind := range r.LinkedKinds {
		p.LinkedKinds = append(p.LinkedKinds, string(kind))
	}
	return p
}

type evidencePayload struct {
	ID         int64     `json:"id"`
	CaptureID  string    `json:"capture_id"`
	RuleID     int64     `json:"rule_id,omitempty"`
	ControlID  int64     `json:"control_id,omitempty"`
	SourceKind string    `json:"source_kind"`
	SourceID   int64     `json:"source_id"`
	CapturedAt time.Time `json:"captured_at"`
	Snapshot   string    `json:"snapshot,omitempty"`
	Summary    string    `json:"summary,omitempty"`
	Hash       string    `json:"hash"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}

func evidenceToPayload(e *model.Evidence) *evidencePayload {
	return &evidencePayload{
		ID:         e.ID,
		CaptureID:  e.CaptureID,
		RuleID:     e.RuleID,
		ControlID:  e.ControlID,
		SourceKind: string(e.SourceKind),
		SourceID:   e.SourceID,
		CapturedAt: e.CapturedAt,
		Snapshot:   e.Snapshot,
		Summary:    e.Summary,
		Hash:       e.Hash,
		CreatedAt:  e.CreatedAt,
	}
}

type regulatoryUpdatePayload struct {
	ID            int64     `json:"id,omitempty"`
	SourceName    string    `json:"source_name,omitempty"`
	Title         string    `json:"title"`
	Reference     string    `json:"reference,omitempty"`
	FullText      string    `json:"full_text,omitempty"`
	EffectiveDate time.Time `json:"effective_date,omitempty"`
	Keywords      []string  `json:"keywords,omitempty"`
	Status        string    `json:"status,omitempty"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
	UpdatedAt     time.Time `json:"updated_at,omitempty"`
}

func (p *regulatoryUpdatePayload) toModel() *model.RegulatoryUpdate {
	return &model.RegulatoryUpdate{
		ID:            p.ID,
		SourceName:    p.SourceName,
		Title:         p.Title,
		Reference:     p.Reference,
		FullText:      p.FullText,
		EffectiveDate: p.EffectiveDate,
		Keywords:      p.Keywords,
		Status:        types.RegulatoryUpdateStatus(p.Status),
	}
}

func regulatoryUpdateToPayload(u *model.RegulatoryUpdate) *regulatoryUpdatePayload {
	return &regulatoryUpdatePayload{
		ID:            u.ID,
		SourceName:    u.SourceName,
		Title:         u.Title,
		Reference:     u.Reference,
		FullText:      u.FullText,
		EffectiveDate: u.EffectiveDate,
		Keywords:      u.Keywords,
		Status:        string(u.Status),
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

type regulatoryChangePayload struct {
	ID                 int64     `json:"id,omitempty"`
	RegulatoryUpdateID int64     `json:"regulatory_update_id,omitempty"`
	Summary            string    `json:"summary,omitempty"`
	OldText            string    `json:"old_text,omitempty"`
	NewText            string    `json:"new_text,omitempty"`
	Severity           string    `json:"severity,omitempty"`
	TextSimilarity     float64   `json:"text_similarity,omitempty"`
	ObligationChanged  bool      `json:"obligation_changed,omitempty"`
	Status             string    `json:"status,omitempty"`
	CreatedAt          time.Time `json:"created_at,omitempty"`
	UpdatedAt          time.Time `json:"updated_at,omitempty"`
}

func (p *regulatoryChangePayload) toModel() *model.RegulatoryChange {
	return &model.RegulatoryChange{
		ID:                 p.ID,
		RegulatoryUpdateID: p.RegulatoryUpdateID,
		Summary:            p.Summary,
		OldText:            p.OldText,
		NewText:            p.NewText,
		Severity:           types.ChangeSeverity(p.Severity),
		Status:             types.ChangeStatus(p.Status),
	}
}

func regulatoryChangeToPayload(c *model.RegulatoryChange) *regulatoryChangePayload {
	return &regulatoryChangePayload{
		ID:                 c.ID,
		RegulatoryUpdateID: c.RegulatoryUpdateID,
		Summary:            c.Summary,
		OldText:            c.OldText,
		NewText:            c.NewText,
		Severity:           string(c.Severity),
		TextSimilarity:     c.TextSimilarity,
		ObligationChanged:  c.ObligationChanged,
		Status:             string(c.Status),
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}

type assessmentPayload struct {
	ID                 int64     `json:"id"`
	RegulatoryChangeID int64     `json:"regulatory_change_id"`
	RegulatoryUpdateID int64     `json:"regulatory_update_id,omitempty"`
	ControlID          int64     `json:"control_id"`
	ConfidenceScore    float64   `json:"confidence_score"`
	MatchedKeywords    string    `json:"matched_keywords,omitempty"`
	ImpactType         string    `json:"impact_type"`
	Priority           string    `json:"priority"`
	GapIdentified      bool      `json:"gap_identified"`
	Status             string    `json:"status"`
	ActionTaken        string    `json:"action_taken,omitempty"`
	CompletionNotes    string    `json:"completion_notes,omitempty"`
	CompletedDate      time.Time `json:"completed_date,omitempty"`
	CreatedAt          time.Time `json:"created_at,omitempty"`
	UpdatedAt          time.Time `json:"updated_at,omitempty"`
}

func assessmentToPayload(a *model.RegulatoryAssessment) *assessmentPayload {
	return &assessmentPayload{
		ID:                 a.ID,
		RegulatoryChangeID: a.RegulatoryChangeID,
		RegulatoryUpdateID: a.RegulatoryUpdateID,
		ControlID:          a.ControlID,
		ConfidenceScore:    a.ConfidenceScore,
		MatchedKeywords:    a.MatchedKeywords,
		ImpactType:         string(a.ImpactType),
		Priority:           string(a.Priority),
		GapIdentified:      a.GapIdentified,
		Status:             string(a.Status),
		ActionTaken:        a.ActionTaken,
		CompletionNotes:    a.CompletionNotes,
		CompletedDate:      a.CompletedDate,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

type settingsPayload struct {
	HighRiskThreshold        int       `json:"high_risk_threshold"`
	CriticalRiskThreshold    int       `json:"critical_risk_threshold"`
	MediumRiskThreshold      int       `json:"medium_risk_threshold,omitempty"`
	AutoCreateDeficiency     bool      `json:"auto_create_deficiency"`
	EnableComplianceFeatures bool      `json:"enable_compliance_features"`
	SendWeeklyDigest         bool      `json:"send_weekly_digest"`
	DaysBeforeTestReminder   int       `json:"days_before_test_reminder,omitempty"`
	UpdatedAt                time.Time `json:"updated_at,omitempty"`
}

func (p *settingsPayload) toModel() *model.Settings {
	return &model.Settings{
		HighRiskThreshold:        p.HighRiskThreshold,
		CriticalRiskThreshold:    p.CriticalRiskThreshold,
		MediumRiskThreshold:      p.MediumRiskThreshold,
		AutoCreateDeficiency:     p.AutoCreateDeficiency,
		EnableComplianceFeatures: p.EnableComplianceFeatures,
		SendWeeklyDigest:         p.SendWeeklyDigest,
		DaysBeforeTestReminder:   p.DaysBeforeTestReminder,
	}
}

func settingsToPayload(s *model.Settings) *settingsPayload {
	return &settingsPayload{
		HighRiskThreshold:        s.HighRiskThreshold,
		CriticalRiskThreshold:    s.CriticalRiskThreshold,
		MediumRiskThreshold:      s.MediumRiskThreshold,
		AutoCreateDeficiency:     s.AutoCreateDeficiency,
		EnableComplianceFeatures: s.EnableComplianceFeatures,
		SendWeeklyDigest:         s.SendWeeklyDigest,
		DaysBeforeTestReminder:   s.DaysBeforeTestReminder,
		UpdatedAt:                s.UpdatedAt,
	}
}
