package types

// DocKind identifies a record type managed by this service. Evidence
// capture rules and alerts reference records by kind rather than by Go
// type so that the relationship survives serialization.
type DocKind string

const (
	DocKindRisk                 DocKind = "risk"
	DocKindControl              DocKind = "control"
	DocKindTestExecution        DocKind = "test_execution"
	DocKindDeficiency           DocKind = "deficiency"
	DocKindAlert                DocKind = "alert"
	DocKindEvidence             DocKind = "evidence"
	DocKindCaptureRule          DocKind = "capture_rule"
	DocKindSettings             DocKind = "settings"
	DocKindRegulatoryUpdate     DocKind = "regulatory_update"
	DocKindRegulatoryChange     DocKind = "regulatory_change"
	DocKindRegulatoryAssessment DocKind = "regulatory_assessment"
)

// kindFields lists the queryable field names of each kind. Capture rule
// conditions are validated against this set.
var kindFields = map[DocKind][]string{
	DocKindRisk: {
		"title", "description", "category", "status", "owner",
		"inherent_likelihood", "inherent_impact", "inherent_score",
		"residual_likelihood", "residual_impact", "residual_score",
	},
	DocKindControl: {
		"name", "description", "category", "status", "owner",
		"is_key_control", "test_frequency", "coso_component", "coso_principle",
		"last_test_date", "last_test_result", "next_test_date",
	},
	DocKindTestExecution: {
		"control_id", "test_date", "tester", "test_result",
		"procedure", "conclusion", "sample_size", "status",
	},
	DocKindDeficiency: {
		"control_id", "test_execution_id", "severity", "description",
		"status", "identified_date", "identified_by", "target_date",
		"closure_date", "closure_notes",
	},
	DocKindAlert: {
		"alert_type", "severity", "status", "title", "description",
		"related_kind", "related_id",
	},
	DocKindRegulatoryUpdate: {
		"source_name", "title", "reference", "full_text",
		"effective_date", "keywords", "status",
	},
	DocKindRegulatoryChange: {
		"regulatory_update_id", "summary", "old_text", "new_text",
		"severity", "text_similarity", "obligation_changed", "status",
	},
	DocKindRegulatoryAssessment: {
		"regulatory_change_id", "regulatory_update_id", "control_id",
		"confidence_score", "matched_keywords", "impact_type", "priority",
		"gap_identified", "status", "action_taken", "completion_notes",
		"completed_date",
	},
}

// submittableKinds are kinds with a draft/submitted lifecycle. Only
// these may be the source of an on_submit capture trigger.
var submittableKinds = map[DocKind]bool{
	DocKindTestExecution: true,
}

// IsValid checks if the document kind is known.
func (k DocKind) IsValid() bool {
	switch k {
	case DocKindRisk, DocKindControl, DocKindTestExecution, DocKindDeficiency,
		DocKindAlert, DocKindEvidence, DocKindCaptureRule, DocKindSettings,
		DocKindRegulatoryUpdate, DocKindRegulatoryChange, DocKindRegulatoryAssessment:
		return true
	default:
		return false
	}
}

// IsSubmittable reports whether records of this kind go through an
// explicit submit step.
func (k DocKind) IsSubmittable() bool {
	return submittableKinds[k]
}

// HasField reports whether the kind exposes the named field. The common
// metadata fields present on every record are always accepted.
func (k DocKind) HasField(name string) bool {
	switch name {
	case "id", "created_at", "updated_at":
		return true
	}
	for _, f := range kindFields[k] {
		if f == name {
			return true
		}
	}
	return false
}

// String returns the string representation of the document kind.
func (k DocKind) String() string {
	return string(k)
}

// DocEvent names a lifecycle point at which hooks run.
type DocEvent string

const (
	EventValidate     DocEvent = "validate"
	EventOnUpdate     DocEvent = "on_update"
	EventOnSubmit     DocEvent = "on_submit"
	EventBeforeCancel DocEvent = "before_cancel"
)

// IsValid checks if the document event is known.
func (e DocEvent) IsValid() bool {
	switch e {
	case EventValidate, EventOnUpdate, EventOnSubmit, EventBeforeCancel:
		return true
	default:
		return false
	}
}

// String returns the string representation of the event.
func (e DocEvent) String() string {
	return string(e)
}
