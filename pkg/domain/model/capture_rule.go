package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/grc-lab/attest/pkg/domain/types"
)

// RuleCondition restricts a capture rule to records whose field matches
// a value.
type RuleCondition struct {
	Field string
	Value string
}

// CaptureRule defines when evidence is captured automatically from a
// source record.
type CaptureRule struct {
	ID      int64
	Name    string
	Enabled bool

	SourceKind   types.DocKind
	TriggerEvent types.DocEvent
	Conditions   []RuleCondition
	LinkedKinds  []types.DocKind

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks trigger compatibility and referenced field/kind
// existence. An on_submit trigger only makes sense for kinds that have
// a submit step.
func (r *CaptureRule) Validate() error {
	if r.Name == "" {
		return goerr.New("capture rule name is required")
	}
	if !r.SourceKind.IsValid() {
		return goerr.New("unknown source kind", goerr.V("kind", r.SourceKind))
	}
	if !r.TriggerEvent.IsValid() {
		return goerr.New("unknown trigger event", goerr.V("event", r.TriggerEvent))
	}
	if r.TriggerEvent == types.EventOnSubmit && !r.SourceKind.IsSubmittable() {
		return goerr.New("source kind is not submittable, choose a different trigger event",
			goerr.V("kind", r.SourceKind))
	}

	for _, cond := range r.Conditions {
		if !r.SourceKind.HasField(cond.Field) {
			return goerr.New("condition field does not exist in source kind",
				goerr.V("field", cond.Field),
				goerr.V("kind", r.SourceKind))
		}
	}

	for _, kind := range r.LinkedKinds {
		if !kind.IsValid() {
			return goerr.New("linked kind does not exist", goerr.V("kind", kind))
		}
	}

	return nil
}
