package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/grc-lab/attest/pkg/domain/types"
)

// RegulatoryAssessment maps one regulatory change to one affected
// control and tracks the action needed to stay compliant.
type RegulatoryAssessment struct {
	ID                 int64
	RegulatoryChangeID int64
	RegulatoryUpdateID int64
	ControlID          int64

	// ConfidenceScore is how confident the matcher is that this
	// control is affected, 0-100.
	ConfidenceScore float64
	MatchedKeywords string

	ImpactType    types.ImpactType
	Priority      types.AssessmentPriority
	GapIdentified bool

	Status          types.AssessmentStatus
	ActionTaken     string
	CompletionNotes string
	CompletedDate   time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks field relationships. A completed assessment gets its
// completion date stamped; an identified gap upgrades low priorities.
func (a *RegulatoryAssessment) Validate(now time.Time) error {
	if a.RegulatoryChangeID == 0 {
		return goerr.New("assessment must reference a regulatory change")
	}
	if a.ControlID == 0 {
		return goerr.New("assessment must reference a control")
	}
	if a.ImpactType != "" && !a.ImpactType.IsValid() {
		return goerr.New("invalid impact type", goerr.V("impact_type", a.ImpactType))
	}
	if a.Status != "" && !a.Status.IsValid() {
		return goerr.New("invalid assessment status", goerr.V("status", a.Status))
	}

	if a.GapIdentified {
		if a.Priority == types.AssessmentPriorityMedium || a.Priority == types.AssessmentPriorityLow {
			a.Priority = types.AssessmentPriorityHigh
		}
	}

	if a.Status == types.AssessmentStatusControlUpdated && a.CompletedDate.IsZero() {
		a.CompletedDate = now
	}

	return nil
}
