package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/grc-lab/attest/pkg/domain/types"
)

// Deficiency tracks an identified control weakness through remediation.
type Deficiency struct {
	ID              int64
	ControlID       int64
	TestExecutionID int64

	Severity    types.DeficiencySeverity
	Description string
	Status      types.DeficiencyStatus

	IdentifiedDate time.Time
	IdentifiedBy   string
	TargetDate     time.Time

	ClosureDate  time.Time
	ClosureNotes string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks closure and date ordering rules. Closing without
// closure notes fails; a missing closure date defaults to now. The
// target remediation date may not precede the identified date.
func (d *Deficiency) Validate(now time.Time) error {
	if d.Status == types.DeficiencyStatusClosed {
		if d.ClosureDate.IsZero() {
			d.ClosureDate = now
		}
		if d.ClosureNotes == "" {
			return goerr.New("closure notes are required when closing a deficiency",
				goerr.V("id", d.ID))
		}
	}

	if !d.TargetDate.IsZero() && !d.IdentifiedDate.IsZero() {
		if d.TargetDate.Before(d.IdentifiedDate) {
			return goerr.New("target remediation date cannot be before identified date",
				goerr.V("target", d.TargetDate),
				goerr.V("identified", d.IdentifiedDate))
		}
	}

	return nil
}

// IsOverdue reports whether an unremediated deficiency has passed its
// target date.
func (d *Deficiency) IsOverdue(asOf time.Time) bool {
	if !d.Status.IsOpen() || d.TargetDate.IsZero() {
		return false
	}
	return d.TargetDate.Before(asOf)
}
