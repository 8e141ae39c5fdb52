package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/grc-lab/attest/pkg/domain/types"
)

// RegulatoryUpdate is one ingested item of regulatory content, such as
// a new SEC release or a standard revision. Keywords support impact
// mapping against the control register.
type RegulatoryUpdate struct {
	ID         int64
	SourceName string
	Title      string
	// Reference is the regulatory citation, e.g. "SOX 404(b)".
	Reference     string
	FullText      string
	EffectiveDate time.Time
	Keywords      []string
	Status        types.RegulatoryUpdateStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the update's required fields.
func (u *RegulatoryUpdate) Validate() error {
	if u.Title == "" {
		return goerr.New("regulatory update title is required")
	}
	if u.Status != "" && !u.Status.IsValid() {
		return goerr.New("invalid regulatory update status",
			goerr.V("status", u.Status))
	}
	return nil
}

// DaysUntilEffective returns how many days remain until the effective
// date, negative once passed. Returns false when no effective date is
// set.
func (u *RegulatoryUpdate) DaysUntilEffective(asOf time.Time) (int, bool) {
	if u.EffectiveDate.IsZero() {
		return 0, false
	}
	return int(u.EffectiveDate.Sub(asOf).Hours() / 24), true
}
