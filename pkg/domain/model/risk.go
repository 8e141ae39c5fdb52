package model

import (
	"time"

	"github.com/grc-lab/attest/pkg/domain/types"
)

// Risk is one entry of the risk register. It carries paired
// likelihood/impact ratings before (inherent) and after (residual)
// mitigation, and the scores derived from them.
type Risk struct {
	ID          int64
	Title       string
	Description string
	Category    string
	Status      types.RiskStatus
	Owner       string

	InherentLikelihood types.Rating
	InherentImpact     types.Rating
	ResidualLikelihood types.Rating
	ResidualImpact     types.Rating

	// Derived on every save. 0 means unset.
	InherentScore int
	ResidualScore int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CalculateScores recomputes the inherent and residual risk scores from
// the rating pairs. A score is only derived when both ratings of the
// pair are present; a malformed rating contributes 0 so the product
// collapses to 0 (unset) instead of failing the save.
func (r *Risk) CalculateScores() {
	r.InherentScore = scoreOf(r.InherentLikelihood, r.InherentImpact)
	r.ResidualScore = scoreOf(r.ResidualLikelihood, r.ResidualImpact)
}

func scoreOf(likelihood, impact types.Rating) int {
	if likelihood.IsZero() || impact.IsZero() {
		return 0
	}
	return likelihood.Score() * impact.Score()
}
