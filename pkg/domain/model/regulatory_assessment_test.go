package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/grc-lab/attest/pkg/domain/model"
	"github.com/grc-lab/attest/pkg/domain/types"
)

func TestRegulatoryAssessmentValidate(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("requires change and control references", func(t *testing.T) {
		gt.Error(t, (&model.RegulatoryAssessment{ControlID: 1}).Validate(now))
		gt.Error(t, (&model.RegulatoryAssessment{RegulatoryChangeID: 1}).Validate(now))
	})

	t.Run("identified gap upgrades medium priority to high", func(t *testing.T) {
		assessment := &model.RegulatoryAssessment{
			RegulatoryChangeID: 1,
			ControlID:          2,
			Priority:           types.AssessmentPriorityMedium,
			GapIdentified:      true,
		}
		gt.NoError(t, assessment.Validate(now))
		gt.Value(t, assessment.Priority).Equal(types.AssessmentPriorityHigh)
	})

	t.Run("critical priority is untouched by a gap", func(t *testing.T) {
		assessment := &model.RegulatoryAssessment{
			RegulatoryChangeID: 1,
			ControlID:          2,
			Priority:           types.AssessmentPriorityCritical,
			GapIdentified:      true,
		}
		gt.NoError(t, assessment.Validate(now))
		gt.Value(t, assessment.Priority).Equal(types.AssessmentPriorityCritical)
	})

	t.Run("completion stamps the date", func(t *testing.T) {
		assessment := &model.RegulatoryAssessment{
			RegulatoryChangeID: 1,
			ControlID:          2,
			Status:             types.AssessmentStatusControlUpdated,
		}
		gt.NoError(t, assessment.Validate(now))
		gt.Value(t, assessment.CompletedDate).Equal(now)
	})

	t.Run("unknown impact type fails", func(t *testing.T) {
		assessment := &model.RegulatoryAssessment{
			RegulatoryChangeID: 1,
			ControlID:          2,
			ImpactType:         types.ImpactType("Rewrite Everything"),
		}
		gt.Error(t, assessment.Validate(now))
	})
}
