package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/grc-lab/attest/pkg/domain/model"
	"github.com/grc-lab/attest/pkg/domain/types"
	"github.com/grc-lab/attest/pkg/usecase"
)

func TestRiskCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("scores derived on save", func(t *testing.T) {
		uc := newUseCases(t)
		created, err := uc.Risk.Create(ctx, &model.Risk{
			Title:              "Unauthorized journal entries",
			InherentLikelihood: "4 - Likely",
			InherentImpact:     "5 - Severe",
			ResidualLikelihood: "2 - Unlikely",
			ResidualImpact:     "3 - Moderate",
			// Caller-supplied scores are never trusted
			InherentScore: 1,
			ResidualScore: 1,
		})
		gt.NoError(t, err).Required()

		gt.Value(t, created.InherentScore).Equal(20)
		gt.Value(t, created.ResidualScore).Equal(6)
		gt.Value(t, created.Status).Equal(types.RiskStatusOpen)
	})

	t.Run("title required", func(t *testing.T) {
		uc := newUseCases(t)
		_, err := uc.Risk.Create(ctx, &model.Risk{})
		gt.Error(t, err)
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		uc := newUseCases(t)
		_, err := uc.Risk.Create(ctx, &model.Risk{
			Title:  "bad status",
			Status: "Pondering",
		})
		gt.Error(t, err)
	})
}

func TestRiskClassify(t *testing.T) {
	ctx := context.Background()

	t.Run("classifies against configured thresholds", func(t *testing.T) {
		uc := newUseCases(t)
		saveSettings(t, uc, &model.Settings{
			HighRiskThreshold:     10,
			CriticalRiskThreshold: 17,
		})

		risk, err := uc.Risk.Create(ctx, &model.Risk{
			Title:              "Vendor fraud",
			ResidualLikelihood: "4 - Likely",
			ResidualImpact:     "5 - Severe",
		})
		gt.NoError(t, err).Required()

		level, err := uc.Risk.Classify(ctx, risk)
		gt.NoError(t, err).Required()
		gt.Value(t, level).Equal(types.RiskLevelCritical)
	})

	t.Run("missing settings fail classification", func(t *testing.T) {
		uc := newUseCases(t)
		risk := &model.Risk{Title: "unclassifiable", ResidualScore: 12}

		_, err := uc.Risk.Classify(ctx, risk)
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, usecase.ErrThresholdsNotConfigured)).True()
	})
}
