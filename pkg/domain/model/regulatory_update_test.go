package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/grc-lab/attest/pkg/domain/model"
	"github.com/grc-lab/attest/pkg/domain/types"
)

func TestRegulatoryUpdateValidate(t *testing.T) {
	t.Run("title is required", func(t *testing.T) {
		gt.Error(t, (&model.RegulatoryUpdate{}).Validate())
	})

	t.Run("valid status passes", func(t *testing.T) {
		update := &model.RegulatoryUpdate{
			Title:  "Cybersecurity disclosure rule",
			Status: types.RegulatoryUpdateStatusReviewed,
		}
		gt.NoError(t, update.Validate())
	})

	t.Run("unknown status fails", func(t *testing.T) {
		update := &model.RegulatoryUpdate{
			Title:  "Cybersecurity disclosure rule",
			Status: types.RegulatoryUpdateStatus("Archived"),
		}
		gt.Error(t, update.Validate())
	})
}

func TestRegulatoryUpdateDaysUntilEffective(t *testing.T) {
	asOf := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	t.Run("future effective date", func(t *testing.T) {
		update := &model.RegulatoryUpdate{
			Title:         "rule",
			EffectiveDate: asOf.AddDate(0, 0, 30),
		}
		days, ok := update.DaysUntilEffective(asOf)
		gt.Bool(t, ok).True()
		gt.Value(t, days).Equal(30)
	})

	t.Run("past effective date is negative", func(t *testing.T) {
		update := &model.RegulatoryUpdate{
			Title:         "rule",
			EffectiveDate: asOf.AddDate(0, 0, -10),
		}
		days, ok := update.DaysUntilEffective(asOf)
		gt.Bool(t, ok).True()
		gt.Value(t, days).Equal(-10)
	})

	t.Run("no effective date", func(t *testing.T) {
		update := &model.RegulatoryUpdate{Title: "rule"}
		_, ok := update.DaysUntilEffective(asOf)
		gt.Bool(t, ok).False()
	})
}
