package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/grc-lab/attest/pkg/domain/model"
	"github.com/grc-lab/attest/pkg/domain/types"
)

func TestControlValidate(t *testing.T) {
	t.Run("name required", func(t *testing.T) {
		c := &model.Control{}
		gt.Error(t, c.Validate())
	})

	t.Run("key control requires frequency", func(t *testing.T) {
		c := &model.Control{
			Name:         "Access review",
			IsKeyControl: true,
		}
		gt.Error(t, c.Validate())
	})

	t.Run("key control with frequency succeeds", func(t *testing.T) {
		c := &model.Control{
			Name:          "Access review",
			IsKeyControl:  true,
			TestFrequency: types.TestFrequencyQuarterly,
		}
		gt.NoError(t, c.Validate())
	})

	t.Run("unknown frequency fails", func(t *testing.T) {
		c := &model.Control{
			Name:          "Access review",
			TestFrequency: "Fortnightly",
		}
		gt.Error(t, c.Validate())
	})
}

func TestControlScheduleNextTest(t *testing.T) {
	lastTest := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	t.Run("quarterly adds three months", func(t *testing.T) {
		c := &model.Control{
			TestFrequency: types.TestFrequencyQuarterly,
			LastTestDate:  lastTest,
		}
		c.ScheduleNextTest()
		gt.Value(t, c.NextTestDate).Equal(time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC))
	})

	t.Run("no frequency leaves schedule untouched", func(t *testing.T) {
		c := &model.Control{LastTestDate: lastTest}
		c.ScheduleNextTest()
		gt.Bool(t, c.NextTestDate.IsZero()).True()
	})

	t.Run("no last test leaves schedule untouched", func(t *testing.T) {
		c := &model.Control{TestFrequency: types.TestFrequencyAnnually}
		c.ScheduleNextTest()
		gt.Bool(t, c.NextTestDate.IsZero()).True()
	})
}

func TestControlApplyTestResult(t *testing.T) {
	testDate := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	c := &model.Control{
		Name:          "Backup restore drill",
		Status:        types.ControlStatusActive,
		TestFrequency: types.TestFrequencyMonthly,
	}

	c.ApplyTestResult(testDate, types.TestResultEffective)

	gt.Value(t, c.LastTestDate).Equal(testDate)
	gt.Value(t, c.LastTestResult).Equal(types.TestResultEffective)
	gt.Value(t, c.NextTestDate).Equal(testDate.AddDate(0, 1, 0))
}

func TestControlIsOverdue(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	t.Run("active past next test date", func(t *testing.T) {
		c := &model.Control{
			Status:       types.ControlStatusActive,
			NextTestDate: now.AddDate(0, 0, -1),
		}
		gt.Bool(t, c.IsOverdue(now)).True()
	})

	t.Run("inactive control never overdue", func(t *testing.T) {
		c := &model.Control{
			Status:       types.ControlStatusInactive,
			NextTestDate: now.AddDate(0, 0, -1),
		}
		gt.Bool(t, c.IsOverdue(now)).False()
	})

	t.Run("unscheduled control never overdue", func(t *testing.T) {
		c := &model.Control{Status: types.ControlStatusActive}
		gt.Bool(t, c.IsOverdue(now)).False()
	})
}
