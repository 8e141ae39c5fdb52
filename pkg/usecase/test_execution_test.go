package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/grc-lab/attest/pkg/domain/model"
	"github.com/grc-lab/attest/pkg/domain/types"
	"github.com/grc-lab/attest/pkg/repository/memory"
	"github.com/grc-lab/attest/pkg/usecase"
)

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newUseCases(t *testing.T) *usecase.UseCases {
	t.Helper()
	return usecase.New(memory.New(), usecase.WithNow(func() time.Time { return fixedNow }))
}

func saveSettings(t *testing.T, uc *usecase.UseCases, settings *model.Settings) {
	t.Helper()
	_, err := uc.Settings.Save(context.Background(), settings)
	gt.NoError(t, err).Required()
}

func createActiveControl(t *testing.T, uc *usecase.UseCases) *model.Control {
	t.Helper()
	control, err := uc.Control.Create(context.Background(), &model.Control{
		Name:          "Quarterly access review",
		Status:        types.ControlStatusActive,
		TestFrequency: types.TestFrequencyQuarterly,
	})
	gt.NoError(t, err).Required()
	return control
}

func createDraftExecution(t *testing.T, uc *usecase.UseCases, controlID int64, result types.TestResult, conclusion string) *model.TestExecution {
	t.Helper()
	exec, err := uc.TestExecution.Create(context.Background(), &model.TestExecution{
		ControlID:  controlID,
		TestDate:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Tester:     "auditor@example.com",
		TestResult: result,
		Conclusion: conclusion,
	})
	gt.NoError(t, err).Required()
	return exec
}

func TestTestExecutionCreate(t *testing.T) {
	t.Run("requires existing control", func(t *testing.T) {
		uc := newUseCases(t)
		_, err := uc.TestExecution.Create(context.Background(), &model.TestExecution{
			ControlID: 999,
			Tester:    "auditor@example.com",
		})
		gt.Error(t, err)
	})

	t.Run("rejects non-draft status", func(t *testing.T) {
		uc := newUseCases(t)
		control := createActiveControl(t, uc)
		_, err := uc.TestExecution.Create(context.Background(), &model.TestExecution{
			ControlID: control.ID,
			Status:    types.ExecutionStatusSubmitted,
		})
		gt.Error(t, err)
	})
}

func TestTestExecutionSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("updates control rolling summary", func(t *testing.T) {
		uc := newUseCases(t)
		control := createActiveControl(t, uc)
		exec := createDraftExecution(t, uc, control.ID, types.TestResultEffective, "")

		submitted, err := uc.TestExecution.Submit(ctx, exec.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, submitted.Status).Equal(types.ExecutionStatusSubmitted)

		updated, err := uc.Control.Get(ctx, control.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.LastTestResult).Equal(types.TestResultEffective)
		gt.Value(t, updated.LastTestDate).Equal(exec.TestDate)
		gt.Value(t, updated.NextTestDate).Equal(exec.TestDate.AddDate(0, 3, 0))
	})

	t.Run("ineffective result raises a deficiency", func(t *testing.T) {
		uc := newUseCases(t)
		saveSettings(t, uc, &model.Settings{AutoCreateDeficiency: true})
		control := createActiveControl(t, uc)
		exec := createDraftExecution(t, uc, control.ID,
			types.TestResultIneffectiveSignificant, "Three of 25 sampled changes lacked approval")

		_, err := uc.TestExecution.Submit(ctx, exec.ID)
		gt.NoError(t, err).Required()

		defs, err := uc.Deficiency.ListByControl(ctx, control.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, defs).Length(1)

		def := defs[0]
		gt.Value(t, def.Severity).Equal(types.SeveritySignificantDeficiency)
		gt.Value(t, def.Status).Equal(types.DeficiencyStatusOpen)
		gt.Value(t, def.TestExecutionID).Equal(exec.ID)
		gt.Value(t, def.IdentifiedDate).Equal(exec.TestDate)
		gt.Value(t, def.IdentifiedBy).Equal("auditor@example.com")
		gt.Value(t, def.Description).Equal("Three of 25 sampled changes lacked approval")
	})

	t.Run("conclusion fallback for empty description", func(t *testing.T) {
		uc := newUseCases(t)
		saveSettings(t, uc, &model.Settings{AutoCreateDeficiency: true})
		control := createActiveControl(t, uc)

		// Minor results do not require a conclusion
		exec := createDraftExecution(t, uc, control.ID, types.TestResultIneffectiveMinor,
			"approval missing on one sample")
		exec.Conclusion = ""
		exec, err := uc.TestExecution.Update(ctx, exec)
		gt.NoError(t, err).Required()

		_, err = uc.TestExecution.Submit(ctx, exec.ID)
		gt.NoError(t, err).Required()

		defs, err := uc.Deficiency.ListByControl(ctx, control.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, defs).Length(1)
		gt.Value(t, defs[0].Description).Equal("Deficiency identified by test execution")
		gt.Value(t, defs[0].Severity).Equal(types.SeverityControlDeficiency)
	})

	t.Run("effective result raises nothing", func(t *testing.T) {
		uc := newUseCases(t)
		saveSettings(t, uc, &model.Settings{AutoCreateDeficiency: true})
		control := createActiveControl(t, uc)
		exec := createDraftExecution(t, uc, control.ID, types.TestResultEffective, "")

		_, err := uc.TestExecution.Submit(ctx, exec.ID)
		gt.NoError(t, err).Required()

		defs, err := uc.Deficiency.ListByControl(ctx, control.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, defs).Length(0)
	})

	t.Run("auto-create disabled raises nothing", func(t *testing.T) {
		uc := newUseCases(t)
		saveSettings(t, uc, &model.Settings{AutoCreateDeficiency: false})
		control := createActiveControl(t, uc)
		exec := createDraftExecution(t, uc, control.ID,
			types.TestResultIneffectiveMaterial, "backup restore failed outright")

		_, err := uc.TestExecution.Submit(ctx, exec.ID)
		gt.NoError(t, err).Required()

		defs, err := uc.Deficiency.ListByControl(ctx, control.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, defs).Length(0)
	})

	t.Run("missing settings skip the deficiency instead of failing", func(t *testing.T) {
		uc := newUseCases(t)
		control := createActiveControl(t, uc)
		exec := createDraftExecution(t, uc, control.ID,
			types.TestResultIneffectiveSignificant, "finding")

		_, err := uc.TestExecution.Submit(ctx, exec.ID)
		gt.NoError(t, err).Required()

		defs, err := uc.Deficiency.ListByControl(ctx, control.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, defs).Length(0)
	})

	t.Run("cannot submit twice", func(t *testing.T) {
		uc := newUseCases(t)
		control := createActiveControl(t, uc)
		exec := createDraftExecution(t, uc, control.ID, types.TestResultEffective, "")

		_, err := uc.TestExecution.Submit(ctx, exec.ID)
		gt.NoError(t, err).Required()

		_, err = uc.TestExecution.Submit(ctx, exec.ID)
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, usecase.ErrExecutionSubmitted)).True()
	})

	t.Run("requires a test result", func(t *testing.T) {
		uc := newUseCases(t)
		control := createActiveControl(t, uc)
		exec := createDraftExecution(t, uc, control.ID, "", "")

		_, err := uc.TestExecution.Submit(ctx, exec.ID)
		gt.Error(t, err)
	})
}

func TestTestExecutionUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("submitted execution is immutable", func(t *testing.T) {
		uc := newUseCases(t)
		control := createActiveControl(t, uc)
		exec := createDraftExecution(t, uc, control.ID, types.TestResultEffective, "")

		_, err := uc.TestExecution.Submit(ctx, exec.ID)
		gt.NoError(t, err).Required()

		exec.Procedure = "changed after the fact"
		_, err = uc.TestExecution.Update(ctx, exec)
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, usecase.ErrExecutionSubmitted)).True()
	})

	t.Run("draft can be updated", func(t *testing.T) {
		uc := newUseCases(t)
		control := createActiveControl(t, uc)
		exec := createDraftExecution(t, uc, control.ID, types.TestResultEffective, "")

		exec.SampleSize = 40
		updated, err := uc.TestExecution.Update(ctx, exec)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.SampleSize).Equal(40)
		gt.Value(t, updated.Status).Equal(types.ExecutionStatusDraft)
	})
}

func TestTestExecutionCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("cancel voids a submitted execution", func(t *testing.T) {
		uc := newUseCases(t)
		control := createActiveControl(t, uc)
		exec := createDraftExecution(t, uc, control.ID, types.TestResultEffective, "")

		_, err := uc.TestExecution.Submit(ctx, exec.ID)
		gt.NoError(t, err).Required()

		cancelled, err := uc.TestExecution.Cancel(ctx, exec.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, cancelled.Status).Equal(types.ExecutionStatusCancelled)
	})

	t.Run("draft cannot be cancelled", func(t *testing.T) {
		uc := newUseCases(t)
		control := createActiveControl(t, uc)
		exec := createDraftExecution(t, uc, control.ID, types.TestResultEffective, "")

		_, err := uc.TestExecution.Cancel(ctx, exec.ID)
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, usecase.ErrExecutionNotSubmitted)).True()
	})
}

func TestTestExecutionDelete(t *testing.T) {
	ctx := context.Background()

	uc := newUseCases(t)
	control := createActiveControl(t, uc)
	exec := createDraftExecution(t, uc, control.ID, types.TestResultEffective, "")

	_, err := uc.TestExecution.Submit(ctx, exec.ID)
	gt.NoError(t, err).Required()

	err = uc.TestExecution.Delete(ctx, exec.ID)
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, usecase.ErrExecutionSubmitted)).True()
}

func TestEvidenceCaptureOnSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("matching rule captures sealed evidence", func(t *testing.T) {
		uc := newUseCases(t)
		control := createActiveControl(t, uc)

		_, err := uc.CaptureRule.Create(ctx, &model.CaptureRule{
			Name:         "capture significant failures",
			Enabled:      true,
			SourceKind:   types.DocKindTestExecution,
			TriggerEvent: types.EventOnSubmit,
			Conditions: []model.RuleCondition{
				{Field: "test_result", Value: string(types.TestResultIneffectiveSignificant)},
			},
		})
		gt.NoError(t, err).Required()

		exec := createDraftExecution(t, uc, control.ID,
			types.TestResultIneffectiveSignificant, "approval control failed")
		_, err = uc.TestExecution.Submit(ctx, exec.ID)
		gt.NoError(t, err).Required()

		records, err := uc.Evidence.ListByControl(ctx, control.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, records).Length(1)

		ev := records[0]
		gt.Value(t, ev.SourceKind).Equal(types.DocKindTestExecution)
		gt.Value(t, ev.SourceID).Equal(exec.ID)
		gt.Value(t, ev.CapturedAt).Equal(fixedNow)
		gt.Bool(t, ev.CaptureID != "").True()
		gt.NoError(t, ev.Verify())
		gt.NoError(t, uc.Evidence.Verify(ctx, ev.ID))
	})

	t.Run("non-matching rule captures nothing", func(t *testing.T) {
		uc := newUseCases(t)
		control := createActiveControl(t, uc)

		_, err := uc.CaptureRule.Create(ctx, &model.CaptureRule{
			Name:         "capture material failures only",
			Enabled:      true,
			SourceKind:   types.DocKindTestExecution,
			TriggerEvent: types.EventOnSubmit,
			Conditions: []model.RuleCondition{
				{Field: "test_result", Value: string(types.TestResultIneffectiveMaterial)},
			},
		})
		gt.NoError(t, err).Required()

		exec := createDraftExecution(t, uc, control.ID, types.TestResultEffective, "")
		_, err = uc.TestExecution.Submit(ctx, exec.ID)
		gt.NoError(t, err).Required()

		records, err := uc.Evidence.ListByControl(ctx, control.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, records).Length(0)
	})

	t.Run("unconditional rule captures every submit", func(t *testing.T) {
		uc := newUseCases(t)
		control := createActiveControl(t, uc)

		_, err := uc.CaptureRule.Create(ctx, &model.CaptureRule{
			Name:         "capture all submitted tests",
			Enabled:      true,
			SourceKind:   types.DocKindTestExecution,
			TriggerEvent: types.EventOnSubmit,
		})
		gt.NoError(t, err).Required()

		exec := createDraftExecution(t, uc, control.ID, types.TestResultEffective, "")
		_, err = uc.TestExecution.Submit(ctx, exec.ID)
		gt.NoError(t, err).Required()

		records, err := uc.Evidence.ListByControl(ctx, control.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, records).Length(1)
	})
}
