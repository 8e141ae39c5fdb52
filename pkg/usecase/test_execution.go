package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/grc-lab/attest/pkg/domain/interfaces"
	"github.com/grc-lab/attest/pkg/domain/model"
	"github.com/grc-lab/attest/pkg/domain/types"
	"github.com/grc-lab/attest/pkg/hook"
	"github.com/grc-lab/attest/pkg/utils/logging"
)

// TestExecutionUseCase manages the draft/submit/cancel lifecycle of
// test executions. Submit is the pivotal operation: it freezes the
// record, pushes the result onto the control, raises a deficiency for
// failing results, and triggers evidence capture.
type TestExecutionUseCase struct {
	repo     interfaces.Repository
	hooks    *hook.Registry
	settings *SettingsUseCase
	now      func() time.Time
}

func NewTestExecutionUseCase(repo interfaces.Repository, hooks *hook.Registry, settings *SettingsUseCase, now func() time.Time) *TestExecutionUseCase {
	return &TestExecutionUseCase{
		repo:     repo,
		hooks:    hooks,
		settings: settings,
		now:      now,
	}
}

func (uc *TestExecutionUseCase) Create(ctx context.Context, exec *model.TestExecution) (*model.TestExecution, error) {
	exec.Status = exec.Status.Normalize()
	if exec.Status != types.ExecutionStatusDraft {
		return nil, goerr.New("test execution must be created as a draft",
			goerr.V("status", exec.Status))
	}
	if err := uc.hooks.Dispatch(ctx, types.DocKindTestExecution, types.EventValidate, exec); err != nil {
		return nil, err
	}
	if _, err := uc.repo.Control().Get(ctx, exec.ControlID); err != nil {
		return nil, goerr.Wrap(err, "referenced control does not exist",
			goerr.V("control_id", exec.ControlID))
	}
	return uc.repo.TestExecution().Create(ctx, exec)
}

func (uc *TestExecutionUseCase) Get(ctx context.Context, id int64) (*model.TestExecution, error) {
	return uc.repo.TestExecution().Get(ctx, id)
}

func (uc *TestExecutionUseCase) List(ctx context.Context) ([]*model.TestExecution, error) {
	return uc.repo.TestExecution().List(ctx)
}

func (uc *TestExecutionUseCase) ListByControl(ctx context.Context, controlID int64) ([]*model.TestExecution, error) {
	return uc.repo.TestExecution().ListByControl(ctx, controlID)
}

// Update rejects changes to anything but a draft. A submitted
// execution is immutable until cancelled.
func (uc *TestExecutionUseCase) Update(ctx context.Context, exec *model.TestExecution) (*model.TestExecution, error) {
	existing, err := uc.repo.TestExecution().Get(ctx, exec.ID)
	if err != nil {
		return nil, err
	}
	switch existing.Status {
	case types.ExecutionStatusSubmitted:
		return nil, goerr.Wrap(ErrExecutionSubmitted, "cannot modify", goerr.V("id", exec.ID))
	case types.ExecutionStatusCancelled:
		return nil, goerr.Wrap(ErrExecutionCancelled, "cannot modify", goerr.V("id", exec.ID))
	}

	exec.Status = types.ExecutionStatusDraft
	if err := uc.hooks.Dispatch(ctx, types.DocKindTestExecution, types.EventValidate, exec); err != nil {
		return nil, err
	}
	return uc.repo.TestExecution().Update(ctx, exec)
}

// Submit finalizes a draft execution. After validation it marks the
// record submitted, applies the result to the control's rolling
// summary, raises a deficiency for ineffective results when enabled,
// and dispatches the on_submit hook for evidence capture.
func (uc *TestExecutionUseCase) Submit(ctx context.Context, id int64) (*model.TestExecution, error) {
	exec, err := uc.repo.TestExecution().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	switch exec.Status {
	case types.ExecutionStatusSubmitted:
		return nil, goerr.Wrap(ErrExecutionSubmitted, "cannot submit twice", goerr.V("id", id))
	case types.ExecutionStatusCancelled:
		return nil, goerr.Wrap(ErrExecutionCancelled, "cannot submit", goerr.V("id", id))
	}

	if exec.TestResult == "" {
		return nil, goerr.New("test result is required to submit", goerr.V("id", id))
	}
	if err := uc.hooks.Dispatch(ctx, types.DocKindTestExecution, types.EventValidate, exec); err != nil {
		return nil, err
	}

	exec.Status = types.ExecutionStatusSubmitted
	submitted, err := uc.repo.TestExecution().Update(ctx, exec)
	if err != nil {
		return nil, err
	}

	if err := uc.applyToControl(ctx, submitted); err != nil {
		return nil, err
	}

	if err := uc.autoCreateDeficiency(ctx, submitted); err != nil {
		return nil, err
	}

	if err := uc.hooks.Dispatch(ctx, types.DocKindTestExecution, types.EventOnSubmit, submitted); err != nil {
		return nil, err
	}

	return submitted, nil
}

// Cancel voids a submitted execution. The control's rolling summary is
// left as-is; the next submitted test overwrites it.
func (uc *TestExecutionUseCase) Cancel(ctx context.Context, id int64) (*model.TestExecution, error) {
	exec, err := uc.repo.TestExecution().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if exec.Status != types.ExecutionStatusSubmitted {
		return nil, goerr.Wrap(ErrExecutionNotSubmitted, "only submitted executions can be cancelled",
			goerr.V("id", id), goerr.V("status", exec.Status))
	}

	if err := uc.hooks.Dispatch(ctx, types.DocKindTestExecution, types.EventBeforeCancel, exec); err != nil {
		return nil, err
	}

	exec.Status = types.ExecutionStatusCancelled
	return uc.repo.TestExecution().Update(ctx, exec)
}

func (uc *TestExecutionUseCase) Delete(ctx context.Context, id int64) error {
	exec, err := uc.repo.TestExecution().Get(ctx, id)
	if err != nil {
		return err
	}
	if exec.Status == types.ExecutionStatusSubmitted {
		return goerr.Wrap(ErrExecutionSubmitted, "cannot delete", goerr.V("id", id))
	}
	return uc.repo.TestExecution().Delete(ctx, id)
}

func (uc *TestExecutionUseCase) applyToControl(ctx context.Context, exec *model.TestExecution) error {
	control, err := uc.repo.Control().Get(ctx, exec.ControlID)
	if err != nil {
		return goerr.Wrap(err, "failed to load control for test result",
			goerr.V("control_id", exec.ControlID))
	}

	control.ApplyTestResult(exec.TestDate, exec.TestResult)
	if _, err := uc.repo.Control().Update(ctx, control); err != nil {
		return goerr.Wrap(err, "failed to record test result on control",
			goerr.V("control_id", exec.ControlID))
	}
	return nil
}

// autoCreateDeficiency raises a deficiency for an ineffective result
// when the settings enable it. Missing settings disable the feature
// rather than failing the submit.
func (uc *TestExecutionUseCase) autoCreateDeficiency(ctx context.Context, exec *model.TestExecution) error {
	if !exec.TestResult.IsIneffective() {
		return nil
	}

	settings, err := uc.settings.Get(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		logging.From(ctx).Debug("settings not available, skipping auto deficiency",
			"execution_id", exec.ID)
		return nil
	}
	if !settings.AutoCreateDeficiency {
		return nil
	}

	description := exec.Conclusion
	if description == "" {
		description = "Deficiency identified by test execution"
	}

	def := &model.Deficiency{
		ControlID:       exec.ControlID,
		TestExecutionID: exec.ID,
		Severity:        exec.TestResult.DeficiencySeverity(),
		Description:     description,
		Status:          types.DeficiencyStatusOpen,
		IdentifiedDate:  exec.TestDate,
		IdentifiedBy:    exec.Tester,
	}
	if _, err := uc.repo.Deficiency().Create(ctx, def); err != nil {
		return goerr.Wrap(err, "failed to auto-create deficiency",
			goerr.V("execution_id", exec.ID))
	}

	logging.From(ctx).Info("deficiency auto-created from failed test",
		"execution_id", exec.ID,
		"control_id", exec.ControlID,
		"severity", def.Severity)
	return nil
}
