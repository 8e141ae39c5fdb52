package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"github.com/grc-lab/attest/pkg/domain/interfaces"
	"github.com/grc-lab/attest/pkg/domain/model"
	"github.com/grc-lab/attest/pkg/domain/types"
	"github.com/grc-lab/attest/pkg/utils/logging"
)

// EvidenceUseCase manages captured evidence records and performs the
// capture itself when a submit hook fires.
type EvidenceUseCase struct {
	repo interfaces.Repository
	now  func() time.Time
}

func NewEvidenceUseCase(repo interfaces.Repository, now func() time.Time) *EvidenceUseCase {
	return &EvidenceUseCase{
		repo: repo,
		now:  now,
	}
}

func (uc *EvidenceUseCase) Get(ctx context.Context, id int64) (*model.Evidence, error) {
	return uc.repo.Evidence().Get(ctx, id)
}

func (uc *EvidenceUseCase) List(ctx context.Context) ([]*model.Evidence, error) {
	return uc.repo.Evidence().List(ctx)
}

func (uc *EvidenceUseCase) ListByControl(ctx context.Context, controlID int64) ([]*model.Evidence, error) {
	return uc.repo.Evidence().ListByControl(ctx, controlID)
}

func (uc *EvidenceUseCase) Delete(ctx context.Context, id int64) error {
	return uc.repo.Evidence().Delete(ctx, id)
}

// Verify recomputes the integrity hash of a stored evidence record and
// reports tampering as an error.
func (uc *EvidenceUseCase) Verify(ctx context.Context, id int64) error {
	ev, err := uc.repo.Evidence().Get(ctx, id)
	if err != nil {
		return err
	}
	return ev.Verify()
}

// captureForSubmit is the (test_execution, on_submit) hook handler. It
// evaluates every enabled rule for the trigger and captures one sealed
// evidence record per matching rule.
func (uc *EvidenceUseCase) captureForSubmit(ctx context.Context, exec *model.TestExecution) error {
	rules, err := uc.repo.CaptureRule().ListEnabled(ctx, types.DocKindTestExecution, types.EventOnSubmit)
	if err != nil {
		return goerr.Wrap(err, "failed to list capture rules")
	}

	for _, rule := range rules {
		if !matchesExecution(rule, exec) {
			continue
		}
		if err := uc.capture(ctx, rule, exec); err != nil {
			return err
		}
	}
	return nil
}

func (uc *EvidenceUseCase) capture(ctx context.Context, rule *model.CaptureRule, exec *model.TestExecution) error {
	snapshot, err := json.Marshal(executionFields(exec))
	if err != nil {
		return goerr.Wrap(err, "failed to snapshot test execution",
			goerr.V("execution_id", exec.ID))
	}

	ev := &model.Evidence{
		CaptureID:  uuid.NewString(),
		RuleID:     rule.ID,
		ControlID:  exec.ControlID,
		SourceKind: types.DocKindTestExecution,
		SourceID:   exec.ID,
		CapturedAt: uc.now().UTC(),
		Snapshot:   string(snapshot),
	}
	if err := ev.Seal(); err != nil {
		return err
	}

	if _, err := uc.repo.Evidence().Create(ctx, ev); err != nil {
		return goerr.Wrap(err, "failed to store evidence",
			goerr.V("rule_id", rule.ID),
			goerr.V("execution_id", exec.ID))
	}

	logging.From(ctx).Info("evidence captured",
		"rule_id", rule.ID,
		"execution_id", exec.ID,
		"capture_id", ev.CaptureID)
	return nil
}

// matchesExecution checks the rule's conditions against the execution.
// Values are compared as their string renderings, matching how rule
// conditions are entered.
func matchesExecution(rule *model.CaptureRule, exec *model.TestExecution) bool {
	fields := executionFields(exec)
	for _, cond := range rule.Conditions {
		v, ok := fields[cond.Field]
		if !ok {
			return false
		}
		if fmt.Sprint(v) != cond.Value {
			return false
		}
	}
	return true
}

// executionFields renders a test execution as its queryable field map,
// used both for condition matching and as the evidence snapshot.
func executionFields(exec *model.TestExecution) map[string]any {
	return map[string]any{
		"id":          exec.ID,
		"control_id":  exec.ControlID,
		"test_date":   exec.TestDate.UTC().Format("2006-01-02"),
		"tester":      exec.Tester,
		"test_result": string(exec.TestResult),
		"procedure":   exec.Procedure,
		"conclusion":  exec.Conclusion,
		"sample_size": exec.SampleSize,
		"status":      string(exec.Status),
	}
}
