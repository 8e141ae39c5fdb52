package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/grc-lab/attest/pkg/domain/interfaces"
	"github.com/grc-lab/attest/pkg/domain/model"
	"github.com/grc-lab/attest/pkg/domain/types"
	"github.com/grc-lab/attest/pkg/hook"
)

// RiskUseCase manages the risk register. Scores are derived on every
// save through the validate hook; the stored value is never trusted
// from the caller.
type RiskUseCase struct {
	repo     interfaces.Repository
	hooks    *hook.Registry
	settings *SettingsUseCase
}

func NewRiskUseCase(repo interfaces.Repository, hooks *hook.Registry, settings *SettingsUseCase) *RiskUseCase {
	return &RiskUseCase{
		repo:     repo,
		hooks:    hooks,
		settings: settings,
	}
}

// validateRisk is the (risk, validate) hook handler. It normalizes the
// status and recomputes both derived scores.
func validateRisk(risk *model.Risk) error {
	risk.Status = risk.Status.Normalize()
	if !risk.Status.IsValid() {
		return goerr.New("invalid risk status", goerr.V("status", risk.Status))
	}
	if risk.Title == "" {
		return goerr.New("risk title is required")
	}
	risk.CalculateScores()
	return nil
}

func (uc *RiskUseCase) Create(ctx context.Context, risk *model.Risk) (*model.Risk, error) {
	if err := uc.hooks.Dispatch(ctx, types.DocKindRisk, types.EventValidate, risk); err != nil {
		return nil, err
	}
	return uc.repo.Risk().Create(ctx, risk)
}

func (uc *RiskUseCase) Get(ctx context.Context, id int64) (*model.Risk, error) {
	return uc.repo.Risk().Get(ctx, id)
}

func (uc *RiskUseCase) List(ctx context.Context) ([]*model.Risk, error) {
	return uc.repo.Risk().List(ctx)
}

func (uc *RiskUseCase) ListByStatus(ctx context.Context, status types.RiskStatus) ([]*model.Risk, error) {
	return uc.repo.Risk().ListByStatus(ctx, status)
}

func (uc *RiskUseCase) Update(ctx context.Context, risk *model.Risk) (*model.Risk, error) {
	if err := uc.hooks.Dispatch(ctx, types.DocKindRisk, types.EventValidate, risk); err != nil {
		return nil, err
	}
	if err := uc.hooks.Dispatch(ctx, types.DocKindRisk, types.EventOnUpdate, risk); err != nil {
		return nil, err
	}
	return uc.repo.Risk().Update(ctx, risk)
}

func (uc *RiskUseCase) Delete(ctx context.Context, id int64) error {
	return uc.repo.Risk().Delete(ctx, id)
}

// Classify maps the risk's residual score onto a risk level using the
// configured thresholds. Missing settings are a configuration error,
// same as unset thresholds.
func (uc *RiskUseCase) Classify(ctx context.Context, risk *model.Risk) (types.RiskLevel, error) {
	settings, err := uc.settings.Get(ctx)
	if err != nil {
		return "", goerr.Wrap(ErrThresholdsNotConfigured, "cannot classify risk",
			goerr.V("risk_id", risk.ID))
	}
	return settings.Classify(risk.ResidualScore)
}
