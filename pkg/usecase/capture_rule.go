package usecase

import (
	"context"

	"github.com/grc-lab/attest/pkg/domain/interfaces"
	"github.com/grc-lab/attest/pkg/domain/model"
	"github.com/grc-lab/attest/pkg/domain/types"
	"github.com/grc-lab/attest/pkg/hook"
)

// CaptureRuleUseCase manages evidence capture rules.
type CaptureRuleUseCase struct {
	repo  interfaces.Repository
	hooks *hook.Registry
}

func NewCaptureRuleUseCase(repo interfaces.Repository, hooks *hook.Registry) *CaptureRuleUseCase {
	return &CaptureRuleUseCase{
		repo:  repo,
		hooks: hooks,
	}
}

func (uc *CaptureRuleUseCase) Create(ctx context.Context, rule *model.CaptureRule) (*model.CaptureRule, error) {
	if err := uc.hooks.Dispatch(ctx, types.DocKindCaptureRule, types.EventValidate, rule); err != nil {
		return nil, err
	}
	return uc.repo.CaptureRule().Create(ctx, rule)
}

func (uc *CaptureRuleUseCase) Get(ctx context.Context, id int64) (*model.CaptureRule, error) {
	return uc.repo.CaptureRule().Get(ctx, id)
}

func (uc *CaptureRuleUseCase) List(ctx context.Context) ([]*model.CaptureRule, error) {
	return uc.repo.CaptureRule().List(ctx)
}

func (uc *CaptureRuleUseCase) Update(ctx context.Context, rule *model.CaptureRule) (*model.CaptureRule, error) {
	if err := uc.hooks.Dispatch(ctx, types.DocKindCaptureRule, types.EventValidate, rule); err != nil {
		return nil, err
	}
	return uc.repo.CaptureRule().Update(ctx, rule)
}

func (uc *CaptureRuleUseCase) Delete(ctx context.Context, id int64) error {
	return uc.repo.CaptureRule().Delete(ctx, id)
}
