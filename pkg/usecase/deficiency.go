package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/grc-lab/attest/pkg/domain/interfaces"
	"github.com/grc-lab/attest/pkg/domain/model"
	"github.com/grc-lab/attest/pkg/domain/types"
	"github.com/grc-lab/attest/pkg/hook"
)

// DeficiencyUseCase manages control deficiencies through remediation.
type DeficiencyUseCase struct {
	repo  interfaces.Repository
	hooks *hook.Registry
	now   func() time.Time
}

func NewDeficiencyUseCase(repo interfaces.Repository, hooks *hook.Registry, now func() time.Time) *DeficiencyUseCase {
	return &DeficiencyUseCase{
		repo:  repo,
		hooks: hooks,
		now:   now,
	}
}

func (uc *DeficiencyUseCase) Create(ctx context.Context, def *model.Deficiency) (*model.Deficiency, error) {
	def.Status = def.Status.Normalize()
	if !def.Status.IsValid() {
		return nil, goerr.New("invalid deficiency status", goerr.V("status", def.Status))
	}
	if err := uc.hooks.Dispatch(ctx, types.DocKindDeficiency, types.EventValidate, def); err != nil {
		return nil, err
	}
	if def.ControlID != 0 {
		if _, err := uc.repo.Control().Get(ctx, def.ControlID); err != nil {
			return nil, goerr.Wrap(err, "referenced control does not exist",
				goerr.V("control_id", def.ControlID))
		}
	}
	return uc.repo.Deficiency().Create(ctx, def)
}

func (uc *DeficiencyUseCase) Get(ctx context.Context, id int64) (*model.Deficiency, error) {
	return uc.repo.Deficiency().Get(ctx, id)
}

func (uc *DeficiencyUseCase) List(ctx context.Context) ([]*model.Deficiency, error) {
	return uc.repo.Deficiency().List(ctx)
}

func (uc *DeficiencyUseCase) ListByControl(ctx context.Context, controlID int64) ([]*model.Deficiency, error) {
	return uc.repo.Deficiency().ListByControl(ctx, controlID)
}

func (uc *DeficiencyUseCase) Update(ctx context.Context, def *model.Deficiency) (*model.Deficiency, error) {
	def.Status = def.Status.Normalize()
	if !def.Status.IsValid() {
		return nil, goerr.New("invalid deficiency status", goerr.V("status", def.Status))
	}
	if err := uc.hooks.Dispatch(ctx, types.DocKindDeficiency, types.EventValidate, def); err != nil {
		return nil, err
	}
	return uc.repo.Deficiency().Update(ctx, def)
}

// Close transitions a deficiency to Closed with the given notes. The
// closure date defaults to today inside validation when unset.
func (uc *DeficiencyUseCase) Close(ctx context.Context, id int64, notes string) (*model.Deficiency, error) {
	def, err := uc.repo.Deficiency().Get(ctx, id)
	if err != nil {
		return nil, err
	}

	def.Status = types.DeficiencyStatusClosed
	def.ClosureNotes = notes
	return uc.Update(ctx, def)
}

func (uc *DeficiencyUseCase) Delete(ctx context.Context, id int64) error {
	return uc.repo.Deficiency().Delete(ctx, id)
}

// ListOverdue returns open deficiencies that have passed their target
// remediation date.
func (uc *DeficiencyUseCase) ListOverdue(ctx context.Context) ([]*model.Deficiency, error) {
	all, err := uc.repo.Deficiency().List(ctx)
	if err != nil {
		return nil, err
	}

	asOf := uc.now().UTC()
	var overdue []*model.Deficiency
	for _, def := range all {
		if def.IsOverdue(asOf) {
			overdue = append(overdue, def)
		}
	}
	return overdue, nil
}
