package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/grc-lab/attest/pkg/domain/interfaces"
	"github.com/grc-lab/attest/pkg/domain/model"
	"github.com/grc-lab/attest/pkg/domain/model/config"
	"github.com/grc-lab/attest/pkg/domain/types"
	"github.com/grc-lab/attest/pkg/hook"
)

// ControlUseCase manages control activities and their test schedule.
type ControlUseCase struct {
	repo    interfaces.Repository
	hooks   *hook.Registry
	catalog *config.Catalog
}

func NewControlUseCase(repo interfaces.Repository, hooks *hook.Registry, catalog *config.Catalog) *ControlUseCase {
	return &ControlUseCase{
		repo:    repo,
		hooks:   hooks,
		catalog: catalog,
	}
}

// validate is the (control, validate) hook handler. Beyond the model's
// local checks it verifies the COSO principle against the catalog and
// keeps the test schedule consistent with the frequency.
func (uc *ControlUseCase) validate(control *model.Control) error {
	if control.Status == "" {
		control.Status = types.ControlStatusDraft
	}
	if !control.Status.IsValid() {
		return goerr.New("invalid control status", goerr.V("status", control.Status))
	}
	if err := control.Validate(); err != nil {
		return err
	}

	if control.CosoPrinciple != "" && uc.catalog != nil {
		principle, ok := uc.catalog.Principle(control.CosoPrinciple)
		if !ok {
			return goerr.New("unknown COSO principle",
				goerr.V("principle", control.CosoPrinciple))
		}
		if control.CosoComponent == "" {
			control.CosoComponent = principle.Component
		} else if control.CosoComponent != principle.Component {
			return goerr.New("COSO component does not match the principle",
				goerr.V("principle", control.CosoPrinciple),
				goerr.V("component", control.CosoComponent),
				goerr.V("expected", principle.Component))
		}
	}

	control.ScheduleNextTest()
	return nil
}

func (uc *ControlUseCase) Create(ctx context.Context, control *model.Control) (*model.Control, error) {
	if err := uc.hooks.Dispatch(ctx, types.DocKindControl, types.EventValidate, control); err != nil {
		return nil, err
	}
	return uc.repo.Control().Create(ctx, control)
}

func (uc *ControlUseCase) Get(ctx context.Context, id int64) (*model.Control, error) {
	return uc.repo.Control().Get(ctx, id)
}

func (uc *ControlUseCase) List(ctx context.Context) ([]*model.Control, error) {
	return uc.repo.Control().List(ctx)
}

func (uc *ControlUseCase) ListByStatus(ctx context.Context, status types.ControlStatus) ([]*model.Control, error) {
	return uc.repo.Control().ListByStatus(ctx, status)
}

func (uc *ControlUseCase) Update(ctx context.Context, control *model.Control) (*model.Control, error) {
	if err := uc.hooks.Dispatch(ctx, types.DocKindControl, types.EventValidate, control); err != nil {
		return nil, err
	}
	if err := uc.hooks.Dispatch(ctx, types.DocKindControl, types.EventOnUpdate, control); err != nil {
		return nil, err
	}
	return uc.repo.Control().Update(ctx, control)
}

func (uc *ControlUseCase) Delete(ctx context.Context, id int64) error {
	return uc.repo.Control().Delete(ctx, id)
}
