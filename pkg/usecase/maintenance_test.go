package usecase_test

import (
	"context"
	"io"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/grc-lab/attest/pkg/domain/model"
	"github.com/grc-lab/attest/pkg/domain/types"
)

func TestMaintenancePurgeDemo(t *testing.T) {
	ctx := context.Background()
	uc := newUseCases(t)
	saveSettings(t, uc, &model.Settings{AutoCreateDeficiency: true, EnableComplianceFeatures: true})

	demoControl, err := uc.Control.Create(ctx, &model.Control{
		Name:   "[DEMO] Access review",
		Status: types.ControlStatusActive,
	})
	gt.NoError(t, err).Required()

	realControl, err := uc.Control.Create(ctx, &model.Control{
		Name:   "Access review",
		Status: types.ControlStatusActive,
	})
	gt.NoError(t, err).Required()

	demoExec := createDraftExecution(t, uc, demoControl.ID, types.TestResultIneffectiveMinor, "demo finding")
	_, err = uc.TestExecution.Submit(ctx, demoExec.ID)
	gt.NoError(t, err).Required()

	realExec := createDraftExecution(t, uc, realControl.ID, types.TestResultEffective, "")
	_, err = uc.TestExecution.Submit(ctx, realExec.ID)
	gt.NoError(t, err).Required()

	_, err = uc.Risk.Create(ctx, &model.Risk{Title: "[DEMO] Sample risk"})
	gt.NoError(t, err).Required()
	_, err = uc.Risk.Create(ctx, &model.Risk{Title: "Real risk"})
	gt.NoError(t, err).Required()

	result, err := uc.Maintenance.PurgeDemo(ctx, io.Discard)
	gt.NoError(t, err).Required()

	gt.Value(t, result.Controls).Equal(1)
	gt.Value(t, result.TestExecutions).Equal(1)
	gt.Value(t, result.Deficiencies).Equal(1)
	gt.Value(t, result.Risks).Equal(1)

	controls, err := uc.Control.List(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, controls).Length(1)
	gt.Value(t, controls[0].ID).Equal(realControl.ID)

	execs, err := uc.TestExecution.ListByControl(ctx, realControl.ID)
	gt.NoError(t, err).Required()
	gt.Array(t, execs).Length(1)

	risks, err := uc.Risk.List(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, risks).Length(1)
	gt.Value(t, risks[0].Title).Equal("Real risk")
}

func TestMaintenancePurgeAll(t *testing.T) {
	ctx := context.Background()
	uc := newUseCases(t)

	_, err := uc.Control.Create(ctx, &model.Control{Name: "control"})
	gt.NoError(t, err).Required()
	_, err = uc.Risk.Create(ctx, &model.Risk{Title: "risk"})
	gt.NoError(t, err).Required()

	update := createRegulatoryUpdate(t, uc, &model.RegulatoryUpdate{Title: "rule"})
	createRegulatoryChange(t, uc, &model.RegulatoryChange{
		RegulatoryUpdateID: update.ID,
		Summary:            "wording change",
	})

	_, err = uc.Assistant.Query(ctx, "show me all controls")
	gt.NoError(t, err).Required()

	result, err := uc.Maintenance.PurgeAll(ctx, io.Discard)
	gt.NoError(t, err).Required()
	gt.Value(t, result.RegulatoryUpdates).Equal(1)
	gt.Value(t, result.RegulatoryChanges).Equal(1)
	gt.Value(t, result.QueryLogs).Equal(1)
	gt.Value(t, result.Total()).Equal(5)

	updates, err := uc.Regulatory.ListUpdates(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, updates).Length(0)

	controls, err := uc.Control.List(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, controls).Length(0)

	risks, err := uc.Risk.List(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, risks).Length(0)
}
