package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/grc-lab/attest/pkg/domain/interfaces"
	"github.com/grc-lab/attest/pkg/domain/model"
	"github.com/grc-lab/attest/pkg/domain/types"
	"github.com/grc-lab/attest/pkg/repository/memory"
	"github.com/grc-lab/attest/pkg/usecase"
)

// brokenSettings fails every read with an error that is not a
// not-found, as a degraded backend would.
type brokenSettings struct{}

func (brokenSettings) Get(ctx context.Context) (*model.Settings, error) {
	return nil, goerr.New("settings backend unavailable")
}

func (brokenSettings) Put(ctx context.Context, settings *model.Settings) (*model.Settings, error) {
	return nil, goerr.New("settings backend unavailable")
}

type brokenSettingsRepo struct {
	interfaces.Repository
}

func (brokenSettingsRepo) Settings() interfaces.SettingsRepository {
	return brokenSettings{}
}

func newUseCasesWithBrokenSettings(t *testing.T) *usecase.UseCases {
	t.Helper()
	repo := brokenSettingsRepo{Repository: memory.New()}
	return usecase.New(repo, usecase.WithNow(func() time.Time { return fixedNow }))
}

func TestDigestWeekly(t *testing.T) {
	ctx := context.Background()

	t.Run("skipped when settings missing", func(t *testing.T) {
		uc := newUseCases(t)
		digest, err := uc.Digest.Weekly(ctx)
		gt.NoError(t, err)
		gt.Bool(t, digest == nil).True()
	})

	t.Run("skipped when disabled", func(t *testing.T) {
		uc := newUseCases(t)
		saveSettings(t, uc, &model.Settings{SendWeeklyDigest: false})
		digest, err := uc.Digest.Weekly(ctx)
		gt.NoError(t, err)
		gt.Bool(t, digest == nil).True()
	})

	t.Run("settings read failure is not a skip", func(t *testing.T) {
		uc := newUseCasesWithBrokenSettings(t)
		_, err := uc.Digest.Weekly(ctx)
		gt.Error(t, err)
	})

	t.Run("counts current activity", func(t *testing.T) {
		uc := newUseCases(t)
		saveSettings(t, uc, &model.Settings{SendWeeklyDigest: true})

		control := createActiveControl(t, uc)
		_, err := uc.Control.Create(ctx, &model.Control{
			Name:   "retired control",
			Status: types.ControlStatusRetired,
		})
		gt.NoError(t, err).Required()

		_, err = uc.Risk.Create(ctx, &model.Risk{Title: "open risk"})
		gt.NoError(t, err).Required()

		_, err = uc.Deficiency.Create(ctx, &model.Deficiency{
			ControlID:   control.ID,
			Description: "finding",
		})
		gt.NoError(t, err).Required()

		exec := createDraftExecution(t, uc, control.ID, types.TestResultEffective, "")
		_, err = uc.TestExecution.Submit(ctx, exec.ID)
		gt.NoError(t, err).Required()

		digest, err := uc.Digest.Weekly(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, digest.ActiveControls).Equal(1)
		gt.Value(t, digest.OpenRisks).Equal(1)
		gt.Value(t, digest.OpenDeficiencies).Equal(1)
	})
}

func TestDigestMonthly(t *testing.T) {
	ctx := context.Background()

	t.Run("skipped when compliance features disabled", func(t *testing.T) {
		uc := newUseCases(t)
		saveSettings(t, uc, &model.Settings{EnableComplianceFeatures: false})
		digest, err := uc.Digest.Monthly(ctx)
		gt.NoError(t, err)
		gt.Bool(t, digest == nil).True()
	})

	t.Run("settings read failure is not a skip", func(t *testing.T) {
		uc := newUseCasesWithBrokenSettings(t)
		_, err := uc.Digest.Monthly(ctx)
		gt.Error(t, err)
	})

	t.Run("effectiveness rate over tested controls", func(t *testing.T) {
		uc := newUseCases(t)
		saveSettings(t, uc, &model.Settings{EnableComplianceFeatures: true})

		results := []types.TestResult{
			types.TestResultEffective,
			types.TestResultEffective,
			types.TestResultIneffectiveMinor,
			"", // never tested
		}
		for _, result := range results {
			control, err := uc.Control.Create(ctx, &model.Control{
				Name:   "control",
				Status: types.ControlStatusActive,
			})
			gt.NoError(t, err).Required()
			if result == "" {
				continue
			}
			control.LastTestResult = result
			_, err = uc.Control.Update(ctx, control)
			gt.NoError(t, err).Required()
		}

		digest, err := uc.Digest.Monthly(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, digest.ActiveControls).Equal(4)
		gt.Value(t, digest.TestedControls).Equal(3)
		gt.Value(t, digest.EffectiveControls).Equal(2)
		gt.Bool(t, digest.EffectivenessRate > 66.0 && digest.EffectivenessRate < 67.0).True()
	})
}
