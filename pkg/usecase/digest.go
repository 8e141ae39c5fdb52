package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"

	"github.com/grc-lab/attest/pkg/domain/interfaces"
	"github.com/grc-lab/attest/pkg/domain/types"
	"github.com/grc-lab/attest/pkg/utils/logging"
)

// WeeklyDigest is the compliance summary produced once a week.
type WeeklyDigest struct {
	GeneratedAt      time.Time
	ActiveControls   int
	OpenRisks        int
	OpenDeficiencies int
	TestsLastWeek    int
}

// MonthlyDigest extends the weekly stats with a control effectiveness
// rate over tested controls.
type MonthlyDigest struct {
	GeneratedAt       time.Time
	ActiveControls    int
	TestedControls    int
	EffectiveControls int
	// EffectivenessRate is EffectiveControls / TestedControls as a
	// percentage, 0 when nothing has been tested.
	EffectivenessRate float64
	OpenDeficiencies  int
}

// DigestUseCase builds periodic compliance summaries. A digest is
// skipped (nil result, nil error) when settings are absent or the
// digest is disabled; the scheduler must not fail over configuration.
type DigestUseCase struct {
	repo     interfaces.Repository
	settings *SettingsUseCase
	now      func() time.Time
}

func NewDigestUseCase(repo interfaces.Repository, settings *SettingsUseCase, now func() time.Time) *DigestUseCase {
	return &DigestUseCase{
		repo:     repo,
		settings: settings,
		now:      now,
	}
}

// Weekly gathers last week's compliance activity. The independent
// counts are collected concurrently.
func (uc *DigestUseCase) Weekly(ctx context.Context) (*WeeklyDigest, error) {
	settings, err := uc.settings.Get(ctx)
	if errors.Is(err, interfaces.ErrNotFound) {
		logging.From(ctx).Debug("settings not configured, skipping weekly digest")
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load settings for weekly digest")
	}
	if !settings.SendWeeklyDigest {
		logging.From(ctx).Debug("weekly digest disabled, skipping")
		return nil, nil
	}

	now := uc.now().UTC()
	digest := &WeeklyDigest{GeneratedAt: now}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		controls, err := uc.repo.Control().ListByStatus(ctx, types.ControlStatusActive)
		if err != nil {
			return err
		}
		digest.ActiveControls = len(controls)
		return nil
	})
	eg.Go(func() error {
		risks, err := uc.repo.Risk().ListByStatus(ctx, types.RiskStatusOpen)
		if err != nil {
			return err
		}
		digest.OpenRisks = len(risks)
		return nil
	})
	eg.Go(func() error {
		count, err := uc.repo.Deficiency().CountOpen(ctx)
		if err != nil {
			return err
		}
		digest.OpenDeficiencies = count
		return nil
	})
	eg.Go(func() error {
		count, err := uc.repo.TestExecution().CountSubmittedSince(ctx, now.AddDate(0, 0, -7))
		if err != nil {
			return err
		}
		digest.TestsLastWeek = count
		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return digest, nil
}

// Monthly computes the control effectiveness rate over controls that
// have a recorded test result.
func (uc *DigestUseCase) Monthly(ctx context.Context) (*MonthlyDigest, error) {
	settings, err := uc.settings.Get(ctx)
	if errors.Is(err, interfaces.ErrNotFound) {
		logging.From(ctx).Debug("settings not configured, skipping monthly digest")
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load settings for monthly digest")
	}
	if !settings.EnableComplianceFeatures {
		logging.From(ctx).Debug("compliance features disabled, skipping monthly digest")
		return nil, nil
	}

	controls, err := uc.repo.Control().ListByStatus(ctx, types.ControlStatusActive)
	if err != nil {
		return nil, err
	}

	digest := &MonthlyDigest{
		GeneratedAt:    uc.now().UTC(),
		ActiveControls: len(controls),
	}
	for _, c := range controls {
		if c.LastTestResult == "" || c.LastTestResult == types.TestResultNotTested {
			continue
		}
		digest.TestedControls++
		if c.LastTestResult == types.TestResultEffective {
			digest.EffectiveControls++
		}
	}
	if digest.TestedControls > 0 {
		digest.EffectivenessRate = float64(digest.EffectiveControls) / float64(digest.TestedControls) * 100
	}

	count, err := uc.repo.Deficiency().CountOpen(ctx)
	if err != nil {
		return nil, err
	}
	digest.OpenDeficiencies = count

	return digest, nil
}
