package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/grc-lab/attest/pkg/domain/interfaces"
	"github.com/grc-lab/attest/pkg/domain/model"
	"github.com/grc-lab/attest/pkg/domain/types"
	"github.com/grc-lab/attest/pkg/utils/logging"
)

// AlertUseCase manages compliance alerts and runs the overdue-test
// scan that raises them.
type AlertUseCase struct {
	repo     interfaces.Repository
	settings *SettingsUseCase
	now      func() time.Time
}

func NewAlertUseCase(repo interfaces.Repository, settings *SettingsUseCase, now func() time.Time) *AlertUseCase {
	return &AlertUseCase{
		repo:     repo,
		settings: settings,
		now:      now,
	}
}

func (uc *AlertUseCase) Get(ctx context.Context, id int64) (*model.Alert, error) {
	return uc.repo.Alert().Get(ctx, id)
}

func (uc *AlertUseCase) List(ctx context.Context) ([]*model.Alert, error) {
	return uc.repo.Alert().List(ctx)
}

// UpdateStatus moves an alert through its handling lifecycle.
func (uc *AlertUseCase) UpdateStatus(ctx context.Context, id int64, status types.AlertStatus) (*model.Alert, error) {
	alert, err := uc.repo.Alert().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	alert.Status = status
	return uc.repo.Alert().Update(ctx, alert)
}

func (uc *AlertUseCase) Delete(ctx context.Context, id int64) error {
	return uc.repo.Alert().Delete(ctx, id)
}

// ScanResult summarizes one overdue-test scan run.
type ScanResult struct {
	Scanned    int
	Created    int
	Suppressed int
}

// ScanOverdue finds active controls whose scheduled test date has
// passed and raises one alert per control. An existing open alert for
// the same control suppresses a duplicate. When compliance features
// are disabled or settings are absent the scan is a no-op.
func (uc *AlertUseCase) ScanOverdue(ctx context.Context) (*ScanResult, error) {
	settings, err := uc.settings.Get(ctx)
	if errors.Is(err, interfaces.ErrNotFound) {
		logging.From(ctx).Debug("settings not configured, skipping overdue scan")
		return &ScanResult{}, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load settings for overdue scan")
	}
	if !settings.EnableComplianceFeatures {
		logging.From(ctx).Debug("compliance features disabled, skipping overdue scan")
		return &ScanResult{}, nil
	}

	asOf := uc.now().UTC()
	overdue, err := uc.repo.Control().ListOverdue(ctx, asOf)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list overdue controls")
	}

	result := &ScanResult{Scanned: len(overdue)}
	for _, control := range overdue {
		open, err := uc.repo.Alert().FindOpenByRelated(ctx, types.AlertTypeOverdueTest, types.DocKindControl, control.ID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to check existing alerts",
				goerr.V("control_id", control.ID))
		}
		if len(open) > 0 {
			result.Suppressed++
			continue
		}

		daysOverdue := int(asOf.Sub(control.NextTestDate).Hours() / 24)
		alert := &model.Alert{
			Type:        types.AlertTypeOverdueTest,
			Severity:    overdueSeverity(daysOverdue),
			Status:      types.AlertStatusNew,
			Title:       fmt.Sprintf("Control test overdue: %s", control.Name),
			Description: fmt.Sprintf("Control %q was due for testing on %s (%d days overdue)", control.Name, control.NextTestDate.Format("2006-01-02"), daysOverdue),
			RelatedKind: types.DocKindControl,
			RelatedID:   control.ID,
			Details: map[string]any{
				"next_test_date": control.NextTestDate.Format("2006-01-02"),
				"days_overdue":   daysOverdue,
				"is_key_control": control.IsKeyControl,
				"owner":          control.Owner,
			},
		}
		if _, err := uc.repo.Alert().Create(ctx, alert); err != nil {
			return nil, goerr.Wrap(err, "failed to create overdue alert",
				goerr.V("control_id", control.ID))
		}
		result.Created++
	}

	logging.From(ctx).Info("overdue test scan finished",
		"scanned", result.Scanned,
		"created", result.Created,
		"suppressed", result.Suppressed)
	return result, nil
}

// overdueSeverity grades an overdue alert by how long the test has
// been outstanding.
func overdueSeverity(daysOverdue int) types.AlertSeverity {
	switch {
	case daysOverdue > 30:
		return types.AlertSeverityCritical
	case daysOverdue > 7:
		return types.AlertSeverityWarning
	default:
		return types.AlertSeverityInfo
	}
}
