package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/grc-lab/attest/pkg/domain/model"
	"github.com/grc-lab/attest/pkg/domain/types"
	"github.com/grc-lab/attest/pkg/usecase"
)

func createOverdueControl(t *testing.T, uc *usecase.UseCases, name string, daysOverdue int) *model.Control {
	t.Helper()
	control, err := uc.Control.Create(context.Background(), &model.Control{
		Name:   name,
		Status: types.ControlStatusActive,
	})
	gt.NoError(t, err).Required()

	// Set the schedule directly; Create would derive it from the last
	// test date.
	control.NextTestDate = fixedNow.AddDate(0, 0, -daysOverdue)
	control, err = uc.Control.Update(context.Background(), control)
	gt.NoError(t, err).Required()
	return control
}

func TestAlertScanOverdue(t *testing.T) {
	ctx := context.Background()

	t.Run("raises one alert per overdue control", func(t *testing.T) {
		uc := newUseCases(t)
		saveSettings(t, uc, &model.Settings{EnableComplianceFeatures: true})

		overdue := createOverdueControl(t, uc, "overdue control", 10)
		_, err := uc.Control.Create(ctx, &model.Control{
			Name:   "current control",
			Status: types.ControlStatusActive,
		})
		gt.NoError(t, err).Required()

		result, err := uc.Alert.ScanOverdue(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, result.Scanned).Equal(1)
		gt.Value(t, result.Created).Equal(1)
		gt.Value(t, result.Suppressed).Equal(0)

		alerts, err := uc.Alert.List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, alerts).Length(1)

		alert := alerts[0]
		gt.Value(t, alert.Type).Equal(types.AlertTypeOverdueTest)
		gt.Value(t, alert.Status).Equal(types.AlertStatusNew)
		gt.Value(t, alert.RelatedKind).Equal(types.DocKindControl)
		gt.Value(t, alert.RelatedID).Equal(overdue.ID)
		gt.Value(t, alert.Details["days_overdue"]).Equal(10)
	})

	t.Run("open alert suppresses a duplicate", func(t *testing.T) {
		uc := newUseCases(t)
		saveSettings(t, uc, &model.Settings{EnableComplianceFeatures: true})
		createOverdueControl(t, uc, "overdue control", 10)

		_, err := uc.Alert.ScanOverdue(ctx)
		gt.NoError(t, err).Required()

		result, err := uc.Alert.ScanOverdue(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, result.Created).Equal(0)
		gt.Value(t, result.Suppressed).Equal(1)

		alerts, err := uc.Alert.List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, alerts).Length(1)
	})

	t.Run("resolved alert allows a new one", func(t *testing.T) {
		uc := newUseCases(t)
		saveSettings(t, uc, &model.Settings{EnableComplianceFeatures: true})
		createOverdueControl(t, uc, "overdue control", 10)

		_, err := uc.Alert.ScanOverdue(ctx)
		gt.NoError(t, err).Required()

		alerts, err := uc.Alert.List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, alerts).Length(1)
		_, err = uc.Alert.UpdateStatus(ctx, alerts[0].ID, types.AlertStatusResolved)
		gt.NoError(t, err).Required()

		result, err := uc.Alert.ScanOverdue(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, result.Created).Equal(1)
	})

	t.Run("severity graded by days overdue", func(t *testing.T) {
		uc := newUseCases(t)
		saveSettings(t, uc, &model.Settings{EnableComplianceFeatures: true})

		slightly := createOverdueControl(t, uc, "slightly overdue", 2)
		moderately := createOverdueControl(t, uc, "moderately overdue", 10)
		badly := createOverdueControl(t, uc, "badly overdue", 45)

		_, err := uc.Alert.ScanOverdue(ctx)
		gt.NoError(t, err).Required()

		alerts, err := uc.Alert.List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, alerts).Length(3)

		severities := make(map[int64]types.AlertSeverity)
		for _, alert := range alerts {
			severities[alert.RelatedID] = alert.Severity
		}
		gt.Value(t, severities[slightly.ID]).Equal(types.AlertSeverityInfo)
		gt.Value(t, severities[moderately.ID]).Equal(types.AlertSeverityWarning)
		gt.Value(t, severities[badly.ID]).Equal(types.AlertSeverityCritical)
	})

	t.Run("disabled compliance features skip the scan", func(t *testing.T) {
		uc := newUseCases(t)
		saveSettings(t, uc, &model.Settings{EnableComplianceFeatures: false})
		createOverdueControl(t, uc, "overdue control", 10)

		result, err := uc.Alert.ScanOverdue(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, result.Scanned).Equal(0)
		gt.Value(t, result.Created).Equal(0)
	})

	t.Run("missing settings skip the scan", func(t *testing.T) {
		uc := newUseCases(t)
		createOverdueControl(t, uc, "overdue control", 10)

		result, err := uc.Alert.ScanOverdue(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, result.Created).Equal(0)
	})

	t.Run("settings read failure is not a skip", func(t *testing.T) {
		uc := newUseCasesWithBrokenSettings(t)
		_, err := uc.Alert.ScanOverdue(ctx)
		gt.Error(t, err)
	})
}
