package repository_test

import (
	"context"
	"testing"

	"github.com/grc-lab/attest/pkg/domain/interfaces"
	"github.com/grc-lab/attest/pkg/domain/model"
	"github.com/grc-lab/attest/pkg/domain/types"
)

func runAlertRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create defaults status to new", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Alert().Create(ctx, &model.Alert{
			Type:        types.AlertTypeOverdueTest,
			Severity:    types.AlertSeverityWarning,
			Title:       "Control test overdue: Quarterly access review",
			RelatedKind: types.DocKindControl,
			RelatedID:   1,
			Details:     map[string]any{"days_overdue": 12},
		})
		if err != nil {
			t.Fatalf("failed to create alert: %v", err)
		}

		if created.Status != types.AlertStatusNew {
			t.Errorf("expected default status New, got %s", created.Status)
		}
		if created.Severity != types.AlertSeverityWarning {
			t.Errorf("expected severity Warning, got %s", created.Severity)
		}
	})

	t.Run("FindOpenByRelated returns open alerts for the record", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		open, err := repo.Alert().Create(ctx, &model.Alert{
			Type:        types.AlertTypeOverdueTest,
			Title:       "open alert",
			RelatedKind: types.DocKindControl,
			RelatedID:   7,
		})
		if err != nil {
			t.Fatalf("failed to create open alert: %v", err)
		}

		resolved, err := repo.Alert().Create(ctx, &model.Alert{
			Type:        types.AlertTypeOverdueTest,
			Title:       "resolved alert",
			RelatedKind: types.DocKindControl,
			RelatedID:   7,
		})
		if err != nil {
			t.Fatalf("failed to create resolved alert: %v", err)
		}
		resolved.Status = types.AlertStatusResolved
		if _, err := repo.Alert().Update(ctx, resolved); err != nil {
			t.Fatalf("failed to resolve alert: %v", err)
		}

		if _, err := repo.Alert().Create(ctx, &model.Alert{
			Type:        types.AlertTypeOverdueTest,
			Title:       "other control",
			RelatedKind: types.DocKindControl,
			RelatedID:   8,
		}); err != nil {
			t.Fatalf("failed to create unrelated alert: %v", err)
		}

		alerts, err := repo.Alert().FindOpenByRelated(ctx, types.AlertTypeOverdueTest, types.DocKindControl, 7)
		if err != nil {
			t.Fatalf("failed to find open alerts: %v", err)
		}
		if len(alerts) != 1 {
			t.Fatalf("expected 1 open alert, got %d", len(alerts))
		}
		if alerts[0].ID != open.ID {
			t.Errorf("expected alert ID=%d, got %d", open.ID, alerts[0].ID)
		}
	})

	t.Run("Details round-trip", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Alert().Create(ctx, &model.Alert{
			Type:        types.AlertTypeOverdueTest,
			Title:       "with details",
			RelatedKind: types.DocKindControl,
			RelatedID:   1,
			Details: map[string]any{
				"owner":          "controller@example.com",
				"is_key_control": true,
			},
		})
		if err != nil {
			t.Fatalf("failed to create alert: %v", err)
		}

		retrieved, err := repo.Alert().Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("failed to get alert: %v", err)
		}
		if retrieved.Details["owner"] != "controller@example.com" {
			t.Errorf("expected owner detail, got %v", retrieved.Details["owner"])
		}
	})
}

func TestMemoryAlertRepository(t *testing.T) {
	runAlertRepositoryTest(t, newMemoryRepository)
}

func TestFirestoreAlertRepository(t *testing.T) {
	runAlertRepositoryTest(t, newFirestoreRepository)
}
