package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/grc-lab/attest/pkg/domain/interfaces"
	"github.com/grc-lab/attest/pkg/domain/model"
	"github.com/grc-lab/attest/pkg/domain/types"
	"github.com/grc-lab/attest/pkg/repository/firestore"
	"github.com/grc-lab/attest/pkg/repository/memory"
)

func runRiskRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create creates risk with auto-increment ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		risk1 := &model.Risk{
			Title:       "Unauthorized journal entries",
			Description: "Manual journal entries posted without approval",
			Category:    "Financial Reporting",
		}

		created1, err := repo.Risk().Create(ctx, risk1)
		if err != nil {
			t.Fatalf("failed to create risk1: %v", err)
		}

		if created1.ID != 1 {
			t.Errorf("expected ID=1, got %d", created1.ID)
		}
		if created1.Title != risk1.Title {
			t.Errorf("expected title=%s, got %s", risk1.Title, created1.Title)
		}
		if created1.Status != types.RiskStatusOpen {
			t.Errorf("expected default status Open, got %s", created1.Status)
		}
		if created1.CreatedAt.IsZero() {
			t.Error("expected non-zero CreatedAt")
		}
		if created1.UpdatedAt.IsZero() {
			t.Error("expected non-zero UpdatedAt")
		}

		created2, err := repo.Risk().Create(ctx, &model.Risk{
			Title: "Vendor master data tampering",
		})
		if err != nil {
			t.Fatalf("failed to create risk2: %v", err)
		}

		if created2.ID != 2 {
			t.Errorf("expected ID=2, got %d", created2.ID)
		}
	})

	t.Run("Get retrieves existing risk", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Risk().Create(ctx, &model.Risk{
			Title:              "Revenue recognition error",
			InherentLikelihood: "4 - Likely",
			InherentImpact:     "5 - Severe",
			InherentScore:      20,
		})
		if err != nil {
			t.Fatalf("failed to create risk: %v", err)
		}

		retrieved, err := repo.Risk().Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("failed to get risk: %v", err)
		}

		if retrieved.ID != created.ID {
			t.Errorf("expected ID=%d, got %d", created.ID, retrieved.ID)
		}
		if retrieved.Title != created.Title {
			t.Errorf("expected title=%s, got %s", created.Title, retrieved.Title)
		}
		if retrieved.InherentLikelihood != created.InherentLikelihood {
			t.Errorf("expected likelihood=%s, got %s", created.InherentLikelihood, retrieved.InherentLikelihood)
		}
		if retrieved.InherentScore != 20 {
			t.Errorf("expected inherent score=20, got %d", retrieved.InherentScore)
		}
	})

	t.Run("Get returns error for non-existent risk", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Risk().Get(ctx, 99999)
		if err == nil {
			t.Error("expected error for non-existent risk")
		}
		if !errors.Is(err, interfaces.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("List returns all risks in ID order", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		risks, err := repo.Risk().List(ctx)
		if err != nil {
			t.Fatalf("failed to list risks: %v", err)
		}
		if len(risks) != 0 {
			t.Errorf("expected empty list, got %d risks", len(risks))
		}

		for _, title := range []string{"first", "second", "third"} {
			if _, err := repo.Risk().Create(ctx, &model.Risk{Title: title}); err != nil {
				t.Fatalf("failed to create risk %s: %v", title, err)
			}
		}

		risks, err = repo.Risk().List(ctx)
		if err != nil {
			t.Fatalf("failed to list risks: %v", err)
		}
		if len(risks) != 3 {
			t.Fatalf("expected 3 risks, got %d", len(risks))
		}
		for i, risk := range risks {
			if risk.ID != int64(i+1) {
				t.Errorf("expected risks ordered by ID, got ID=%d at index %d", risk.ID, i)
			}
		}
	})

	t.Run("ListByStatus filters", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		open, err := repo.Risk().Create(ctx, &model.Risk{Title: "open risk"})
		if err != nil {
			t.Fatalf("failed to create open risk: %v", err)
		}
		if _, err := repo.Risk().Create(ctx, &model.Risk{
			Title:  "mitigated risk",
			Status: types.RiskStatusMitigated,
		}); err != nil {
			t.Fatalf("failed to create mitigated risk: %v", err)
		}

		risks, err := repo.Risk().ListByStatus(ctx, types.RiskStatusOpen)
		if err != nil {
			t.Fatalf("failed to list by status: %v", err)
		}
		if len(risks) != 1 {
			t.Fatalf("expected 1 open risk, got %d", len(risks))
		}
		if risks[0].ID != open.ID {
			t.Errorf("expected open risk ID=%d, got %d", open.ID, risks[0].ID)
		}
	})

	t.Run("Update preserves CreatedAt", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Risk().Create(ctx, &model.Risk{Title: "before"})
		if err != nil {
			t.Fatalf("failed to create risk: %v", err)
		}

		created.Title = "after"
		created.Status = types.RiskStatusAccepted
		updated, err := repo.Risk().Update(ctx, created)
		if err != nil {
			t.Fatalf("failed to update risk: %v", err)
		}

		if updated.Title != "after" {
			t.Errorf("expected title=after, got %s", updated.Title)
		}
		if updated.Status != types.RiskStatusAccepted {
			t.Errorf("expected status Accepted, got %s", updated.Status)
		}
		if !updated.CreatedAt.Equal(created.CreatedAt) {
			t.Errorf("expected createdAt preserved, got %v", updated.CreatedAt)
		}
	})

	t.Run("Update returns error for non-existent risk", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Risk().Update(ctx, &model.Risk{ID: 99999, Title: "ghost"})
		if !errors.Is(err, interfaces.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Delete removes risk", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Risk().Create(ctx, &model.Risk{Title: "doomed"})
		if err != nil {
			t.Fatalf("failed to create risk: %v", err)
		}

		if err := repo.Risk().Delete(ctx, created.ID); err != nil {
			t.Fatalf("failed to delete risk: %v", err)
		}

		if _, err := repo.Risk().Get(ctx, created.ID); !errors.Is(err, interfaces.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}

		if err := repo.Risk().Delete(ctx, created.ID); !errors.Is(err, interfaces.ErrNotFound) {
			t.Errorf("expected ErrNotFound for double delete, got %v", err)
		}
	})
}

func newFirestoreRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}

	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")
	if databaseID == "" {
		t.Skip("TEST_FIRESTORE_DATABASE_ID not set")
	}

	ctx := context.Background()
	prefix := fmt.Sprintf("test_%d", time.Now().UnixNano())
	repo, err := firestore.New(ctx, projectID, databaseID, firestore.WithCollectionPrefix(prefix))
	if err != nil {
		t.Fatalf("failed to create firestore repository: %v", err)
	}
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("failed to close firestore repository: %v", err)
		}
	})
	return repo
}

func newMemoryRepository(t *testing.T) interfaces.Repository {
	t.Helper()
	return memory.New()
}

func TestMemoryRiskRepository(t *testing.T) {
	runRiskRepositoryTest(t, newMemoryRepository)
}

func TestFirestoreRiskRepository(t *testing.T) {
	runRiskRepositoryTest(t, newFirestoreRepository)
}
