package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/grc-lab/attest/pkg/domain/interfaces"
	"github.com/grc-lab/attest/pkg/domain/model"
	"github.com/grc-lab/attest/pkg/domain/types"
)

func runEvidenceRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create and Get round-trip", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		ev := &model.Evidence{
			CaptureID:  "11111111-2222-3333-4444-555555555555",
			RuleID:     1,
			ControlID:  3,
			SourceKind: types.DocKindTestExecution,
			SourceID:   42,
			CapturedAt: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
			Snapshot:   `{"test_result":"Effective"}`,
		}
		if err := ev.Seal(); err != nil {
			t.Fatalf("failed to seal evidence: %v", err)
		}

		created, err := repo.Evidence().Create(ctx, ev)
		if err != nil {
			t.Fatalf("failed to create evidence: %v", err)
		}

		retrieved, err := repo.Evidence().Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("failed to get evidence: %v", err)
		}
		if retrieved.CaptureID != ev.CaptureID {
			t.Errorf("expected capture ID=%s, got %s", ev.CaptureID, retrieved.CaptureID)
		}
		if retrieved.Hash != ev.Hash {
			t.Errorf("expected hash preserved, got %s", retrieved.Hash)
		}
		if err := retrieved.Verify(); err != nil {
			t.Errorf("expected stored evidence to verify: %v", err)
		}
	})

	t.Run("ListByControl returns newest first", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

		for i := 0; i < 3; i++ {
			ev := &model.Evidence{
				CaptureID:  fmt.Sprintf("capture-%d", i),
				ControlID:  1,
				SourceKind: types.DocKindTestExecution,
				SourceID:   int64(i + 1),
				CapturedAt: base.AddDate(0, 0, i),
				Snapshot:   "{}",
			}
			if err := ev.Seal(); err != nil {
				t.Fatalf("failed to seal evidence: %v", err)
			}
			if _, err := repo.Evidence().Create(ctx, ev); err != nil {
				t.Fatalf("failed to create evidence: %v", err)
			}
		}

		ev := &model.Evidence{
			CaptureID:  "other-control",
			ControlID:  2,
			SourceKind: types.DocKindTestExecution,
			SourceID:   9,
			CapturedAt: base,
			Snapshot:   "{}",
		}
		if err := ev.Seal(); err != nil {
			t.Fatalf("failed to seal evidence: %v", err)
		}
		if _, err := repo.Evidence().Create(ctx, ev); err != nil {
			t.Fatalf("failed to create evidence: %v", err)
		}

		records, err := repo.Evidence().ListByControl(ctx, 1)
		if err != nil {
			t.Fatalf("failed to list by control: %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("expected 3 evidence records, got %d", len(records))
		}
		for i := 1; i < len(records); i++ {
			if records[i].CapturedAt.After(records[i-1].CapturedAt) {
				t.Errorf("expected newest-first ordering, got %v before %v",
					records[i-1].CapturedAt, records[i].CapturedAt)
			}
		}
	})
}

func TestMemoryEvidenceRepository(t *testing.T) {
	runEvidenceRepositoryTest(t, newMemoryRepository)
}

func TestFirestoreEvidenceRepository(t *testing.T) {
	runEvidenceRepositoryTest(t, newFirestoreRepository)
}
