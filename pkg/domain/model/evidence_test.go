package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/grc-lab/attest/pkg/domain/model"
	"github.com/grc-lab/attest/pkg/domain/types"
)

func newSealedEvidence(t *testing.T) *model.Evidence {
	t.Helper()
	ev := &model.Evidence{
		CaptureID:  "c0ffee00-0000-0000-0000-000000000001",
		SourceKind: types.DocKindTestExecution,
		SourceID:   42,
		CapturedAt: time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC),
		Snapshot:   `{"test_result":"Effective"}`,
	}
	gt.NoError(t, ev.Seal())
	return ev
}

func TestEvidenceSeal(t *testing.T) {
	ev := newSealedEvidence(t)

	gt.Bool(t, ev.Hash != "").True()
	gt.Value(t, ev.Hash[:7]).Equal("sha256:")
	gt.Bool(t, ev.Summary != "").True()
}

func TestEvidenceVerify(t *testing.T) {
	t.Run("untouched record verifies", func(t *testing.T) {
		ev := newSealedEvidence(t)
		gt.NoError(t, ev.Verify())
	})

	t.Run("tampered snapshot fails", func(t *testing.T) {
		ev := newSealedEvidence(t)
		ev.Snapshot = `{"test_result":"Ineffective - Material"}`
		gt.Error(t, ev.Verify())
	})

	t.Run("tampered capture time fails", func(t *testing.T) {
		ev := newSealedEvidence(t)
		ev.CapturedAt = ev.CapturedAt.Add(time.Second)
		gt.Error(t, ev.Verify())
	})
}
