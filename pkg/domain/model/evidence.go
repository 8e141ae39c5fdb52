package model

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/grc-lab/attest/pkg/domain/types"
)

// Evidence is a captured snapshot of a source record, kept for audit
// with a tamper-detection hash.
type Evidence struct {
	ID        int64
	CaptureID string
	RuleID    int64
	ControlID int64

	SourceKind types.DocKind
	SourceID   int64

	CapturedAt time.Time
	Snapshot   string
	Summary    string
	Hash       string

	CreatedAt time.Time
}

// Seal computes the integrity hash and the human-readable summary.
// It must be called once, before the first save.
func (e *Evidence) Seal() error {
	hash, err := e.computeHash()
	if err != nil {
		return err
	}
	e.Hash = hash
	e.Summary = e.buildSummary()
	return nil
}

// Verify recomputes the hash and compares it with the stored one.
func (e *Evidence) Verify() error {
	hash, err := e.computeHash()
	if err != nil {
		return err
	}
	if hash != e.Hash {
		return goerr.New("evidence integrity check failed",
			goerr.V("capture_id", e.CaptureID))
	}
	return nil
}

func (e *Evidence) computeHash() (string, error) {
	// Field order is fixed by the struct definition; json.Marshal is
	// deterministic for it.
	payload, err := json.Marshal(struct {
		CaptureID  string        `json:"capture_id"`
		SourceKind types.DocKind `json:"source_kind"`
		SourceID   int64         `json:"source_id"`
		CapturedAt string        `json:"captured_at"`
		Snapshot   string        `json:"snapshot"`
	}{
		CaptureID:  e.CaptureID,
		SourceKind: e.SourceKind,
		SourceID:   e.SourceID,
		CapturedAt: e.CapturedAt.UTC().Format(time.RFC3339Nano),
		Snapshot:   e.Snapshot,
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to marshal evidence payload")
	}

	sum := sha256.Sum256(payload)
	return "sha256:" + hex.EncodeToString(sum[:]), nil
}

func (e *Evidence) buildSummary() string {
	parts := []string{
		fmt.Sprintf("Evidence captured for %s %d", e.SourceKind, e.SourceID),
	}
	if e.Snapshot != "" {
		parts = append(parts, "record snapshot captured")
	}
	return strings.Join(parts, "\n")
}
