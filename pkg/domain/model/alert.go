package model

import (
	"time"

	"github.com/grc-lab/attest/pkg/domain/types"
)

// Alert is a compliance alert raised by a scheduled scan, e.g. an
// overdue control test. One open alert per related record suppresses
// duplicates on subsequent scans.
type Alert struct {
	ID int64

	Type     types.AlertType
	Severity types.AlertSeverity
	Status   types.AlertStatus

	Title       string
	Description string

	RelatedKind types.DocKind
	RelatedID   int64

	// Details keeps the raw detection context for audit purposes.
	Details map[string]any

	CreatedAt time.Time
	UpdatedAt time.Time
}
