package interfaces

import (
	"context"

	"github.com/grc-lab/attest/pkg/domain/model"
)

type EvidenceRepository interface {
	// Create creates a new evidence record with auto-generated ID
	Create(ctx context.Context, ev *model.Evidence) (*model.Evidence, error)

	// Get retrieves an evidence record by ID
	Get(ctx context.Context, id int64) (*model.Evidence, error)

	// List retrieves all evidence records
	List(ctx context.Context) ([]*model.Evidence, error)

	// ListByControl retrieves evidence captured for a control, newest
	// first
	ListByControl(ctx context.Context, controlID int64) ([]*model.Evidence, error)

	// Delete deletes an evidence record by ID
	Delete(ctx context.Context, id int64) error
}
