package interfaces

import (
	"context"

	"github.com/grc-lab/attest/pkg/domain/model"
)

type DeficiencyRepository interface {
	// Create creates a new deficiency with auto-generated ID
	Create(ctx context.Context, def *model.Deficiency) (*model.Deficiency, error)

	// Get retrieves a deficiency by ID
	Get(ctx context.Context, id int64) (*model.Deficiency, error)

	// List retrieves all deficiencies
	List(ctx context.Context) ([]*model.Deficiency, error)

	// ListByControl retrieves deficiencies raised against a control
	ListByControl(ctx context.Context, controlID int64) ([]*model.Deficiency, error)

	// CountOpen counts deficiencies in Open or In Progress status
	CountOpen(ctx context.Context) (int, error)

	// Update updates an existing deficiency
	Update(ctx context.Context, def *model.Deficiency) (*model.Deficiency, error)

	// Delete deletes a deficiency by ID
	Delete(ctx context.Context, id int64) error
}
