package interfaces

import (
	"context"
	"time"

	"github.com/grc-lab/attest/pkg/domain/model"
	"github.com/grc-lab/attest/pkg/domain/types"
)

type ControlRepository interface {
	// Create creates a new control with auto-generated ID
	Create(ctx context.Context, control *model.Control) (*model.Control, error)

	// Get retrieves a control by ID
	Get(ctx context.Context, id int64) (*model.Control, error)

	// List retrieves all controls
	List(ctx context.Context) ([]*model.Control, error)

	// ListByStatus retrieves controls with the given status
	ListByStatus(ctx context.Context, status types.ControlStatus) ([]*model.Control, error)

	// ListOverdue retrieves active controls whose next test date has
	// passed as of the given day
	ListOverdue(ctx context.Context, asOf time.Time) ([]*model.Control, error)

	// Update updates an existing control
	Update(ctx context.Context, control *model.Control) (*model.Control, error)

	// Delete deletes a control by ID
	Delete(ctx context.Context, id int64) error
}
