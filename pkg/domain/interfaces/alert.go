package interfaces

import (
	"context"

	"github.com/grc-lab/attest/pkg/domain/model"
	"github.com/grc-lab/attest/pkg/domain/types"
)

type AlertRepository interface {
	// Create creates a new alert with auto-generated ID
	Create(ctx context.Context, alert *model.Alert) (*model.Alert, error)

	// Get retrieves an alert by ID
	Get(ctx context.Context, id int64) (*model.Alert, error)

	// List retrieves all alerts
	List(ctx context.Context) ([]*model.Alert, error)

	// FindOpenByRelated retrieves open alerts of the given type that
	// reference the given record. Used for duplicate suppression.
	FindOpenByRelated(ctx context.Context, alertType types.AlertType, kind types.DocKind, relatedID int64) ([]*model.Alert, error)

	// Update updates an existing alert
	Update(ctx context.Context, alert *model.Alert) (*model.Alert, error)

	// Delete deletes an alert by ID
	Delete(ctx context.Context, id int64) error
}
