package interfaces

import (
	"context"

	"github.com/grc-lab/attest/pkg/domain/model"
)

type QueryLogRepository interface {
	// Create creates a new query log entry with auto-generated ID
	Create(ctx context.Context, log *model.QueryLog) (*model.QueryLog, error)

	// List retrieves all query log entries
	List(ctx context.Context) ([]*model.QueryLog, error)

	// Delete deletes a query log entry by ID
	Delete(ctx context.Context, id int64) error
}
