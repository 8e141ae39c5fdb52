package interfaces

import (
	"context"
	"time"

	"github.com/grc-lab/attest/pkg/domain/model"
)

type TestExecutionRepository interface {
	// Create creates a new test execution with auto-generated ID
	Create(ctx context.Context, exec *model.TestExecution) (*model.TestExecution, error)

	// Get retrieves a test execution by ID
	Get(ctx context.Context, id int64) (*model.TestExecution, error)

	// List retrieves all test executions
	List(ctx context.Context) ([]*model.TestExecution, error)

	// ListByControl retrieves test executions for a control
	ListByControl(ctx context.Context, controlID int64) ([]*model.TestExecution, error)

	// CountSubmittedSince counts executions submitted at or after the
	// given time
	CountSubmittedSince(ctx context.Context, since time.Time) (int, error)

	// Update updates an existing test execution
	Update(ctx context.Context, exec *model.TestExecution) (*model.TestExecution, error)

	// Delete deletes a test execution by ID
	Delete(ctx context.Context, id int64) error
}
