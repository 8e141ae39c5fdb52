package interfaces

import (
	"context"

	"github.com/grc-lab/attest/pkg/domain/model"
	"github.com/grc-lab/attest/pkg/domain/types"
)

type CaptureRuleRepository interface {
	// Create creates a new capture rule with auto-generated ID
	Create(ctx context.Context, rule *model.CaptureRule) (*model.CaptureRule, error)

	// Get retrieves a capture rule by ID
	Get(ctx context.Context, id int64) (*model.CaptureRule, error)

	// List retrieves all capture rules
	List(ctx context.Context) ([]*model.CaptureRule, error)

	// ListEnabled retrieves enabled rules for a source kind and trigger
	ListEnabled(ctx context.Context, kind types.DocKind, event types.DocEvent) ([]*model.CaptureRule, error)

	// Update updates an existing capture rule
	Update(ctx context.Context, rule *model.CaptureRule) (*model.CaptureRule, error)

	// Delete deletes a capture rule by ID
	Delete(ctx context.Context, id int64) error
}
