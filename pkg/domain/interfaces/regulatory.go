package interfaces

import (
	"context"

	"github.com/grc-lab/attest/pkg/domain/model"
)

type RegulatoryUpdateRepository interface {
	// Create creates a new regulatory update with auto-generated ID
	Create(ctx context.Context, update *model.RegulatoryUpdate) (*model.RegulatoryUpdate, error)

	// Get retrieves a regulatory update by ID
	Get(ctx context.Context, id int64) (*model.RegulatoryUpdate, error)

	// List retrieves all regulatory updates
	List(ctx context.Context) ([]*model.RegulatoryUpdate, error)

	// Update updates an existing regulatory update
	Update(ctx context.Context, update *model.RegulatoryUpdate) (*model.RegulatoryUpdate, error)

	// Delete deletes a regulatory update by ID
	Delete(ctx context.Context, id int64) error
}

type RegulatoryChangeRepository interface {
	// Create creates a new regulatory change with auto-generated ID
	Create(ctx context.Context, change *model.RegulatoryChange) (*model.RegulatoryChange, error)

	// Get retrieves a regulatory change by ID
	Get(ctx context.Context, id int64) (*model.RegulatoryChange, error)

	// List retrieves all regulatory changes
	List(ctx context.Context) ([]*model.RegulatoryChange, error)

	// ListByUpdate retrieves changes detected in one regulatory update
	ListByUpdate(ctx context.Context, updateID int64) ([]*model.RegulatoryChange, error)

	// Update updates an existing regulatory change
	Update(ctx context.Context, change *model.RegulatoryChange) (*model.RegulatoryChange, error)

	// Delete deletes a regulatory change by ID
	Delete(ctx context.Context, id int64) error
}

type RegulatoryAssessmentRepository interface {
	// Create creates a new impact assessment with auto-generated ID
	Create(ctx context.Context, assessment *model.RegulatoryAssessment) (*model.RegulatoryAssessment, error)

	// Get retrieves an impact assessment by ID
	Get(ctx context.Context, id int64) (*model.RegulatoryAssessment, error)

	// List retrieves all impact assessments
	List(ctx context.Context) ([]*model.RegulatoryAssessment, error)

	// ListByChange retrieves assessments created for one regulatory change
	ListByChange(ctx context.Context, changeID int64) ([]*model.RegulatoryAssessment, error)

	// ListPending retrieves assessments still awaiting a decision
	ListPending(ctx context.Context) ([]*model.RegulatoryAssessment, error)

	// Update updates an existing impact assessment
	Update(ctx context.Context, assessment *model.RegulatoryAssessment) (*model.RegulatoryAssessment, error)

	// Delete deletes an impact assessment by ID
	Delete(ctx context.Context, id int64) error
}
