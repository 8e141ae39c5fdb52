package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/grc-lab/attest/pkg/domain/model"
)

type regulatoryUpdateRepository struct {
	mu      sync.RWMutex
	updates map[int64]*model.RegulatoryUpdate
	nextID  int64
}

func newRegulatoryUpdateRepository() *regulatoryUpdateRepository {
	return &regulatoryUpdateRepository{
		updates: make(map[int64]*model.RegulatoryUpdate),
		nextID:  1,
	}
}

func (r *regulatoryUpdateRepository) Create(ctx context.Context, update *model.RegulatoryUpdate) (*model.RegulatoryUpdate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := *update
	created.ID = r.nextID
	created.Status = update.Status.Normalize()
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID++

	r.updates[created.ID] = &created
	out := created
	return &out, nil
}

func (r *regulatoryUpdateRepository) Get(ctx context.Context, id int64) (*model.RegulatoryUpdate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	update, exists := r.updates[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "regulatory update not found", goerr.V("id", id))
	}

	out := *update
	return &out, nil
}

func (r *regulatoryUpdateRepository) List(ctx context.Context) ([]*model.RegulatoryUpdate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	updates := make([]*model.RegulatoryUpdate, 0, len(r.updates))
	for _, update := range r.updates {
		out := *update
		updates = append(updates, &out)
	}
	sort.Slice(updates, func(i, j int) bool { return updates[i].ID < updates[j].ID })

	return updates, nil
}

func (r *regulatoryUpdateRepository) Update(ctx context.Context, update *model.RegulatoryUpdate) (*model.RegulatoryUpdate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.updates[update.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "regulatory update not found", goerr.V("id", update.ID))
	}

	updated := *update
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.updates[updated.ID] = &updated
	out := updated
	return &out, nil
}

func (r *regulatoryUpdateRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.updates[id]; !exists {
		return goerr.Wrap(ErrNotFound, "regulatory update not found", goerr.V("id", id))
	}

	delete(r.updates, id)
	return nil
}

type regulatoryChangeRepository struct {
	mu      sync.RWMutex
	changes map[int64]*model.RegulatoryChange
	nextID  int64
}

func newRegulatoryChangeRepository() *regulatoryChangeRepository {
	return &regulatoryChangeRepository{
		changes: make(map[int64]*model.RegulatoryChange),
		nextID:  1,
	}
}

func (r *regulatoryChangeRepository) Create(ctx context.Context, change *model.RegulatoryChange) (*model.RegulatoryChange, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := *change
	created.ID = r.nextID
	created.Status = change.Status.Normalize()
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID++

	r.changes[created.ID] = &created
	out := created
	return &out, nil
}

func (r *regulatoryChangeRepository) Get(ctx context.Context, id int64) (*model.RegulatoryChange, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	change, exists := r.changes[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "regulatory change not found", goerr.V("id", id))
	}

	out := *change
	return &out, nil
}

func (r *regulatoryChangeRepository) List(ctx context.Context) ([]*model.RegulatoryChange, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	changes := make([]*model.RegulatoryChange, 0, len(r.changes))
	for _, change := range r.changes {
		out := *change
		changes = append(changes, &out)
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].ID < changes[j].ID })

	return changes, nil
}

func (r *regulatoryChangeRepository) ListByUpdate(ctx context.Context, updateID int64) ([]*model.RegulatoryChange, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	var changes []*model.RegulatoryChange
	for _, change := range all {
		if change.RegulatoryUpdateID == updateID {
			changes = append(changes, change)
		}
	}
	return changes, nil
}

func (r *regulatoryChangeRepository) Update(ctx context.Context, change *model.RegulatoryChange) (*model.RegulatoryChange, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.changes[change.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "regulatory change not found", goerr.V("id", change.ID))
	}

	updated := *change
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.changes[updated.ID] = &updated
	out := updated
	return &out, nil
}

func (r *regulatoryChangeRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.changes[id]; !exists {
		return goerr.Wrap(ErrNotFound, "regulatory change not found", goerr.V("id", id))
	}

	delete(r.changes, id)
	return nil
}

type regulatoryAssessmentRepository struct {
	mu          sync.RWMutex
	assessments map[int64]*model.RegulatoryAssessment
	nextID      int64
}

func newRegulatoryAssessmentRepository() *regulatoryAssessmentRepository {
	return &regulatoryAssessmentRepository{
		assessments: make(map[int64]*model.RegulatoryAssessment),
		nextID:      1,
	}
}

func (r *regulatoryAssessmentRepository) Create(ctx context.Context, assessment *model.RegulatoryAssessment) (*model.RegulatoryAssessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := *assessment
	created.ID = r.nextID
	created.Status = assessment.Status.Normalize()
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID++

	r.assessments[created.ID] = &created
	out := created
	return &out, nil
}

func (r *regulatoryAssessmentRepository) Get(ctx context.Context, id int64) (*model.RegulatoryAssessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	assessment, exists := r.assessments[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "impact assessment not found", goerr.V("id", id))
	}

	out := *assessment
	return &out, nil
}

func (r *regulatoryAssessmentRepository) List(ctx context.Context) ([]*model.RegulatoryAssessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	assessments := make([]*model.RegulatoryAssessment, 0, len(r.assessments))
	for _, assessment := range r.assessments {
		out := *assessment
		assessments = append(assessments, &out)
	}
	sort.Slice(assessments, func(i, j int) bool { return assessments[i].ID < assessments[j].ID })

	return assessments, nil
}

func (r *regulatoryAssessmentRepository) ListByChange(ctx context.Context, changeID int64) ([]*model.RegulatoryAssessment, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	var assessments []*model.RegulatoryAssessment
	for _, assessment := range all {
		if assessment.RegulatoryChangeID == changeID {
			assessments = append(assessments, assessment)
		}
	}
	return assessments, nil
}

func (r *regulatoryAssessmentRepository) ListPending(ctx context.Context) ([]*model.RegulatoryAssessment, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	var assessments []*model.RegulatoryAssessment
	for _, assessment := range all {
		if assessment.Status.IsOpen() {
			assessments = append(assessments, assessment)
		}
	}
	return assessments, nil
}

func (r *regulatoryAssessmentRepository) Update(ctx context.Context, assessment *model.RegulatoryAssessment) (*model.RegulatoryAssessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.assessments[assessment.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "impact assessment not found", goerr.V("id", assessment.ID))
	}

	updated := *assessment
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.assessments[updated.ID] = &updated
	out := updated
	return &out, nil
}

func (r *regulatoryAssessmentRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.assessments[id]; !exists {
		return goerr.Wrap(ErrNotFound, "impact assessment not found", goerr.V("id", id))
	}

	delete(r.assessments, id)
	return nil
}
