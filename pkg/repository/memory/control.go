package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/grc-lab/attest/pkg/domain/model"
	"github.com/grc-lab/attest/pkg/domain/types"
)

type controlRepository struct {
	mu       sync.RWMutex
	controls map[int64]*model.Control
	nextID   int64
}

func newControlRepository() *controlRepository {
	return &controlRepository{
		controls: make(map[int64]*model.Control),
		nextID:   1,
	}
}

func (r *controlRepository) Create(ctx context.Context, control *model.Control) (*model.Control, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := *control
	created.ID = r.nextID
	created.Status = control.Status.Normalize()
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID++

	r.controls[created.ID] = &created
	out := created
	return &out, nil
}

func (r *controlRepository) Get(ctx context.Context, id int64) (*model.Control, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	control, exists := r.controls[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "control not found", goerr.V("id", id))
	}

	out := *control
	return &out, nil
}

func (r *controlRepository) List(ctx context.Context) ([]*model.Control, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	controls := make([]*model.Control, 0, len(r.controls))
	for _, control := range r.controls {
		out := *control
		controls = append(controls, &out)
	}
	sort.Slice(controls, func(i, j int) bool { return controls[i].ID < controls[j].ID })

	return controls, nil
}

func (r *controlRepository) ListByStatus(ctx context.Context, status types.ControlStatus) ([]*model.Control, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	var controls []*model.Control
	for _, control := range all {
		if control.Status == status {
			controls = append(controls, control)
		}
	}
	return controls, nil
}

func (r *controlRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]*model.Control, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	var controls []*model.Control
	for _, control := range all {
		if control.IsOverdue(asOf) {
			controls = append(controls, control)
		}
	}
	return controls, nil
}

func (r *controlRepository) Update(ctx context.Context, control *model.Control) (*model.Control, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.controls[control.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "control not found", goerr.V("id", control.ID))
	}

	updated := *control
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.controls[updated.ID] = &updated
	out := updated
	return &out, nil
}

func (r *controlRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.controls[id]; !exists {
		return goerr.Wrap(ErrNotFound, "control not found", goerr.V("id", id))
	}

	delete(r.controls, id)
	return nil
}
