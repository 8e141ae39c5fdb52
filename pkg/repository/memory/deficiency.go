package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/grc-lab/attest/pkg/domain/model"
)

type deficiencyRepository struct {
	mu           sync.RWMutex
	deficiencies map[int64]*model.Deficiency
	nextID       int64
}

func newDeficiencyRepository() *deficiencyRepository {
	return &deficiencyRepository{
		deficiencies: make(map[int64]*model.Deficiency),
		nextID:       1,
	}
}

func (r *deficiencyRepository) Create(ctx context.Context, def *model.Deficiency) (*model.Deficiency, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := *def
	created.ID = r.nextID
	created.Status = def.Status.Normalize()
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID++

	r.deficiencies[created.ID] = &created
	out := created
	return &out, nil
}

func (r *deficiencyRepository) Get(ctx context.Context, id int64) (*model.Deficiency, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, exists := r.deficiencies[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "deficiency not found", goerr.V("id", id))
	}

	out := *def
	return &out, nil
}

func (r *deficiencyRepository) List(ctx context.Context) ([]*model.Deficiency, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]*model.Deficiency, 0, len(r.deficiencies))
	for _, def := range r.deficiencies {
		out := *def
		defs = append(defs, &out)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].ID < defs[j].ID })

	return defs, nil
}

func (r *deficiencyRepository) ListByControl(ctx context.Context, controlID int64) ([]*model.Deficiency, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	var defs []*model.Deficiency
	for _, def := range all {
		if def.ControlID == controlID {
			defs = append(defs, def)
		}
	}
	return defs, nil
}

func (r *deficiencyRepository) CountOpen(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, def := range r.deficiencies {
		if def.Status.IsOpen() {
			count++
		}
	}
	return count, nil
}

func (r *deficiencyRepository) Update(ctx context.Context, def *model.Deficiency) (*model.Deficiency, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.deficiencies[def.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "deficiency not found", goerr.V("id", def.ID))
	}

	updated := *def
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.deficiencies[updated.ID] = &updated
	out := updated
	return &out, nil
}

func (r *deficiencyRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.deficiencies[id]; !exists {
		return goerr.Wrap(ErrNotFound, "deficiency not found", goerr.V("id", id))
	}

	delete(r.deficiencies, id)
	return nil
}
