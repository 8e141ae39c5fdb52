package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/grc-lab/attest/pkg/domain/model"
)

type evidenceRepository struct {
	mu       sync.RWMutex
	evidence map[int64]*model.Evidence
	nextID   int64
}

func newEvidenceRepository() *evidenceRepository {
	return &evidenceRepository{
		evidence: make(map[int64]*model.Evidence),
		nextID:   1,
	}
}

func (r *evidenceRepository) Create(ctx context.Context, ev *model.Evidence) (*model.Evidence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := *ev
	created.ID = r.nextID
	created.CreatedAt = time.Now().UTC()
	r.nextID++

	r.evidence[created.ID] = &created
	out := created
	return &out, nil
}

func (r *evidenceRepository) Get(ctx context.Context, id int64) (*model.Evidence, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ev, exists := r.evidence[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "evidence not found", goerr.V("id", id))
	}

	out := *ev
	return &out, nil
}

func (r *evidenceRepository) List(ctx context.Context) ([]*model.Evidence, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	evs := make([]*model.Evidence, 0, len(r.evidence))
	for _, ev := range r.evidence {
		out := *ev
		evs = append(evs, &out)
	}
	sort.Slice(evs, func(i, j int) bool { return evs[i].ID < evs[j].ID })

	return evs, nil
}

func (r *evidenceRepository) ListByControl(ctx context.Context, controlID int64) ([]*model.Evidence, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	var evs []*model.Evidence
	for _, ev := range all {
		if ev.ControlID == controlID {
			evs = append(evs, ev)
		}
	}
	// Newest first for audit review
	sort.Slice(evs, func(i, j int) bool { return evs[i].CapturedAt.After(evs[j].CapturedAt) })
	return evs, nil
}

func (r *evidenceRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.evidence[id]; !exists {
		return goerr.Wrap(ErrNotFound, "evidence not found", goerr.V("id", id))
	}

	delete(r.evidence, id)
	return nil
}
