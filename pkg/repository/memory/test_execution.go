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

type testExecutionRepository struct {
	mu         sync.RWMutex
	executions map[int64]*model.TestExecution
	nextID     int64
}

func newTestExecutionRepository() *testExecutionRepository {
	return &testExecutionRepository{
		executions: make(map[int64]*model.TestExecution),
		nextID:     1,
	}
}

func (r *testExecutionRepository) Create(ctx context.Context, exec *model.TestExecution) (*model.TestExecution, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := *exec
	created.ID = r.nextID
	created.Status = exec.Status.Normalize()
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID++

	r.executions[created.ID] = &created
	out := created
	return &out, nil
}

func (r *testExecutionRepository) Get(ctx context.Context, id int64) (*model.TestExecution, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exec, exists := r.executions[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "test execution not found", goerr.V("id", id))
	}

	out := *exec
	return &out, nil
}

func (r *testExecutionRepository) List(ctx context.Context) ([]*model.TestExecution, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	execs := make([]*model.TestExecution, 0, len(r.executions))
	for _, exec := range r.executions {
		out := *exec
		execs = append(execs, &out)
	}
	sort.Slice(execs, func(i, j int) bool { return execs[i].ID < execs[j].ID })

	return execs, nil
}

func (r *testExecutionRepository) ListByControl(ctx context.Context, controlID int64) ([]*model.TestExecution, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	var execs []*model.TestExecution
	for _, exec := range all {
		if exec.ControlID == controlID {
			execs = append(execs, exec)
		}
	}
	return execs, nil
}

func (r *testExecutionRepository) CountSubmittedSince(ctx context.Context, since time.Time) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, exec := range r.executions {
		if exec.Status == types.ExecutionStatusSubmitted && !exec.UpdatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (r *testExecutionRepository) Update(ctx context.Context, exec *model.TestExecution) (*model.TestExecution, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.executions[exec.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "test execution not found", goerr.V("id", exec.ID))
	}

	updated := *exec
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.executions[updated.ID] = &updated
	out := updated
	return &out, nil
}

func (r *testExecutionRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.executions[id]; !exists {
		return goerr.Wrap(ErrNotFound, "test execution not found", goerr.V("id", id))
	}

	delete(r.executions, id)
	return nil
}
