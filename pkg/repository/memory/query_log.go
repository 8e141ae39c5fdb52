package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/grc-lab/attest/pkg/domain/model"
)

type queryLogRepository struct {
	mu     sync.RWMutex
	logs   map[int64]*model.QueryLog
	nextID int64
}

func newQueryLogRepository() *queryLogRepository {
	return &queryLogRepository{
		logs:   make(map[int64]*model.QueryLog),
		nextID: 1,
	}
}

func (r *queryLogRepository) Create(ctx context.Context, log *model.QueryLog) (*model.QueryLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := *log
	created.ID = r.nextID
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID++

	r.logs[created.ID] = &created
	out := created
	return &out, nil
}

func (r *queryLogRepository) List(ctx context.Context) ([]*model.QueryLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	logs := make([]*model.QueryLog, 0, len(r.logs))
	for _, log := range r.logs {
		out := *log
		logs = append(logs, &out)
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].ID < logs[j].ID })

	return logs, nil
}

func (r *queryLogRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.logs[id]; !exists {
		return goerr.Wrap(ErrNotFound, "query log not found", goerr.V("id", id))
	}

	delete(r.logs, id)
	return nil
}
