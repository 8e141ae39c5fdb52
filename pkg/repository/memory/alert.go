package memory

import (
	"context"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/grc-lab/attest/pkg/domain/model"
	"github.com/grc-lab/attest/pkg/domain/types"
)

type alertRepository struct {
	mu     sync.RWMutex
	alerts map[int64]*model.Alert
	nextID int64
}

func newAlertRepository() *alertRepository {
	return &alertRepository{
		alerts: make(map[int64]*model.Alert),
		nextID: 1,
	}
}

func copyAlert(a *model.Alert) *model.Alert {
	out := *a
	if a.Details != nil {
		out.Details = maps.Clone(a.Details)
	}
	return &out
}

func (r *alertRepository) Create(ctx context.Context, alert *model.Alert) (*model.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := copyAlert(alert)
	created.ID = r.nextID
	if created.Status == "" {
		created.Status = types.AlertStatusNew
	}
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID++

	r.alerts[created.ID] = created
	return copyAlert(created), nil
}

func (r *alertRepository) Get(ctx context.Context, id int64) (*model.Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	alert, exists := r.alerts[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "alert not found", goerr.V("id", id))
	}

	return copyAlert(alert), nil
}

func (r *alertRepository) List(ctx context.Context) ([]*model.Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	alerts := make([]*model.Alert, 0, len(r.alerts))
	for _, alert := range r.alerts {
		alerts = append(alerts, copyAlert(alert))
	}
	sort.Slice(alerts, func(i, j int) bool { return alerts[i].ID < alerts[j].ID })

	return alerts, nil
}

func (r *alertRepository) FindOpenByRelated(ctx context.Context, alertType types.AlertType, kind types.DocKind, relatedID int64) ([]*model.Alert, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	var alerts []*model.Alert
	for _, alert := range all {
		if alert.Type == alertType && alert.RelatedKind == kind &&
			alert.RelatedID == relatedID && alert.Status.IsOpen() {
			alerts = append(alerts, alert)
		}
	}
	return alerts, nil
}

func (r *alertRepository) Update(ctx context.Context, alert *model.Alert) (*model.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.alerts[alert.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "alert not found", goerr.V("id", alert.ID))
	}

	updated := copyAlert(alert)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.alerts[updated.ID] = updated
	return copyAlert(updated), nil
}

func (r *alertRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.alerts[id]; !exists {
		return goerr.Wrap(ErrNotFound, "alert not found", goerr.V("id", id))
	}

	delete(r.alerts, id)
	return nil
}
