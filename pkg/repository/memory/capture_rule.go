package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/grc-lab/attest/pkg/domain/model"
	"github.com/grc-lab/attest/pkg/domain/types"
)

type captureRuleRepository struct {
	mu     sync.RWMutex
	rules  map[int64]*model.CaptureRule
	nextID int64
}

func newCaptureRuleRepository() *captureRuleRepository {
	return &captureRuleRepository{
		rules:  make(map[int64]*model.CaptureRule),
		nextID: 1,
	}
}

func copyRule(r *model.CaptureRule) *model.CaptureRule {
	out := *r
	out.Conditions = slices.Clone(r.Conditions)
	out.LinkedKinds = slices.Clone(r.LinkedKinds)
	return &out
}

func (r *captureRuleRepository) Create(ctx context.Context, rule *model.CaptureRule) (*model.CaptureRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := copyRule(rule)
	created.ID = r.nextID
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID++

	r.rules[created.ID] = created
	return copyRule(created), nil
}

func (r *captureRuleRepository) Get(ctx context.Context, id int64) (*model.CaptureRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rule, exists := r.rules[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "capture rule not found", goerr.V("id", id))
	}

	return copyRule(rule), nil
}

func (r *captureRuleRepository) List(ctx context.Context) ([]*model.CaptureRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rules := make([]*model.CaptureRule, 0, len(r.rules))
	for _, rule := range r.rules {
		rules = append(rules, copyRule(rule))
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })

	return rules, nil
}

func (r *captureRuleRepository) ListEnabled(ctx context.Context, kind types.DocKind, event types.DocEvent) ([]*model.CaptureRule, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	var rules []*model.CaptureRule
	for _, rule := range all {
		if rule.Enabled && rule.SourceKind == kind && rule.TriggerEvent == event {
			rules = append(rules, rule)
		}
	}
	return rules, nil
}

func (r *captureRuleRepository) Update(ctx context.Context, rule *model.CaptureRule) (*model.CaptureRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.rules[rule.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "capture rule not found", goerr.V("id", rule.ID))
	}

	updated := copyRule(rule)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.rules[updated.ID] = updated
	return copyRule(updated), nil
}

func (r *captureRuleRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rules[id]; !exists {
		return goerr.Wrap(ErrNotFound, "capture rule not found", goerr.V("id", id))
	}

	delete(r.rules, id)
	return nil
}
