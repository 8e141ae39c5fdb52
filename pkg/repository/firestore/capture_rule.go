package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/grc-lab/attest/pkg/domain/model"
	"github.com/grc-lab/attest/pkg/domain/types"
)

type ruleConditionDocument struct {
	Field string `firestore:"field"`
	Value string `firestore:"value"`
}

type captureRuleDocument struct {
	ID           int64                   `firestore:"id"`
	Name         string                  `firestore:"name"`
	Enabled      bool                    `firestore:"enabled"`
	SourceKind   string                  `firestore:"source_kind"`
	TriggerEvent string                  `firestore:"trigger_event"`
	Conditions   []ruleConditionDocument `firestore:"conditions"`
	LinkedKinds  []string                `firestore:"linked_kinds"`
	CreatedAt    time.Time               `firestore:"created_at"`
	UpdatedAt    time.Time               `firestore:"updated_at"`
}

func toCaptureRuleDocument(r *model.CaptureRule) *captureRuleDocument {
	doc := &captureRuleDocument{
		ID:           r.ID,
		Name:         r.Name,
		Enabled:      r.Enabled,
		SourceKind:   string(r.SourceKind),
		TriggerEvent: string(r.TriggerEvent),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	for _, cond := range r.Conditions {
		doc.Conditions = append(doc.Conditions, ruleConditionDocument{
			Field: cond.Field,
			Value: cond.Value,
		})
	}
	for _, kind := range r.LinkedKinds {
		doc.LinkedKinds = append(doc.LinkedKinds, string(kind))
	}
	return doc
}

func (d *captureRuleDocument) toModel() *model.CaptureRule {
	rule := &model.CaptureRule{
		ID:           d.ID,
		Name:         d.Name,
		Enabled:      d.Enabled,
		SourceKind:   types.DocKind(d.SourceKind),
		TriggerEvent: types.DocEvent(d.TriggerEvent),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	for _, cond := range d.Conditions {
		rule.Conditions = append(rule.Conditions, model.RuleCondition{
			Field: cond.Field,
			Value: cond.Value,
		})
	}
	for _, kind := range d.LinkedKinds {
		rule.LinkedKinds = append(rule.LinkedKinds, types.DocKind(kind))
	}
	return rule
}

type captureRuleRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newCaptureRuleRepository(client *firestore.Client) *captureRuleRepository {
	return &captureRuleRepository{client: client}
}

func (r *captureRuleRepository) collection() string {
	return prefixed(r.collectionPrefix, "capture_rules")
}

func (r *captureRuleRepository) counters() string {
	return prefixed(r.collectionPrefix, "counters")
}

func (r *captureRuleRepository) Create(ctx context.Context, rule *model.CaptureRule) (*model.CaptureRule, error) {
	id, err := nextID(ctx, r.client, r.counters(), "capture_rule_counter")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	stored := *rule
	stored.ID = id
	stored.CreatedAt = now
	stored.UpdatedAt = now

	docRef := r.client.Collection(r.collection()).Doc(docID(id))
	if _, err := docRef.Set(ctx, toCaptureRuleDocument(&stored)); err != nil {
		return nil, goerr.Wrap(err, "failed to create capture rule")
	}

	return &stored, nil
}

func (r *captureRuleRepository) Get(ctx context.Context, id int64) (*model.CaptureRule, error) {
	doc, err := r.client.Collection(r.collection()).Doc(docID(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "capture rule not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get capture rule", goerr.V("id", id))
	}

	var ruleDoc captureRuleDocument
	if err := doc.DataTo(&ruleDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal capture rule", goerr.V("id", id))
	}

	return ruleDoc.toModel(), nil
}

func (r *captureRuleRepository) List(ctx context.Context) ([]*model.CaptureRule, error) {
	return r.query(ctx, r.client.Collection(r.collection()).Query)
}

func (r *captureRuleRepository) ListEnabled(ctx context.Context, kind types.DocKind, event types.DocEvent) ([]*model.CaptureRule, error) {
	q := r.client.Collection(r.collection()).
		Where("enabled", "==", true).
		Where("source_kind", "==", string(kind)).
		Where("trigger_event", "==", string(event))
	return r.query(ctx, q)
}

func (r *captureRuleRepository) query(ctx context.Context, q firestore.Query) ([]*model.CaptureRule, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var rules []*model.CaptureRule
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate capture rules")
		}

		var ruleDoc captureRuleDocument
		if err := doc.DataTo(&ruleDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal capture rule")
		}
		rules = append(rules, ruleDoc.toModel())
	}

	return rules, nil
}

func (r *captureRuleRepository) Update(ctx context.Context, rule *model.CaptureRule) (*model.CaptureRule, error) {
	docRef := r.client.Collection(r.collection()).Doc(docID(rule.ID))

	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "capture rule not found", goerr.V("id", rule.ID))
		}
		return nil, goerr.Wrap(err, "failed to get capture rule", goerr.V("id", rule.ID))
	}

	var existing captureRuleDocument
	if err := doc.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal capture rule", goerr.V("id", rule.ID))
	}

	updated := *rule
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, toCaptureRuleDocument(&updated)); err != nil {
		return nil, goerr.Wrap(err, "failed to update capture rule", goerr.V("id", rule.ID))
	}

	return &updated, nil
}

func (r *captureRuleRepository) Delete(ctx context.Context, id int64) error {
	docRef := r.client.Collection(r.collection()).Doc(docID(id))

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "capture rule not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get capture rule", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete capture rule", goerr.V("id", id))
	}

	return nil
}
