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

type regulatoryChangeDocument struct {
	ID                 int64     `firestore:"id"`
	RegulatoryUpdateID int64     `firestore:"regulatory_update_id"`
	Summary            string    `firestore:"summary"`
	OldText            string    `firestore:"old_text"`
	NewText            string    `firestore:"new_text"`
	Severity           string    `firestore:"severity"`
	TextSimilarity     float64   `firestore:"text_similarity"`
	ObligationChanged  bool      `firestore:"obligation_changed"`
	Status             string    `firestore:"status"`
	CreatedAt          time.Time `firestore:"created_at"`
	UpdatedAt          time.Time `firestore:"updated_at"`
}

func toRegulatoryChangeDocument(c *model.RegulatoryChange) *regulatoryChangeDocument {
	return &regulatoryChangeDocument{
		ID:                 c.ID,
		RegulatoryUpdateID: c.RegulatoryUpdateID,
		Summary:            c.Summary,
		OldText:            c.OldText,
		NewText:            c.NewText,
		Severity:           string(c.Severity),
		TextSimilarity:     c.TextSimilarity,
		ObligationChanged:  c.ObligationChanged,
		Status:             string(c.Status),
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}

func (d *regulatoryChangeDocument) toModel() *model.RegulatoryChange {
	return &model.RegulatoryChange{
		ID:                 d.ID,
		RegulatoryUpdateID: d.RegulatoryUpdateID,
		Summary:            d.Summary,
		OldText:            d.OldText,
		NewText:            d.NewText,
		Severity:           types.ChangeSeverity(d.Severity),
		TextSimilarity:     d.TextSimilarity,
		ObligationChanged:  d.ObligationChanged,
		Status:             types.ChangeStatus(d.Status),
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
}

type regulatoryChangeRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newRegulatoryChangeRepository(client *firestore.Client) *regulatoryChangeRepository {
	return &regulatoryChangeRepository{client: client}
}

func (r *regulatoryChangeRepository) collection() string {
	return prefixed(r.collectionPrefix, "regulatory_changes")
}

func (r *regulatoryChangeRepository) counters() string {
	return prefixed(r.collectionPrefix, "counters")
}

func (r *regulatoryChangeRepository) Create(ctx context.Context, change *model.RegulatoryChange) (*model.RegulatoryChange, error) {
	id, err := nextID(ctx, r.client, r.counters(), "regulatory_change_counter")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	stored := *change
	stored.ID = id
	stored.Status = change.Status.Normalize()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	docRef := r.client.Collection(r.collection()).Doc(docID(id))
	if _, err := docRef.Set(ctx, toRegulatoryChangeDocument(&stored)); err != nil {
		return nil, goerr.Wrap(err, "failed to create regulatory change")
	}

	return &stored, nil
}

func (r *regulatoryChangeRepository) Get(ctx context.Context, id int64) (*model.RegulatoryChange, error) {
	doc, err := r.client.Collection(r.collection()).Doc(docID(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "regulatory change not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get regulatory change", goerr.V("id", id))
	}

	var changeDoc regulatoryChangeDocument
	if err := doc.DataTo(&changeDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal regulatory change", goerr.V("id", id))
	}

	return changeDoc.toModel(), nil
}

func (r *regulatoryChangeRepository) List(ctx context.Context) ([]*model.RegulatoryChange, error) {
	return r.query(ctx, r.client.Collection(r.collection()).Query)
}

func (r *regulatoryChangeRepository) ListByUpdate(ctx context.Context, updateID int64) ([]*model.RegulatoryChange, error) {
	q := r.client.Collection(r.collection()).Where("regulatory_update_id", "==", updateID)
	return r.query(ctx, q)
}

func (r *regulatoryChangeRepository) query(ctx context.Context, q firestore.Query) ([]*model.RegulatoryChange, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var changes []*model.RegulatoryChange
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate regulatory changes")
		}

		var changeDoc regulatoryChangeDocument
		if err := doc.DataTo(&changeDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal regulatory change")
		}
		changes = append(changes, changeDoc.toModel())
	}

	return changes, nil
}

func (r *regulatoryChangeRepository) Update(ctx context.Context, change *model.RegulatoryChange) (*model.RegulatoryChange, error) {
	docRef := r.client.Collection(r.collection()).Doc(docID(change.ID))

	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "regulatory change not found", goerr.V("id", change.ID))
		}
		return nil, goerr.Wrap(err, "failed to get regulatory change", goerr.V("id", change.ID))
	}

	var existing regulatoryChangeDocument
	if err := doc.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal regulatory change", goerr.V("id", change.ID))
	}

	updated := *change
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, toRegulatoryChangeDocument(&updated)); err != nil {
		return nil, goerr.Wrap(err, "failed to update regulatory change", goerr.V("id", change.ID))
	}

	return &updated, nil
}

func (r *regulatoryChangeRepository) Delete(ctx context.Context, id int64) error {
	docRef := r.client.Collection(r.collection()).Doc(docID(id))

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "regulatory change not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get regulatory change", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete regulatory change", goerr.V("id", id))
	}

	return nil
}
