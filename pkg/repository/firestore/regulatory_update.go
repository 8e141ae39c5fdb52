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

type regulatoryUpdateDocument struct {
	ID            int64     `firestore:"id"`
	SourceName    string    `firestore:"source_name"`
	Title         string    `firestore:"title"`
	Reference     string    `firestore:"reference"`
	FullText      string    `firestore:"full_text"`
	EffectiveDate time.Time `firestore:"effective_date"`
	Keywords      []string  `firestore:"keywords"`
	Status        string    `firestore:"status"`
	CreatedAt     time.Time `firestore:"created_at"`
	UpdatedAt     time.Time `firestore:"updated_at"`
}

func toRegulatoryUpdateDocument(u *model.RegulatoryUpdate) *regulatoryUpdateDocument {
	return &regulatoryUpdateDocument{
		ID:            u.ID,
		SourceName:    u.SourceName,
		Title:         u.Title,
		Reference:     u.Reference,
		FullText:      u.FullText,
		EffectiveDate: u.EffectiveDate,
		Keywords:      u.Keywords,
		Status:        string(u.Status),
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func (d *regulatoryUpdateDocument) toModel() *model.RegulatoryUpdate {
	return &model.RegulatoryUpdate{
		ID:            d.ID,
		SourceName:    d.SourceName,
		Title:         d.Title,
		Reference:     d.Reference,
		FullText:      d.FullText,
		EffectiveDate: d.EffectiveDate,
		Keywords:      d.Keywords,
		Status:        types.RegulatoryUpdateStatus(d.Status),
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

type regulatoryUpdateRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newRegulatoryUpdateRepository(client *firestore.Client) *regulatoryUpdateRepository {
	return &regulatoryUpdateRepository{client: client}
}

func (r *regulatoryUpdateRepository) collection() string {
	return prefixed(r.collectionPrefix, "regulatory_updates")
}

func (r *regulatoryUpdateRepository) counters() string {
	return prefixed(r.collectionPrefix, "counters")
}

func (r *regulatoryUpdateRepository) Create(ctx context.Context, update *model.RegulatoryUpdate) (*model.RegulatoryUpdate, error) {
	id, err := nextID(ctx, r.client, r.counters(), "regulatory_update_counter")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	stored := *update
	stored.ID = id
	stored.Status = update.Status.Normalize()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	docRef := r.client.Collection(r.collection()).Doc(docID(id))
	if _, err := docRef.Set(ctx, toRegulatoryUpdateDocument(&stored)); err != nil {
		return nil, goerr.Wrap(err, "failed to create regulatory update")
	}

	return &stored, nil
}

func (r *regulatoryUpdateRepository) Get(ctx context.Context, id int64) (*model.RegulatoryUpdate, error) {
	doc, err := r.client.Collection(r.collection()).Doc(docID(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "regulatory update not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get regulatory update", goerr.V("id", id))
	}

	var updateDoc regulatoryUpdateDocument
	if err := doc.DataTo(&updateDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal regulatory update", goerr.V("id", id))
	}

	return updateDoc.toModel(), nil
}

func (r *regulatoryUpdateRepository) List(ctx context.Context) ([]*model.RegulatoryUpdate, error) {
	iter := r.client.Collection(r.collection()).Documents(ctx)
	defer iter.Stop()

	var updates []*model.RegulatoryUpdate
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate regulatory updates")
		}

		var updateDoc regulatoryUpdateDocument
		if err := doc.DataTo(&updateDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal regulatory update")
		}
		updates = append(updates, updateDoc.toModel())
	}

	return updates, nil
}

func (r *regulatoryUpdateRepository) Update(ctx context.Context, update *model.RegulatoryUpdate) (*model.RegulatoryUpdate, error) {
	docRef := r.client.Collection(r.collection()).Doc(docID(update.ID))

	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "regulatory update not found", goerr.V("id", update.ID))
		}
		return nil, goerr.Wrap(err, "failed to get regulatory update", goerr.V("id", update.ID))
	}

	var existing regulatoryUpdateDocument
	if err := doc.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal regulatory update", goerr.V("id", update.ID))
	}

	updated := *update
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, toRegulatoryUpdateDocument(&updated)); err != nil {
		return nil, goerr.Wrap(err, "failed to update regulatory update", goerr.V("id", update.ID))
	}

	return &updated, nil
}

func (r *regulatoryUpdateRepository) Delete(ctx context.Context, id int64) error {
	docRef := r.client.Collection(r.collection()).Doc(docID(id))

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "regulatory update not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get regulatory update", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete regulatory update", goerr.V("id", id))
	}

	return nil
}
