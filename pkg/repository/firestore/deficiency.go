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

type deficiencyDocument struct {
	ID              int64     `firestore:"id"`
	ControlID       int64     `firestore:"control_id"`
	TestExecutionID int64     `firestore:"test_execution_id"`
	Severity        string    `firestore:"severity"`
	Description     string    `firestore:"description"`
	Status          string    `firestore:"status"`
	IdentifiedDate  time.Time `firestore:"identified_date"`
	IdentifiedBy    string    `firestore:"identified_by"`
	TargetDate      time.Time `firestore:"target_date"`
	ClosureDate     time.Time `firestore:"closure_date"`
	ClosureNotes    string    `firestore:"closure_notes"`
	CreatedAt       time.Time `firestore:"created_at"`
	UpdatedAt       time.Time `firestore:"updated_at"`
}

func toDeficiencyDocument(d *model.Deficiency) *deficiencyDocument {
	return &deficiencyDocument{
		ID:              d.ID,
		ControlID:       d.ControlID,
		TestExecutionID: d.TestExecutionID,
		Severity:        string(d.Severity),
		Description:     d.Description,
		Status:          string(d.Status),
		IdentifiedDate:  d.IdentifiedDate,
		IdentifiedBy:    d.IdentifiedBy,
		TargetDate:      d.TargetDate,
		ClosureDate:     d.ClosureDate,
		ClosureNotes:    d.ClosureNotes,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func (d *deficiencyDocument) toModel() *model.Deficiency {
	return &model.Deficiency{
		ID:              d.ID,
		ControlID:       d.ControlID,
		TestExecutionID: d.TestExecutionID,
		Severity:        types.DeficiencySeverity(d.Severity),
		Description:     d.Description,
		Status:          types.DeficiencyStatus(d.Status),
		IdentifiedDate:  d.IdentifiedDate,
		IdentifiedBy:    d.IdentifiedBy,
		TargetDate:      d.TargetDate,
		ClosureDate:     d.ClosureDate,
		ClosureNotes:    d.ClosureNotes,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

type deficiencyRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newDeficiencyRepository(client *firestore.Client) *deficiencyRepository {
	return &deficiencyRepository{client: client}
}

func (r *deficiencyRepository) collection() string {
	return prefixed(r.collectionPrefix, "deficiencies")
}

func (r *deficiencyRepository) counters() string {
	return prefixed(r.collectionPrefix, "counters")
}

func (r *deficiencyRepository) Create(ctx context.Context, def *model.Deficiency) (*model.Deficiency, error) {
	id, err := nextID(ctx, r.client, r.counters(), "deficiency_counter")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	stored := *def
	stored.ID = id
	if stored.Status == "" {
		stored.Status = types.DeficiencyStatusOpen
	}
	stored.CreatedAt = now
	stored.UpdatedAt = now

	docRef := r.client.Collection(r.collection()).Doc(docID(id))
	if _, err := docRef.Set(ctx, toDeficiencyDocument(&stored)); err != nil {
		return nil, goerr.Wrap(err, "failed to create deficiency")
	}

	return &stored, nil
}

func (r *deficiencyRepository) Get(ctx context.Context, id int64) (*model.Deficiency, error) {
	doc, err := r.client.Collection(r.collection()).Doc(docID(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "deficiency not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get deficiency", goerr.V("id", id))
	}

	var defDoc deficiencyDocument
	if err := doc.DataTo(&defDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal deficiency", goerr.V("id", id))
	}

	return defDoc.toModel(), nil
}

func (r *deficiencyRepository) List(ctx context.Context) ([]*model.Deficiency, error) {
	return r.query(ctx, r.client.Collection(r.collection()).Query)
}

func (r *deficiencyRepository) ListByControl(ctx context.Context, controlID int64) ([]*model.Deficiency, error) {
	q := r.client.Collection(r.collection()).Where("control_id", "==", controlID)
	return r.query(ctx, q)
}

func (r *deficiencyRepository) CountOpen(ctx context.Context) (int, error) {
	q := r.client.Collection(r.collection()).
		Where("status", "in", []string{
			string(types.DeficiencyStatusOpen),
			string(types.DeficiencyStatusInProgress),
		})

	defs, err := r.query(ctx, q)
	if err != nil {
		return 0, err
	}
	return len(defs), nil
}

func (r *deficiencyRepository) query(ctx context.Context, q firestore.Query) ([]*model.Deficiency, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var defs []*model.Deficiency
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate deficiencies")
		}

		var defDoc deficiencyDocument
		if err := doc.DataTo(&defDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal deficiency")
		}
		defs = append(defs, defDoc.toModel())
	}

	return defs, nil
}

func (r *deficiencyRepository) Update(ctx context.Context, def *model.Deficiency) (*model.Deficiency, error) {
	docRef := r.client.Collection(r.collection()).Doc(docID(def.ID))

	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "deficiency not found", goerr.V("id", def.ID))
		}
		return nil, goerr.Wrap(err, "failed to get deficiency", goerr.V("id", def.ID))
	}

	var existing deficiencyDocument
	if err := doc.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal deficiency", goerr.V("id", def.ID))
	}

	updated := *def
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, toDeficiencyDocument(&updated)); err != nil {
		return nil, goerr.Wrap(err, "failed to update deficiency", goerr.V("id", def.ID))
	}

	return &updated, nil
}

func (r *deficiencyRepository) Delete(ctx context.Context, id int64) error {
	docRef := r.client.Collection(r.collection()).Doc(docID(id))

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "deficiency not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get deficiency", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete deficiency", goerr.V("id", id))
	}

	return nil
}
