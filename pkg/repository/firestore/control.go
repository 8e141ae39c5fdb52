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

type controlDocument struct {
	ID             int64     `firestore:"id"`
	Name           string    `firestore:"name"`
	Description    string    `firestore:"description"`
	Category       string    `firestore:"category"`
	Status         string    `firestore:"status"`
	Owner          string    `firestore:"owner"`
	IsKeyControl   bool      `firestore:"is_key_control"`
	TestFrequency  string    `firestore:"test_frequency"`
	CosoComponent  string    `firestore:"coso_component"`
	CosoPrinciple  string    `firestore:"coso_principle"`
	LastTestDate   time.Time `firestore:"last_test_date"`
	LastTestResult string    `firestore:"last_test_result"`
	NextTestDate   time.Time `firestore:"next_test_date"`
	CreatedAt      time.Time `firestore:"created_at"`
	UpdatedAt      time.Time `firestore:"updated_at"`
}

func toControlDocument(c *model.Control) *controlDocument {
	return &controlDocument{
		ID:             c.ID,
		Name:           c.Name,
		Description:    c.Description,
		Category:       c.Category,
		Status:         string(c.Status),
		Owner:          c.Owner,
		IsKeyControl:   c.IsKeyControl,
		TestFrequency:  string(c.TestFrequency),
		CosoComponent:  c.CosoComponent,
		CosoPrinciple:  c.CosoPrinciple,
		LastTestDate:   c.LastTestDate,
		LastTestResult: string(c.LastTestResult),
		NextTestDate:   c.NextTestDate,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func (d *controlDocument) toModel() *model.Control {
	return &model.Control{
		ID:             d.ID,
		Name:           d.Name,
		Description:    d.Description,
		Category:       d.Category,
		Status:         types.ControlStatus(d.Status),
		Owner:          d.Owner,
		IsKeyControl:   d.IsKeyControl,
		TestFrequency:  types.TestFrequency(d.TestFrequency),
		CosoComponent:  d.CosoComponent,
		CosoPrinciple:  d.CosoPrinciple,
		LastTestDate:   d.LastTestDate,
		LastTestResult: types.TestResult(d.LastTestResult),
		NextTestDate:   d.NextTestDate,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

type controlRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newControlRepository(client *firestore.Client) *controlRepository {
	return &controlRepository{client: client}
}

func (r *controlRepository) collection() string {
	return prefixed(r.collectionPrefix, "controls")
}

func (r *controlRepository) counters() string {
	return prefixed(r.collectionPrefix, "counters")
}

func (r *controlRepository) Create(ctx context.Context, control *model.Control) (*model.Control, error) {
	id, err := nextID(ctx, r.client, r.counters(), "control_counter")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	stored := *control
	stored.ID = id
	stored.Status = control.Status.Normalize()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	docRef := r.client.Collection(r.collection()).Doc(docID(id))
	if _, err := docRef.Set(ctx, toControlDocument(&stored)); err != nil {
		return nil, goerr.Wrap(err, "failed to create control")
	}

	return &stored, nil
}

func (r *controlRepository) Get(ctx context.Context, id int64) (*model.Control, error) {
	doc, err := r.client.Collection(r.collection()).Doc(docID(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "control not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get control", goerr.V("id", id))
	}

	var controlDoc controlDocument
	if err := doc.DataTo(&controlDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal control", goerr.V("id", id))
	}

	return controlDoc.toModel(), nil
}

func (r *controlRepository) List(ctx context.Context) ([]*model.Control, error) {
	return r.query(ctx, r.client.Collection(r.collection()).Query)
}

func (r *controlRepository) ListByStatus(ctx context.Context, st types.ControlStatus) ([]*model.Control, error) {
	q := r.client.Collection(r.collection()).Where("status", "==", string(st))
	return r.query(ctx, q)
}

func (r *controlRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]*model.Control, error) {
	q := r.client.Collection(r.collection()).
		Where("status", "==", string(types.ControlStatusActive)).
		Where("next_test_date", "<", asOf)

	controls, err := r.query(ctx, q)
	if err != nil {
		return nil, err
	}

	// The zero time also satisfies the range clause; unscheduled
	// controls are not overdue.
	var out []*model.Control
	for _, c := range controls {
		if !c.NextTestDate.IsZero() {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *controlRepository) query(ctx context.Context, q firestore.Query) ([]*model.Control, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var controls []*model.Control
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate controls")
		}

		var controlDoc controlDocument
		if err := doc.DataTo(&controlDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal control")
		}
		controls = append(controls, controlDoc.toModel())
	}

	return controls, nil
}

func (r *controlRepository) Update(ctx context.Context, control *model.Control) (*model.Control, error) {
	docRef := r.client.Collection(r.collection()).Doc(docID(control.ID))

	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "control not found", goerr.V("id", control.ID))
		}
		return nil, goerr.Wrap(err, "failed to get control", goerr.V("id", control.ID))
	}

	var existing controlDocument
	if err := doc.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal control", goerr.V("id", control.ID))
	}

	updated := *control
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, toControlDocument(&updated)); err != nil {
		return nil, goerr.Wrap(err, "failed to update control", goerr.V("id", control.ID))
	}

	return &updated, nil
}

func (r *controlRepository) Delete(ctx context.Context, id int64) error {
	docRef := r.client.Collection(r.collection()).Doc(docID(id))

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "control not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get control", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete control", goerr.V("id", id))
	}

	return nil
}
