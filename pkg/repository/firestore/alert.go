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

type alertDocument struct {
	ID          int64          `firestore:"id"`
	Type        string         `firestore:"type"`
	Severity    string         `firestore:"severity"`
	Status      string         `firestore:"status"`
	Title       string         `firestore:"title"`
	Description string         `firestore:"description"`
	RelatedKind string         `firestore:"related_kind"`
	RelatedID   int64          `firestore:"related_id"`
	Details     map[string]any `firestore:"details"`
	CreatedAt   time.Time      `firestore:"created_at"`
	UpdatedAt   time.Time      `firestore:"updated_at"`
}

func toAlertDocument(a *model.Alert) *alertDocument {
	return &alertDocument{
		ID:          a.ID,
		Type:        string(a.Type),
		Severity:    string(a.Severity),
		Status:      string(a.Status),
		Title:       a.Title,
		Description: a.Description,
		RelatedKind: string(a.RelatedKind),
		RelatedID:   a.RelatedID,
		Details:     a.Details,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func (d *alertDocument) toModel() *model.Alert {
	return &model.Alert{
		ID:          d.ID,
		Type:        types.AlertType(d.Type),
		Severity:    types.AlertSeverity(d.Severity),
		Status:      types.AlertStatus(d.Status),
		Title:       d.Title,
		Description: d.Description,
		RelatedKind: types.DocKind(d.RelatedKind),
		RelatedID:   d.RelatedID,
		Details:     d.Details,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type alertRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newAlertRepository(client *firestore.Client) *alertRepository {
	return &alertRepository{client: client}
}

func (r *alertRepository) collection() string {
	return prefixed(r.collectionPrefix, "alerts")
}

func (r *alertRepository) counters() string {
	return prefixed(r.collectionPrefix, "counters")
}

func (r *alertRepository) Create(ctx context.Context, alert *model.Alert) (*model.Alert, error) {
	id, err := nextID(ctx, r.client, r.counters(), "alert_counter")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	stored := *alert
	stored.ID = id
	if stored.Status == "" {
		stored.Status = types.AlertStatusNew
	}
	stored.CreatedAt = now
	stored.UpdatedAt = now

	docRef := r.client.Collection(r.collection()).Doc(docID(id))
	if _, err := docRef.Set(ctx, toAlertDocument(&stored)); err != nil {
		return nil, goerr.Wrap(err, "failed to create alert")
	}

	return &stored, nil
}

func (r *alertRepository) Get(ctx context.Context, id int64) (*model.Alert, error) {
	doc, err := r.client.Collection(r.collection()).Doc(docID(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "alert not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get alert", goerr.V("id", id))
	}

	var alertDoc alertDocument
	if err := doc.DataTo(&alertDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal alert", goerr.V("id", id))
	}

	return alertDoc.toModel(), nil
}

func (r *alertRepository) List(ctx context.Context) ([]*model.Alert, error) {
	return r.query(ctx, r.client.Collection(r.collection()).Query)
}

func (r *alertRepository) FindOpenByRelated(ctx context.Context, alertType types.AlertType, kind types.DocKind, relatedID int64) ([]*model.Alert, error) {
	q := r.client.Collection(r.collection()).
		Where("type", "==", string(alertType)).
		Where("related_kind", "==", string(kind)).
		Where("related_id", "==", relatedID)

	alerts, err := r.query(ctx, q)
	if err != nil {
		return nil, err
	}

	var open []*model.Alert
	for _, a := range alerts {
		if a.Status.IsOpen() {
			open = append(open, a)
		}
	}
	return open, nil
}

func (r *alertRepository) query(ctx context.Context, q firestore.Query) ([]*model.Alert, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var alerts []*model.Alert
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate alerts")
		}

		var alertDoc alertDocument
		if err := doc.DataTo(&alertDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal alert")
		}
		alerts = append(alerts, alertDoc.toModel())
	}

	return alerts, nil
}

func (r *alertRepository) Update(ctx context.Context, alert *model.Alert) (*model.Alert, error) {
	docRef := r.client.Collection(r.collection()).Doc(docID(alert.ID))

	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "alert not found", goerr.V("id", alert.ID))
		}
		return nil, goerr.Wrap(err, "failed to get alert", goerr.V("id", alert.ID))
	}

	var existing alertDocument
	if err := doc.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal alert", goerr.V("id", alert.ID))
	}

	updated := *alert
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, toAlertDocument(&updated)); err != nil {
		return nil, goerr.Wrap(err, "failed to update alert", goerr.V("id", alert.ID))
	}

	return &updated, nil
}

func (r *alertRepository) Delete(ctx context.Context, id int64) error {
	docRef := r.client.Collection(r.collection()).Doc(docID(id))

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "alert not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get alert", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete alert", goerr.V("id", id))
	}

	return nil
}
