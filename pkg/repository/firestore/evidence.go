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

type evidenceDocument struct {
	ID         int64     `firestore:"id"`
	CaptureID  string    `firestore:"capture_id"`
	RuleID     int64     `firestore:"rule_id"`
	ControlID  int64     `firestore:"control_id"`
	SourceKind string    `firestore:"source_kind"`
	SourceID   int64     `firestore:"source_id"`
	CapturedAt time.Time `firestore:"captured_at"`
	Snapshot   string    `firestore:"snapshot"`
	Summary    string    `firestore:"summary"`
	Hash       string    `firestore:"hash"`
	CreatedAt  time.Time `firestore:"created_at"`
}

func toEvidenceDocument(e *model.Evidence) *evidenceDocument {
	return &evidenceDocument{
		ID:         e.ID,
		CaptureID:  e.CaptureID,
		RuleID:     e.RuleID,
		ControlID:  e.ControlID,
		SourceKind: string(e.SourceKind),
		SourceID:   e.SourceID,
		CapturedAt: e.CapturedAt,
		Snapshot:   e.Snapshot,
		Summary:    e.Summary,
		Hash:       e.Hash,
		CreatedAt:  e.CreatedAt,
	}
}

func (d *evidenceDocument) toModel() *model.Evidence {
	return &model.Evidence{
		ID:         d.ID,
		CaptureID:  d.CaptureID,
		RuleID:     d.RuleID,
		ControlID:  d.ControlID,
		SourceKind: types.DocKind(d.SourceKind),
		SourceID:   d.SourceID,
		CapturedAt: d.CapturedAt,
		Snapshot:   d.Snapshot,
		Summary:    d.Summary,
		Hash:       d.Hash,
		CreatedAt:  d.CreatedAt,
	}
}

type evidenceRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newEvidenceRepository(client *firestore.Client) *evidenceRepository {
	return &evidenceRepository{client: client}
}

func (r *evidenceRepository) collection() string {
	return prefixed(r.collectionPrefix, "evidence")
}

func (r *evidenceRepository) counters() string {
	return prefixed(r.collectionPrefix, "counters")
}

func (r *evidenceRepository) Create(ctx context.Context, ev *model.Evidence) (*model.Evidence, error) {
	id, err := nextID(ctx, r.client, r.counters(), "evidence_counter")
	if err != nil {
		return nil, err
	}

	stored := *ev
	stored.ID = id
	stored.CreatedAt = time.Now().UTC()

	docRef := r.client.Collection(r.collection()).Doc(docID(id))
	if _, err := docRef.Set(ctx, toEvidenceDocument(&stored)); err != nil {
		return nil, goerr.Wrap(err, "failed to create evidence")
	}

	return &stored, nil
}

func (r *evidenceRepository) Get(ctx context.Context, id int64) (*model.Evidence, error) {
	doc, err := r.client.Collection(r.collection()).Doc(docID(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "evidence not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get evidence", goerr.V("id", id))
	}

	var evDoc evidenceDocument
	if err := doc.DataTo(&evDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal evidence", goerr.V("id", id))
	}

	return evDoc.toModel(), nil
}

func (r *evidenceRepository) List(ctx context.Context) ([]*model.Evidence, error) {
	return r.query(ctx, r.client.Collection(r.collection()).Query)
}

func (r *evidenceRepository) ListByControl(ctx context.Context, controlID int64) ([]*model.Evidence, error) {
	q := r.client.Collection(r.collection()).
		Where("control_id", "==", controlID).
		OrderBy("captured_at", firestore.Desc)
	return r.query(ctx, q)
}

func (r *evidenceRepository) query(ctx context.Context, q firestore.Query) ([]*model.Evidence, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var evs []*model.Evidence
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate evidence")
		}

		var evDoc evidenceDocument
		if err := doc.DataTo(&evDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal evidence")
		}
		evs = append(evs, evDoc.toModel())
	}

	return evs, nil
}

func (r *evidenceRepository) Delete(ctx context.Context, id int64) error {
	docRef := r.client.Collection(r.collection()).Doc(docID(id))

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "evidence not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get evidence", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete evidence", goerr.V("id", id))
	}

	return nil
}
