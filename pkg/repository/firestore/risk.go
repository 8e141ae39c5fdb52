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

type riskDocument struct {
	ID                 int64     `firestore:"id"`
	Title              string    `firestore:"title"`
	Description        string    `firestore:"description"`
	Category           string    `firestore:"category"`
	Status             string    `firestore:"status"`
	Owner              string    `firestore:"owner"`
	InherentLikelihood string    `firestore:"inherent_likelihood"`
	InherentImpact     string    `firestore:"inherent_impact"`
	ResidualLikelihood string    `firestore:"residual_likelihood"`
	ResidualImpact     string    `firestore:"residual_impact"`
	InherentScore      int       `firestore:"inherent_score"`
	ResidualScore      int       `firestore:"residual_score"`
	CreatedAt          time.Time `firestore:"created_at"`
	UpdatedAt          time.Time `firestore:"updated_at"`
}

func toRiskDocument(r *model.Risk) *riskDocument {
	return &riskDocument{
		ID:                 r.ID,
		Title:              r.Title,
		Description:        r.Description,
		Category:           r.Category,
		Status:             string(r.Status),
		Owner:              r.Owner,
		InherentLikelihood: string(r.InherentLikelihood),
		InherentImpact:     string(r.InherentImpact),
		ResidualLikelihood: string(r.ResidualLikelihood),
		ResidualImpact:     string(r.ResidualImpact),
		InherentScore:      r.InherentScore,
		ResidualScore:      r.ResidualScore,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

func (d *riskDocument) toModel() *model.Risk {
	return &model.Risk{
		ID:                 d.ID,
		Title:              d.Title,
		Description:        d.Description,
		Category:           d.Category,
		Status:             types.RiskStatus(d.Status),
		Owner:              d.Owner,
		InherentLikelihood: types.Rating(d.InherentLikelihood),
		InherentImpact:     types.Rating(d.InherentImpact),
		ResidualLikelihood: types.Rating(d.ResidualLikelihood),
		ResidualImpact:     types.Rating(d.ResidualImpact),
		InherentScore:      d.InherentScore,
		ResidualScore:      d.ResidualScore,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
}

type riskRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newRiskRepository(client *firestore.Client) *riskRepository {
	return &riskRepository{client: client}
}

func (r *riskRepository) collection() string {
	return prefixed(r.collectionPrefix, "risks")
}

func (r *riskRepository) counters() string {
	return prefixed(r.collectionPrefix, "counters")
}

func (r *riskRepository) Create(ctx context.Context, risk *model.Risk) (*model.Risk, error) {
	id, err := nextID(ctx, r.client, r.counters(), "risk_counter")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	stored := *risk
	stored.ID = id
	stored.Status = risk.Status.Normalize()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	docRef := r.client.Collection(r.collection()).Doc(docID(id))
	if _, err := docRef.Set(ctx, toRiskDocument(&stored)); err != nil {
		return nil, goerr.Wrap(err, "failed to create risk")
	}

	return &stored, nil
}

func (r *riskRepository) Get(ctx context.Context, id int64) (*model.Risk, error) {
	doc, err := r.client.Collection(r.collection()).Doc(docID(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "risk not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get risk", goerr.V("id", id))
	}

	var riskDoc riskDocument
	if err := doc.DataTo(&riskDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal risk", goerr.V("id", id))
	}

	return riskDoc.toModel(), nil
}

func (r *riskRepository) List(ctx context.Context) ([]*model.Risk, error) {
	return r.query(ctx, r.client.Collection(r.collection()).Query)
}

func (r *riskRepository) ListByStatus(ctx context.Context, st types.RiskStatus) ([]*model.Risk, error) {
	q := r.client.Collection(r.collection()).Where("status", "==", string(st))
	return r.query(ctx, q)
}

func (r *riskRepository) query(ctx context.Context, q firestore.Query) ([]*model.Risk, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var risks []*model.Risk
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate risks")
		}

		var riskDoc riskDocument
		if err := doc.DataTo(&riskDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal risk")
		}
		risks = append(risks, riskDoc.toModel())
	}

	return risks, nil
}

func (r *riskRepository) Update(ctx context.Context, risk *model.Risk) (*model.Risk, error) {
	docRef := r.client.Collection(r.collection()).Doc(docID(risk.ID))

	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "risk not found", goerr.V("id", risk.ID))
		}
		return nil, goerr.Wrap(err, "failed to get risk", goerr.V("id", risk.ID))
	}

	var existing riskDocument
	if err := doc.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal risk", goerr.V("id", risk.ID))
	}

	updated := *risk
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, toRiskDocument(&updated)); err != nil {
		return nil, goerr.Wrap(err, "failed to update risk", goerr.V("id", risk.ID))
	}

	return &updated, nil
}

func (r *riskRepository) Delete(ctx context.Context, id int64) error {
	docRef := r.client.Collection(r.collection()).Doc(docID(id))

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "risk not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get risk", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete risk", goerr.V("id", id))
	}

	return nil
}
