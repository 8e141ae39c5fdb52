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

type regulatoryAssessmentDocument struct {
	ID                 int64     `firestore:"id"`
	RegulatoryChangeID int64     `firestore:"regulatory_change_id"`
	RegulatoryUpdateID int64     `firestore:"regulatory_update_id"`
	ControlID          int64     `firestore:"control_id"`
	ConfidenceScore    float64   `firestore:"confidence_score"`
	MatchedKeywords    string    `firestore:"matched_keywords"`
	ImpactType         string    `firestore:"impact_type"`
	Priority           string    `firestore:"priority"`
	GapIdentified      bool      `firestore:"gap_identified"`
	Status             string    `firestore:"status"`
	ActionTaken        string    `firestore:"action_taken"`
	CompletionNotes    string    `firestore:"completion_notes"`
	CompletedDate      time.Time `firestore:"completed_date"`
	CreatedAt          time.Time `firestore:"created_at"`
	UpdatedAt          time.Time `firestore:"updated_at"`
}

func toRegulatoryAssessmentDocument(a *model.RegulatoryAssessment) *regulatoryAssessmentDocument {
	return &regulatoryAssessmentDocument{
		ID:                 a.ID,
		RegulatoryChangeID: a.RegulatoryChangeID,
		RegulatoryUpdateID: a.RegulatoryUpdateID,
		ControlID:          a.ControlID,
		ConfidenceScore:    a.ConfidenceScore,
		MatchedKeywords:    a.MatchedKeywords,
		ImpactType:         string(a.ImpactType),
		Priority:           string(a.Priority),
		GapIdentified:      a.GapIdentified,
		Status:             string(a.Status),
		ActionTaken:        a.ActionTaken,
		CompletionNotes:    a.CompletionNotes,
		CompletedDate:      a.CompletedDate,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

func (d *regulatoryAssessmentDocument) toModel() *model.RegulatoryAssessment {
	return &model.RegulatoryAssessment{
		ID:                 d.ID,
		RegulatoryChangeID: d.RegulatoryChangeID,
		RegulatoryUpdateID: d.RegulatoryUpdateID,
		ControlID:          d.ControlID,
		ConfidenceScore:    d.ConfidenceScore,
		MatchedKeywords:    d.MatchedKeywords,
		ImpactType:         types.ImpactType(d.ImpactType),
		Priority:           types.AssessmentPriority(d.Priority),
		GapIdentified:      d.GapIdentified,
		Status:             types.AssessmentStatus(d.Status),
		ActionTaken:        d.ActionTaken,
		CompletionNotes:    d.CompletionNotes,
		CompletedDate:      d.CompletedDate,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
}

type regulatoryAssessmentRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newRegulatoryAssessmentRepository(client *firestore.Client) *regulatoryAssessmentRepository {
	return &regulatoryAssessmentRepository{client: client}
}

func (r *regulatoryAssessmentRepository) collection() string {
	return prefixed(r.collectionPrefix, "regulatory_assessments")
}

func (r *regulatoryAssessmentRepository) counters() string {
	return prefixed(r.collectionPrefix, "counters")
}

func (r *regulatoryAssessmentRepository) Create(ctx context.Context, assessment *model.RegulatoryAssessment) (*model.RegulatoryAssessment, error) {
	id, err := nextID(ctx, r.client, r.counters(), "regulatory_assessment_counter")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	stored := *assessment
	stored.ID = id
	stored.Status = assessment.Status.Normalize()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	docRef := r.client.Collection(r.collection()).Doc(docID(id))
	if _, err := docRef.Set(ctx, toRegulatoryAssessmentDocument(&stored)); err != nil {
		return nil, goerr.Wrap(err, "failed to create impact assessment")
	}

	return &stored, nil
}

func (r *regulatoryAssessmentRepository) Get(ctx context.Context, id int64) (*model.RegulatoryAssessment, error) {
	doc, err := r.client.Collection(r.collection()).Doc(docID(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "impact assessment not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get impact assessment", goerr.V("id", id))
	}

	var assessmentDoc regulatoryAssessmentDocument
	if err := doc.DataTo(&assessmentDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal impact assessment", goerr.V("id", id))
	}

	return assessmentDoc.toModel(), nil
}

func (r *regulatoryAssessmentRepository) List(ctx context.Context) ([]*model.RegulatoryAssessment, error) {
	return r.query(ctx, r.client.Collection(r.collection()).Query)
}

func (r *regulatoryAssessmentRepository) ListByChange(ctx context.Context, changeID int64) ([]*model.RegulatoryAssessment, error) {
	q := r.client.Collection(r.collection()).Where("regulatory_change_id", "==", changeID)
	return r.query(ctx, q)
}

func (r *regulatoryAssessmentRepository) ListPending(ctx context.Context) ([]*model.RegulatoryAssessment, error) {
	q := r.client.Collection(r.collection()).
		Where("status", "in", []string{
			string(types.AssessmentStatusPending),
			string(types.AssessmentStatusInProgress),
		})
	return r.query(ctx, q)
}

func (r *regulatoryAssessmentRepository) query(ctx context.Context, q firestore.Query) ([]*model.RegulatoryAssessment, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var assessments []*model.RegulatoryAssessment
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate impact assessments")
		}

		var assessmentDoc regulatoryAssessmentDocument
		if err := doc.DataTo(&assessmentDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal impact assessment")
		}
		assessments = append(assessments, assessmentDoc.toModel())
	}

	return assessments, nil
}

func (r *regulatoryAssessmentRepository) Update(ctx context.Context, assessment *model.RegulatoryAssessment) (*model.RegulatoryAssessment, error) {
	docRef := r.client.Collection(r.collection()).Doc(docID(assessment.ID))

	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "impact assessment not found", goerr.V("id", assessment.ID))
		}
		return nil, goerr.Wrap(err, "failed to get impact assessment", goerr.V("id", assessment.ID))
	}

	var existing regulatoryAssessmentDocument
	if err := doc.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal impact assessment", goerr.V("id", assessment.ID))
	}

	updated := *assessment
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, toRegulatoryAssessmentDocument(&updated)); err != nil {
		return nil, goerr.Wrap(err, "failed to update impact assessment", goerr.V("id", assessment.ID))
	}

	return &updated, nil
}

func (r *regulatoryAssessmentRepository) Delete(ctx context.Context, id int64) error {
	docRef := r.client.Collection(r.collection()).Doc(docID(id))

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "impact assessment not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get impact assessment", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete impact assessment", goerr.V("id", id))
	}

	return nil
}
