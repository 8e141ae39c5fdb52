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

type testExecutionDocument struct {
	ID         int64     `firestore:"id"`
	ControlID  int64     `firestore:"control_id"`
	TestDate   time.Time `firestore:"test_date"`
	Tester     string    `firestore:"tester"`
	TestResult string    `firestore:"test_result"`
	Procedure  string    `firestore:"procedure"`
	Conclusion string    `firestore:"conclusion"`
	SampleSize int       `firestore:"sample_size"`
	Status     string    `firestore:"status"`
	CreatedAt  time.Time `firestore:"created_at"`
	UpdatedAt  time.Time `firestore:"updated_at"`
}

func toTestExecutionDocument(e *model.TestExecution) *testExecutionDocument {
	return &testExecutionDocument{
		ID:         e.ID,
		ControlID:  e.ControlID,
		TestDate:   e.TestDate,
		Tester:     e.Tester,
		TestResult: string(e.TestResult),
		Procedure:  e.Procedure,
		Conclusion: e.Conclusion,
		SampleSize: e.SampleSize,
		Status:     string(e.Status),
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

func (d *testExecutionDocument) toModel() *model.TestExecution {
	return &model.TestExecution{
		ID:         d.ID,
		ControlID:  d.ControlID,
		TestDate:   d.TestDate,
		Tester:     d.Tester,
		TestResult: types.TestResult(d.TestResult),
		Procedure:  d.Procedure,
		Conclusion: d.Conclusion,
		SampleSize: d.SampleSize,
		Status:     types.ExecutionStatus(d.Status),
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

type testExecutionRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newTestExecutionRepository(client *firestore.Client) *testExecutionRepository {
	return &testExecutionRepository{client: client}
}

func (r *testExecutionRepository) collection() string {
	return prefixed(r.collectionPrefix, "test_executions")
}

func (r *testExecutionRepository) counters() string {
	return prefixed(r.collectionPrefix, "counters")
}

func (r *testExecutionRepository) Create(ctx context.Context, exec *model.TestExecution) (*model.TestExecution, error) {
	id, err := nextID(ctx, r.client, r.counters(), "test_execution_counter")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	stored := *exec
	stored.ID = id
	if stored.Status == "" {
		stored.Status = types.ExecutionStatusDraft
	}
	stored.CreatedAt = now
	stored.UpdatedAt = now

	docRef := r.client.Collection(r.collection()).Doc(docID(id))
	if _, err := docRef.Set(ctx, toTestExecutionDocument(&stored)); err != nil {
		return nil, goerr.Wrap(err, "failed to create test execution")
	}

	return &stored, nil
}

func (r *testExecutionRepository) Get(ctx context.Context, id int64) (*model.TestExecution, error) {
	doc, err := r.client.Collection(r.collection()).Doc(docID(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "test execution not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get test execution", goerr.V("id", id))
	}

	var execDoc testExecutionDocument
	if err := doc.DataTo(&execDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal test execution", goerr.V("id", id))
	}

	return execDoc.toModel(), nil
}

func (r *testExecutionRepository) List(ctx context.Context) ([]*model.TestExecution, error) {
	return r.query(ctx, r.client.Collection(r.collection()).Query)
}

func (r *testExecutionRepository) ListByControl(ctx context.Context, controlID int64) ([]*model.TestExecution, error) {
	q := r.client.Collection(r.collection()).Where("control_id", "==", controlID)
	return r.query(ctx, q)
}

func (r *testExecutionRepository) CountSubmittedSince(ctx context.Context, since time.Time) (int, error) {
	q := r.client.Collection(r.collection()).
		Where("status", "==", string(types.ExecutionStatusSubmitted)).
		Where("updated_at", ">=", since)

	execs, err := r.query(ctx, q)
	if err != nil {
		return 0, err
	}
	return len(execs), nil
}

func (r *testExecutionRepository) query(ctx context.Context, q firestore.Query) ([]*model.TestExecution, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var execs []*model.TestExecution
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate test executions")
		}

		var execDoc testExecutionDocument
		if err := doc.DataTo(&execDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal test execution")
		}
		execs = append(execs, execDoc.toModel())
	}

	return execs, nil
}

func (r *testExecutionRepository) Update(ctx context.Context, exec *model.TestExecution) (*model.TestExecution, error) {
	docRef := r.client.Collection(r.collection()).Doc(docID(exec.ID))

	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "test execution not found", goerr.V("id", exec.ID))
		}
		return nil, goerr.Wrap(err, "failed to get test execution", goerr.V("id", exec.ID))
	}

	var existing testExecutionDocument
	if err := doc.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal test execution", goerr.V("id", exec.ID))
	}

	updated := *exec
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, toTestExecutionDocument(&updated)); err != nil {
		return nil, goerr.Wrap(err, "failed to update test execution", goerr.V("id", exec.ID))
	}

	return &updated, nil
}

func (r *testExecutionRepository) Delete(ctx context.Context, id int64) error {
	docRef := r.client.Collection(r.collection()).Doc(docID(id))

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "test execution not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get test execution", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete test execution", goerr.V("id", id))
	}

	return nil
}
