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
)

type queryLogDocument struct {
	ID         int64     `firestore:"id"`
	Question   string    `firestore:"question"`
	Intents    []string  `firestore:"intents"`
	Kind       string    `firestore:"kind"`
	Answer     string    `firestore:"answer"`
	Count      int       `firestore:"count"`
	LLMUsed    bool      `firestore:"llm_used"`
	DurationMS int64     `firestore:"duration_ms"`
	CreatedAt  time.Time `firestore:"created_at"`
	UpdatedAt  time.Time `firestore:"updated_at"`
}

func toQueryLogDocument(l *model.QueryLog) *queryLogDocument {
	return &queryLogDocument{
		ID:         l.ID,
		Question:   l.Question,
		Intents:    l.Intents,
		Kind:       l.Kind,
		Answer:     l.Answer,
		Count:      l.Count,
		LLMUsed:    l.LLMUsed,
		DurationMS: l.DurationMS,
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  l.UpdatedAt,
	}
}

func (d *queryLogDocument) toModel() *model.QueryLog {
	return &model.QueryLog{
		ID:         d.ID,
		Question:   d.Question,
		Intents:    d.Intents,
		Kind:       d.Kind,
		Answer:     d.Answer,
		Count:      d.Count,
		LLMUsed:    d.LLMUsed,
		DurationMS: d.DurationMS,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

type queryLogRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newQueryLogRepository(client *firestore.Client) *queryLogRepository {
	return &queryLogRepository{client: client}
}

func (r *queryLogRepository) collection() string {
	return prefixed(r.collectionPrefix, "query_logs")
}

func (r *queryLogRepository) counters() string {
	return prefixed(r.collectionPrefix, "counters")
}

func (r *queryLogRepository) Create(ctx context.Context, log *model.QueryLog) (*model.QueryLog, error) {
	id, err := nextID(ctx, r.client, r.counters(), "query_log_counter")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	stored := *log
	stored.ID = id
	stored.CreatedAt = now
	stored.UpdatedAt = now

	docRef := r.client.Collection(r.collection()).Doc(docID(id))
	if _, err := docRef.Set(ctx, toQueryLogDocument(&stored)); err != nil {
		return nil, goerr.Wrap(err, "failed to create query log")
	}

	return &stored, nil
}

func (r *queryLogRepository) List(ctx context.Context) ([]*model.QueryLog, error) {
	iter := r.client.Collection(r.collection()).Documents(ctx)
	defer iter.Stop()

	var logs []*model.QueryLog
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate query logs")
		}

		var logDoc queryLogDocument
		if err := doc.DataTo(&logDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal query log")
		}
		logs = append(logs, logDoc.toModel())
	}

	return logs, nil
}

func (r *queryLogRepository) Delete(ctx context.Context, id int64) error {
	docRef := r.client.Collection(r.collection()).Doc(docID(id))

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "query log not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get query log", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete query log", goerr.V("id", id))
	}

	return nil
}
