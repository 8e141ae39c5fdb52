package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/grc-lab/attest/pkg/domain/interfaces"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = interfaces.ErrNotFound

// Firestore is the production repository backend.
type Firestore struct {
	client      *firestore.Client
	risk        *riskRepository
	control     *controlRepository
	execution   *testExecutionRepository
	deficiency  *deficiencyRepository
	alert       *alertRepository
	captureRule *captureRuleRepository
	evidence    *evidenceRepository
	settings    *settingsRepository
	regUpdate   *regulatoryUpdateRepository
	regChange   *regulatoryChangeRepository
	assessment  *regulatoryAssessmentRepository
	queryLog    *queryLogRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix namespaces all collections, mainly for tests
// sharing one database.
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.risk.collectionPrefix = prefix
		f.control.collectionPrefix = prefix
		f.execution.collectionPrefix = prefix
		f.deficiency.collectionPrefix = prefix
		f.alert.collectionPrefix = prefix
		f.captureRule.collectionPrefix = prefix
		f.evidence.collectionPrefix = prefix
		f.settings.collectionPrefix = prefix
		f.regUpdate.collectionPrefix = prefix
		f.regChange.collectionPrefix = prefix
		f.assessment.collectionPrefix = prefix
		f.queryLog.collectionPrefix = prefix
	}
}

// New connects to Firestore and builds the repository. An empty
// databaseID selects the default database.
func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID), goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client:      client,
		risk:        newRiskRepository(client),
		control:     newControlRepository(client),
		execution:   newTestExecutionRepository(client),
		deficiency:  newDeficiencyRepository(client),
		alert:       newAlertRepository(client),
		captureRule: newCaptureRuleRepository(client),
		evidence:    newEvidenceRepository(client),
		settings:    newSettingsRepository(client),
		regUpdate:   newRegulatoryUpdateRepository(client),
		regChange:   newRegulatoryChangeRepository(client),
		assessment:  newRegulatoryAssessmentRepository(client),
		queryLog:    newQueryLogRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Risk() interfaces.RiskRepository {
	return f.risk
}

func (f *Firestore) Control() interfaces.ControlRepository {
	return f.control
}

func (f *Firestore) TestExecution() interfaces.TestExecutionRepository {
	return f.execution
}

func (f *Firestore) Deficiency() interfaces.DeficiencyRepository {
	return f.deficiency
}

func (f *Firestore) Alert() interfaces.AlertRepository {
	return f.alert
}

func (f *Firestore) CaptureRule() interfaces.CaptureRuleRepository {
	return f.captureRule
}

func (f *Firestore) Evidence() interfaces.EvidenceRepository {
	return f.evidence
}

func (f *Firestore) Settings() interfaces.SettingsRepository {
	return f.settings
}

func (f *Firestore) RegulatoryUpdate() interfaces.RegulatoryUpdateRepository {
	return f.regUpdate
}

func (f *Firestore) RegulatoryChange() interfaces.RegulatoryChangeRepository {
	return f.regChange
}

func (f *Firestore) RegulatoryAssessment() interfaces.RegulatoryAssessmentRepository {
	return f.assessment
}

func (f *Firestore) QueryLog() interfaces.QueryLogRepository {
	return f.queryLog
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

// prefixed returns the collection name with the optional test prefix.
func prefixed(prefix, name string) string {
	if prefix != "" {
		return prefix + "_" + name
	}
	return name
}

// nextID allocates the next auto-increment ID for a collection through
// a counter document transaction.
func nextID(ctx context.Context, client *firestore.Client, counterCollection, counterDoc string) (int64, error) {
	counterRef := client.Collection(counterCollection).Doc(counterDoc)

	var id int64
	err := client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(counterRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				id = 1
				return tx.Set(counterRef, map[string]interface{}{
					"value": id,
				})
			}
			return goerr.Wrap(err, "failed to get counter")
		}

		currentValue, err := doc.DataAt("value")
		if err != nil {
			return goerr.Wrap(err, "failed to get counter value")
		}

		id = currentValue.(int64) + 1
		return tx.Update(counterRef, []firestore.Update{
			{Path: "value", Value: id},
		})
	})

	if err != nil {
		return 0, goerr.Wrap(err, "failed to get next ID")
	}

	return id, nil
}

// docID renders an int64 ID as a document name.
func docID(id int64) string {
	return fmt.Sprintf("%d", id)
}
