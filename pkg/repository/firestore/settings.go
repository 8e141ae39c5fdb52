package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/grc-lab/attest/pkg/domain/model"
)

type settingsDocument struct {
	HighRiskThreshold     int `firestore:"high_risk_threshold"`
	CriticalRiskThreshold int `firestore:"critical_risk_threshold"`
	MediumRiskThreshold   int `firestore:"medium_risk_threshold"`

	AutoCreateDeficiency     bool `firestore:"auto_create_deficiency"`
	EnableComplianceFeatures bool `firestore:"enable_compliance_features"`
	SendWeeklyDigest         bool `firestore:"send_weekly_digest"`
	DaysBeforeTestReminder   int  `firestore:"days_before_test_reminder"`

	UpdatedAt time.Time `firestore:"updated_at"`
}

func toSettingsDocument(s *model.Settings) *settingsDocument {
	return &settingsDocument{
		HighRiskThreshold:        s.HighRiskThreshold,
		CriticalRiskThreshold:    s.CriticalRiskThreshold,
		MediumRiskThreshold:      s.MediumRiskThreshold,
		AutoCreateDeficiency:     s.AutoCreateDeficiency,
		EnableComplianceFeatures: s.EnableComplianceFeatures,
		SendWeeklyDigest:         s.SendWeeklyDigest,
		DaysBeforeTestReminder:   s.DaysBeforeTestReminder,
		UpdatedAt:                s.UpdatedAt,
	}
}

func (d *settingsDocument) toModel() *model.Settings {
	return &model.Settings{
		HighRiskThreshold:        d.HighRiskThreshold,
		CriticalRiskThreshold:    d.CriticalRiskThreshold,
		MediumRiskThreshold:      d.MediumRiskThreshold,
		AutoCreateDeficiency:     d.AutoCreateDeficiency,
		EnableComplianceFeatures: d.EnableComplianceFeatures,
		SendWeeklyDigest:         d.SendWeeklyDigest,
		DaysBeforeTestReminder:   d.DaysBeforeTestReminder,
		UpdatedAt:                d.UpdatedAt,
	}
}

// settingsRepository stores the singleton settings record in a fixed
// document.
type settingsRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newSettingsRepository(client *firestore.Client) *settingsRepository {
	return &settingsRepository{client: client}
}

func (r *settingsRepository) collection() string {
	return prefixed(r.collectionPrefix, "settings")
}

const settingsDocName = "compliance_settings"

func (r *settingsRepository) Get(ctx context.Context) (*model.Settings, error) {
	doc, err := r.client.Collection(r.collection()).Doc(settingsDocName).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "settings not configured")
		}
		return nil, goerr.Wrap(err, "failed to get settings")
	}

	var settingsDoc settingsDocument
	if err := doc.DataTo(&settingsDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal settings")
	}

	return settingsDoc.toModel(), nil
}

func (r *settingsRepository) Put(ctx context.Context, settings *model.Settings) (*model.Settings, error) {
	stored := *settings
	stored.UpdatedAt = time.Now().UTC()

	docRef := r.client.Collection(r.collection()).Doc(settingsDocName)
	if _, err := docRef.Set(ctx, toSettingsDocument(&stored)); err != nil {
		return nil, goerr.Wrap(err, "failed to save settings")
	}

	return &stored, nil
}
