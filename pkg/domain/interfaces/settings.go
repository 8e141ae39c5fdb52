package interfaces

import (
	"context"

	"github.com/grc-lab/attest/pkg/domain/model"
)

type SettingsRepository interface {
	// Get retrieves the settings singleton. Returns a not-found error
	// when settings were never saved.
	Get(ctx context.Context) (*model.Settings, error)

	// Put stores the settings singleton, replacing any existing record
	Put(ctx context.Context, settings *model.Settings) (*model.Settings, error)
}
