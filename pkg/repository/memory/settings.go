package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/grc-lab/attest/pkg/domain/model"
)

type settingsRepository struct {
	mu       sync.RWMutex
	settings *model.Settings
}

func newSettingsRepository() *settingsRepository {
	return &settingsRepository{}
}

func (r *settingsRepository) Get(ctx context.Context) (*model.Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.settings == nil {
		return nil, goerr.Wrap(ErrNotFound, "settings not configured")
	}

	out := *r.settings
	return &out, nil
}

func (r *settingsRepository) Put(ctx context.Context, settings *model.Settings) (*model.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *settings
	stored.UpdatedAt = time.Now().UTC()
	r.settings = &stored

	out := stored
	return &out, nil
}
