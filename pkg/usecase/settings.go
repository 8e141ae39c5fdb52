package usecase

import (
	"context"

	"github.com/grc-lab/attest/pkg/domain/interfaces"
	"github.com/grc-lab/attest/pkg/domain/model"
)

// SettingsUseCase manages the compliance settings singleton.
type SettingsUseCase struct {
	repo interfaces.Repository
}

func NewSettingsUseCase(repo interfaces.Repository) *SettingsUseCase {
	return &SettingsUseCase{repo: repo}
}

// Get retrieves the settings record. Returns a not-found error when
// settings were never saved; callers that can degrade (digests, scans)
// treat that as "features disabled".
func (uc *SettingsUseCase) Get(ctx context.Context) (*model.Settings, error) {
	return uc.repo.Settings().Get(ctx)
}

// Save validates and stores the settings record. The threshold
// ordering check rejects high >= critical before anything is written.
func (uc *SettingsUseCase) Save(ctx context.Context, settings *model.Settings) (*model.Settings, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return uc.repo.Settings().Put(ctx, settings)
}
