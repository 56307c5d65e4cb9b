package service

import (
	"context"
	"strings"

	"curtaincall/internal/models"
	"curtaincall/internal/repository"
)

type SettingsService struct {
	settingsRepo repository.SettingsRepo
}

func NewSettingsService(settingsRepo repository.SettingsRepo) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo}
}

var _ Settings = (*SettingsService)(nil)

func (s *SettingsService) Get(ctx context.Context, key string) (string, error) {
	return s.settingsRepo.Get(ctx, strings.TrimSpace(key))
}

func (s *SettingsService) GetAll(ctx context.Context) ([]models.Setting, error) {
	return s.settingsRepo.GetAll(ctx)
}

// Set updates an existing key in place. Unknown keys surface
// repository.ErrSettingNotFound; rows are never created here.
func (s *SettingsService) Set(ctx context.Context, key, value string) error {
	return s.settingsRepo.Update(ctx, strings.TrimSpace(key), value)
}
