package storage

import (
	"context"

	"polychat/internal/models"
	"polychat/internal/utils"
)

// FallbackStore wraps a primary settings store with the ephemeral memory
// store. The primary backend depends on network-reachable infrastructure
// that may be transiently unavailable; losing durability is preferable to
// failing the user-facing request, so reads degrade to safe defaults
// rather than propagating backend errors.
type FallbackStore struct {
	primary  SettingsStore
	fallback *MemoryStore
	logger   *utils.Logger
}

// NewFallbackStore composes the fallback decorator around a primary store.
func NewFallbackStore(primary SettingsStore, fallback *MemoryStore, logger *utils.Logger) *FallbackStore {
	return &FallbackStore{primary: primary, fallback: fallback, logger: logger}
}

// SaveUserSettings tries the primary store, then memory. An error is
// returned only when both fail, so callers can still report a hard save
// failure.
func (s *FallbackStore) SaveUserSettings(ctx context.Context, userID string, settings *models.UserSettings) error {
	if err := s.primary.SaveUserSettings(ctx, userID, settings); err != nil {
		s.logger.Error("primary store save failed, falling back to memory", "user", userID, "error", err)
		return s.fallback.SaveUserSettings(ctx, userID, settings)
	}
	return nil
}

// GetUserSettings tries the primary store, then memory, then gives up with
// a nil document. Never returns an error.
func (s *FallbackStore) GetUserSettings(ctx context.Context, userID string) (*models.UserSettings, error) {
	settings, err := s.primary.GetUserSettings(ctx, userID)
	if err == nil {
		return settings, nil
	}
	s.logger.Error("primary store load failed, falling back to memory", "user", userID, "error", err)

	settings, err = s.fallback.GetUserSettings(ctx, userID)
	if err != nil {
		s.logger.Error("memory fallback load failed", "user", userID, "error", err)
		return nil, nil
	}
	return settings, nil
}

// GetUserEnabledModels tries the primary store, then memory, then returns
// an empty catalog. Never returns an error.
func (s *FallbackStore) GetUserEnabledModels(ctx context.Context, userID string) ([]models.AIModel, error) {
	aiModels, err := s.primary.GetUserEnabledModels(ctx, userID)
	if err == nil {
		return aiModels, nil
	}
	s.logger.Error("primary store model listing failed, falling back to memory", "user", userID, "error", err)

	aiModels, err = s.fallback.GetUserEnabledModels(ctx, userID)
	if err != nil {
		s.logger.Error("memory fallback model listing failed", "user", userID, "error", err)
		return []models.AIModel{}, nil
	}
	return aiModels, nil
}
