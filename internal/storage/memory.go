package storage

import (
	"context"
	"sync"

	"polychat/internal/catalog"
	"polychat/internal/models"
)

// MemoryStore keeps settings in a process-local map. It seeds a missing
// document from environment variables so a freshly started process still
// has usable provider configurations. Nothing survives a restart.
type MemoryStore struct {
	mu       sync.RWMutex
	settings map[string]*models.UserSettings
}

// NewMemoryStore creates an empty in-memory settings store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		settings: make(map[string]*models.UserSettings),
	}
}

// SaveUserSettings overwrites the user's document in memory.
func (s *MemoryStore) SaveUserSettings(ctx context.Context, userID string, settings *models.UserSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *settings
	copied.UserID = userID
	s.settings[userID] = &copied
	return nil
}

// GetUserSettings returns the stored document, synthesizing one from
// environment variables on first access. The synthesized result is written
// back so repeated calls are stable.
func (s *MemoryStore) GetUserSettings(ctx context.Context, userID string) (*models.UserSettings, error) {
	s.mu.RLock()
	stored, ok := s.settings[userID]
	s.mu.RUnlock()
	if ok {
		return stored, nil
	}

	seeded := seedFromEnv(userID)
	if seeded == nil {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Another request may have seeded meanwhile; keep the first document.
	if stored, ok := s.settings[userID]; ok {
		return stored, nil
	}
	s.settings[userID] = seeded
	return seeded, nil
}

// GetUserEnabledModels expands the user's enabled providers.
func (s *MemoryStore) GetUserEnabledModels(ctx context.Context, userID string) ([]models.AIModel, error) {
	settings, err := s.GetUserSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	return catalog.AggregateModels(settings), nil
}
