package storage

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"polychat/internal/catalog"
	"polychat/internal/models"
	"polychat/internal/utils"
)

// FileStore persists all users' settings in one JSON document on local
// disk, loaded and rewritten wholesale on every call. Not safe under
// concurrent writer processes; fine for the single-process deployments it
// targets. API keys are base64-obscured on disk, which hides them from a
// casual directory listing but is not encryption.
type FileStore struct {
	mu     sync.Mutex
	path   string
	logger *utils.Logger
}

// NewFileStore creates a flat-file settings store backed by path.
func NewFileStore(path string, logger *utils.Logger) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create settings directory: %w", err)
	}
	return &FileStore{path: path, logger: logger}, nil
}

// SaveUserSettings splices the user's document into the file and rewrites it.
func (s *FileStore) SaveUserSettings(ctx context.Context, userID string, settings *models.UserSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.readAll()
	if err != nil {
		return err
	}

	copied := *settings
	copied.UserID = userID
	all[userID] = &copied
	return s.writeAll(all)
}

// GetUserSettings returns the stored document, synthesizing and caching an
// env-seeded one when the user has none.
func (s *FileStore) GetUserSettings(ctx context.Context, userID string) (*models.UserSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.readAll()
	if err != nil {
		return nil, err
	}

	if settings, ok := all[userID]; ok {
		return settings, nil
	}

	seeded := seedFromEnv(userID)
	if seeded == nil {
		return nil, nil
	}

	// Write back so repeated calls are stable.
	all[userID] = seeded
	if err := s.writeAll(all); err != nil {
		s.logger.Warn("failed to cache seeded settings", "user", userID, "error", err)
	}
	return seeded, nil
}

// GetUserEnabledModels expands the user's enabled providers.
func (s *FileStore) GetUserEnabledModels(ctx context.Context, userID string) ([]models.AIModel, error) {
	settings, err := s.GetUserSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	return catalog.AggregateModels(settings), nil
}

// readAll loads the whole document. Callers must hold the mutex.
func (s *FileStore) readAll() (map[string]*models.UserSettings, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return make(map[string]*models.UserSettings), nil
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	all := make(map[string]*models.UserSettings)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &all); err != nil {
			return nil, fmt.Errorf("failed to parse settings file: %w", err)
		}
	}

	for _, settings := range all {
		for i := range settings.Providers {
			settings.Providers[i].APIKey = revealKey(settings.Providers[i].APIKey)
		}
	}
	return all, nil
}

// writeAll rewrites the whole document. Callers must hold the mutex.
func (s *FileStore) writeAll(all map[string]*models.UserSettings) error {
	onDisk := make(map[string]*models.UserSettings, len(all))
	for userID, settings := range all {
		copied := *settings
		copied.Providers = make([]models.ProviderConfig, len(settings.Providers))
		copy(copied.Providers, settings.Providers)
		for i := range copied.Providers {
			copied.Providers[i].APIKey = obscureKey(copied.Providers[i].APIKey)
		}
		onDisk[userID] = &copied
	}

	data, err := json.MarshalIndent(onDisk, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}

const obscuredPrefix = "b64:"

func obscureKey(apiKey string) string {
	if apiKey == "" {
		return ""
	}
	return obscuredPrefix + base64.StdEncoding.EncodeToString([]byte(apiKey))
}

func revealKey(stored string) string {
	if len(stored) <= len(obscuredPrefix) || stored[:len(obscuredPrefix)] != obscuredPrefix {
		return stored
	}
	decoded, err := base64.StdEncoding.DecodeString(stored[len(obscuredPrefix):])
	if err != nil {
		return stored
	}
	return string(decoded)
}
