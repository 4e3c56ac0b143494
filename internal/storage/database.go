package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"polychat/internal/catalog"
	"polychat/internal/models"
	"polychat/internal/utils"
)

// DatabaseStore persists settings in Postgres with API keys encrypted at
// rest. Save is an authoritative replace inside one transaction; only
// enabled providers with a non-empty key are ever written, which is why
// every loaded row reports status success.
type DatabaseStore struct {
	db     *DB
	enc    *Encryption
	logger *utils.Logger
}

// NewDatabaseStore creates a database-backed settings store.
func NewDatabaseStore(db *DB, enc *Encryption, logger *utils.Logger) *DatabaseStore {
	return &DatabaseStore{db: db, enc: enc, logger: logger}
}

// SaveUserSettings replaces the user's provider and template rows in one
// transaction. Disabled or keyless providers are silently dropped.
func (s *DatabaseStore) SaveUserSettings(ctx context.Context, userID string, settings *models.UserSettings) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM api_configurations WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear provider rows: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM prompt_templates WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear template rows: %w", err)
	}

	for i := range settings.Providers {
		provider := &settings.Providers[i]
		if !provider.Enabled || provider.APIKey == "" {
			continue
		}

		encryptedKey, err := s.enc.EncryptString(provider.APIKey)
		if err != nil {
			return fmt.Errorf("failed to encrypt key for %s: %w", provider.ID, err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO api_configurations (user_id, provider, encrypted_api_key, base_url, enabled_models)
			VALUES ($1, $2, $3, $4, $5)
		`, userID, provider.ID, encryptedKey, provider.BaseURL, pq.StringArray(provider.ModelNames()))
		if err != nil {
			return fmt.Errorf("failed to insert provider %s: %w", provider.ID, err)
		}
	}

	for _, template := range settings.PromptTemplates {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO prompt_templates (user_id, title, content)
			VALUES ($1, $2, $3)
		`, userID, template.Title, template.Content)
		if err != nil {
			return fmt.Errorf("failed to insert template %q: %w", template.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit settings: %w", err)
	}

	s.db.SettingsCache().Delete(userID)
	return nil
}

// SaveProviderConfig upserts a single provider row without touching the
// rest of the user's document. This replaces the whole-document
// read-modify-write round trip that loses concurrent updates.
func (s *DatabaseStore) SaveProviderConfig(ctx context.Context, userID string, provider *models.ProviderConfig) error {
	if !provider.Enabled || provider.APIKey == "" {
		_, err := s.db.Conn().ExecContext(ctx,
			`DELETE FROM api_configurations WHERE user_id = $1 AND provider = $2`, userID, provider.ID)
		if err != nil {
			return fmt.Errorf("failed to remove provider %s: %w", provider.ID, err)
		}
		s.db.SettingsCache().Delete(userID)
		return nil
	}

	encryptedKey, err := s.enc.EncryptString(provider.APIKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt key for %s: %w", provider.ID, err)
	}

	_, err = s.db.Conn().ExecContext(ctx, `
		INSERT INTO api_configurations (user_id, provider, encrypted_api_key, base_url, enabled_models)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, provider) DO UPDATE SET
			encrypted_api_key = EXCLUDED.encrypted_api_key,
			base_url = EXCLUDED.base_url,
			enabled_models = EXCLUDED.enabled_models,
			updated_at = NOW()
	`, userID, provider.ID, encryptedKey, provider.BaseURL, pq.StringArray(provider.ModelNames()))
	if err != nil {
		return fmt.Errorf("failed to upsert provider %s: %w", provider.ID, err)
	}

	s.db.SettingsCache().Delete(userID)
	return nil
}

// GetUserSettings loads and decrypts the user's rows, rebuilding display
// metadata from the catalog. A row whose key fails to decrypt is dropped
// and logged, never fatal. An empty account still gets the starter
// templates so the UI has content.
func (s *DatabaseStore) GetUserSettings(ctx context.Context, userID string) (*models.UserSettings, error) {
	if cached, ok := s.db.SettingsCache().Get(userID); ok {
		return cached.(*models.UserSettings), nil
	}

	var configRows []models.APIConfigurationRow
	err := s.db.Conn().SelectContext(ctx, &configRows, `
		SELECT id, user_id, provider, encrypted_api_key, base_url, enabled_models, created_at, updated_at
		FROM api_configurations
		WHERE user_id = $1
		ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load provider rows: %w", err)
	}

	var templateRows []models.PromptTemplateRow
	err = s.db.Conn().SelectContext(ctx, &templateRows, `
		SELECT id, user_id, title, content, created_at
		FROM prompt_templates
		WHERE user_id = $1
		ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load template rows: %w", err)
	}

	providers := make([]models.ProviderConfig, 0, len(configRows))
	for i := range configRows {
		row := &configRows[i]
		apiKey, err := s.enc.DecryptString(row.EncryptedAPIKey)
		if err != nil {
			s.logger.Error("dropping provider row with undecryptable key",
				"user", userID, "provider", row.Provider, "error", err)
			continue
		}

		baseURL := row.BaseURL
		if baseURL == "" {
			baseURL = catalog.DefaultBaseURL(row.Provider)
		}

		provider := models.ProviderConfig{
			ID:              row.Provider,
			Name:            row.Provider,
			DisplayName:     catalog.DisplayName(row.Provider),
			APIKey:          apiKey,
			BaseURL:         baseURL,
			AvailableModels: strings.Join(row.EnabledModels, ", "),
			Enabled:         true,
			Status:          models.StatusSuccess,
		}
		if entry, ok := catalog.Lookup(row.Provider); ok {
			provider.Description = entry.Description
			provider.OfficialURL = entry.OfficialURL
			provider.DocsURL = entry.DocsURL
		}
		providers = append(providers, provider)
	}

	templates := make([]models.PromptTemplate, 0, len(templateRows))
	for _, row := range templateRows {
		templates = append(templates, models.PromptTemplate{
			ID:        row.ID.String(),
			Title:     row.Title,
			Content:   row.Content,
			CreatedAt: row.CreatedAt,
		})
	}
	if len(templates) == 0 {
		templates = defaultPromptTemplates()
	}

	settings := &models.UserSettings{
		UserID:          userID,
		Providers:       providers,
		PromptTemplates: templates,
	}

	s.db.SettingsCache().Set(userID, settings)
	return settings, nil
}

// GetUserEnabledModels expands the user's enabled providers.
func (s *DatabaseStore) GetUserEnabledModels(ctx context.Context, userID string) ([]models.AIModel, error) {
	settings, err := s.GetUserSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	return catalog.AggregateModels(settings), nil
}
