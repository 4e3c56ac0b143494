package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// APIConfigurationRow is the persisted form of a provider configuration.
// The API key is encrypted before it reaches this struct; display metadata
// is not stored redundantly and is rebuilt from the catalog on load.
type APIConfigurationRow struct {
	ID              uuid.UUID      `db:"id"`
	UserID          string         `db:"user_id"`
	Provider        string         `db:"provider"`
	EncryptedAPIKey string         `db:"encrypted_api_key"`
	BaseURL         string         `db:"base_url"`
	EnabledModels   pq.StringArray `db:"enabled_models"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

// PromptTemplateRow is the persisted form of a prompt template.
type PromptTemplateRow struct {
	ID        uuid.UUID `db:"id"`
	UserID    string    `db:"user_id"`
	Title     string    `db:"title"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
}
