package storage

import (
	"context"
	"os"
	"time"

	"polychat/internal/catalog"
	"polychat/internal/models"
)

// SettingsStore is the contract all settings backends implement. Save is
// whole-document replace: the new state entirely supersedes the old.
type SettingsStore interface {
	// SaveUserSettings overwrites the settings document for a user.
	SaveUserSettings(ctx context.Context, userID string, settings *models.UserSettings) error

	// GetUserSettings returns the stored settings document, or nil when
	// the user has none and nothing can be synthesized.
	GetUserSettings(ctx context.Context, userID string) (*models.UserSettings, error)

	// GetUserEnabledModels flattens the user's enabled providers into the
	// selectable model catalog.
	GetUserEnabledModels(ctx context.Context, userID string) ([]models.AIModel, error)
}

// defaultPromptTemplates returns the starter templates every new account
// sees before saving its own.
func defaultPromptTemplates() []models.PromptTemplate {
	now := time.Now()
	return []models.PromptTemplate{
		{
			ID:        "1",
			Title:     "Code review",
			Content:   "Please review the following code with a focus on performance, security, and best practices:\n\n```\n[paste code here]\n```",
			CreatedAt: now,
		},
		{
			ID:        "2",
			Title:     "Documentation",
			Content:   "Please write clear documentation for the following feature, including usage notes and examples:\n\nFeature: [describe the feature]\n\nRequirements:\n1. Keep it concise\n2. Include code samples\n3. Call out caveats",
			CreatedAt: now,
		},
	}
}

// seedFromEnv synthesizes a settings document from provider API keys found
// in the environment. Returns nil when no provider key is set.
func seedFromEnv(userID string) *models.UserSettings {
	var providers []models.ProviderConfig
	for _, entry := range catalog.All() {
		apiKey := os.Getenv(entry.EnvVar)
		if apiKey == "" {
			continue
		}
		providers = append(providers, models.ProviderConfig{
			ID:              entry.ID,
			Name:            entry.ID,
			DisplayName:     entry.DisplayName,
			Description:     entry.Description,
			OfficialURL:     entry.OfficialURL,
			DocsURL:         entry.DocsURL,
			APIKey:          apiKey,
			BaseURL:         entry.DefaultBaseURL,
			AvailableModels: entry.SeedModels,
			Enabled:         true,
			Status:          models.StatusSuccess,
		})
	}

	if len(providers) == 0 {
		return nil
	}

	return &models.UserSettings{
		UserID:          userID,
		Providers:       providers,
		PromptTemplates: defaultPromptTemplates(),
	}
}
