package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polychat/internal/models"
)

func TestAggregateModels_NilSettings(t *testing.T) {
	out := AggregateModels(nil)
	assert.Empty(t, out)
}

func TestAggregateModels_EnabledOnly(t *testing.T) {
	settings := &models.UserSettings{
		UserID: "u1",
		Providers: []models.ProviderConfig{
			{ID: "openai", DisplayName: "OpenAI", Enabled: true, AvailableModels: "gpt-4, gpt-3.5-turbo"},
			{ID: "deepseek", DisplayName: "DeepSeek", Enabled: false, AvailableModels: "deepseek-chat"},
		},
	}

	out := AggregateModels(settings)
	require.Len(t, out, 2)
	assert.Equal(t, "gpt-4", out[0].ID)
	assert.Equal(t, "openai", out[0].Provider)
	assert.Equal(t, "OpenAI", out[0].ProviderDisplayName)
	assert.Equal(t, "OpenAI - gpt-4", out[0].Description)
	assert.Equal(t, "gpt-3.5-turbo", out[1].ID)
}

func TestAggregateModels_DefaultsWhenNoRecordedModels(t *testing.T) {
	settings := &models.UserSettings{
		UserID: "u1",
		Providers: []models.ProviderConfig{
			{ID: "gemini", DisplayName: "Google Gemini", Enabled: true},
		},
	}

	out := AggregateModels(settings)
	require.Len(t, out, 2)
	assert.Equal(t, "gemini-pro", out[0].ID)
	assert.Equal(t, "Gemini Pro", out[0].Name)
	assert.Equal(t, "gemini", out[0].Provider)
	// Same description shape as the stored-list branch
	assert.Equal(t, "Google Gemini - gemini-pro", out[0].Description)
}

func TestAggregateModels_StoredOrder(t *testing.T) {
	settings := &models.UserSettings{
		UserID: "u1",
		Providers: []models.ProviderConfig{
			{ID: "zhipu", DisplayName: "ZhipuAI", Enabled: true, AvailableModels: "glm-4"},
			{ID: "openai", DisplayName: "OpenAI", Enabled: true, AvailableModels: "gpt-4"},
		},
	}

	out := AggregateModels(settings)
	require.Len(t, out, 2)
	assert.Equal(t, "zhipu", out[0].Provider)
	assert.Equal(t, "openai", out[1].Provider)
}

func TestAggregateModels_UnknownProviderSkipped(t *testing.T) {
	settings := &models.UserSettings{
		UserID: "u1",
		Providers: []models.ProviderConfig{
			{ID: "retired-provider", DisplayName: "Retired", Enabled: true},
		},
	}

	// No recorded models and no catalog entry to fall back to
	assert.Empty(t, AggregateModels(settings))
}

func TestAggregateModels_NoCrossProviderDedup(t *testing.T) {
	settings := &models.UserSettings{
		UserID: "u1",
		Providers: []models.ProviderConfig{
			{ID: "openai", DisplayName: "OpenAI", Enabled: true, AvailableModels: "gpt-4"},
			{ID: "openrouter", DisplayName: "OpenRouter", Enabled: true, AvailableModels: "gpt-4"},
		},
	}

	out := AggregateModels(settings)
	require.Len(t, out, 2)
	assert.Equal(t, out[0].ID, out[1].ID)
	assert.NotEqual(t, out[0].Provider, out[1].Provider)
}

func TestLookup(t *testing.T) {
	entry, ok := Lookup("deepseek")
	require.True(t, ok)
	assert.Equal(t, "DeepSeek", entry.DisplayName)
	assert.Equal(t, ShapeOpenAI, entry.Shape)

	_, ok = Lookup("nope")
	assert.False(t, ok)
	assert.False(t, Known("nope"))
	assert.Equal(t, "nope", DisplayName("nope"))
}
