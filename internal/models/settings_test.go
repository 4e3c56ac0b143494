package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderConfig_ModelNames(t *testing.T) {
	tests := []struct {
		name   string
		stored string
		want   []string
	}{
		{
			name:   "comma separated",
			stored: "gpt-4, gpt-3.5-turbo",
			want:   []string{"gpt-4", "gpt-3.5-turbo"},
		},
		{
			name:   "extra whitespace and empties",
			stored: " gpt-4 ,, ,gpt-3.5-turbo, ",
			want:   []string{"gpt-4", "gpt-3.5-turbo"},
		},
		{
			name:   "single model",
			stored: "deepseek-chat",
			want:   []string{"deepseek-chat"},
		},
		{
			name:   "empty string",
			stored: "",
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ProviderConfig{AvailableModels: tt.stored}
			assert.Equal(t, tt.want, p.ModelNames())
		})
	}
}

func TestUserSettings_Provider(t *testing.T) {
	settings := &UserSettings{
		Providers: []ProviderConfig{
			{ID: "openai", APIKey: "sk-1"},
			{ID: "deepseek", APIKey: "sk-2"},
		},
	}

	p := settings.Provider("deepseek")
	require.NotNil(t, p)
	assert.Equal(t, "sk-2", p.APIKey)

	// Returned pointer aliases the slice element
	p.APIKey = "sk-rotated"
	assert.Equal(t, "sk-rotated", settings.Providers[1].APIKey)

	assert.Nil(t, settings.Provider("missing"))
}
