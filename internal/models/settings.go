package models

import (
	"strings"
	"time"
)

// ProviderStatus tracks the connectivity state of a configured provider.
type ProviderStatus string

const (
	StatusIdle    ProviderStatus = "idle"
	StatusTesting ProviderStatus = "testing"
	StatusSuccess ProviderStatus = "success"
	StatusError   ProviderStatus = "error"
)

// ProviderConfig is one user's configuration for one LLM provider.
// The API key is plaintext in memory and in transit; at-rest handling
// depends on the storage backend.
type ProviderConfig struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	DisplayName     string         `json:"displayName"`
	Description     string         `json:"description,omitempty"`
	OfficialURL     string         `json:"officialUrl,omitempty"`
	DocsURL         string         `json:"docsUrl,omitempty"`
	APIKey          string         `json:"apiKey"`
	BaseURL         string         `json:"baseUrl"`
	AvailableModels string         `json:"availableModels"`
	Enabled         bool           `json:"enabled"`
	Status          ProviderStatus `json:"status,omitempty"`
	ErrorMessage    string         `json:"errorMessage,omitempty"`
}

// ModelNames splits the comma-joined availableModels string into
// trimmed, non-empty model identifiers.
func (p *ProviderConfig) ModelNames() []string {
	parts := strings.Split(p.AvailableModels, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// PromptTemplate is a user-owned reusable prompt.
type PromptTemplate struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserSettings is the aggregate root the storage layer saves and loads.
// Save semantics are whole-document replace.
type UserSettings struct {
	UserID          string           `json:"userId"`
	Providers       []ProviderConfig `json:"providers"`
	PromptTemplates []PromptTemplate `json:"promptTemplates"`
}

// Provider returns the config for a provider id, or nil.
func (s *UserSettings) Provider(id string) *ProviderConfig {
	for i := range s.Providers {
		if s.Providers[i].ID == id {
			return &s.Providers[i]
		}
	}
	return nil
}

// AIModel is a selectable (model, provider) pair derived from enabled
// provider configurations. Never persisted.
type AIModel struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Provider            string `json:"provider"`
	ProviderDisplayName string `json:"displayName"`
	Description         string `json:"description"`
}
