package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polychat/internal/models"
	"polychat/internal/utils"
)

// failingStore errors on every call, standing in for an unreachable
// backend.
type failingStore struct{}

func (failingStore) SaveUserSettings(ctx context.Context, userID string, settings *models.UserSettings) error {
	return errors.New("backend down")
}

func (failingStore) GetUserSettings(ctx context.Context, userID string) (*models.UserSettings, error) {
	return nil, errors.New("backend down")
}

func (failingStore) GetUserEnabledModels(ctx context.Context, userID string) ([]models.AIModel, error) {
	return nil, errors.New("backend down")
}

func TestFallbackStore_HealthyPrimary(t *testing.T) {
	clearProviderEnv(t)
	primary := NewMemoryStore()
	memory := NewMemoryStore()
	store := NewFallbackStore(primary, memory, utils.NewLogger("test"))
	ctx := context.Background()

	require.NoError(t, store.SaveUserSettings(ctx, "u1", sampleSettings("u1")))

	got, err := store.GetUserSettings(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)

	// The fallback memory store was never touched
	inMemory, err := memory.GetUserSettings(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, inMemory)
}

func TestFallbackStore_SaveDegradesToMemory(t *testing.T) {
	clearProviderEnv(t)
	memory := NewMemoryStore()
	store := NewFallbackStore(failingStore{}, memory, utils.NewLogger("test"))
	ctx := context.Background()

	require.NoError(t, store.SaveUserSettings(ctx, "u1", sampleSettings("u1")))

	got, err := store.GetUserSettings(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "sk-test", got.Providers[0].APIKey)
}

func TestFallbackStore_GetNeverErrors(t *testing.T) {
	clearProviderEnv(t)
	store := NewFallbackStore(failingStore{}, NewMemoryStore(), utils.NewLogger("test"))
	ctx := context.Background()

	got, err := store.GetUserSettings(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, got)

	aiModels, err := store.GetUserEnabledModels(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, aiModels)
}

func TestFallbackStore_ModelsDegradeToMemory(t *testing.T) {
	clearProviderEnv(t)
	memory := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, memory.SaveUserSettings(ctx, "u1", sampleSettings("u1")))

	store := NewFallbackStore(failingStore{}, memory, utils.NewLogger("test"))

	aiModels, err := store.GetUserEnabledModels(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, aiModels, 2)
}
