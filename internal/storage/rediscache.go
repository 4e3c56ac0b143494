package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"polychat/internal/models"
	"polychat/internal/utils"
)

// RedisSettingsCache fronts a settings store with a shared Redis cache so
// multiple pods serve warm loads without hitting the database. Cached
// documents are AES-GCM encrypted with the same key that protects API keys
// in Postgres; Redis persistence must not become a plaintext copy of them.
// Cache trouble is never fatal; every path degrades to the inner store.
type RedisSettingsCache struct {
	inner  SettingsStore
	client *redis.Client
	enc    *Encryption
	ttl    time.Duration
	logger *utils.Logger
}

// NewRedisSettingsCache composes the cache decorator around a settings store.
func NewRedisSettingsCache(inner SettingsStore, client *redis.Client, enc *Encryption, ttl time.Duration, logger *utils.Logger) *RedisSettingsCache {
	return &RedisSettingsCache{inner: inner, client: client, enc: enc, ttl: ttl, logger: logger}
}

func settingsCacheKey(userID string) string {
	return "polychat:settings:" + userID
}

// SaveUserSettings writes through to the inner store and drops the cached
// document so the next load sees the new state.
func (c *RedisSettingsCache) SaveUserSettings(ctx context.Context, userID string, settings *models.UserSettings) error {
	if err := c.inner.SaveUserSettings(ctx, userID, settings); err != nil {
		return err
	}
	if err := c.client.Del(ctx, settingsCacheKey(userID)).Err(); err != nil {
		c.logger.Warn("failed to invalidate settings cache", "user", userID, "error", err)
	}
	return nil
}

// GetUserSettings serves from Redis when possible, refilling on miss.
func (c *RedisSettingsCache) GetUserSettings(ctx context.Context, userID string) (*models.UserSettings, error) {
	key := settingsCacheKey(userID)

	ciphertext, err := c.client.Get(ctx, key).Result()
	if err == nil {
		if settings := c.decodeCached(userID, ciphertext); settings != nil {
			return settings, nil
		}
		c.client.Del(ctx, key)
	} else if err != redis.Nil {
		c.logger.Warn("settings cache read failed", "user", userID, "error", err)
	}

	settings, err := c.inner.GetUserSettings(ctx, userID)
	if err != nil || settings == nil {
		return settings, err
	}

	if payload, err := c.encodeCached(settings); err == nil {
		if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.logger.Warn("settings cache write failed", "user", userID, "error", err)
		}
	}
	return settings, nil
}

// GetUserEnabledModels delegates to the inner store; model aggregation is
// cheap once the settings document is cached.
func (c *RedisSettingsCache) GetUserEnabledModels(ctx context.Context, userID string) ([]models.AIModel, error) {
	return c.inner.GetUserEnabledModels(ctx, userID)
}

func (c *RedisSettingsCache) encodeCached(settings *models.UserSettings) (string, error) {
	data, err := json.Marshal(settings)
	if err != nil {
		return "", err
	}
	return c.enc.Encrypt(data)
}

// decodeCached returns nil for any entry that fails to decrypt or parse;
// the caller treats that as a miss and drops the entry.
func (c *RedisSettingsCache) decodeCached(userID, ciphertext string) *models.UserSettings {
	data, err := c.enc.Decrypt(ciphertext)
	if err != nil {
		c.logger.Warn("dropping undecryptable cached settings", "user", userID)
		return nil
	}
	var settings models.UserSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		c.logger.Warn("dropping unparsable cached settings", "user", userID)
		return nil
	}
	return &settings
}
