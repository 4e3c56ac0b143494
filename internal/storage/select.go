package storage

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"polychat/internal/config"
	"polychat/internal/utils"
)

// Selection is the storage stack chosen for this process: one settings
// store (already wrapped with the memory fallback where that applies), one
// user store, and the database handle when the relational backend is
// active. Selection happens once at process start and the result is
// injected into the request handlers.
type Selection struct {
	Settings SettingsStore
	Users    UserStore
	DB       *DB // nil unless the relational backend was selected

	// Backend names the selected backend: "database", "file" or "memory".
	Backend string
}

// Select picks the storage backend for this process. The encrypted
// relational backend is used when both a database URL and an encryption
// key are configured; serverless platforms and any database bootstrap
// failure degrade to the ephemeral path instead of failing startup.
func Select(ctx context.Context, cfg *config.Config, logger *utils.Logger) *Selection {
	memory := NewMemoryStore()

	if cfg.Database.URL != "" && cfg.Storage.EncryptionKey != "" && !config.IsServerless() {
		selection, err := selectDatabase(ctx, cfg, memory, logger)
		if err == nil {
			logger.Info("using encrypted database settings storage")
			return selection
		}
		logger.Error("database backend unavailable, degrading to ephemeral storage", "error", err)
	}

	users := NewMemoryUserStore()

	if !config.IsServerless() {
		fileStore, err := NewFileStore(cfg.Storage.SettingsFile, logger)
		if err == nil {
			logger.Info("using flat-file settings storage", "path", cfg.Storage.SettingsFile)
			return &Selection{
				Settings: NewFallbackStore(fileStore, memory, logger),
				Users:    users,
				Backend:  "file",
			}
		}
		logger.Error("flat-file backend unavailable, degrading to memory", "error", err)
	}

	logger.Info("using in-memory settings storage")
	return &Selection{
		Settings: memory,
		Users:    users,
		Backend:  "memory",
	}
}

func selectDatabase(ctx context.Context, cfg *config.Config, memory *MemoryStore, logger *utils.Logger) (*Selection, error) {
	enc, err := NewEncryptionFromBase64(cfg.Storage.EncryptionKey)
	if err != nil {
		return nil, err
	}

	db, err := NewDB(cfg.Database, cfg.Cache)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.Ping(pingCtx); err != nil {
		db.Close()
		return nil, err
	}

	var migrator Migrator
	if err := migrator.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	var settings SettingsStore = NewDatabaseStore(db, enc, logger)

	if cfg.Redis.Address != "" {
		client := redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Address,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		settings = NewRedisSettingsCache(settings, client, enc, cfg.Redis.CacheTTL, logger)
		logger.Info("settings cache enabled", "redis", cfg.Redis.Address)
	}

	return &Selection{
		Settings: NewFallbackStore(settings, memory, logger),
		Users:    NewUserRepository(db),
		DB:       db,
		Backend:  "database",
	}, nil
}
