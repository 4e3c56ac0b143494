package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver

	"polychat/internal/config"
)

// DB wraps the database connection and the settings cache that fronts it.
// The connection pool is deliberately small; concurrent relational
// operations queue rather than run in parallel.
type DB struct {
	conn *sqlx.DB

	settingsCache *LRUCache
}

// NewDB connects to Postgres using the configured URL and pool limits.
func NewDB(cfg config.DatabaseConfig, cache config.CacheConfig) (*DB, error) {
	if cfg.URL == "" {
		return nil, ErrNoDatabase
	}

	conn, err := sqlx.Connect("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	conn.SetMaxOpenConns(cfg.MaxOpenConns)
	conn.SetMaxIdleConns(cfg.MaxIdleConns)
	conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	conn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return &DB{
		conn:          conn,
		settingsCache: NewLRUCache(cache.SettingsCacheSize, cache.SettingsCacheTTL),
	}, nil
}

// Close closes the database connection and clears the cache
func (db *DB) Close() error {
	db.settingsCache.Clear()
	return db.conn.Close()
}

// Ping checks if the database is reachable
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Health returns the health status of the database
func (db *DB) Health(ctx context.Context) error {
	if err := db.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	var result int
	err := db.conn.GetContext(ctx, &result, "SELECT 1")
	if err != nil {
		return fmt.Errorf("health check query failed: %w", err)
	}

	return nil
}

// BeginTx starts a new transaction
func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return db.conn.BeginTxx(ctx, opts)
}

// Conn returns the underlying sqlx connection
func (db *DB) Conn() *sqlx.DB {
	return db.conn
}

// SettingsCache returns the LRU cache used by the database settings store.
func (db *DB) SettingsCache() *LRUCache {
	return db.settingsCache
}
