package storage

import (
	"context"
	"fmt"
	"sync"
)

// schema declares every table the backend touches. The conversations and
// messages tables are created for forward compatibility with conversation
// sync; the core flows do not read or write them yet.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		hashed_password VARCHAR(255) NOT NULL,
		role VARCHAR(32) NOT NULL DEFAULT 'user',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS api_configurations (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id VARCHAR(255) NOT NULL,
		provider VARCHAR(100) NOT NULL,
		encrypted_api_key TEXT NOT NULL,
		base_url TEXT NOT NULL DEFAULT '',
		enabled_models TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (user_id, provider)
	)`,
	`CREATE TABLE IF NOT EXISTS prompt_templates (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id VARCHAR(255) NOT NULL,
		title VARCHAR(255) NOT NULL,
		content TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS conversations (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id VARCHAR(255) NOT NULL,
		title VARCHAR(255) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		conversation_id UUID NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
		role VARCHAR(32) NOT NULL,
		content TEXT NOT NULL,
		model VARCHAR(100),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_api_configurations_user ON api_configurations (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_prompt_templates_user ON prompt_templates (user_id)`,
}

// Migrator runs the schema check exactly once per process. Concurrent
// first-requests share the single in-flight run instead of re-triggering it.
type Migrator struct {
	once sync.Once
	err  error
}

// EnsureSchema creates missing tables. Safe to call from every request
// path; only the first call does work.
func (m *Migrator) EnsureSchema(ctx context.Context, db *DB) error {
	m.once.Do(func() {
		for _, stmt := range schema {
			if _, err := db.Conn().ExecContext(ctx, stmt); err != nil {
				m.err = fmt.Errorf("migration failed: %w", err)
				return
			}
		}
	})
	return m.err
}
