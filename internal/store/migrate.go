package store

import (
	"context"
	"errors"
	"fmt"
)

var schemaStatements = []string{
	`PRAGMA foreign_keys = ON;`,
	`CREATE TABLE IF NOT EXISTS audits (
		id TEXT PRIMARY KEY,
		url TEXT NOT NULL,
		score_who INTEGER NOT NULL,
		score_what INTEGER NOT NULL,
		score_where INTEGER NOT NULL,
		entity_score INTEGER NOT NULL,
		summary TEXT NOT NULL DEFAULT '',
		issues TEXT NOT NULL DEFAULT '[]',
		created_at INTEGER NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_audits_created ON audits(created_at);`,
	`CREATE TABLE IF NOT EXISTS recommendations (
		id TEXT PRIMARY KEY,
		audit_id TEXT NOT NULL REFERENCES audits(id) ON DELETE CASCADE,
		kind TEXT NOT NULL,
		priority INTEGER NOT NULL DEFAULT 3,
		sentence TEXT NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_recommendations_audit ON recommendations(audit_id, priority);`,
	`CREATE TABLE IF NOT EXISTS entities (
		id TEXT PRIMARY KEY,
		audit_id TEXT NOT NULL REFERENCES audits(id) ON DELETE CASCADE,
		etype TEXT NOT NULL,
		value TEXT NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_entities_audit ON entities(audit_id, etype);`,
}

// Migrate ensures the required database tables exist.
func (s *Store) Migrate(ctx context.Context) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	for _, stmt := range schemaStatements {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("store migration failed: %w", err)
		}
	}

	return nil
}
