package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Migration is one forward schema step.
type Migration struct {
	Version string
	Up      string
}

// migrations are applied in order; each runs once per database.
var migrations = []Migration{
	{Version: "1.0.0", Up: schemaV1},
	{Version: "1.1.0", Up: schemaV1_1},
}

const schemaV1 = `
CREATE TABLE IF NOT EXISTS schema_version (
    version TEXT PRIMARY KEY,
    applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS documents (
    doc_id TEXT PRIMARY KEY,
    source_path TEXT NOT NULL DEFAULT '',
    title TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    keywords TEXT NOT NULL DEFAULT '[]',
    slug TEXT NOT NULL DEFAULT '',
    content_hash TEXT NOT NULL,
    strategy TEXT NOT NULL,
    chunk_count INTEGER NOT NULL DEFAULT 0,
    updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS chunks (
    doc_id TEXT NOT NULL REFERENCES documents(doc_id) ON DELETE CASCADE,
    idx INTEGER NOT NULL,
    chunk_key TEXT NOT NULL,
    header_path TEXT NOT NULL DEFAULT '[]',
    text TEXT NOT NULL,
    char_len INTEGER NOT NULL,
    char_start INTEGER NOT NULL,
    char_end INTEGER NOT NULL,
    byte_start INTEGER NOT NULL,
    byte_end INTEGER NOT NULL,
    token_estimate INTEGER NOT NULL,
    part INTEGER NOT NULL DEFAULT 1,
    parts INTEGER NOT NULL DEFAULT 1,
    PRIMARY KEY (doc_id, idx),
    UNIQUE (doc_id, chunk_key)
);
`

const schemaV1_1 = `
CREATE INDEX IF NOT EXISTS idx_documents_content_hash ON documents(content_hash);
CREATE INDEX IF NOT EXISTS idx_chunks_key ON chunks(chunk_key);
`

// applyMigrations brings db up to the latest schema version.
func applyMigrations(ctx context.Context, db *sql.DB) error {
	current := semver.MustParse("0.0.0")

	var table string
	err := db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&table)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return fmt.Errorf("check schema_version table: %w", err)
	default:
		rows, err := db.QueryContext(ctx, "SELECT version FROM schema_version")
		if err != nil {
			return fmt.Errorf("read schema_version: %w", err)
		}
		for rows.Next() {
			var s string
			if err := rows.Scan(&s); err != nil {
				rows.Close()
				return err
			}
			v, err := semver.NewVersion(s)
			if err != nil {
				rows.Close()
				return fmt.Errorf("invalid schema version %s: %w", s, err)
			}
			if v.GreaterThan(current) {
				current = v
			}
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}
	}

	for _, m := range migrations {
		v := semver.MustParse(m.Version)
		if !current.LessThan(v) {
			continue
		}
		if _, err := db.ExecContext(ctx, m.Up); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.Version, err)
		}
		if _, err := db.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return fmt.Errorf("record migration %s: %w", m.Version, err)
		}
		current = v
	}
	return nil
}

// SchemaVersion returns the highest applied migration version.
func (s *Store) SchemaVersion(ctx context.Context) (string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT version FROM schema_version")
	if err != nil {
		return "", fmt.Errorf("read schema_version: %w", err)
	}
	defer rows.Close()

	var best *semver.Version
	for rows.Next() {
		var str string
		if err := rows.Scan(&str); err != nil {
			return "", err
		}
		v, err := semver.NewVersion(str)
		if err != nil {
			return "", err
		}
		if best == nil || v.GreaterThan(best) {
			best = v
		}
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	if best == nil {
		return "", ErrNotFound
	}
	return best.Original(), nil
}
