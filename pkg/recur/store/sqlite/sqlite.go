// Package sqlite implements store.Store on a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/chronotext/recur/pkg/recur/internalerr"
	"github.com/chronotext/recur/pkg/recur/rule"
	"github.com/chronotext/recur/pkg/recur/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// Open opens (creating if needed) a SQLite rule store with WAL mode
// enabled.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS rules (
	id TEXT PRIMARY KEY,
	input TEXT UNIQUE NOT NULL,
	normalized TEXT NOT NULL,
	rule_json TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_rules_created ON rules(created_at);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// UpsertRule inserts or replaces a saved rule, keyed by input text.
func (s *sqliteStore) UpsertRule(ctx context.Context, r store.SavedRule) error {
	ruleJSON, err := json.Marshal(r.Rule)
	if err != nil {
		return fmt.Errorf("encode rule: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO rules (id, input, normalized, rule_json, created_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(input) DO UPDATE SET
	id = excluded.id,
	normalized = excluded.normalized,
	rule_json = excluded.rule_json,
	created_at = excluded.created_at`,
		r.ID, r.Input, r.Normalized, string(ruleJSON), r.CreatedAt.UTC().Format(time.RFC3339Nano))
	return err
}

// GetRule returns a saved rule by id.
func (s *sqliteStore) GetRule(ctx context.Context, id string) (store.SavedRule, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, input, normalized, rule_json, created_at FROM rules WHERE id = ?`, id)
	saved, err := scanRule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.SavedRule{}, internalerr.ErrNotFound
	}
	return saved, err
}

// GetRuleByInput returns the saved rule for an input text, if any.
func (s *sqliteStore) GetRuleByInput(ctx context.Context, input string) (store.SavedRule, bool, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, input, normalized, rule_json, created_at FROM rules WHERE input = ?`, input)
	saved, err := scanRule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.SavedRule{}, false, nil
	}
	if err != nil {
		return store.SavedRule{}, false, err
	}
	return saved, true, nil
}

// ListRules returns saved rules ordered newest first.
func (s *sqliteStore) ListRules(ctx context.Context, limit int) ([]store.SavedRule, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, input, normalized, rule_json, created_at
FROM rules ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.SavedRule
	for rows.Next() {
		saved, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, saved)
	}
	return out, rows.Err()
}

// DeleteRule removes a saved rule by id.
func (s *sqliteStore) DeleteRule(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM rules WHERE id = ?`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRule(row rowScanner) (store.SavedRule, error) {
	var (
		saved     store.SavedRule
		ruleJSON  string
		createdAt string
	)
	if err := row.Scan(&saved.ID, &saved.Input, &saved.Normalized, &ruleJSON, &createdAt); err != nil {
		return store.SavedRule{}, err
	}

	var r rule.Rule
	if err := json.Unmarshal([]byte(ruleJSON), &r); err != nil {
		return store.SavedRule{}, fmt.Errorf("decode rule: %w", err)
	}
	saved.Rule = r

	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return store.SavedRule{}, fmt.Errorf("decode timestamp: %w", err)
	}
	saved.CreatedAt = ts
	return saved, nil
}
