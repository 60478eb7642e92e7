// Package store defines persistence for parsed recurrence rules, so
// repeated inputs (UI autocomplete, saved schedules) can be recalled
// without re-running the pipeline.
package store

import (
	"context"
	"time"

	"github.com/chronotext/recur/pkg/recur/rule"
)

// SavedRule is one persisted parse: the input, its normalized form, and
// the descriptor produced.
type SavedRule struct {
	ID         string // ULID, assigned by the caller
	Input      string
	Normalized string
	Rule       rule.Rule
	CreatedAt  time.Time
}

// Store is the interface for persisting and querying saved rules.
type Store interface {
	Close() error

	UpsertRule(ctx context.Context, r SavedRule) error
	GetRule(ctx context.Context, id string) (SavedRule, error)
	GetRuleByInput(ctx context.Context, input string) (SavedRule, bool, error)
	ListRules(ctx context.Context, limit int) ([]SavedRule, error)
	DeleteRule(ctx context.Context, id string) error
}
