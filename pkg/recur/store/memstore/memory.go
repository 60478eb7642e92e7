// Package memstore is an in-memory store.Store implementation, used in
// tests and as the default when no database path is configured.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/chronotext/recur/pkg/recur/internalerr"
	"github.com/chronotext/recur/pkg/recur/store"
)

// Store is an in-memory implementation of store.Store.
type Store struct {
	mu         sync.RWMutex
	rules      map[string]store.SavedRule
	inputIndex map[string]string
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		rules:      make(map[string]store.SavedRule),
		inputIndex: make(map[string]string),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// UpsertRule inserts or replaces a saved rule, keyed by input text.
func (s *Store) UpsertRule(ctx context.Context, r store.SavedRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existingID, ok := s.inputIndex[r.Input]; ok && existingID != r.ID {
		delete(s.rules, existingID)
	}
	s.rules[r.ID] = r
	s.inputIndex[r.Input] = r.ID
	return nil
}

// GetRule returns a saved rule by id.
func (s *Store) GetRule(ctx context.Context, id string) (store.SavedRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if r, ok := s.rules[id]; ok {
		return r, nil
	}
	return store.SavedRule{}, internalerr.ErrNotFound
}

// GetRuleByInput returns the saved rule for an input text, if any.
func (s *Store) GetRuleByInput(ctx context.Context, input string) (store.SavedRule, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id, ok := s.inputIndex[input]; ok {
		if r, exists := s.rules[id]; exists {
			return r, true, nil
		}
	}
	return store.SavedRule{}, false, nil
}

// ListRules returns saved rules ordered newest first.
func (s *Store) ListRules(ctx context.Context, limit int) ([]store.SavedRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.SavedRule, 0, len(s.rules))
	for _, r := range s.rules {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// DeleteRule removes a saved rule by id. Deleting a missing id is a no-op.
func (s *Store) DeleteRule(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.rules[id]; ok {
		delete(s.inputIndex, r.Input)
		delete(s.rules, id)
	}
	return nil
}
