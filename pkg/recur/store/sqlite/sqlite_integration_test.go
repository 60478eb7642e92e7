package sqlite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/chronotext/recur/pkg/recur/internalerr"
	"github.com/chronotext/recur/pkg/recur/rule"
	"github.com/chronotext/recur/pkg/recur/store"
)

func openTestStore(t *testing.T) store.Store {
	t.Helper()
	ctx := context.Background()
	st, err := Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

// TestSQLiteIntegrationBasic tests basic CRUD operations
func TestSQLiteIntegrationBasic(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	until := time.Date(2022, time.December, 31, 0, 0, 0, 0, time.UTC)
	saved := store.SavedRule{
		ID:         "01HTESTULID000000000000000",
		Input:      "every monday until december 31, 2022",
		Normalized: "every monday until december 31, 2022",
		Rule: rule.Rule{
			Freq:            rule.Weekly,
			Interval:        1,
			ByWeekday:       []rule.Weekday{rule.Monday},
			Until:           &until,
			Confidence:      1,
			MatchedPatterns: []string{"day-of-week", "until"},
		},
		CreatedAt: time.Now().UTC(),
	}

	if err := st.UpsertRule(ctx, saved); err != nil {
		t.Fatalf("UpsertRule: %v", err)
	}

	retrieved, found, err := st.GetRuleByInput(ctx, saved.Input)
	if err != nil {
		t.Fatalf("GetRuleByInput: %v", err)
	}
	if !found {
		t.Fatal("Rule should be found")
	}
	if retrieved.ID != saved.ID {
		t.Errorf("ID mismatch: got %q, want %q", retrieved.ID, saved.ID)
	}
	if retrieved.Rule.Freq != rule.Weekly {
		t.Errorf("Freq mismatch: got %v", retrieved.Rule.Freq)
	}
	if len(retrieved.Rule.ByWeekday) != 1 || retrieved.Rule.ByWeekday[0] != rule.Monday {
		t.Errorf("ByWeekday mismatch: %v", retrieved.Rule.ByWeekday)
	}
	if retrieved.Rule.Until == nil || !retrieved.Rule.Until.Equal(until) {
		t.Errorf("Until mismatch: %v", retrieved.Rule.Until)
	}

	byID, err := st.GetRule(ctx, saved.ID)
	if err != nil {
		t.Fatalf("GetRule: %v", err)
	}
	if byID.Input != saved.Input {
		t.Errorf("Input mismatch: %q", byID.Input)
	}
}

// TestSQLiteIntegrationUpsert tests that inserting the same input twice replaces the row
func TestSQLiteIntegrationUpsert(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	first := store.SavedRule{
		ID: "01A", Input: "daily", Normalized: "daily",
		Rule:      rule.Rule{Freq: rule.Daily, Interval: 1, Confidence: 1},
		CreatedAt: time.Now().UTC(),
	}
	if err := st.UpsertRule(ctx, first); err != nil {
		t.Fatalf("UpsertRule: %v", err)
	}

	second := first
	second.ID = "01B"
	second.Rule.Interval = 2
	if err := st.UpsertRule(ctx, second); err != nil {
		t.Fatalf("UpsertRule: %v", err)
	}

	retrieved, found, err := st.GetRuleByInput(ctx, "daily")
	if err != nil || !found {
		t.Fatalf("GetRuleByInput: %v found=%v", err, found)
	}
	if retrieved.ID != "01B" || retrieved.Rule.Interval != 2 {
		t.Errorf("Upsert did not replace: %+v", retrieved)
	}

	rules, err := st.ListRules(ctx, 0)
	if err != nil {
		t.Fatalf("ListRules: %v", err)
	}
	if len(rules) != 1 {
		t.Errorf("Expected 1 rule after upsert, got %d", len(rules))
	}
}

// TestSQLiteIntegrationList tests ordering and limit
func TestSQLiteIntegrationList(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	base := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	for i, input := range []string{"daily", "weekly", "monthly"} {
		saved := store.SavedRule{
			ID:         fmt.Sprintf("01%c", 'A'+i),
			Input:      input,
			Normalized: input,
			Rule:       rule.Rule{Interval: 1, Confidence: 1},
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
		}
		if err := st.UpsertRule(ctx, saved); err != nil {
			t.Fatalf("UpsertRule: %v", err)
		}
	}

	rules, err := st.ListRules(ctx, 0)
	if err != nil {
		t.Fatalf("ListRules: %v", err)
	}
	if len(rules) != 3 {
		t.Fatalf("Expected 3 rules, got %d", len(rules))
	}
	if rules[0].Input != "monthly" || rules[2].Input != "daily" {
		t.Errorf("Order: %q, %q, %q", rules[0].Input, rules[1].Input, rules[2].Input)
	}

	limited, err := st.ListRules(ctx, 2)
	if err != nil {
		t.Fatalf("ListRules: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("Expected 2 rules, got %d", len(limited))
	}
}

// TestSQLiteIntegrationDelete tests deletion and not-found behavior
func TestSQLiteIntegrationDelete(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	saved := store.SavedRule{
		ID: "01A", Input: "daily", Normalized: "daily",
		Rule:      rule.Rule{Freq: rule.Daily, Interval: 1, Confidence: 1},
		CreatedAt: time.Now().UTC(),
	}
	if err := st.UpsertRule(ctx, saved); err != nil {
		t.Fatalf("UpsertRule: %v", err)
	}

	if err := st.DeleteRule(ctx, "01A"); err != nil {
		t.Fatalf("DeleteRule: %v", err)
	}
	if _, err := st.GetRule(ctx, "01A"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("GetRule after delete = %v, want ErrNotFound", err)
	}
	if _, found, err := st.GetRuleByInput(ctx, "daily"); err != nil || found {
		t.Errorf("GetRuleByInput after delete: found=%v err=%v", found, err)
	}

	// Deleting a missing id is a no-op.
	if err := st.DeleteRule(ctx, "absent"); err != nil {
		t.Errorf("DeleteRule(absent): %v", err)
	}
}

// TestSQLiteIntegrationPersistence tests that data survives reopening
func TestSQLiteIntegrationPersistence(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "persist.db")

	st, err := Open(ctx, dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	saved := store.SavedRule{
		ID: "01A", Input: "every friday", Normalized: "every friday",
		Rule: rule.Rule{
			Freq: rule.Weekly, Interval: 1,
			ByWeekday:  []rule.Weekday{rule.Friday},
			Confidence: 1,
		},
		CreatedAt: time.Now().UTC(),
	}
	if err := st.UpsertRule(ctx, saved); err != nil {
		t.Fatalf("UpsertRule: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	st, err = Open(ctx, dbPath)
	if err != nil {
		t.Fatalf("Reopen: %v", err)
	}
	defer st.Close()

	retrieved, err := st.GetRule(ctx, "01A")
	if err != nil {
		t.Fatalf("GetRule after reopen: %v", err)
	}
	if len(retrieved.Rule.ByWeekday) != 1 || retrieved.Rule.ByWeekday[0] != rule.Friday {
		t.Errorf("ByWeekday after reopen: %v", retrieved.Rule.ByWeekday)
	}
}
