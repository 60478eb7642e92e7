package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chronotext/recur/pkg/recur/internalerr"
	"github.com/chronotext/recur/pkg/recur/rule"
	"github.com/chronotext/recur/pkg/recur/store"
)

func saved(id, input string, created time.Time) store.SavedRule {
	return store.SavedRule{
		ID:         id,
		Input:      input,
		Normalized: input,
		Rule:       rule.Rule{Freq: rule.Weekly, Interval: 1, Confidence: 1},
		CreatedAt:  created,
	}
}

func TestUpsertAndGet(t *testing.T) {
	s := New()
	defer s.Close()
	ctx := context.Background()

	r := saved("01A", "every monday", time.Now())
	if err := s.UpsertRule(ctx, r); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetRule(ctx, "01A")
	if err != nil {
		t.Fatal(err)
	}
	if got.Input != "every monday" || got.Rule.Freq != rule.Weekly {
		t.Errorf("GetRule = %+v", got)
	}
}

func TestGetMissing(t *testing.T) {
	s := New()
	if _, err := s.GetRule(context.Background(), "nope"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("GetRule error = %v, want ErrNotFound", err)
	}
}

func TestGetRuleByInput(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.UpsertRule(ctx, saved("01A", "daily", time.Now())); err != nil {
		t.Fatal(err)
	}

	got, ok, err := s.GetRuleByInput(ctx, "daily")
	if err != nil || !ok {
		t.Fatalf("GetRuleByInput = %v, %v, %v", got, ok, err)
	}
	if got.ID != "01A" {
		t.Errorf("ID = %q", got.ID)
	}

	if _, ok, err := s.GetRuleByInput(ctx, "weekly"); err != nil || ok {
		t.Errorf("Expected a clean miss, got ok=%v err=%v", ok, err)
	}
}

func TestUpsertReplacesByInput(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.UpsertRule(ctx, saved("01A", "daily", time.Now())); err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertRule(ctx, saved("01B", "daily", time.Now())); err != nil {
		t.Fatal(err)
	}

	// The old row for the same input is gone.
	if _, err := s.GetRule(ctx, "01A"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("Old row survived: err = %v", err)
	}
	got, ok, err := s.GetRuleByInput(ctx, "daily")
	if err != nil || !ok || got.ID != "01B" {
		t.Errorf("GetRuleByInput = %+v, %v, %v", got, ok, err)
	}
}

func TestListRulesNewestFirst(t *testing.T) {
	s := New()
	ctx := context.Background()
	base := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)

	for i, input := range []string{"daily", "weekly", "monthly"} {
		if err := s.UpsertRule(ctx, saved(string(rune('A'+i)), input, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatal(err)
		}
	}

	rules, err := s.ListRules(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(rules) != 3 {
		t.Fatalf("Expected 3 rules, got %d", len(rules))
	}
	if rules[0].Input != "monthly" || rules[2].Input != "daily" {
		t.Errorf("Order = %q, %q, %q", rules[0].Input, rules[1].Input, rules[2].Input)
	}

	limited, err := s.ListRules(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 || limited[0].Input != "monthly" {
		t.Errorf("Limited list = %v", limited)
	}
}

func TestDeleteRule(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.UpsertRule(ctx, saved("01A", "daily", time.Now())); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteRule(ctx, "01A"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetRule(ctx, "01A"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("GetRule after delete = %v", err)
	}
	if _, ok, _ := s.GetRuleByInput(ctx, "daily"); ok {
		t.Error("Input index entry survived the delete")
	}

	// Deleting a missing id is a no-op.
	if err := s.DeleteRule(ctx, "absent"); err != nil {
		t.Errorf("DeleteRule(absent) = %v", err)
	}
}
