package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/chronotext/recur/pkg/recur/internalerr"
	"github.com/chronotext/recur/pkg/recur/rule"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default config invalid: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recur.yaml")
	doc := `
correct_misspellings: false
synonyms:
  - canonical: every
    variants: [per, per each]
protected_phrases:
  - first and last
disabled_categories:
  - until
conflict_policy: most-specific
defaults:
  frequency: weekly
  interval: 2
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.CorrectMisspellings {
		t.Error("correct_misspellings should be off")
	}
	// Fields absent from the file keep their Default() values.
	if cfg.CorrectionThreshold != 0.85 {
		t.Errorf("CorrectionThreshold = %v, want default 0.85", cfg.CorrectionThreshold)
	}
	if len(cfg.Synonyms) != 1 || cfg.Synonyms[0].Canonical != "every" {
		t.Errorf("Synonyms = %v", cfg.Synonyms)
	}
	if cfg.ConflictPolicy != "most-specific" {
		t.Errorf("ConflictPolicy = %q", cfg.ConflictPolicy)
	}
	if cfg.Defaults.Frequency != "weekly" || cfg.Defaults.Interval != 2 {
		t.Errorf("Defaults = %+v", cfg.Defaults)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Loaded config invalid: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("Expected an error for a missing file")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("synonyms: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Expected a parse error")
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want error
	}{
		{
			"unknown enabled category",
			Config{EnabledCategories: []string{"no-such"}},
			internalerr.ErrUnknownCategory,
		},
		{
			"unknown disabled category",
			Config{DisabledCategories: []string{"bogus"}},
			internalerr.ErrUnknownCategory,
		},
		{
			"threshold out of range",
			Config{CorrectionThreshold: 1.5},
			internalerr.ErrInvalidConfig,
		},
		{
			"empty protected phrase",
			Config{ProtectedPhrases: []string{"  "}},
			internalerr.ErrInvalidConfig,
		},
		{
			"reserved character in protected phrase",
			Config{ProtectedPhrases: []string{"bad\x00phrase"}},
			internalerr.ErrInvalidConfig,
		},
		{
			"unparseable default frequency",
			Config{Defaults: Defaults{Frequency: "sometimes"}},
			internalerr.ErrInvalidConfig,
		},
		{
			"negative default interval",
			Config{Defaults: Defaults{Interval: -1}},
			internalerr.ErrInvalidConfig,
		},
		{
			"unknown conflict policy",
			Config{ConflictPolicy: "loudest"},
			internalerr.ErrInvalidConfig,
		},
	}
	for _, c := range cases {
		if err := c.cfg.Validate(); !errors.Is(err, c.want) {
			t.Errorf("%s: Validate() = %v, want %v", c.name, err, c.want)
		}
	}
}

func TestValidateAcceptsKnownCategories(t *testing.T) {
	cfg := Config{
		EnabledCategories:  rule.Categories(),
		DisabledCategories: []string{rule.CategoryUntil},
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestSynonymTableMergesOverBase(t *testing.T) {
	base := map[string]string{"each": "every"}
	cfg := Config{Synonyms: []SynonymGroup{
		{Canonical: "every", Variants: []string{"Per", " any "}},
		{Canonical: "", Variants: []string{"ignored"}},
	}}

	table := cfg.SynonymTable(base)
	if table["each"] != "every" {
		t.Error("Base entry lost")
	}
	if table["per"] != "every" || table["any"] != "every" {
		t.Errorf("Variants not lowercased/trimmed: %v", table)
	}
	if _, ok := table["ignored"]; ok {
		t.Error("Group with empty canonical should be skipped")
	}
}

func TestFingerprintDistinguishesConfigs(t *testing.T) {
	a := Default()
	b := Default()
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("Identical configs must share a fingerprint")
	}

	b.ConflictPolicy = "most-specific"
	if a.Fingerprint() == b.Fingerprint() {
		t.Error("Different configs must not share a fingerprint")
	}
}
