// Package config holds the serializable pipeline configuration and the
// loader that reads it from YAML files.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/chronotext/recur/pkg/recur/internalerr"
	"github.com/chronotext/recur/pkg/recur/rule"
)

// SynonymGroup maps variant spellings to one canonical token.
type SynonymGroup struct {
	Canonical string   `yaml:"canonical"`
	Variants  []string `yaml:"variants"`
}

// Defaults are field values applied only when combination left the field
// unset.
type Defaults struct {
	Frequency string `yaml:"frequency"`
	Interval  int    `yaml:"interval"`
}

// Config enumerates every tunable of the parser. The zero value plus
// Default() gives a fully working pipeline.
type Config struct {
	CorrectMisspellings bool    `yaml:"correct_misspellings"`
	CorrectionThreshold float64 `yaml:"correction_threshold"`

	Synonyms         []SynonymGroup `yaml:"synonyms"`
	ProtectedPhrases []string       `yaml:"protected_phrases"`

	EnabledCategories  []string `yaml:"enabled_categories"`
	DisabledCategories []string `yaml:"disabled_categories"`

	// ConflictPolicy is "first-wins" (default) or "most-specific".
	ConflictPolicy string `yaml:"conflict_policy"`

	Defaults Defaults `yaml:"defaults"`
}

// Default returns the stock configuration: misspelling correction on at
// the standard threshold, no extra synonyms or protected phrases, all
// recognizer categories enabled.
func Default() Config {
	return Config{
		CorrectMisspellings: true,
		CorrectionThreshold: 0.85,
	}
}

// Load reads a YAML configuration file. Fields not present keep their
// zero values; callers usually start from Default() semantics by leaving
// the file sparse.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate reports configuration errors: unknown category names, a
// threshold outside [0,1], malformed protected phrases, an unparseable
// default frequency or conflict policy. Validation happens once at
// pipeline construction; per-input text never produces these errors.
func (c Config) Validate() error {
	known := make(map[string]struct{})
	for _, cat := range rule.Categories() {
		known[cat] = struct{}{}
	}
	for _, name := range append(append([]string{}, c.EnabledCategories...), c.DisabledCategories...) {
		if _, ok := known[strings.ToLower(strings.TrimSpace(name))]; !ok {
			return fmt.Errorf("%w: %q", internalerr.ErrUnknownCategory, name)
		}
	}

	if c.CorrectionThreshold < 0 || c.CorrectionThreshold > 1 {
		return fmt.Errorf("%w: correction threshold %v outside [0,1]",
			internalerr.ErrInvalidConfig, c.CorrectionThreshold)
	}

	for _, p := range c.ProtectedPhrases {
		trimmed := strings.TrimSpace(p)
		if trimmed == "" {
			return fmt.Errorf("%w: empty protected phrase", internalerr.ErrInvalidConfig)
		}
		if strings.ContainsRune(trimmed, '\x00') {
			return fmt.Errorf("%w: protected phrase %q contains a reserved character",
				internalerr.ErrInvalidConfig, p)
		}
	}

	if c.Defaults.Frequency != "" {
		if _, ok := rule.ParseFrequency(c.Defaults.Frequency); !ok {
			return fmt.Errorf("%w: default frequency %q",
				internalerr.ErrInvalidConfig, c.Defaults.Frequency)
		}
	}
	if c.Defaults.Interval < 0 {
		return fmt.Errorf("%w: default interval %d",
			internalerr.ErrInvalidConfig, c.Defaults.Interval)
	}

	switch strings.ToLower(strings.TrimSpace(c.ConflictPolicy)) {
	case "", "first-wins", "most-specific":
	default:
		return fmt.Errorf("%w: conflict policy %q", internalerr.ErrInvalidConfig, c.ConflictPolicy)
	}

	return nil
}

// SynonymTable flattens the synonym groups into a variant-to-canonical
// map, merged over the given base table.
func (c Config) SynonymTable(base map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(c.Synonyms))
	for k, v := range base {
		out[k] = v
	}
	for _, g := range c.Synonyms {
		canonical := strings.ToLower(strings.TrimSpace(g.Canonical))
		if canonical == "" {
			continue
		}
		for _, v := range g.Variants {
			out[strings.ToLower(strings.TrimSpace(v))] = canonical
		}
	}
	return out
}

// Fingerprint returns a stable hash of this configuration, used to key
// cached results so different configurations never share entries.
func (c Config) Fingerprint() string {
	data, err := yaml.Marshal(c)
	if err != nil {
		// Marshalling a plain struct cannot fail; keep the signature tidy.
		return "unfingerprintable"
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}
