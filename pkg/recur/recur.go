// Package recur turns free-text descriptions of recurring events
// ("every other monday until december") into structured recurrence
// descriptors.
package recur

import (
	"context"
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/chronotext/recur/pkg/recur/clause"
	"github.com/chronotext/recur/pkg/recur/config"
	"github.com/chronotext/recur/pkg/recur/daterange"
	"github.com/chronotext/recur/pkg/recur/engine"
	"github.com/chronotext/recur/pkg/recur/internalerr"
	"github.com/chronotext/recur/pkg/recur/normalize"
	"github.com/chronotext/recur/pkg/recur/recognize"
	"github.com/chronotext/recur/pkg/recur/rule"
	"github.com/chronotext/recur/pkg/recur/store"
	"github.com/chronotext/recur/pkg/recur/tag"
)

// ErrNoMatch is returned by Parse when no recognizer matched any clause.
// The descriptor returned alongside it carries only accumulated warnings.
var ErrNoMatch = internalerr.ErrNoMatch

// DefaultCacheSize bounds the result memoization table.
const DefaultCacheSize = 1024

// Options configures a Parser. Zero-value collaborators select the
// built-in implementations.
type Options struct {
	Config config.Config

	// Tagger overrides the built-in lexical tagger.
	Tagger tag.Tagger
	// Corrector overrides the built-in day/month-name corrector.
	Corrector normalize.Corrector
	// Resolver overrides the built-in date-phrase resolver.
	Resolver recognize.Resolver
	// Registry overrides the default recognizer registry.
	Registry *recognize.Registry

	// Store, when set, backs Save and Recall.
	Store store.Store

	// CacheSize bounds the memoization table; 0 means DefaultCacheSize,
	// negative disables caching.
	CacheSize int
}

// Parser is the parsing pipeline facade. It is safe for concurrent use:
// all per-run state is allocated per call and the registry is read-only.
type Parser struct {
	cfg        config.Config
	normalizer *normalize.Normalizer
	splitter   *clause.Splitter
	processor  *engine.Processor
	combiner   *engine.Combiner
	defaults   engine.Defaults
	store      store.Store

	cacheMu   sync.RWMutex
	cache     map[string]rule.Rule
	cacheMax  int
	cacheBase string // config fingerprint

	entropyMu sync.Mutex
	entropy   *ulid.MonotonicEntropy
}

// Validation is the result of the lightweight validation entry point.
type Validation struct {
	Valid      bool
	Confidence float64
}

// New creates a Parser from the given options. Configuration problems are
// reported here, once, as typed errors; Parse itself never fails on
// malformed input text.
func New(opts Options) (*Parser, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	corrector := opts.Corrector
	if corrector == nil {
		corrector = normalize.NewDictionaryCorrector(
			normalize.DayAndMonthNames(), cfg.CorrectionThreshold)
	}
	normalizer := normalize.New(normalize.Options{
		Synonyms:            cfg.SynonymTable(normalize.DefaultSynonyms()),
		Corrector:           corrector,
		CorrectMisspellings: cfg.CorrectMisspellings,
	})

	splitter := clause.NewSplitter(cfg.ProtectedPhrases...)

	tagger := opts.Tagger
	if tagger == nil {
		tagger = tag.NewLexicalTagger()
	}

	resolver := opts.Resolver
	if resolver == nil {
		resolver = daterange.NewResolver()
	}

	registry := opts.Registry
	if registry == nil {
		registry = recognize.Default(resolver)
	}
	handlers, err := registry.Filter(cfg.EnabledCategories, cfg.DisabledCategories)
	if err != nil {
		return nil, err
	}

	policy, err := engine.ParseConflictPolicy(cfg.ConflictPolicy)
	if err != nil {
		return nil, err
	}

	defaults := engine.Defaults{Interval: cfg.Defaults.Interval}
	if cfg.Defaults.Frequency != "" {
		defaults.Freq, _ = rule.ParseFrequency(cfg.Defaults.Frequency)
	}

	cacheMax := opts.CacheSize
	if cacheMax == 0 {
		cacheMax = DefaultCacheSize
	}

	p := &Parser{
		cfg:        cfg,
		normalizer: normalizer,
		splitter:   splitter,
		processor:  engine.NewProcessor(tagger, handlers),
		combiner:   engine.NewCombiner(policy),
		defaults:   defaults,
		store:      opts.Store,
		cacheMax:   cacheMax,
		cacheBase:  cfg.Fingerprint(),
		entropy:    ulid.Monotonic(rand.Reader, 0),
	}
	if cacheMax > 0 {
		p.cache = make(map[string]rule.Rule, 64)
	}
	return p, nil
}

// Close releases the backing store, if any.
func (p *Parser) Close() error {
	if p.store != nil {
		return p.store.Close()
	}
	return nil
}

// Parse converts text into a recurrence descriptor, resolving relative
// date phrases against the current time. It returns ErrNoMatch when
// nothing was recognized and never fails on malformed input otherwise.
func (p *Parser) Parse(text string) (rule.Rule, error) {
	return p.ParseAt(text, time.Now())
}

// ParseAt is Parse with an explicit anchor date for relative phrases
// ("next month") inside end conditions.
func (p *Parser) ParseAt(text string, anchor time.Time) (rule.Rule, error) {
	normalized := p.normalizer.Normalize(text)

	key := p.cacheKey(normalized, anchor)
	if cached, ok := p.cacheGet(key); ok {
		if !cached.Recognized() {
			return cached, ErrNoMatch
		}
		return cached, nil
	}

	clauses := p.splitter.Split(normalized)
	results := p.processor.Process(clauses, recognize.Env{Anchor: anchor})

	combined, ok := p.combiner.Combine(results)
	if !ok {
		p.cachePut(key, combined)
		return combined, ErrNoMatch
	}

	final := engine.ApplyDefaults(combined, p.defaults)
	p.cachePut(key, final)
	return final, nil
}

// Validate reports whether the text describes a recognizable recurrence
// and how confident the recognition is, without surfacing a descriptor.
func (p *Parser) Validate(text string) Validation {
	r, err := p.Parse(text)
	if err != nil {
		return Validation{}
	}
	return Validation{Valid: true, Confidence: r.Confidence}
}

// Save parses text and persists the result under a fresh ULID. It
// requires a configured store.
func (p *Parser) Save(ctx context.Context, text string) (store.SavedRule, error) {
	if p.store == nil {
		return store.SavedRule{}, fmt.Errorf("%w: no store configured", internalerr.ErrInvalidConfig)
	}
	r, err := p.Parse(text)
	if err != nil {
		return store.SavedRule{}, err
	}

	p.entropyMu.Lock()
	id := ulid.MustNew(ulid.Now(), p.entropy).String()
	p.entropyMu.Unlock()

	saved := store.SavedRule{
		ID:         id,
		Input:      text,
		Normalized: p.normalizer.Normalize(text),
		Rule:       r,
		CreatedAt:  time.Now().UTC(),
	}
	if err := p.store.UpsertRule(ctx, saved); err != nil {
		return store.SavedRule{}, err
	}
	return saved, nil
}

// Recall returns the previously saved rule for the exact input text.
func (p *Parser) Recall(ctx context.Context, text string) (store.SavedRule, bool, error) {
	if p.store == nil {
		return store.SavedRule{}, false, nil
	}
	return p.store.GetRuleByInput(ctx, text)
}

// cacheKey includes the configuration fingerprint and the anchor day so a
// configuration change or a different resolution date never reuses a
// stale entry.
func (p *Parser) cacheKey(normalized string, anchor time.Time) string {
	return p.cacheBase + "\x00" + anchor.UTC().Format("2006-01-02") + "\x00" + normalized
}

func (p *Parser) cacheGet(key string) (rule.Rule, bool) {
	if p.cache == nil {
		return rule.Rule{}, false
	}
	p.cacheMu.RLock()
	defer p.cacheMu.RUnlock()
	r, ok := p.cache[key]
	if !ok {
		return rule.Rule{}, false
	}
	return r.Clone(), true
}

func (p *Parser) cachePut(key string, r rule.Rule) {
	if p.cache == nil {
		return
	}
	p.cacheMu.Lock()
	defer p.cacheMu.Unlock()
	if len(p.cache) >= p.cacheMax {
		return // bounded: stop memoizing rather than evict
	}
	p.cache[key] = r.Clone()
}
