// Package normalize prepares raw recurrence text for clause splitting:
// synonym expansion, optional misspelling correction, lowercasing and
// whitespace collapsing. Normalization is pure and idempotent.
package normalize

import (
	"strings"
	"unicode"
)

// DefaultSynonyms maps frequency quantifiers to their canonical form.
// Replacement is token-level, so word boundaries are always respected.
func DefaultSynonyms() map[string]string {
	return map[string]string{
		"each": "every",
		"all":  "every",
		"any":  "every",
	}
}

// Options configures a Normalizer.
type Options struct {
	// Synonyms maps a variant token to its canonical replacement.
	// Nil means DefaultSynonyms().
	Synonyms map[string]string

	// Corrector, when non-nil and CorrectMisspellings is set, is consulted
	// for tokens of length >= 3 that are not numeric or ordinal.
	Corrector           Corrector
	CorrectMisspellings bool
}

// Normalizer rewrites text into the canonical lowercase form the rest of
// the pipeline expects.
type Normalizer struct {
	synonyms  map[string]string
	corrector Corrector
	correct   bool
}

// New creates a Normalizer from the given options.
func New(opts Options) *Normalizer {
	syn := opts.Synonyms
	if syn == nil {
		syn = DefaultSynonyms()
	}
	lowered := make(map[string]string, len(syn))
	for k, v := range syn {
		lowered[strings.ToLower(k)] = strings.ToLower(v)
	}
	return &Normalizer{
		synonyms:  lowered,
		corrector: opts.Corrector,
		correct:   opts.CorrectMisspellings && opts.Corrector != nil,
	}
}

// Normalize applies, per token: synonym lookup, misspelling correction,
// lowercasing; whitespace is collapsed to single spaces. Punctuation
// attached to a token (e.g. "31,") survives around the rewritten core so
// the clause splitter still sees its separators. Never fails; tokens that
// match nothing pass through unchanged.
func (n *Normalizer) Normalize(text string) string {
	fields := strings.Fields(strings.ToLower(text))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, n.normalizeToken(f))
	}
	return strings.Join(out, " ")
}

func (n *Normalizer) normalizeToken(tok string) string {
	prefix, core, suffix := splitPunct(tok)
	if core == "" {
		return tok
	}
	if canonical, ok := n.synonyms[core]; ok {
		return prefix + canonical + suffix
	}
	if n.correct && len(core) >= 3 && !isNumericOrOrdinal(core) {
		if fixed, ok := n.corrector.Correct(core); ok {
			return prefix + fixed + suffix
		}
	}
	return prefix + core + suffix
}

// splitPunct separates leading/trailing punctuation from the word core.
// Hyphens inside the core are kept ("semi-annually").
func splitPunct(tok string) (prefix, core, suffix string) {
	start := 0
	for start < len(tok) && isPunct(rune(tok[start])) {
		start++
	}
	end := len(tok)
	for end > start && isPunct(rune(tok[end-1])) {
		end--
	}
	return tok[:start], tok[start:end], tok[end:]
}

func isPunct(r rune) bool {
	return unicode.IsPunct(r) && r != '-'
}

// isNumericOrOrdinal reports whether the token is a number ("15") or a
// numeric ordinal ("15th"). Such tokens are never "corrected".
func isNumericOrOrdinal(s string) bool {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return false
	}
	switch s[i:] {
	case "", "st", "nd", "rd", "th":
		return true
	}
	return false
}
