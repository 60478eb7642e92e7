// Package clause segments normalized recurrence text into independently
// parseable clauses at conjunction boundaries, while protecting fixed
// idioms from being split apart.
package clause

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Clause is one segment of the input after conjunction splitting.
type Clause struct {
	Text  string
	Index int
}

// DefaultProtectedPhrases are idioms that must survive splitting intact
// even though they contain a conjunction.
func DefaultProtectedPhrases() []string {
	return []string{
		"first and last day of the month",
		"first and last day of month",
		"first and last",
	}
}

// Splitter splits text on " and " and comma boundaries. Protected phrases
// are swapped for opaque placeholders before splitting and restored
// verbatim afterwards, so a registered idiom always lands whole inside a
// single clause.
type Splitter struct {
	protected []string
}

// dateComma matches a comma that separates a day number from a year
// ("december 31, 2022"). Such commas are part of a date expression, not
// clause boundaries.
var dateComma = regexp.MustCompile(`(\d)\s*,\s+(\d{4})\b`)

const placeholderFmt = "\x00p%d\x00"

// NewSplitter creates a Splitter protecting the given phrases in addition
// to DefaultProtectedPhrases. Longer phrases are matched first.
func NewSplitter(extra ...string) *Splitter {
	phrases := append(DefaultProtectedPhrases(), extra...)
	for i, p := range phrases {
		phrases[i] = strings.ToLower(strings.TrimSpace(p))
	}
	sort.SliceStable(phrases, func(i, j int) bool {
		return len(phrases[i]) > len(phrases[j])
	})
	return &Splitter{protected: phrases}
}

// Split segments text into ordered clauses. Empty segments and dangling
// conjunctions are discarded; text with no conjunction yields a single
// clause. Splitting is deterministic.
func (s *Splitter) Split(text string) []Clause {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	// Shield date-internal commas and protected idioms before splitting.
	text = dateComma.ReplaceAllString(text, "$1 $2")
	masked, restore := s.mask(text)

	segments := splitConjunctions(masked)

	clauses := make([]Clause, 0, len(segments))
	for _, seg := range segments {
		seg = restorePlaceholders(seg, restore)
		seg = trimConjunctions(seg)
		if seg == "" {
			continue
		}
		clauses = append(clauses, Clause{Text: seg, Index: len(clauses)})
	}
	return clauses
}

// trimConjunctions strips separators and dangling conjunction words left
// at segment edges ("and monday", "monday and").
func trimConjunctions(seg string) string {
	seg = strings.Trim(seg, " ,")
	for {
		switch {
		case seg == "and":
			return ""
		case strings.HasPrefix(seg, "and "):
			seg = strings.Trim(seg[len("and "):], " ,")
		case strings.HasSuffix(seg, " and"):
			seg = strings.Trim(seg[:len(seg)-len(" and")], " ,")
		default:
			return seg
		}
	}
}

// mask replaces each protected phrase occurrence with a placeholder and
// returns the substitution table for restore.
func (s *Splitter) mask(text string) (string, map[string]string) {
	restore := make(map[string]string)
	for _, phrase := range s.protected {
		for strings.Contains(text, phrase) {
			ph := fmt.Sprintf(placeholderFmt, len(restore))
			restore[ph] = phrase
			text = strings.Replace(text, phrase, ph, 1)
		}
	}
	return text, restore
}

func restorePlaceholders(seg string, restore map[string]string) string {
	for ph, phrase := range restore {
		seg = strings.ReplaceAll(seg, ph, phrase)
	}
	return seg
}

// splitConjunctions splits on " and " and on commas (with or without a
// trailing space), scanning left to right.
func splitConjunctions(text string) []string {
	var segments []string
	for {
		andIdx := strings.Index(text, " and ")
		commaIdx := strings.Index(text, ",")

		cut, width := -1, 0
		if andIdx >= 0 {
			cut, width = andIdx, len(" and ")
		}
		if commaIdx >= 0 && (cut < 0 || commaIdx < cut) {
			cut, width = commaIdx, 1
		}
		if cut < 0 {
			segments = append(segments, text)
			return segments
		}
		segments = append(segments, text[:cut])
		text = text[cut+width:]
	}
}
