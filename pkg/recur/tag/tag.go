// Package tag defines the tagging capability the recognizers depend on:
// turning clause text into a document of tagged terms that supports
// tag queries and case-insensitive literal matching.
package tag

import "strings"

// Tag is a semantic label assigned to a term.
type Tag string

// The minimal tag set recognizers rely on. Any tagging engine placed
// behind the Tagger interface must support these.
const (
	WeekDay        Tag = "weekday"
	PluralWeekDay  Tag = "plural-weekday" // recurring, not "multiple instances"
	WeekDayAbbr    Tag = "weekday-abbr"
	DayGroup       Tag = "day-group" // weekday/weekend
	Frequency      Tag = "frequency"
	IntervalWord   Tag = "interval-word"
	UntilWord      Tag = "until-word"
	OrdinalNumber  Tag = "ordinal-number"
	CardinalNumber Tag = "cardinal-number"
)

// Term is one tagged unit of a document. Multi-word entries ("every
// other") occupy a single term. Canonical carries the normalized value of
// the term: the singular day name, the numeral string of an ordinal, the
// canonical spelling of an interval word.
type Term struct {
	Text      string
	Canonical string
	Tags      []Tag
}

// HasTag reports whether the term carries the given tag.
func (t Term) HasTag(tag Tag) bool {
	for _, tg := range t.Tags {
		if tg == tag {
			return true
		}
	}
	return false
}

// Document is a tagged clause: the original text plus its terms in order.
type Document struct {
	Text  string
	Terms []Term
}

// Tagger is the external-tagger capability. Implementations may fail;
// the orchestrator converts failures into per-clause warnings.
type Tagger interface {
	Tag(text string) (*Document, error)
}

// HasTag reports whether any term carries the tag.
func (d *Document) HasTag(tag Tag) bool {
	for _, t := range d.Terms {
		if t.HasTag(tag) {
			return true
		}
	}
	return false
}

// FirstTag returns the index of the first term carrying the tag, or -1.
func (d *Document) FirstTag(tag Tag) int {
	for i, t := range d.Terms {
		if t.HasTag(tag) {
			return i
		}
	}
	return -1
}

// TermsWithTag returns all terms carrying the tag, in document order.
func (d *Document) TermsWithTag(tag Tag) []Term {
	var out []Term
	for _, t := range d.Terms {
		if t.HasTag(tag) {
			out = append(out, t)
		}
	}
	return out
}

// HasLiteral reports whether some term's text or canonical form equals the
// word, case-insensitively.
func (d *Document) HasLiteral(word string) bool {
	word = strings.ToLower(word)
	for _, t := range d.Terms {
		if strings.ToLower(t.Text) == word || strings.ToLower(t.Canonical) == word {
			return true
		}
	}
	return false
}

// At returns the term at index i, or a zero Term when out of range.
func (d *Document) At(i int) (Term, bool) {
	if i < 0 || i >= len(d.Terms) {
		return Term{}, false
	}
	return d.Terms[i], true
}

// LiteralAt reports whether the term at index i equals one of the words,
// case-insensitively, comparing both text and canonical form.
func (d *Document) LiteralAt(i int, words ...string) bool {
	t, ok := d.At(i)
	if !ok {
		return false
	}
	for _, w := range words {
		w = strings.ToLower(w)
		if strings.ToLower(t.Text) == w || strings.ToLower(t.Canonical) == w {
			return true
		}
	}
	return false
}

// TextAfter joins the text of the terms after index i. Recognizers use it
// to hand trailing sub-phrases (a date expression after "until") to
// external resolvers.
func (d *Document) TextAfter(i int) string {
	if i+1 >= len(d.Terms) {
		return ""
	}
	parts := make([]string, 0, len(d.Terms)-i-1)
	for _, t := range d.Terms[i+1:] {
		parts = append(parts, t.Text)
	}
	return strings.Join(parts, " ")
}
