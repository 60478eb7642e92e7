package tag

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Entry is one row of the lexical tag table: a phrase (single- or
// multi-word) mapped to a canonical form and the tags it carries.
type Entry struct {
	Phrase    string
	Canonical string
	Tags      []Tag
}

// LexicalTagger is the built-in table-driven tagging engine. Multi-word
// phrases are recognized with greedy longest match; numeric tokens are
// classified as cardinals or ordinals on the fly. It never fails.
type LexicalTagger struct {
	entries map[string]Entry
	maxLen  int
}

var ordinalToken = regexp.MustCompile(`^(\d+)(st|nd|rd|th)$`)

// NewLexicalTagger builds a tagger from the default table plus any extra
// entries. Extra entries override default rows with the same phrase.
func NewLexicalTagger(extra ...Entry) *LexicalTagger {
	t := &LexicalTagger{entries: make(map[string]Entry), maxLen: 1}
	for _, e := range defaultEntries() {
		t.add(e)
	}
	for _, e := range extra {
		t.add(e)
	}
	return t
}

func (t *LexicalTagger) add(e Entry) {
	phrase := strings.ToLower(strings.TrimSpace(e.Phrase))
	if phrase == "" {
		return
	}
	e.Phrase = phrase
	t.entries[phrase] = e
	if n := len(strings.Fields(phrase)); n > t.maxLen {
		t.maxLen = n
	}
}

// Tag tokenizes the text and assigns tags with greedy longest match over
// the table, falling back to number classification.
func (t *LexicalTagger) Tag(text string) (*Document, error) {
	tokens := tokenize(text)
	doc := &Document{Text: text}

	i := 0
	for i < len(tokens) {
		// Longest multi-word phrase first, as in greedy dictionary parsing.
		max := t.maxLen
		if remaining := len(tokens) - i; max > remaining {
			max = remaining
		}
		matched := false
		for n := max; n >= 2; n-- {
			phrase := strings.Join(tokens[i:i+n], " ")
			if e, ok := t.entries[phrase]; ok {
				doc.Terms = append(doc.Terms, Term{Text: phrase, Canonical: e.Canonical, Tags: e.Tags})
				i += n
				matched = true
				break
			}
		}
		if matched {
			continue
		}

		tok := tokens[i]
		if e, ok := t.entries[tok]; ok {
			doc.Terms = append(doc.Terms, Term{Text: tok, Canonical: e.Canonical, Tags: e.Tags})
		} else if m := ordinalToken.FindStringSubmatch(tok); m != nil {
			doc.Terms = append(doc.Terms, Term{Text: tok, Canonical: m[1], Tags: []Tag{OrdinalNumber}})
		} else if isDigits(tok) {
			doc.Terms = append(doc.Terms, Term{Text: tok, Canonical: tok, Tags: []Tag{CardinalNumber}})
		} else {
			doc.Terms = append(doc.Terms, Term{Text: tok, Canonical: tok})
		}
		i++
	}
	return doc, nil
}

// tokenize lowercases and splits on non-word runes, keeping hyphens and
// digits inside tokens.
func tokenize(text string) []string {
	var tokens []string
	var current strings.Builder
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			current.WriteRune(unicode.ToLower(r))
			continue
		}
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func defaultEntries() []Entry {
	var entries []Entry

	days := []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
	for _, d := range days {
		entries = append(entries,
			Entry{Phrase: d, Canonical: d, Tags: []Tag{WeekDay}},
			Entry{Phrase: d + "s", Canonical: d, Tags: []Tag{PluralWeekDay}},
		)
	}

	abbrs := map[string]string{
		"mon": "monday", "tue": "tuesday", "tues": "tuesday",
		"wed": "wednesday", "thu": "thursday", "thur": "thursday",
		"thurs": "thursday", "fri": "friday", "sat": "saturday", "sun": "sunday",
	}
	for abbr, full := range abbrs {
		entries = append(entries, Entry{Phrase: abbr, Canonical: full, Tags: []Tag{WeekDayAbbr}})
	}

	for _, g := range []string{"weekday", "weekdays"} {
		entries = append(entries, Entry{Phrase: g, Canonical: "weekday", Tags: []Tag{DayGroup}})
	}
	for _, g := range []string{"weekend", "weekends"} {
		entries = append(entries, Entry{Phrase: g, Canonical: "weekend", Tags: []Tag{DayGroup}})
	}

	freqs := map[string]string{
		"daily": "daily", "weekly": "weekly", "monthly": "monthly",
		"yearly": "yearly", "annually": "yearly",
		"every": "every", "each": "every",
	}
	for word, canonical := range freqs {
		entries = append(entries, Entry{Phrase: word, Canonical: canonical, Tags: []Tag{Frequency}})
	}

	intervals := map[string]string{
		"biweekly":      "biweekly",
		"fortnightly":   "fortnightly",
		"bimonthly":     "bimonthly",
		"quarterly":     "quarterly",
		"semi-annually": "semi-annually",
		"semiannually":  "semi-annually",
		"semi annually": "semi-annually",
		"every other":   "every other",
	}
	for word, canonical := range intervals {
		entries = append(entries, Entry{Phrase: word, Canonical: canonical, Tags: []Tag{IntervalWord}})
	}

	for _, w := range []string{"until", "till", "til", "through", "thru", "ending"} {
		entries = append(entries, Entry{Phrase: w, Canonical: "until", Tags: []Tag{UntilWord}})
	}

	ordinals := map[string]int{
		"first": 1, "second": 2, "third": 3, "fourth": 4, "fifth": 5,
		"sixth": 6, "seventh": 7, "eighth": 8, "ninth": 9, "tenth": 10,
		"last": -1,
	}
	for word, n := range ordinals {
		entries = append(entries, Entry{Phrase: word, Canonical: strconv.Itoa(n), Tags: []Tag{OrdinalNumber}})
	}

	return entries
}
