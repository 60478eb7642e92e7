// Package recognize holds the pattern recognizers: independent, pure
// functions that each extract one category of recurrence fact from a
// tagged clause, plus the priority-ordered registry they are served from.
package recognize

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/chronotext/recur/pkg/recur/internalerr"
	"github.com/chronotext/recur/pkg/recur/rule"
	"github.com/chronotext/recur/pkg/recur/tag"
)

// Env carries per-run inputs shared by all recognizers. Recognizers stay
// pure; anything run-scoped travels here.
type Env struct {
	// Anchor resolves relative date phrases ("next month"). Zero means now.
	Anchor time.Time
}

// Facts is the typed payload of a match: the fields a recognizer wants to
// contribute. Unset fields stay at their zero values. Only the combiner
// ever applies facts to a descriptor, so matches remain immutable and the
// merge is replayable.
type Facts struct {
	Freq rule.Frequency
	// FreqImplied marks a frequency derived from context (a weekday
	// implies weekly) rather than stated explicitly. Implied frequencies
	// only ever fill an unset field.
	FreqImplied bool
	Interval    int
	Weekdays    []rule.Weekday
	MonthDays   []int
	SetPos      []int
	Until       *time.Time
}

// Match is the unit of recognizer output.
type Match struct {
	Category   string
	Source     string
	Confidence float64
	Warnings   []string
	Facts      Facts
}

// Func inspects a tagged clause and returns a match, nil for no match, or
// an error for a collaborator failure the caller should surface as a
// warning.
type Func func(doc *tag.Document, env Env) (*Match, error)

// Handler is the static registration record for one recognizer. Higher
// priority runs (and is trusted) first within a clause.
type Handler struct {
	Name        string
	Category    string
	Description string
	Priority    int
	Recognize   Func
}

// Registry is an immutable, priority-ordered set of handlers. Built once
// at startup and shared read-only across runs.
type Registry struct {
	handlers []Handler
}

// NewRegistry creates a registry, ordering handlers by descending
// priority (stable for equal priorities).
func NewRegistry(handlers ...Handler) *Registry {
	hs := make([]Handler, len(handlers))
	copy(hs, handlers)
	sort.SliceStable(hs, func(i, j int) bool { return hs[i].Priority > hs[j].Priority })
	return &Registry{handlers: hs}
}

// Default creates the standard registry with all five recognizers. The
// until recognizer delegates date phrases to the given resolver.
func Default(resolver Resolver) *Registry {
	return NewRegistry(
		IntervalHandler(),
		FrequencyHandler(),
		DayOfMonthHandler(),
		DayOfWeekHandler(),
		UntilHandler(resolver),
	)
}

// Handlers returns all handlers in priority order.
func (r *Registry) Handlers() []Handler {
	return r.handlers
}

// Filter returns the handlers whose category survives the enabled and
// disabled lists. An empty enabled list means all categories. Unknown
// category names are a configuration error.
func (r *Registry) Filter(enabled, disabled []string) ([]Handler, error) {
	known := make(map[string]struct{})
	for _, c := range rule.Categories() {
		known[c] = struct{}{}
	}
	check := func(names []string) (map[string]struct{}, error) {
		set := make(map[string]struct{}, len(names))
		for _, n := range names {
			n = strings.ToLower(strings.TrimSpace(n))
			if _, ok := known[n]; !ok {
				return nil, fmt.Errorf("%w: %q", internalerr.ErrUnknownCategory, n)
			}
			set[n] = struct{}{}
		}
		return set, nil
	}

	enabledSet, err := check(enabled)
	if err != nil {
		return nil, err
	}
	disabledSet, err := check(disabled)
	if err != nil {
		return nil, err
	}

	var out []Handler
	for _, h := range r.handlers {
		if len(enabledSet) > 0 {
			if _, ok := enabledSet[h.Category]; !ok {
				continue
			}
		}
		if _, ok := disabledSet[h.Category]; ok {
			continue
		}
		out = append(out, h)
	}
	return out, nil
}

var pluralDays = map[string]string{
	"mondays": "monday", "tuesdays": "tuesday", "wednesdays": "wednesday",
	"thursdays": "thursday", "fridays": "friday", "saturdays": "saturday",
	"sundays": "sunday",
}

// NormalizeDayNames rewrites pluralized day names to their recurring
// form: "mondays" becomes "every monday" and "every mondays" collapses to
// "every monday". A doubled "every every" is never produced.
func NormalizeDayNames(text string) string {
	fields := strings.Fields(text)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f == "every" && len(out) > 0 && out[len(out)-1] == "every" {
			continue
		}
		singular, plural := pluralDays[f]
		if !plural {
			out = append(out, f)
			continue
		}
		// "every other mondays" keeps its existing marker; a bare plural
		// gains one.
		if len(out) == 0 || (out[len(out)-1] != "every" && out[len(out)-1] != "other") {
			out = append(out, "every")
		}
		out = append(out, singular)
	}
	return strings.Join(out, " ")
}
