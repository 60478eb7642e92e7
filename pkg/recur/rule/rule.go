// Package rule defines the recurrence descriptor model produced by the
// parsing pipeline and consumed by calendar-rule evaluators.
package rule

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Frequency is the base repetition unit of a recurrence.
type Frequency int

// Supported base frequencies. FreqUnset means no frequency has been
// recognized or defaulted yet.
const (
	FreqUnset Frequency = iota
	Daily
	Weekly
	Monthly
	Yearly
)

var freqNames = map[Frequency]string{
	Daily:   "daily",
	Weekly:  "weekly",
	Monthly: "monthly",
	Yearly:  "yearly",
}

// String returns the lowercase name of the frequency, or "" for FreqUnset.
func (f Frequency) String() string {
	return freqNames[f]
}

// ParseFrequency maps a lowercase frequency name to its Frequency value.
func ParseFrequency(s string) (Frequency, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily":
		return Daily, true
	case "weekly":
		return Weekly, true
	case "monthly":
		return Monthly, true
	case "yearly", "annually":
		return Yearly, true
	}
	return FreqUnset, false
}

// MarshalText implements encoding.TextMarshaler.
func (f Frequency) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Frequency) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*f = FreqUnset
		return nil
	}
	parsed, ok := ParseFrequency(string(b))
	if !ok {
		return fmt.Errorf("unknown frequency %q", string(b))
	}
	*f = parsed
	return nil
}

// Weekday identifies a day of the week, Monday through Sunday.
type Weekday int

// Days of the week.
const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// String returns the lowercase English name of the weekday.
func (w Weekday) String() string {
	if w < Monday || w > Sunday {
		return fmt.Sprintf("weekday(%d)", int(w))
	}
	return weekdayNames[w]
}

// ParseWeekday maps a lowercase day name to its Weekday value.
func ParseWeekday(s string) (Weekday, bool) {
	for i, name := range weekdayNames {
		if name == strings.ToLower(strings.TrimSpace(s)) {
			return Weekday(i), true
		}
	}
	return 0, false
}

// MarshalText implements encoding.TextMarshaler.
func (w Weekday) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (w *Weekday) UnmarshalText(b []byte) error {
	parsed, ok := ParseWeekday(string(b))
	if !ok {
		return fmt.Errorf("unknown weekday %q", string(b))
	}
	*w = parsed
	return nil
}

// Recognizer categories. Each recognizer addresses exactly one category;
// configuration enables or disables recognizers by these names.
const (
	CategoryFrequency  = "frequency"
	CategoryInterval   = "interval"
	CategoryDayOfMonth = "day-of-month"
	CategoryDayOfWeek  = "day-of-week"
	CategoryUntil      = "until"
)

// Categories returns all known recognizer category names.
func Categories() []string {
	return []string{
		CategoryFrequency,
		CategoryInterval,
		CategoryDayOfMonth,
		CategoryDayOfWeek,
		CategoryUntil,
	}
}

// Rule is the recurrence descriptor: the structured output describing how
// an event repeats. Fields are either unset or hold a semantically valid
// value; a zero Interval means "unset" until defaults are applied.
type Rule struct {
	Freq       Frequency  `json:"freq,omitempty"`
	Interval   int        `json:"interval,omitempty"`
	ByWeekday  []Weekday  `json:"by_weekday,omitempty"`
	ByMonthDay []int      `json:"by_month_day,omitempty"`
	BySetPos   []int      `json:"by_set_pos,omitempty"`
	Until      *time.Time `json:"until,omitempty"`

	// Provenance: which recognizers contributed, how certain the result
	// is, and any caveats accumulated along the way.
	Confidence      float64  `json:"confidence"`
	MatchedPatterns []string `json:"matched_patterns,omitempty"`
	Warnings        []string `json:"warnings,omitempty"`
}

// Recognized reports whether at least one recognizer contributed to the rule.
func (r Rule) Recognized() bool {
	return len(r.MatchedPatterns) > 0
}

// Clone returns a deep copy, so shared descriptors (cache entries, stored
// rules) are never mutated through a caller's slices.
func (r Rule) Clone() Rule {
	out := r
	out.ByWeekday = append([]Weekday(nil), r.ByWeekday...)
	out.ByMonthDay = append([]int(nil), r.ByMonthDay...)
	out.BySetPos = append([]int(nil), r.BySetPos...)
	out.MatchedPatterns = append([]string(nil), r.MatchedPatterns...)
	out.Warnings = append([]string(nil), r.Warnings...)
	if r.Until != nil {
		until := *r.Until
		out.Until = &until
	}
	return out
}

// AddWeekdays unions days into ByWeekday, deduplicating and keeping the
// set sorted Monday first.
func (r *Rule) AddWeekdays(days ...Weekday) {
	r.ByWeekday = unionWeekdays(r.ByWeekday, days)
}

// AddMonthDays unions days into ByMonthDay, deduplicating and sorting.
func (r *Rule) AddMonthDays(days ...int) {
	r.ByMonthDay = unionInts(r.ByMonthDay, days)
}

// AddSetPos unions positions into BySetPos, deduplicating and sorting.
func (r *Rule) AddSetPos(pos ...int) {
	r.BySetPos = unionInts(r.BySetPos, pos)
}

// ValidMonthDay reports whether d is a legal day-of-month value:
// 1..31 counted from the start, or -1..-31 counted from the end.
func ValidMonthDay(d int) bool {
	return (d >= 1 && d <= 31) || (d >= -31 && d <= -1)
}

func unionWeekdays(existing, add []Weekday) []Weekday {
	seen := make(map[Weekday]struct{}, len(existing)+len(add))
	out := make([]Weekday, 0, len(existing)+len(add))
	for _, d := range existing {
		if _, ok := seen[d]; !ok {
			seen[d] = struct{}{}
			out = append(out, d)
		}
	}
	for _, d := range add {
		if _, ok := seen[d]; !ok {
			seen[d] = struct{}{}
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func unionInts(existing, add []int) []int {
	seen := make(map[int]struct{}, len(existing)+len(add))
	out := make([]int, 0, len(existing)+len(add))
	for _, d := range existing {
		if _, ok := seen[d]; !ok {
			seen[d] = struct{}{}
			out = append(out, d)
		}
	}
	for _, d := range add {
		if _, ok := seen[d]; !ok {
			seen[d] = struct{}{}
			out = append(out, d)
		}
	}
	sort.Ints(out)
	return out
}
