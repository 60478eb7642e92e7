// Package daterange resolves free-text date phrases ("december 31 2022",
// "next month") to calendar dates relative to an anchor date.
package daterange

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrUnresolvable is returned when a phrase cannot be resolved to a date.
var ErrUnresolvable = errors.New("unresolvable date phrase")

// Resolver is the date-phrase resolution capability: phrase plus anchor in,
// calendar date or failure out.
type Resolver interface {
	Resolve(phrase string, anchor time.Time) (time.Time, error)
}

// LiteralResolver is the built-in resolver. It handles literal dates in
// common formats, bare month names, and a small set of relative phrases,
// all resolved against the anchor date.
type LiteralResolver struct{}

// NewResolver returns the built-in resolver.
func NewResolver() *LiteralResolver {
	return &LiteralResolver{}
}

var months = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "jun": time.June, "jul": time.July, "aug": time.August,
	"sep": time.September, "sept": time.September, "oct": time.October,
	"nov": time.November, "dec": time.December,
}

// Compiled phrase patterns, tried in order.
var (
	isoDate      = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	slashDate    = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	monthDayYear = regexp.MustCompile(`^([a-z]+) (\d{1,2})(?:st|nd|rd|th)?,? (\d{4})$`)
	dayMonthYear = regexp.MustCompile(`^(\d{1,2})(?:st|nd|rd|th)? ([a-z]+),? (\d{4})$`)
	monthDay     = regexp.MustCompile(`^([a-z]+) (\d{1,2})(?:st|nd|rd|th)?$`)
	monthOnly    = regexp.MustCompile(`^([a-z]+)$`)
	relative     = regexp.MustCompile(`^next (week|month|year)$`)
	endOf        = regexp.MustCompile(`^end of (?:the )?(month|year)$`)
)

// Resolve maps the phrase to a date. Dates without a year resolve to the
// next occurrence at or after the anchor. Returns ErrUnresolvable (wrapped)
// when no pattern applies.
func (r *LiteralResolver) Resolve(phrase string, anchor time.Time) (time.Time, error) {
	phrase = strings.ToLower(strings.TrimSpace(phrase))
	phrase = strings.Join(strings.Fields(phrase), " ")
	if phrase == "" {
		return time.Time{}, fmt.Errorf("empty phrase: %w", ErrUnresolvable)
	}
	if anchor.IsZero() {
		anchor = time.Now()
	}

	if m := isoDate.FindStringSubmatch(phrase); m != nil {
		return civilDate(atoi(m[1]), time.Month(atoi(m[2])), atoi(m[3]))
	}
	if m := slashDate.FindStringSubmatch(phrase); m != nil {
		// month/day/year
		return civilDate(atoi(m[3]), time.Month(atoi(m[1])), atoi(m[2]))
	}
	if m := monthDayYear.FindStringSubmatch(phrase); m != nil {
		month, ok := months[m[1]]
		if !ok {
			return time.Time{}, fmt.Errorf("unknown month %q: %w", m[1], ErrUnresolvable)
		}
		return civilDate(atoi(m[3]), month, atoi(m[2]))
	}
	if m := dayMonthYear.FindStringSubmatch(phrase); m != nil {
		month, ok := months[m[2]]
		if !ok {
			return time.Time{}, fmt.Errorf("unknown month %q: %w", m[2], ErrUnresolvable)
		}
		return civilDate(atoi(m[3]), month, atoi(m[1]))
	}
	if m := monthDay.FindStringSubmatch(phrase); m != nil {
		if month, ok := months[m[1]]; ok {
			return nextOccurrence(anchor, month, atoi(m[2]))
		}
	}
	if m := monthOnly.FindStringSubmatch(phrase); m != nil {
		if month, ok := months[m[1]]; ok {
			// A bare month resolves to its last day, next occurrence.
			year := anchor.Year()
			if month < anchor.Month() {
				year++
			}
			return time.Date(year, month, lastDay(year, month), 0, 0, 0, 0, time.UTC), nil
		}
	}
	if m := relative.FindStringSubmatch(phrase); m != nil {
		switch m[1] {
		case "week":
			return anchor.AddDate(0, 0, 7), nil
		case "month":
			return anchor.AddDate(0, 1, 0), nil
		case "year":
			return anchor.AddDate(1, 0, 0), nil
		}
	}
	if m := endOf.FindStringSubmatch(phrase); m != nil {
		switch m[1] {
		case "month":
			return time.Date(anchor.Year(), anchor.Month(), lastDay(anchor.Year(), anchor.Month()), 0, 0, 0, 0, time.UTC), nil
		case "year":
			return time.Date(anchor.Year(), time.December, 31, 0, 0, 0, 0, time.UTC), nil
		}
	}

	return time.Time{}, fmt.Errorf("date phrase %q: %w", phrase, ErrUnresolvable)
}

// civilDate validates the components and builds a UTC date.
func civilDate(year int, month time.Month, day int) (time.Time, error) {
	if month < time.January || month > time.December || day < 1 || day > lastDay(year, month) {
		return time.Time{}, fmt.Errorf("invalid date %d-%d-%d: %w", year, month, day, ErrUnresolvable)
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
}

// nextOccurrence resolves month+day to the first matching date at or after
// the anchor.
func nextOccurrence(anchor time.Time, month time.Month, day int) (time.Time, error) {
	year := anchor.Year()
	candidate, err := civilDate(year, month, day)
	if err != nil {
		return time.Time{}, err
	}
	anchorDay := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, time.UTC)
	if candidate.Before(anchorDay) {
		return civilDate(year+1, month, day)
	}
	return candidate, nil
}

func lastDay(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
