package recognize

import (
	"strconv"

	"github.com/chronotext/recur/pkg/recur/rule"
	"github.com/chronotext/recur/pkg/recur/tag"
)

// namedIntervals maps special interval words to their frequency/interval
// expansion.
var namedIntervals = map[string]Facts{
	"biweekly":      {Freq: rule.Weekly, Interval: 2},
	"fortnightly":   {Freq: rule.Weekly, Interval: 2},
	"bimonthly":     {Freq: rule.Monthly, Interval: 2},
	"quarterly":     {Freq: rule.Monthly, Interval: 3},
	"semi-annually": {Freq: rule.Monthly, Interval: 6},
}

// IntervalHandler recognizes named intervals ("biweekly"), numeric
// intervals ("every 2 weeks", "every 3rd week") and "every other <unit>".
// The unit word always also fixes the base frequency. Matchers are tried
// in that order; the first success wins.
func IntervalHandler() Handler {
	return Handler{
		Name:        "interval",
		Category:    rule.CategoryInterval,
		Description: "named, numeric and every-other interval forms",
		Priority:    90,
		Recognize:   recognizeInterval,
	}
}

func recognizeInterval(doc *tag.Document, _ Env) (*Match, error) {
	if m := matchNamedInterval(doc); m != nil {
		return m, nil
	}
	if m := matchNumericInterval(doc); m != nil {
		return m, nil
	}
	return matchEveryOther(doc), nil
}

func matchNamedInterval(doc *tag.Document) *Match {
	for _, t := range doc.TermsWithTag(tag.IntervalWord) {
		facts, ok := namedIntervals[t.Canonical]
		if !ok {
			continue
		}
		return &Match{
			Category:   rule.CategoryInterval,
			Source:     t.Text,
			Confidence: 1.0,
			Facts:      facts,
		}
	}
	return nil
}

// matchNumericInterval matches "every <N> <unit>(s)" where N is a cardinal
// or an ordinal ("every 3rd week"). Non-positive N never matches.
func matchNumericInterval(doc *tag.Document) *Match {
	for i, t := range doc.Terms {
		if t.Canonical != "every" {
			continue
		}
		num, ok := doc.At(i + 1)
		if !ok || !(num.HasTag(tag.CardinalNumber) || num.HasTag(tag.OrdinalNumber)) {
			continue
		}
		unit, ok := doc.At(i + 2)
		if !ok {
			continue
		}
		freq, ok := unitFrequencies[unit.Canonical]
		if !ok {
			continue
		}
		n, err := strconv.Atoi(num.Canonical)
		if err != nil || n <= 0 {
			continue
		}
		return &Match{
			Category:   rule.CategoryInterval,
			Source:     t.Text + " " + num.Text + " " + unit.Text,
			Confidence: 1.0,
			Facts:      Facts{Freq: freq, Interval: n},
		}
	}
	return nil
}

// matchEveryOther matches "every other <unit>" as interval 2. When the
// word after "every other" is a weekday or a day group instead of a unit
// word, the base frequency is weekly and the day itself is left to the
// day-of-week recognizer.
func matchEveryOther(doc *tag.Document) *Match {
	for i, t := range doc.Terms {
		if !t.HasTag(tag.IntervalWord) || t.Canonical != "every other" {
			continue
		}
		next, ok := doc.At(i + 1)
		if !ok {
			continue
		}
		if freq, isUnit := unitFrequencies[next.Canonical]; isUnit {
			return &Match{
				Category:   rule.CategoryInterval,
				Source:     t.Text + " " + next.Text,
				Confidence: 1.0,
				Facts:      Facts{Freq: freq, Interval: 2},
			}
		}
		if next.HasTag(tag.WeekDay) || next.HasTag(tag.WeekDayAbbr) ||
			next.HasTag(tag.PluralWeekDay) || next.HasTag(tag.DayGroup) {
			return &Match{
				Category:   rule.CategoryInterval,
				Source:     t.Text + " " + next.Text,
				Confidence: 1.0,
				Facts:      Facts{Freq: rule.Weekly, Interval: 2},
			}
		}
	}
	return nil
}
