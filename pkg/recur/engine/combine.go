package engine

import (
	"fmt"
	"strings"

	"github.com/chronotext/recur/pkg/recur/internalerr"
	"github.com/chronotext/recur/pkg/recur/rule"
)

// ConflictPolicy selects how a later frequency fact interacts with an
// earlier explicit one.
type ConflictPolicy int

const (
	// FirstWins keeps the first explicitly set frequency; later facts may
	// only fill an unset field.
	FirstWins ConflictPolicy = iota
	// MostSpecificWins lets a day-of-month or day-of-week implied
	// frequency replace one set by a bare frequency word, under the idea
	// that the more specific pattern knows better.
	MostSpecificWins
)

// ParseConflictPolicy maps a configuration string to a policy.
func ParseConflictPolicy(s string) (ConflictPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "first-wins":
		return FirstWins, nil
	case "most-specific":
		return MostSpecificWins, nil
	}
	return FirstWins, fmt.Errorf("%w: conflict policy %q", internalerr.ErrInvalidConfig, s)
}

// freqState tracks how the working descriptor's frequency was set.
type freqState int

const (
	freqUnset freqState = iota
	freqImplied
	freqExplicit
)

// Combiner merges clause results into a single descriptor under the
// documented per-field conflict rules.
type Combiner struct {
	policy ConflictPolicy
}

// NewCombiner creates a combiner with the given frequency conflict policy.
func NewCombiner(policy ConflictPolicy) *Combiner {
	return &Combiner{policy: policy}
}

// Combine replays all matches against a fresh descriptor in (clause,
// recognizer-priority) order. Weekday, month-day and set-position facts
// union; frequency and interval follow first-explicit-wins with
// upgrade-if-unset; a second distinct until date is dropped with a
// warning. Confidence is the minimum across contributors. The second
// return value is false when no recognizer matched anywhere; the returned
// descriptor then carries only the accumulated warnings.
func (c *Combiner) Combine(results []ClauseResult) (rule.Rule, bool) {
	r := rule.Rule{Confidence: 1}
	var (
		matched     bool
		fstate      freqState
		freqSetter  string
		intervalSet bool
	)

	for _, res := range results {
		r.Warnings = append(r.Warnings, res.Warnings...)

		for _, m := range res.Matches {
			matched = true
			r.MatchedPatterns = append(r.MatchedPatterns, m.Handler)
			r.Warnings = append(r.Warnings, m.Warnings...)
			if m.Confidence < r.Confidence {
				r.Confidence = m.Confidence
			}

			c.applyFrequency(&r, m, &fstate, &freqSetter)
			c.applyInterval(&r, m, &intervalSet)

			r.AddWeekdays(m.Facts.Weekdays...)
			r.AddMonthDays(m.Facts.MonthDays...)
			r.AddSetPos(m.Facts.SetPos...)

			c.applyUntil(&r, m)
		}
	}

	if !matched {
		return rule.Rule{Warnings: r.Warnings}, false
	}
	return r, true
}

func (c *Combiner) applyFrequency(r *rule.Rule, m HandlerMatch, fstate *freqState, freqSetter *string) {
	f := m.Facts
	if f.Freq == rule.FreqUnset {
		return
	}

	if f.FreqImplied {
		switch *fstate {
		case freqUnset:
			r.Freq = f.Freq
			*fstate = freqImplied
			*freqSetter = m.Handler
		case freqExplicit:
			// Under MostSpecificWins a day pattern's implied frequency
			// outranks a bare frequency word, but never an interval form.
			if c.policy == MostSpecificWins && *freqSetter == "frequency" && r.Freq != f.Freq {
				r.Warnings = append(r.Warnings,
					fmt.Sprintf("frequency %s replaced by %s from more specific pattern %s",
						r.Freq, f.Freq, m.Handler))
				r.Freq = f.Freq
				*freqSetter = m.Handler
			}
		}
		return
	}

	// Explicit frequency.
	switch *fstate {
	case freqUnset:
		r.Freq = f.Freq
		*fstate = freqExplicit
		*freqSetter = m.Handler
	case freqImplied:
		if r.Freq != f.Freq {
			r.Warnings = append(r.Warnings,
				fmt.Sprintf("implied frequency %s replaced by explicit %s", r.Freq, f.Freq))
		}
		r.Freq = f.Freq
		*fstate = freqExplicit
		*freqSetter = m.Handler
	case freqExplicit:
		if r.Freq != f.Freq {
			r.Warnings = append(r.Warnings,
				fmt.Sprintf("conflicting frequency %s ignored; keeping %s", f.Freq, r.Freq))
		}
	}
}

func (c *Combiner) applyInterval(r *rule.Rule, m HandlerMatch, intervalSet *bool) {
	f := m.Facts
	if f.Interval <= 0 {
		return
	}
	if !*intervalSet {
		r.Interval = f.Interval
		*intervalSet = true
		return
	}
	if r.Interval != f.Interval {
		r.Warnings = append(r.Warnings,
			fmt.Sprintf("conflicting interval %d ignored; keeping %d", f.Interval, r.Interval))
	}
}

func (c *Combiner) applyUntil(r *rule.Rule, m HandlerMatch) {
	f := m.Facts
	if f.Until == nil {
		return
	}
	if r.Until == nil {
		until := *f.Until
		r.Until = &until
		return
	}
	if !r.Until.Equal(*f.Until) {
		r.Warnings = append(r.Warnings,
			fmt.Sprintf("ambiguous end condition: %s ignored; keeping %s",
				f.Until.Format("2006-01-02"), r.Until.Format("2006-01-02")))
	}
}
