package recognize

import (
	"github.com/chronotext/recur/pkg/recur/rule"
	"github.com/chronotext/recur/pkg/recur/tag"
)

// unitFrequencies maps a unit word to the base frequency it implies.
var unitFrequencies = map[string]rule.Frequency{
	"day": rule.Daily, "days": rule.Daily,
	"week": rule.Weekly, "weeks": rule.Weekly,
	"month": rule.Monthly, "months": rule.Monthly,
	"year": rule.Yearly, "years": rule.Yearly,
}

// FrequencyHandler recognizes bare frequency words ("daily") and
// "every <unit>" forms. Exact lexical matches only; misspellings are the
// normalizer's problem, so confidence is always 1.0.
func FrequencyHandler() Handler {
	return Handler{
		Name:        "frequency",
		Category:    rule.CategoryFrequency,
		Description: "bare frequency words and every-<unit> forms",
		Priority:    80,
		Recognize:   recognizeFrequency,
	}
}

func recognizeFrequency(doc *tag.Document, _ Env) (*Match, error) {
	if m := matchBareFrequency(doc); m != nil {
		return m, nil
	}
	return matchEveryUnit(doc), nil
}

// matchBareFrequency matches a standalone frequency word: daily, weekly,
// monthly, yearly (or annually, canonicalized upstream).
func matchBareFrequency(doc *tag.Document) *Match {
	for _, t := range doc.TermsWithTag(tag.Frequency) {
		freq, ok := rule.ParseFrequency(t.Canonical)
		if !ok {
			continue // "every" is a frequency marker, not a frequency
		}
		return &Match{
			Category:   rule.CategoryFrequency,
			Source:     t.Text,
			Confidence: 1.0,
			Facts:      Facts{Freq: freq},
		}
	}
	return nil
}

// matchEveryUnit matches "every day", "every week", "every month",
// "every year" (and plural unit forms).
func matchEveryUnit(doc *tag.Document) *Match {
	for i, t := range doc.Terms {
		if t.Canonical != "every" {
			continue
		}
		next, ok := doc.At(i + 1)
		if !ok {
			continue
		}
		freq, ok := unitFrequencies[next.Canonical]
		if !ok {
			continue
		}
		return &Match{
			Category:   rule.CategoryFrequency,
			Source:     t.Text + " " + next.Text,
			Confidence: 1.0,
			Facts:      Facts{Freq: freq},
		}
	}
	return nil
}
