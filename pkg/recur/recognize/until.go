package recognize

import (
	"fmt"
	"time"

	"github.com/chronotext/recur/pkg/recur/rule"
	"github.com/chronotext/recur/pkg/recur/tag"
)

// Resolver is the external date-phrase resolution capability the until
// recognizer delegates to.
type Resolver interface {
	Resolve(phrase string, anchor time.Time) (time.Time, error)
}

// UntilHandler recognizes "until/through/ending <date expression>" and
// delegates the date expression to the resolver. A resolution failure is
// reported as no-match plus a warning, so sibling recognizers on the same
// clause still contribute.
func UntilHandler(resolver Resolver) Handler {
	return Handler{
		Name:        "until",
		Category:    rule.CategoryUntil,
		Description: "end-condition phrases with a resolvable date",
		Priority:    50,
		Recognize: func(doc *tag.Document, env Env) (*Match, error) {
			return recognizeUntil(doc, env, resolver)
		},
	}
}

func recognizeUntil(doc *tag.Document, env Env, resolver Resolver) (*Match, error) {
	i := doc.FirstTag(tag.UntilWord)
	if i < 0 {
		return nil, nil
	}
	phrase := doc.TextAfter(i)
	if phrase == "" {
		return nil, fmt.Errorf("end-condition word %q without a date phrase", doc.Terms[i].Text)
	}

	date, err := resolver.Resolve(phrase, env.Anchor)
	if err != nil {
		return nil, fmt.Errorf("could not resolve end date %q: %w", phrase, err)
	}

	return &Match{
		Category:   rule.CategoryUntil,
		Source:     doc.Terms[i].Text + " " + phrase,
		Confidence: 1.0,
		Facts:      Facts{Until: &date},
	}, nil
}
