// Package engine runs the recognition pipeline over split clauses and
// merges the recognizers' partial results into one recurrence descriptor.
package engine

import (
	"fmt"

	"github.com/chronotext/recur/pkg/recur/clause"
	"github.com/chronotext/recur/pkg/recur/recognize"
	"github.com/chronotext/recur/pkg/recur/tag"
)

// HandlerMatch is a recognizer match annotated with the handler that
// produced it, for provenance and priority-ordered combination.
type HandlerMatch struct {
	Handler  string
	Priority int
	recognize.Match
}

// ClauseResult collects everything recognized in one clause. Warnings
// hold recognizer and tagger failures that did not abort the clause.
type ClauseResult struct {
	Clause   clause.Clause
	Matches  []HandlerMatch
	Warnings []string
}

// Processor runs every enabled recognizer against every clause. A clause
// is never short-circuited: recognizers address disjoint categories, so
// several may legitimately fire on the same clause.
type Processor struct {
	tagger   tag.Tagger
	handlers []recognize.Handler
}

// NewProcessor creates a processor over the given tagger and the already
// filtered, priority-ordered handler list.
func NewProcessor(tagger tag.Tagger, handlers []recognize.Handler) *Processor {
	return &Processor{tagger: tagger, handlers: handlers}
}

// Process tags each clause and invokes the recognizers in priority order,
// collecting every non-nil match. Tagger failures and recognizer errors
// or panics become per-clause warnings; sibling recognizers still run.
func (p *Processor) Process(clauses []clause.Clause, env recognize.Env) []ClauseResult {
	results := make([]ClauseResult, 0, len(clauses))
	for _, cl := range clauses {
		res := ClauseResult{Clause: cl}

		text := recognize.NormalizeDayNames(cl.Text)
		doc, err := p.tagger.Tag(text)
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("tagging %q failed: %v", cl.Text, err))
			results = append(results, res)
			continue
		}

		for _, h := range p.handlers {
			match, err := p.invoke(h, doc, env)
			if err != nil {
				res.Warnings = append(res.Warnings, err.Error())
				continue
			}
			if match == nil {
				continue
			}
			res.Matches = append(res.Matches, HandlerMatch{
				Handler:  h.Name,
				Priority: h.Priority,
				Match:    *match,
			})
		}
		results = append(results, res)
	}
	return results
}

// invoke isolates one recognizer call, converting a panic into an error
// so a misbehaving recognizer cannot abort the clause or the run.
func (p *Processor) invoke(h recognize.Handler, doc *tag.Document, env recognize.Env) (m *recognize.Match, err error) {
	defer func() {
		if r := recover(); r != nil {
			m = nil
			err = fmt.Errorf("recognizer %s panicked: %v", h.Name, r)
		}
	}()
	return h.Recognize(doc, env)
}
