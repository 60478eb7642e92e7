package engine

import (
	"fmt"

	"github.com/chronotext/recur/pkg/recur/rule"
)

// Defaults supplies values for fields still unset after combination.
type Defaults struct {
	Freq     rule.Frequency
	Interval int
}

// ApplyDefaults fills unset fields from the defaults table. Interval
// falls back to 1 when no default is configured. Combined values are
// never overwritten; a caller-configured default that fills a field is
// recorded as a warning.
func ApplyDefaults(r rule.Rule, d Defaults) rule.Rule {
	if r.Interval == 0 {
		if d.Interval > 0 {
			r.Interval = d.Interval
		} else {
			r.Interval = 1
		}
	}
	if r.Freq == rule.FreqUnset && d.Freq != rule.FreqUnset {
		r.Freq = d.Freq
		r.Warnings = append(r.Warnings,
			fmt.Sprintf("assumed default frequency %s", d.Freq))
	}
	return r
}
