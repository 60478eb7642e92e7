package normalize

import "strings"

// Corrector is the misspelling-correction capability consumed by the
// Normalizer. Correct returns the corrected word and true when the input
// is close enough to a known word, or ("", false) otherwise.
type Corrector interface {
	Correct(word string) (string, bool)
}

// DefaultThreshold is the minimum similarity for a correction to apply.
const DefaultThreshold = 0.85

// DictionaryCorrector corrects words against a fixed candidate list using
// Jaro-Winkler similarity.
type DictionaryCorrector struct {
	words     []string
	threshold float64
}

// NewDictionaryCorrector builds a corrector over the given candidate words.
// A threshold <= 0 selects DefaultThreshold.
func NewDictionaryCorrector(words []string, threshold float64) *DictionaryCorrector {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	lowered := make([]string, len(words))
	for i, w := range words {
		lowered[i] = strings.ToLower(w)
	}
	return &DictionaryCorrector{words: lowered, threshold: threshold}
}

// DayAndMonthNames returns the default correction dictionary: English day
// and month names, the candidate lists misspellings are matched against.
func DayAndMonthNames() []string {
	return []string{
		"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
		"january", "february", "march", "april", "may", "june",
		"july", "august", "september", "october", "november", "december",
	}
}

// Correct returns the closest candidate when its similarity reaches the
// threshold. Exact dictionary words map to themselves, which keeps
// normalization idempotent.
func (c *DictionaryCorrector) Correct(word string) (string, bool) {
	word = strings.ToLower(word)
	best := ""
	bestScore := 0.0
	for _, cand := range c.words {
		if cand == word {
			return word, true
		}
		if s := jaroWinkler(word, cand); s > bestScore {
			best, bestScore = cand, s
		}
	}
	if bestScore >= c.threshold {
		return best, true
	}
	return "", false
}

// jaroWinkler computes Jaro-Winkler similarity in [0,1].
func jaroWinkler(a, b string) float64 {
	j := jaro(a, b)
	if j == 0 {
		return 0
	}
	// Common prefix bonus, capped at 4 characters.
	prefix := 0
	for prefix < len(a) && prefix < len(b) && prefix < 4 && a[prefix] == b[prefix] {
		prefix++
	}
	return j + float64(prefix)*0.1*(1-j)
}

func jaro(a, b string) float64 {
	if a == b {
		return 1
	}
	la, lb := len(a), len(b)
	if la == 0 || lb == 0 {
		return 0
	}
	window := la
	if lb > window {
		window = lb
	}
	window = window/2 - 1
	if window < 0 {
		window = 0
	}

	matchedA := make([]bool, la)
	matchedB := make([]bool, lb)
	matches := 0
	for i := 0; i < la; i++ {
		lo := i - window
		if lo < 0 {
			lo = 0
		}
		hi := i + window + 1
		if hi > lb {
			hi = lb
		}
		for j := lo; j < hi; j++ {
			if matchedB[j] || a[i] != b[j] {
				continue
			}
			matchedA[i] = true
			matchedB[j] = true
			matches++
			break
		}
	}
	if matches == 0 {
		return 0
	}

	// Count transpositions among matched characters.
	transpositions := 0
	j := 0
	for i := 0; i < la; i++ {
		if !matchedA[i] {
			continue
		}
		for !matchedB[j] {
			j++
		}
		if a[i] != b[j] {
			transpositions++
		}
		j++
	}

	m := float64(matches)
	return (m/float64(la) + m/float64(lb) + (m-float64(transpositions)/2)/m) / 3
}
