package textutil

import (
	"math"
	"regexp"
	"strings"
)

var tokenSplitPattern = regexp.MustCompile(`[^a-z0-9]+`)

// stopwords are common narrative filler that carries no identity signal.
// Descriptions like "a tall man with red hair" and "the tall man, red hair"
// should fingerprint identically.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "with": {}, "has": {}, "who": {},
	"wearing": {}, "holding": {}, "standing": {}, "their": {},
}

// Fingerprint is a term-frequency vector over a description.
type Fingerprint struct {
	tokens map[string]float64
	norm   float64
}

// NewFingerprint builds a fingerprint from free text. Returns nil when the
// text produces no usable tokens.
func NewFingerprint(text string) *Fingerprint {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return nil
	}
	counts := make(map[string]float64, len(tokens))
	for _, token := range tokens {
		counts[token]++
	}
	var norm float64
	for _, count := range counts {
		norm += count * count
	}
	return &Fingerprint{tokens: counts, norm: math.Sqrt(norm)}
}

// Tokenize lowercases text and splits it into identity-bearing tokens.
func Tokenize(text string) []string {
	raw := tokenSplitPattern.Split(strings.ToLower(text), -1)
	terms := make([]string, 0, len(raw))
	for _, token := range raw {
		if len(token) < 3 {
			continue
		}
		if _, skip := stopwords[token]; skip {
			continue
		}
		terms = append(terms, token)
	}
	return terms
}

// TokenCount returns the number of unique tokens.
func (f *Fingerprint) TokenCount() int {
	if f == nil {
		return 0
	}
	return len(f.tokens)
}

// Merge folds another fingerprint into this one and returns the result.
// Used to accumulate a character's appearance evidence across panels so a
// later partial view still matches the established identity.
func (f *Fingerprint) Merge(other *Fingerprint) *Fingerprint {
	if f == nil {
		return other
	}
	if other == nil {
		return f
	}
	merged := make(map[string]float64, len(f.tokens)+len(other.tokens))
	for token, count := range f.tokens {
		merged[token] = count
	}
	for token, count := range other.tokens {
		merged[token] += count
	}
	var norm float64
	for _, count := range merged {
		norm += count * count
	}
	return &Fingerprint{tokens: merged, norm: math.Sqrt(norm)}
}
