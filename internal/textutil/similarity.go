package textutil

// CosineSimilarity computes the cosine similarity between two fingerprints.
// Returns 0 if either fingerprint is nil or empty.
func CosineSimilarity(a, b *Fingerprint) float64 {
	if a == nil || b == nil || a.norm == 0 || b.norm == 0 {
		return 0
	}
	var dot float64
	for token, count := range a.tokens {
		if other, ok := b.tokens[token]; ok {
			dot += count * other
		}
	}
	if dot == 0 {
		return 0
	}
	return dot / (a.norm * b.norm)
}

// JaccardSimilarity computes set overlap between two token slices.
// Attribute lists (hair color, clothing, build) compare better as sets
// than as weighted vectors.
func JaccardSimilarity(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	seen := make(map[string]struct{}, len(a))
	for _, token := range a {
		seen[token] = struct{}{}
	}
	var intersection int
	union := len(seen)
	counted := make(map[string]struct{}, len(b))
	for _, token := range b {
		if _, dup := counted[token]; dup {
			continue
		}
		counted[token] = struct{}{}
		if _, ok := seen[token]; ok {
			intersection++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// DescriptionSimilarity scores two free-text descriptions in [0,1].
func DescriptionSimilarity(a, b string) float64 {
	return CosineSimilarity(NewFingerprint(a), NewFingerprint(b))
}
