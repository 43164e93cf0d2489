package textutil

import (
	"math"
	"testing"
)

func TestDescriptionSimilarityIdenticalText(t *testing.T) {
	score := DescriptionSimilarity(
		"tall man with red hair and glasses",
		"tall man with red hair and glasses",
	)
	if math.Abs(score-1.0) > 1e-9 {
		t.Errorf("identical descriptions score = %v, want 1.0", score)
	}
}

func TestDescriptionSimilarityIgnoresFiller(t *testing.T) {
	a := DescriptionSimilarity("a tall man with red hair", "the tall man, red hair")
	if math.Abs(a-1.0) > 1e-9 {
		t.Errorf("filler words affected score: %v", a)
	}
}

func TestDescriptionSimilarityDisjoint(t *testing.T) {
	if score := DescriptionSimilarity("elderly woman in kimono", "young boy carrying sword"); score != 0 {
		t.Errorf("disjoint descriptions score = %v, want 0", score)
	}
}

func TestDescriptionSimilarityPartialOverlap(t *testing.T) {
	score := DescriptionSimilarity(
		"tall man red hair glasses",
		"tall man blue coat",
	)
	if score <= 0 || score >= 1 {
		t.Errorf("partial overlap score = %v, want in (0,1)", score)
	}
}

func TestCosineSimilarityNilFingerprints(t *testing.T) {
	if score := CosineSimilarity(nil, NewFingerprint("anything here")); score != 0 {
		t.Errorf("nil fingerprint score = %v", score)
	}
	if fp := NewFingerprint("a an"); fp != nil {
		t.Error("expected nil fingerprint for all-short tokens")
	}
}

func TestJaccardSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want float64
	}{
		{"identical", []string{"scar", "cloak"}, []string{"scar", "cloak"}, 1.0},
		{"half overlap", []string{"scar", "cloak"}, []string{"scar", "hat", "boots"}, 0.25},
		{"empty", nil, []string{"scar"}, 0},
		{"duplicates collapse", []string{"scar", "scar"}, []string{"scar"}, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := JaccardSimilarity(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("JaccardSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFingerprintMerge(t *testing.T) {
	base := NewFingerprint("tall man red hair")
	update := NewFingerprint("red hair glasses")
	merged := base.Merge(update)

	if merged.TokenCount() != 5 {
		t.Errorf("merged TokenCount = %d, want 5", merged.TokenCount())
	}
	if score := CosineSimilarity(merged, NewFingerprint("glasses tall")); score == 0 {
		t.Error("merged fingerprint lost evidence from one side")
	}
	if got := (*Fingerprint)(nil).Merge(update); got != update {
		t.Error("nil receiver should return the other fingerprint")
	}
}

func TestSanitizeToken(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Detective Reyes", "detective_reyes"},
		{"  ", "unknown"},
		{"__--", "unknown"},
		{"panel-07", "panel-07"},
	}
	for _, tt := range tests {
		if got := SanitizeToken(tt.in); got != tt.want {
			t.Errorf("SanitizeToken(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
