package story

import "strings"

// LineKind distinguishes narrator description from character speech.
type LineKind string

const (
	LineNarration LineKind = "narration"
	LineDialogue  LineKind = "dialogue"
)

// Line is one unit of narration text with its speaker attribution.
// Narration lines have an empty CharacterID and are voiced by the
// narrator; dialogue lines carry the resolved character ID.
type Line struct {
	Kind        LineKind `json:"kind"`
	CharacterID string   `json:"character_id,omitempty"`
	Speaker     string   `json:"speaker,omitempty"`
	Text        string   `json:"text"`
}

// PanelNarrative is the complete narration for one panel, in the order
// the lines should be spoken.
type PanelNarrative struct {
	PanelIndex int    `json:"panel_index"`
	Lines      []Line `json:"lines"`
	Degraded   bool   `json:"degraded,omitempty"`
}

// Text joins all lines into a single readable transcript.
func (n PanelNarrative) Text() string {
	parts := make([]string, 0, len(n.Lines))
	for _, line := range n.Lines {
		if line.Kind == LineDialogue && line.Speaker != "" {
			parts = append(parts, line.Speaker+": "+line.Text)
			continue
		}
		parts = append(parts, line.Text)
	}
	return strings.Join(parts, " ")
}

// WordCount counts spoken words across all lines. Used for duration
// estimates before synthesis.
func (n PanelNarrative) WordCount() int {
	var count int
	for _, line := range n.Lines {
		count += len(strings.Fields(line.Text))
	}
	return count
}
