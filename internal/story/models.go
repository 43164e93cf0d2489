package story

import (
	"strings"

	"inkcast/internal/textutil"
)

// Character is an identity tracked across panels.
type Character struct {
	ID          string
	Name        string
	Description string
	Attributes  []string
	Gender      string
	AgeGroup    string
	Tone        string
	VoiceID     string

	FirstSeenPanel int
	LastSeenPanel  int
	Appearances    int

	fingerprint *textutil.Fingerprint
}

// Fingerprint returns the accumulated appearance fingerprint.
func (c *Character) Fingerprint() *textutil.Fingerprint {
	return c.fingerprint
}

// Observe folds a new sighting into the character's record. The
// description evidence accumulates so partial later views still match.
func (c *Character) Observe(obs ObservedCharacter, panelIndex int) {
	if obs.Description != "" {
		c.fingerprint = c.fingerprint.Merge(textutil.NewFingerprint(obs.Description))
		c.Description = obs.Description
	}
	c.Attributes = mergeAttributes(c.Attributes, obs.Attributes)
	if c.FirstSeenPanel == 0 {
		c.FirstSeenPanel = panelIndex
	}
	c.LastSeenPanel = panelIndex
	c.Appearances++
	if c.Name == "" && obs.Name != "" {
		c.Name = obs.Name
	}
	if c.Gender == "" {
		c.Gender = obs.Gender
	}
	if c.AgeGroup == "" {
		c.AgeGroup = obs.AgeGroup
	}
	if c.Tone == "" {
		c.Tone = obs.Tone
	}
}

// DisplayName returns the best available reference for narration.
func (c *Character) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	if c.Description != "" {
		return "the " + firstWords(c.Description, 4)
	}
	return "the figure"
}

// Scene is a tracked location.
type Scene struct {
	ID          string
	Location    string
	Description string
	Mood        string

	FirstPanel int
	LastPanel  int

	fingerprint *textutil.Fingerprint
}

// Fingerprint returns the accumulated scene fingerprint.
func (s *Scene) Fingerprint() *textutil.Fingerprint {
	return s.fingerprint
}

// Observe folds a new sighting of the location into the scene record.
func (s *Scene) Observe(obs ObservedScene, panelIndex int) {
	if obs.Description != "" {
		s.fingerprint = s.fingerprint.Merge(textutil.NewFingerprint(obs.Description))
		s.Description = obs.Description
	}
	if s.Location == "" && obs.Location != "" {
		s.Location = obs.Location
	}
	if obs.Mood != "" {
		s.Mood = obs.Mood
	}
	if s.FirstPanel == 0 {
		s.FirstPanel = panelIndex
	}
	s.LastPanel = panelIndex
}

// ObservedCharacter is a raw character sighting reported by the vision
// service for a single panel, before identity resolution.
type ObservedCharacter struct {
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description"`
	Attributes  []string `json:"attributes,omitempty"`
	Gender      string   `json:"gender,omitempty"`
	AgeGroup    string   `json:"age_group,omitempty"`
	Tone        string   `json:"tone,omitempty"`
	Emotion     string   `json:"emotion,omitempty"`
	Action      string   `json:"action,omitempty"`
}

// ObservedScene is the raw setting reported for a single panel.
type ObservedScene struct {
	Location    string `json:"location"`
	Description string `json:"description"`
	Mood        string `json:"mood,omitempty"`
	TimeOfDay   string `json:"time_of_day,omitempty"`
}

// DialogueLine is speech attributed to a character in a panel.
type DialogueLine struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
	Emotion string `json:"emotion,omitempty"`
}

// VisualAnalysis is the vision service's reading of one panel.
type VisualAnalysis struct {
	PanelIndex int                 `json:"panel_index"`
	Summary    string              `json:"summary"`
	Characters []ObservedCharacter `json:"characters"`
	Scene      ObservedScene       `json:"scene"`
	// SpatialLayout describes where things are relative to each other,
	// anchoring motion narration.
	SpatialLayout string         `json:"spatial_layout,omitempty"`
	Dialogue      []DialogueLine `json:"dialogue,omitempty"`
	Actions       []string       `json:"actions,omitempty"`
	Degraded      bool           `json:"-"`
}

func mergeAttributes(existing, update []string) []string {
	seen := make(map[string]struct{}, len(existing))
	out := existing
	for _, attr := range existing {
		seen[strings.ToLower(attr)] = struct{}{}
	}
	for _, attr := range update {
		key := strings.ToLower(strings.TrimSpace(attr))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, strings.TrimSpace(attr))
	}
	return out
}

func firstWords(text string, n int) string {
	fields := strings.Fields(text)
	if len(fields) > n {
		fields = fields[:n]
	}
	return strings.ToLower(strings.Join(fields, " "))
}
