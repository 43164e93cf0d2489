package story

import (
	"strings"
	"testing"
)

func TestContextAssignsSequentialIDs(t *testing.T) {
	ctx := NewContext("doc-1", "Test")
	a := ctx.AddCharacter(&Character{Name: "Mira"})
	b := ctx.AddCharacter(&Character{Name: "Joss"})
	s := ctx.AddScene(&Scene{Location: "harbor"})

	if a.ID != "char-001" || b.ID != "char-002" {
		t.Errorf("character IDs = %q, %q", a.ID, b.ID)
	}
	if s.ID != "scene-001" {
		t.Errorf("scene ID = %q", s.ID)
	}
	if ctx.CharacterByID("char-002") != b {
		t.Error("CharacterByID lookup failed")
	}
	if ctx.CharacterByID("char-999") != nil {
		t.Error("expected nil for unknown ID")
	}
}

func TestContextSummaryFirstPanel(t *testing.T) {
	ctx := NewContext("doc-1", "Test")
	if got := ctx.Summary(); got != "This is the first panel of the story." {
		t.Errorf("Summary() = %q", got)
	}
}

func TestContextSummaryListsKnownIdentities(t *testing.T) {
	ctx := NewContext("doc-1", "Test")
	ch := ctx.AddCharacter(&Character{Name: "Mira", Description: "tall woman with silver hair"})
	ch.Observe(ObservedCharacter{Description: "tall woman with silver hair"}, 1)
	scene := ctx.AddScene(&Scene{Location: "harbor", Description: "foggy docks at dawn"})
	ctx.SetCurrentScene(scene.ID)

	summary := ctx.Summary()
	if !strings.Contains(summary, "char-001 (Mira)") {
		t.Errorf("summary missing character: %q", summary)
	}
	if !strings.Contains(summary, "Current location: harbor") {
		t.Errorf("summary missing scene: %q", summary)
	}
}

func TestCharacterObserveAccumulates(t *testing.T) {
	ch := &Character{}
	ch.Observe(ObservedCharacter{
		Name:        "Mira",
		Description: "tall woman silver hair",
		Attributes:  []string{"silver hair"},
		Gender:      "female",
	}, 2)
	ch.Observe(ObservedCharacter{
		Description: "woman wearing long coat",
		Attributes:  []string{"Silver Hair", "long coat"},
	}, 5)

	if ch.FirstSeenPanel != 2 || ch.LastSeenPanel != 5 {
		t.Errorf("seen range = %d..%d", ch.FirstSeenPanel, ch.LastSeenPanel)
	}
	if ch.Appearances != 2 {
		t.Errorf("Appearances = %d", ch.Appearances)
	}
	if len(ch.Attributes) != 2 {
		t.Errorf("Attributes = %v, want case-insensitive dedup", ch.Attributes)
	}
	if ch.Fingerprint() == nil || ch.Fingerprint().TokenCount() < 4 {
		t.Error("fingerprint did not accumulate both observations")
	}
}

func TestCharacterDisplayName(t *testing.T) {
	named := &Character{Name: "Joss"}
	if named.DisplayName() != "Joss" {
		t.Errorf("DisplayName() = %q", named.DisplayName())
	}
	described := &Character{Description: "Elderly Fisherman With A Pipe And Hat"}
	if got := described.DisplayName(); got != "the elderly fisherman with a" {
		t.Errorf("DisplayName() = %q", got)
	}
	blank := &Character{}
	if blank.DisplayName() != "the figure" {
		t.Errorf("DisplayName() = %q", blank.DisplayName())
	}
}

func TestPanelNarrativeTextAndWordCount(t *testing.T) {
	n := PanelNarrative{
		PanelIndex: 3,
		Lines: []Line{
			{Kind: LineNarration, Text: "Mira steps onto the dock."},
			{Kind: LineDialogue, CharacterID: "char-001", Speaker: "Mira", Text: "We're late."},
		},
	}
	if got := n.Text(); got != "Mira steps onto the dock. Mira: We're late." {
		t.Errorf("Text() = %q", got)
	}
	if got := n.WordCount(); got != 7 {
		t.Errorf("WordCount() = %d, want 7", got)
	}
}
