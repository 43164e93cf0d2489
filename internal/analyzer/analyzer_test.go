package analyzer

import (
	"testing"

	"inkcast/internal/story"
)

func newTestAnalyzer() *Analyzer {
	return New(Config{
		CharacterMatchThreshold:    0.55,
		SceneMatchThreshold:        0.60,
		SignificantChangeThreshold: 0.35,
	}, nil)
}

func analysisWith(panel int, characters []story.ObservedCharacter, scene story.ObservedScene) *story.VisualAnalysis {
	return &story.VisualAnalysis{
		PanelIndex: panel,
		Summary:    "panel summary",
		Characters: characters,
		Scene:      scene,
	}
}

func TestFoldIntroducesNewCharacter(t *testing.T) {
	a := newTestAnalyzer()
	ctx := story.NewContext("doc", "Test")

	res := a.Fold(ctx, analysisWith(1,
		[]story.ObservedCharacter{{Name: "Mira", Description: "tall woman silver hair long coat"}},
		story.ObservedScene{Location: "harbor", Description: "foggy docks at dawn"},
	))

	if len(res.Characters) != 1 || !res.Characters[0].Introduced {
		t.Fatalf("expected one introduced character, got %+v", res.Characters)
	}
	if !res.SceneIntroduced || !res.SceneChanged {
		t.Error("first scene should be introduced and changed")
	}
	if ctx.PanelCount() != 1 {
		t.Errorf("PanelCount = %d", ctx.PanelCount())
	}
}

func TestFoldMatchesReturningCharacterByDescription(t *testing.T) {
	a := newTestAnalyzer()
	ctx := story.NewContext("doc", "Test")

	first := a.Fold(ctx, analysisWith(1,
		[]story.ObservedCharacter{{Description: "tall woman silver hair long coat"}},
		story.ObservedScene{Location: "harbor", Description: "foggy docks"},
	))
	second := a.Fold(ctx, analysisWith(2,
		[]story.ObservedCharacter{{Description: "tall woman silver hair standing near water"}},
		story.ObservedScene{Location: "harbor", Description: "foggy docks"},
	))

	if second.Characters[0].Introduced {
		t.Fatal("returning character was re-introduced")
	}
	if second.Characters[0].Character.ID != first.Characters[0].Character.ID {
		t.Error("observation resolved to a different identity")
	}
	if second.Characters[0].Character.Appearances != 2 {
		t.Errorf("Appearances = %d", second.Characters[0].Character.Appearances)
	}
	if second.SceneChanged {
		t.Error("same location flagged as scene change")
	}
}

func TestFoldMatchesByNameDespiteNewLook(t *testing.T) {
	a := newTestAnalyzer()
	ctx := story.NewContext("doc", "Test")

	a.Fold(ctx, analysisWith(1,
		[]story.ObservedCharacter{{Name: "Joss", Description: "young man green jacket"}},
		story.ObservedScene{Location: "street", Description: "narrow street"},
	))
	res := a.Fold(ctx, analysisWith(2,
		[]story.ObservedCharacter{{Name: "Joss", Description: "figure wearing armored diving suit"}},
		story.ObservedScene{Location: "street", Description: "narrow street"},
	))

	rc := res.Characters[0]
	if rc.Introduced {
		t.Fatal("named character was re-introduced")
	}
	if !rc.Changed {
		t.Error("drastic appearance change not flagged")
	}
}

func TestFoldDistinctCharactersStayDistinct(t *testing.T) {
	a := newTestAnalyzer()
	ctx := story.NewContext("doc", "Test")

	res := a.Fold(ctx, analysisWith(1, []story.ObservedCharacter{
		{Description: "tall woman silver hair"},
		{Description: "short bearded fisherman yellow slicker"},
	}, story.ObservedScene{Location: "harbor", Description: "docks"}))

	if res.Characters[0].Character.ID == res.Characters[1].Character.ID {
		t.Error("distinct observations merged into one identity")
	}
	if len(ctx.Characters()) != 2 {
		t.Errorf("tracked %d characters", len(ctx.Characters()))
	}
}

func TestFoldSceneReturnIsChangeNotIntroduction(t *testing.T) {
	a := newTestAnalyzer()
	ctx := story.NewContext("doc", "Test")

	a.Fold(ctx, analysisWith(1, nil, story.ObservedScene{Location: "harbor", Description: "foggy docks"}))
	a.Fold(ctx, analysisWith(2, nil, story.ObservedScene{Location: "warehouse", Description: "dark warehouse interior"}))
	res := a.Fold(ctx, analysisWith(3, nil, story.ObservedScene{Location: "harbor", Description: "foggy docks"}))

	if res.SceneIntroduced {
		t.Error("returning to a known location should not introduce a scene")
	}
	if !res.SceneChanged {
		t.Error("returning to a known location is still a change")
	}
	if len(ctx.Scenes()) != 2 {
		t.Errorf("tracked %d scenes, want 2", len(ctx.Scenes()))
	}
}

func TestFoldEmptySceneKeepsCurrent(t *testing.T) {
	a := newTestAnalyzer()
	ctx := story.NewContext("doc", "Test")

	first := a.Fold(ctx, analysisWith(1, nil, story.ObservedScene{Location: "harbor", Description: "docks"}))
	res := a.Fold(ctx, analysisWith(2, nil, story.ObservedScene{}))

	if res.SceneChanged || res.SceneIntroduced {
		t.Error("close-up panel without setting should not change scene")
	}
	if res.Scene != first.Scene {
		t.Error("expected current scene carried forward")
	}
}

func TestFoldDegradedLeavesContextUntouched(t *testing.T) {
	a := newTestAnalyzer()
	ctx := story.NewContext("doc", "Test")

	a.Fold(ctx, analysisWith(1,
		[]story.ObservedCharacter{{Name: "Mira", Description: "tall woman silver hair"}},
		story.ObservedScene{Location: "harbor", Description: "docks"},
	))
	res := a.Fold(ctx, DegradedAnalysis(2))

	if !res.Degraded {
		t.Error("resolution should be flagged degraded")
	}
	if res.Summary != "The scene continues." {
		t.Errorf("Summary = %q", res.Summary)
	}
	if len(ctx.Characters()) != 1 {
		t.Error("degraded panel mutated the character roster")
	}
	if ctx.PanelCount() != 2 {
		t.Errorf("PanelCount = %d, want 2", ctx.PanelCount())
	}
}

func TestFoldResolvesDialogueSpeakers(t *testing.T) {
	a := newTestAnalyzer()
	ctx := story.NewContext("doc", "Test")

	analysis := analysisWith(1,
		[]story.ObservedCharacter{{Name: "Mira", Description: "tall woman silver hair"}},
		story.ObservedScene{Location: "harbor", Description: "docks"},
	)
	analysis.Dialogue = []story.DialogueLine{
		{Speaker: "Mira", Text: "We're late."},
		{Speaker: "Voice offscreen", Text: "Then hurry."},
	}
	res := a.Fold(ctx, analysis)

	if len(res.Dialogue) != 2 {
		t.Fatalf("got %d dialogue lines", len(res.Dialogue))
	}
	if res.Dialogue[0].CharacterID == "" {
		t.Error("named speaker not resolved")
	}
	if res.Dialogue[1].CharacterID != "" {
		t.Error("unknown speaker should stay unresolved")
	}
}

func TestRecencyBreaksTies(t *testing.T) {
	a := newTestAnalyzer()
	ctx := story.NewContext("doc", "Test")

	// Two lookalikes established in panels 1 and 2.
	a.Fold(ctx, analysisWith(1,
		[]story.ObservedCharacter{{Description: "guard wearing steel helmet"}},
		story.ObservedScene{Location: "gate", Description: "castle gate"},
	))
	a.Fold(ctx, analysisWith(2,
		[]story.ObservedCharacter{{Description: "guard wearing steel helmet"}},
		story.ObservedScene{Location: "gate", Description: "castle gate"},
	))

	res := a.Fold(ctx, analysisWith(3,
		[]story.ObservedCharacter{{Description: "guard wearing steel helmet"}},
		story.ObservedScene{Location: "gate", Description: "castle gate"},
	))

	if res.Characters[0].Character.LastSeenPanel != 3 {
		t.Fatal("observation did not resolve")
	}
}
