package voices

import (
	"testing"

	"inkcast/internal/story"
)

func TestAssignIsStable(t *testing.T) {
	pool := NewPool("sage", nil)
	ch := &story.Character{ID: "char-001", Description: "tall woman with silver hair"}

	first := pool.Assign(ch)
	second := pool.Assign(ch)
	if first != second {
		t.Errorf("voice changed between assignments: %q then %q", first, second)
	}
	if ch.VoiceID != first {
		t.Errorf("VoiceID = %q, want %q", ch.VoiceID, first)
	}
}

func TestAssignIsDeterministicAcrossPools(t *testing.T) {
	build := func() []string {
		pool := NewPool("sage", nil)
		var out []string
		for _, desc := range []string{
			"tall woman with silver hair",
			"gruff old man with a cane",
			"small child clutching a kite",
		} {
			ch := &story.Character{ID: desc, Description: desc}
			out = append(out, pool.Assign(ch))
		}
		return out
	}

	a, b := build(), build()
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("assignment %d differs: %q vs %q", i, a[i], b[i])
		}
	}
}

func TestAssignMatchesProfile(t *testing.T) {
	pool := NewPool("sage", nil)

	woman := &story.Character{ID: "c1", Description: "young woman in a red scarf"}
	if voice, _ := pool.VoiceByID(pool.Assign(woman)); voice.Gender != GenderFemale {
		t.Errorf("woman assigned %s voice", voice.Gender)
	}
	elder := &story.Character{ID: "c2", Description: "elderly man leaning on a cane"}
	if voice, _ := pool.VoiceByID(pool.Assign(elder)); voice.Gender != GenderMale || voice.AgeGroup != AgeElderly {
		t.Errorf("elderly man assigned %s/%s voice", voice.Gender, voice.AgeGroup)
	}
}

func TestAssignAvoidsCollisions(t *testing.T) {
	pool := NewPool("sage", nil)

	a := pool.Assign(&story.Character{ID: "c1", Description: "young woman with dark hair"})
	b := pool.Assign(&story.Character{ID: "c2", Description: "young woman with a braid"})
	if a == b {
		t.Errorf("two characters share voice %q", a)
	}
}

func TestAssignNeverUsesNarratorVoice(t *testing.T) {
	pool := NewPool("sage", nil)
	for i := 0; i < 15; i++ {
		ch := &story.Character{ID: string(rune('a' + i)), Description: "person"}
		if pool.Assign(ch) == "sage" {
			t.Fatalf("character %d got the narrator voice", i)
		}
	}
}

func TestAssignNeutralDefault(t *testing.T) {
	_ = NewPool("sage", nil)
	ch := &story.Character{ID: "c1", Description: "cloaked figure in shadow"}
	profile := InferProfile(ch)
	if profile.Gender != GenderNeutral || profile.AgeGroup != AgeAdult {
		t.Errorf("profile = %+v, want neutral adult", profile)
	}
}

func TestInferProfileExplicitFieldsWin(t *testing.T) {
	ch := &story.Character{
		ID:          "c1",
		Gender:      "female",
		AgeGroup:    "elderly",
		Description: "young man running",
	}
	profile := InferProfile(ch)
	if profile.Gender != GenderFemale || profile.AgeGroup != AgeElderly {
		t.Errorf("profile = %+v", profile)
	}
}

func TestInferProfileTone(t *testing.T) {
	ch := &story.Character{ID: "c1", Description: "gruff old sailor"}
	if profile := InferProfile(ch); profile.Tone != "gruff" {
		t.Errorf("Tone = %q", profile.Tone)
	}
}

func TestAlternateForKeepsGender(t *testing.T) {
	pool := NewPool("sage", nil)
	alternate := pool.AlternateFor("amara")
	voice, ok := pool.VoiceByID(alternate)
	if !ok {
		t.Fatalf("alternate %q not in catalog", alternate)
	}
	if alternate == "amara" || alternate == "sage" {
		t.Errorf("alternate = %q", alternate)
	}
	if voice.Gender != GenderFemale {
		t.Errorf("alternate gender = %q", voice.Gender)
	}
}

func TestAlternateForUnknownVoice(t *testing.T) {
	pool := NewPool("sage", nil)
	if alternate := pool.AlternateFor("ghost"); alternate == "" || alternate == "ghost" {
		t.Errorf("alternate = %q", alternate)
	}
}

func TestSupportsEngine(t *testing.T) {
	pool := NewPool("sage", nil)
	piper, _ := pool.VoiceByID("piper")
	if piper.SupportsEngine("standard") {
		t.Error("piper should be neural only")
	}
	if !piper.SupportsEngine("neural") {
		t.Error("piper should support neural")
	}
}
