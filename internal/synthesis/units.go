package synthesis

import (
	"strings"
	"time"

	"inkcast/internal/story"
)

// UnitStatus describes how a unit's audio was obtained.
type UnitStatus string

const (
	// UnitOK means the preferred voice and engine succeeded.
	UnitOK UnitStatus = "ok"
	// UnitFallback means a fallback engine or alternate voice was used.
	UnitFallback UnitStatus = "fallback"
	// UnitSilent means every option failed and the audio is silence.
	UnitSilent UnitStatus = "silent"
)

// Unit is one synthesizable span of text with its chosen voice.
type Unit struct {
	PanelIndex int
	Seq        int
	Kind       story.LineKind
	Speaker    string
	Text       string
	VoiceID    string
}

// UnitResult is a unit with its synthesized audio.
type UnitResult struct {
	Unit
	Audio     []byte
	Engine    string
	UsedVoice string
	Duration  time.Duration
	Status    UnitStatus
}

// PanelStatus summarizes a panel's synthesis outcome.
type PanelStatus string

const (
	PanelOK       PanelStatus = "ok"
	PanelDegraded PanelStatus = "degraded"
	PanelFailed   PanelStatus = "failed"
)

// PanelAudio is the assembled audio for one panel.
type PanelAudio struct {
	PanelIndex int
	Units      []UnitResult
	Audio      []byte
	Duration   time.Duration
	Status     PanelStatus
}

// SplitUnits flattens narratives into the ordered unit list. Narration
// lines take the narrator's voice; dialogue lines take the speaking
// character's voice, falling back to the narrator when the speaker was
// never resolved.
func SplitUnits(narratives []story.PanelNarrative, voiceFor func(characterID string) string, narratorVoice string) []Unit {
	var units []Unit
	for _, narrative := range narratives {
		seq := 0
		for _, line := range narrative.Lines {
			text := strings.TrimSpace(line.Text)
			if text == "" {
				continue
			}
			voiceID := narratorVoice
			if line.Kind == story.LineDialogue && line.CharacterID != "" {
				if assigned := voiceFor(line.CharacterID); assigned != "" {
					voiceID = assigned
				}
			}
			units = append(units, Unit{
				PanelIndex: narrative.PanelIndex,
				Seq:        seq,
				Kind:       line.Kind,
				Speaker:    line.Speaker,
				Text:       text,
				VoiceID:    voiceID,
			})
			seq++
		}
	}
	return units
}
