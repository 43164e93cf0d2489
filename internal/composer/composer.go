package composer

import (
	"fmt"
	"log/slog"
	"strings"

	"inkcast/internal/analyzer"
	"inkcast/internal/reqcache"
	"inkcast/internal/story"
)

// sceneTransitions rotate so consecutive scene changes do not open with
// the same phrase.
var sceneTransitions = []string{
	"The scene shifts to %s.",
	"The story moves to %s.",
	"Now at %s.",
}

// Composer builds panel narratives from resolutions. It keeps the
// previous panel's summary so consecutive identical descriptions
// collapse into a continuation line. Not safe for concurrent use;
// narration is composed in panel order.
type Composer struct {
	logger *slog.Logger

	lastSummary   string
	transitionSeq int
}

// New builds a Composer. A nil logger disables logging.
func New(logger *slog.Logger) *Composer {
	return &Composer{logger: logger}
}

// Compose renders one panel's resolution as ordered narration lines.
func (c *Composer) Compose(res *analyzer.Resolution) story.PanelNarrative {
	narrative := story.PanelNarrative{PanelIndex: res.PanelIndex, Degraded: res.Degraded}
	if res.Degraded {
		narrative.Lines = append(narrative.Lines, story.Line{
			Kind: story.LineNarration,
			Text: "The scene continues.",
		})
		return narrative
	}

	addNarration := func(text string) {
		if text == "" {
			return
		}
		if n := len(narrative.Lines); n > 0 {
			last := narrative.Lines[n-1]
			if last.Kind == story.LineNarration && last.Text == text {
				return
			}
		}
		narrative.Lines = append(narrative.Lines, story.Line{Kind: story.LineNarration, Text: text})
	}

	addNarration(c.sceneLine(res))
	for _, rc := range res.Characters {
		addNarration(characterLine(rc))
		addNarration(emotionLine(rc))
	}
	addNarration(c.summaryLine(res))
	for _, line := range c.actionLines(res) {
		addNarration(line)
	}
	for _, dialogue := range res.Dialogue {
		if expr := expressionFor(dialogue.Emotion); expr != "" {
			speaker := strings.TrimSpace(dialogue.Speaker)
			if speaker == "" {
				speaker = "The speaker"
			}
			addNarration(fmt.Sprintf("%s %s.", speaker, expr))
		}
		narrative.Lines = append(narrative.Lines, story.Line{
			Kind:        story.LineDialogue,
			CharacterID: dialogue.CharacterID,
			Speaker:     dialogue.Speaker,
			Text:        strings.TrimSpace(dialogue.Text),
		})
	}

	if len(narrative.Lines) == 0 {
		narrative.Lines = append(narrative.Lines, story.Line{
			Kind: story.LineNarration,
			Text: c.continuationLine(res),
		})
	}
	return narrative
}

// sceneLine narrates scene changes. The opening panel sets the stage;
// later changes use rotating transitions, and returns to a known place
// say so.
func (c *Composer) sceneLine(res *analyzer.Resolution) string {
	if res.Scene == nil || !res.SceneChanged {
		return ""
	}
	location := res.Scene.Location
	if location == "" {
		location = "a new place"
	}
	description := StyleText(res.Scene.Description)

	var line string
	switch {
	case res.PanelIndex == 1:
		line = fmt.Sprintf("The story opens at %s.", location)
	case !res.SceneIntroduced:
		line = fmt.Sprintf("The story returns to %s.", location)
	default:
		line = fmt.Sprintf(sceneTransitions[c.transitionSeq%len(sceneTransitions)], location)
		c.transitionSeq++
	}
	if res.SceneIntroduced && description != "" {
		line += " " + description
	}
	return line
}

// characterLine introduces new characters with their full description
// and re-describes returning ones only after a significant change.
func characterLine(rc analyzer.ResolvedCharacter) string {
	ch := rc.Character
	switch {
	case rc.Introduced:
		description := strings.TrimSpace(rc.Observation.Description)
		if ch.Name != "" && description != "" {
			return fmt.Sprintf("%s, %s, appears.", ch.Name, indefinite(description))
		}
		if description != "" {
			return StyleText(indefinite(description) + " appears.")
		}
		if ch.Name != "" {
			return fmt.Sprintf("%s appears.", ch.Name)
		}
		return "Someone new appears."
	case rc.Changed:
		description := strings.TrimSpace(rc.Observation.Description)
		if description == "" {
			return ""
		}
		return fmt.Sprintf("%s now appears as %s.", ch.DisplayName(), indefinite(description))
	default:
		return ""
	}
}

// summaryLine carries the panel's action. A summary identical to the
// previous panel's would read as a stutter, so it collapses into a
// continuation.
func (c *Composer) summaryLine(res *analyzer.Resolution) string {
	summary := StyleText(res.Summary)
	if summary == "" {
		return ""
	}
	summary = c.spatialize(summary, res)
	normalized := reqcache.NormalizeText(strings.ToLower(summary))
	if normalized == c.lastSummary {
		if c.logger != nil {
			c.logger.Debug("summary repeated, collapsing", "panel", res.PanelIndex)
		}
		return c.continuationLine(res)
	}
	c.lastSummary = normalized
	return summary
}

// actionLines renders the panel's individual action descriptions in the
// order the vision service reported them, skipping any that just repeat
// the summary.
func (c *Composer) actionLines(res *analyzer.Resolution) []string {
	var lines []string
	for _, action := range res.Actions {
		styled := StyleText(action)
		if styled == "" {
			continue
		}
		if reqcache.NormalizeText(strings.ToLower(styled)) == c.lastSummary {
			continue
		}
		lines = append(lines, c.spatialize(styled, res))
	}
	return lines
}

// spatialize anchors motion narration. Movement text with no positional
// detail gains the panel's spatial layout; with no layout either, the
// minimal continuation stands in rather than narrating motion into a
// void.
func (c *Composer) spatialize(text string, res *analyzer.Resolution) string {
	if !describesMotion(text) || hasSpatialQualifier(text) {
		return text
	}
	if layout := StyleText(res.SpatialLayout); layout != "" {
		return text + " " + layout
	}
	if c.logger != nil {
		c.logger.Debug("motion text lacks spatial detail", "panel", res.PanelIndex)
	}
	return c.continuationLine(res)
}

// continuationLine names the most recently seen character when one is
// present, so even filler narration stays anchored to the story.
func (c *Composer) continuationLine(res *analyzer.Resolution) string {
	for i := len(res.Characters) - 1; i >= 0; i-- {
		name := res.Characters[i].Character.Name
		if name != "" {
			return fmt.Sprintf("%s continues the scene.", name)
		}
	}
	return "The scene continues."
}

// indefinite prefixes a description with its article when it reads as a
// bare noun phrase.
func indefinite(description string) string {
	lowered := strings.ToLower(description)
	for _, prefix := range []string{"a ", "an ", "the "} {
		if strings.HasPrefix(lowered, prefix) {
			return description
		}
	}
	first := strings.ToLower(strings.TrimLeft(description, " "))
	if first != "" && strings.ContainsRune("aeiou", rune(first[0])) {
		return "an " + description
	}
	return "a " + description
}
