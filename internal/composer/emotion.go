package composer

import (
	"fmt"
	"strings"

	"inkcast/internal/analyzer"
)

// emotionExpressions map flat emotion labels to observable behavior. A
// listener hears what a character does, not a mood word read aloud.
var emotionExpressions = map[string]string{
	"happy":      "smiles brightly",
	"joyful":     "beams",
	"sad":        "lowers their gaze",
	"angry":      "clenches their jaw",
	"furious":    "shakes with anger",
	"scared":     "shrinks back",
	"afraid":     "shrinks back",
	"surprised":  "starts in surprise",
	"shocked":    "freezes mid-motion",
	"worried":    "frowns with worry",
	"nervous":    "shifts uneasily",
	"anxious":    "wrings their hands",
	"determined": "sets their jaw",
	"confused":   "tilts their head",
	"excited":    "leans in eagerly",
	"tired":      "slumps wearily",
	"calm":       "stands at ease",
}

// expressionFor renders an emotion label as behavior. Labels outside
// the table still come out descriptive rather than bare.
func expressionFor(emotion string) string {
	emotion = strings.ToLower(strings.TrimSpace(emotion))
	if emotion == "" {
		return ""
	}
	if expr, ok := emotionExpressions[emotion]; ok {
		return expr
	}
	return "appears " + emotion
}

// emotionLine narrates a character's observed emotion as a small piece
// of stage business.
func emotionLine(rc analyzer.ResolvedCharacter) string {
	expr := expressionFor(rc.Observation.Emotion)
	if expr == "" {
		return ""
	}
	return fmt.Sprintf("%s %s.", rc.Character.DisplayName(), expr)
}
