package composer

import "strings"

// motionVerbs flag narration as movement. Movement narration must carry
// a positional anchor so a listener can follow where it happens.
var motionVerbs = map[string]struct{}{
	"runs": {}, "walks": {}, "leaps": {}, "jumps": {}, "dashes": {},
	"sprints": {}, "rushes": {}, "charges": {}, "chases": {}, "flees": {},
	"climbs": {}, "falls": {}, "dives": {}, "flies": {}, "swims": {},
	"crawls": {}, "races": {}, "bolts": {}, "darts": {}, "lunges": {},
	"marches": {}, "rides": {}, "gallops": {}, "hurries": {}, "steps": {},
	"moves": {},
}

// spatialQualifiers are the positional anchors audio description pairs
// with motion: directions, relative positions, or landmark markers.
var spatialQualifiers = map[string]struct{}{
	"left": {}, "right": {}, "center": {}, "above": {}, "below": {},
	"behind": {}, "front": {}, "to": {}, "from": {}, "toward": {},
	"towards": {}, "across": {}, "past": {}, "through": {}, "into": {},
	"onto": {}, "over": {}, "under": {}, "beside": {}, "near": {},
	"along": {}, "around": {}, "down": {}, "up": {}, "forward": {},
	"backward": {}, "away": {}, "ahead": {}, "inside": {}, "outside": {},
	"upstairs": {}, "downstairs": {},
}

func describesMotion(text string) bool {
	return containsAnyWord(text, motionVerbs)
}

func hasSpatialQualifier(text string) bool {
	return containsAnyWord(text, spatialQualifiers)
}

func containsAnyWord(text string, words map[string]struct{}) bool {
	for _, field := range strings.Fields(strings.ToLower(text)) {
		trimmed := strings.TrimFunc(field, func(r rune) bool { return r < 'a' || r > 'z' })
		if _, ok := words[trimmed]; ok {
			return true
		}
	}
	return false
}
