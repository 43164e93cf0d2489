package composer

import (
	"regexp"
	"strings"
	"unicode"
)

// presentTense maps common past-tense narration verbs to present tense.
// Vision models drift into past tense no matter how the prompt is
// phrased, so the fix happens here.
var presentTense = map[string]string{
	"walked":    "walks",
	"ran":       "runs",
	"said":      "says",
	"looked":    "looks",
	"turned":    "turns",
	"stood":     "stands",
	"sat":       "sits",
	"held":      "holds",
	"reached":   "reaches",
	"grabbed":   "grabs",
	"jumped":    "jumps",
	"fell":      "falls",
	"shouted":   "shouts",
	"whispered": "whispers",
	"smiled":    "smiles",
	"frowned":   "frowns",
	"pointed":   "points",
	"opened":    "opens",
	"closed":    "closes",
	"entered":   "enters",
	"left":      "leaves",
	"arrived":   "arrives",
	"appeared":  "appears",
	"watched":   "watches",
	"stared":    "stares",
	"moved":     "moves",
	"stepped":   "steps",
	"was":       "is",
	"were":      "are",
	"had":       "has",
}

// mediumReferences are phrasings that break narration immersion by
// naming the panel or image instead of the story.
var mediumReferences = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bin (?:this|the) (?:panel|image|frame|picture)[,:]?\s*`),
	regexp.MustCompile(`(?i)\bthe (?:panel|image|frame|picture) (?:shows|depicts|features)\s*`),
	regexp.MustCompile(`(?i)\bthis (?:panel|image|frame|picture) (?:shows|depicts|features)\s*`),
	regexp.MustCompile(`(?i)\bwe (?:can )?see\s*`),
}

// StyleText rewrites raw model text into narration style: medium
// references removed, past tense shifted to present, sentence casing and
// terminal punctuation restored.
func StyleText(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	for _, pattern := range mediumReferences {
		text = pattern.ReplaceAllString(text, "")
	}
	text = enforcePresentTense(text)
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	return ensureSentence(text)
}

func enforcePresentTense(text string) string {
	fields := strings.Fields(text)
	for i, field := range fields {
		trimmed := strings.TrimFunc(field, func(r rune) bool { return !unicode.IsLetter(r) })
		if trimmed == "" {
			continue
		}
		replacement, ok := presentTense[strings.ToLower(trimmed)]
		if !ok {
			continue
		}
		if unicode.IsUpper([]rune(trimmed)[0]) {
			replacement = strings.ToUpper(replacement[:1]) + replacement[1:]
		}
		fields[i] = strings.Replace(field, trimmed, replacement, 1)
	}
	return strings.Join(fields, " ")
}

// ensureSentence capitalizes the first letter and guarantees terminal
// punctuation.
func ensureSentence(text string) string {
	runes := []rune(text)
	for i, r := range runes {
		if unicode.IsLetter(r) {
			runes[i] = unicode.ToUpper(r)
			break
		}
		if !unicode.IsSpace(r) && !unicode.IsPunct(r) {
			break
		}
	}
	text = string(runes)
	switch text[len(text)-1] {
	case '.', '!', '?':
		return text
	}
	return text + "."
}
