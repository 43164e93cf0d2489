package voices

import (
	"strings"

	"inkcast/internal/story"
)

// Profile is the voice-relevant summary of a character.
type Profile struct {
	Gender   string
	AgeGroup string
	Tone     string
}

var genderKeywords = map[string]string{
	"woman": GenderFemale, "girl": GenderFemale, "lady": GenderFemale,
	"mother": GenderFemale, "sister": GenderFemale, "queen": GenderFemale,
	"she": GenderFemale, "her": GenderFemale,
	"man": GenderMale, "boy": GenderMale, "gentleman": GenderMale,
	"father": GenderMale, "brother": GenderMale, "king": GenderMale,
	"he": GenderMale, "his": GenderMale,
}

var ageKeywords = map[string]string{
	"child": AgeChild, "kid": AgeChild, "toddler": AgeChild, "little": AgeChild,
	"teen": AgeYoung, "teenager": AgeYoung, "young": AgeYoung, "youth": AgeYoung,
	"elderly": AgeElderly, "old": AgeElderly, "aged": AgeElderly,
	"grandfather": AgeElderly, "grandmother": AgeElderly, "grey": AgeElderly, "gray": AgeElderly,
}

var toneKeywords = map[string]string{
	"gruff": "gruff", "stern": "gruff", "rough": "gruff", "gravelly": "gruff",
	"warm": "warm", "kind": "warm", "gentle": "warm",
	"cheerful": "bright", "energetic": "bright", "lively": "bright",
	"calm": "calm", "quiet": "calm", "soft": "soft", "timid": "soft",
	"deep": "deep", "booming": "deep",
}

// InferProfile derives a voice profile from what the analyzer learned
// about a character. Explicit fields win; otherwise keywords in the
// description and attributes decide. Anything undecidable stays neutral.
func InferProfile(ch *story.Character) Profile {
	profile := Profile{
		Gender:   strings.ToLower(strings.TrimSpace(ch.Gender)),
		AgeGroup: strings.ToLower(strings.TrimSpace(ch.AgeGroup)),
		Tone:     strings.ToLower(strings.TrimSpace(ch.Tone)),
	}

	words := descriptionWords(ch)
	if profile.Gender == "" {
		profile.Gender = firstMatch(words, genderKeywords)
	}
	if profile.Gender == "" {
		profile.Gender = GenderNeutral
	}
	if profile.AgeGroup == "" {
		profile.AgeGroup = firstMatch(words, ageKeywords)
	}
	if profile.AgeGroup == "" {
		profile.AgeGroup = AgeAdult
	}
	if profile.Tone == "" {
		profile.Tone = firstMatch(words, toneKeywords)
	}
	return profile
}

func descriptionWords(ch *story.Character) []string {
	var words []string
	for _, field := range append([]string{ch.Description}, ch.Attributes...) {
		for _, word := range strings.Fields(strings.ToLower(field)) {
			words = append(words, strings.Trim(word, ".,;:!?\"'()"))
		}
	}
	return words
}

func firstMatch(words []string, keywords map[string]string) string {
	for _, word := range words {
		if value, ok := keywords[word]; ok {
			return value
		}
	}
	return ""
}
