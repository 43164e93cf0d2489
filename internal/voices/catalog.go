package voices

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// Voice is one synthesis voice and the engines it supports.
type Voice struct {
	ID       string
	Gender   string
	AgeGroup string
	Tone     string
	Engines  []string
}

// DisplayName renders the voice ID for tables and logs.
func (v Voice) DisplayName() string {
	return titleCaser.String(v.ID)
}

// SupportsEngine reports whether the voice can synthesize with engine.
func (v Voice) SupportsEngine(engine string) bool {
	for _, e := range v.Engines {
		if e == engine {
			return true
		}
	}
	return false
}

const (
	GenderFemale  = "female"
	GenderMale    = "male"
	GenderNeutral = "neutral"

	AgeChild   = "child"
	AgeYoung   = "young"
	AgeAdult   = "adult"
	AgeElderly = "elderly"
)

// DefaultCatalog returns the built-in voice roster. Order matters:
// assignment walks the catalog front to back, so the ordering is part of
// the deterministic contract.
func DefaultCatalog() []Voice {
	both := []string{"neural", "standard"}
	neuralOnly := []string{"neural"}
	return []Voice{
		{ID: "sage", Gender: GenderNeutral, AgeGroup: AgeAdult, Tone: "calm", Engines: both},
		{ID: "amara", Gender: GenderFemale, AgeGroup: AgeAdult, Tone: "warm", Engines: both},
		{ID: "nadia", Gender: GenderFemale, AgeGroup: AgeYoung, Tone: "bright", Engines: both},
		{ID: "odette", Gender: GenderFemale, AgeGroup: AgeElderly, Tone: "soft", Engines: both},
		{ID: "piper", Gender: GenderFemale, AgeGroup: AgeChild, Tone: "bright", Engines: neuralOnly},
		{ID: "bram", Gender: GenderMale, AgeGroup: AgeAdult, Tone: "deep", Engines: both},
		{ID: "felix", Gender: GenderMale, AgeGroup: AgeYoung, Tone: "bright", Engines: both},
		{ID: "gideon", Gender: GenderMale, AgeGroup: AgeElderly, Tone: "gruff", Engines: both},
		{ID: "topher", Gender: GenderMale, AgeGroup: AgeChild, Tone: "bright", Engines: neuralOnly},
		{ID: "rowan", Gender: GenderNeutral, AgeGroup: AgeYoung, Tone: "calm", Engines: both},
	}
}
