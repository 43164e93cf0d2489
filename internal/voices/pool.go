package voices

import (
	"log/slog"

	"inkcast/internal/story"
)

// Pool hands out voices from the catalog. The narrator voice is
// reserved and never assigned to a character.
type Pool struct {
	catalog    []Voice
	narratorID string
	assigned   map[string]string
	usage      map[string]int
	logger     *slog.Logger
}

// NewPool builds a pool over the default catalog.
func NewPool(narratorID string, logger *slog.Logger) *Pool {
	return NewPoolWithCatalog(DefaultCatalog(), narratorID, logger)
}

// NewPoolWithCatalog builds a pool over a custom catalog.
func NewPoolWithCatalog(catalog []Voice, narratorID string, logger *slog.Logger) *Pool {
	return &Pool{
		catalog:    catalog,
		narratorID: narratorID,
		assigned:   make(map[string]string),
		usage:      make(map[string]int),
		logger:     logger,
	}
}

// Narrator returns the reserved narrator voice ID.
func (p *Pool) Narrator() string {
	return p.narratorID
}

// Catalog returns the pool's voice roster.
func (p *Pool) Catalog() []Voice {
	return p.catalog
}

// VoiceByID returns the catalog entry for id, if any.
func (p *Pool) VoiceByID(id string) (Voice, bool) {
	for _, voice := range p.catalog {
		if voice.ID == id {
			return voice, true
		}
	}
	return Voice{}, false
}

// Assign gives the character a voice and records it on the character.
// A character that already has a voice keeps it.
func (p *Pool) Assign(ch *story.Character) string {
	if existing, ok := p.assigned[ch.ID]; ok {
		ch.VoiceID = existing
		return existing
	}

	profile := InferProfile(ch)
	voiceID := p.pick(profile)
	p.assigned[ch.ID] = voiceID
	p.usage[voiceID]++
	ch.VoiceID = voiceID
	if p.logger != nil {
		p.logger.Debug("voice assigned",
			"character", ch.ID, "voice", voiceID,
			"gender", profile.Gender, "age", profile.AgeGroup)
	}
	return voiceID
}

// AssignAll assigns voices to every character in introduction order.
func (p *Pool) AssignAll(ctx *story.Context) {
	for _, ch := range ctx.Characters() {
		p.Assign(ch)
	}
}

// AlternateFor returns a different voice with the same gender for the
// synthesis fallback chain, or the narrator voice when none exists.
func (p *Pool) AlternateFor(voiceID string) string {
	current, ok := p.VoiceByID(voiceID)
	for _, voice := range p.catalog {
		if voice.ID == voiceID || voice.ID == p.narratorID {
			continue
		}
		if !ok || voice.Gender == current.Gender {
			return voice.ID
		}
	}
	return p.narratorID
}

// pick scores every assignable voice against the profile and takes the
// best. Usage counts break toward spare voices so two characters with
// the same profile do not share one. Catalog order breaks remaining
// ties, which keeps assignment deterministic.
func (p *Pool) pick(profile Profile) string {
	var best string
	bestScore := -1 << 30
	for _, voice := range p.catalog {
		if voice.ID == p.narratorID {
			continue
		}
		score := 0
		if voice.Gender == profile.Gender {
			score += 8
		}
		if voice.AgeGroup == profile.AgeGroup {
			score += 4
		}
		if profile.Tone != "" && voice.Tone == profile.Tone {
			score += 2
		}
		score -= 16 * p.usage[voice.ID]
		if score > bestScore {
			best = voice.ID
			bestScore = score
		}
	}
	if best == "" {
		return p.narratorID
	}
	return best
}
