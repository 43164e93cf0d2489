package analyzer

import (
	"log/slog"
	"strings"

	"inkcast/internal/story"
	"inkcast/internal/textutil"
)

// Config holds the similarity thresholds for identity resolution.
type Config struct {
	// CharacterMatchThreshold is the minimum score for an observation to
	// resolve to a tracked character.
	CharacterMatchThreshold float64
	// SceneMatchThreshold is the minimum score for a location to resolve
	// to a tracked scene.
	SceneMatchThreshold float64
	// SignificantChangeThreshold flags a matched character whose
	// description drifted far enough that narration should re-describe
	// them.
	SignificantChangeThreshold float64
}

// Analyzer resolves observations against the story context.
type Analyzer struct {
	cfg    Config
	logger *slog.Logger
}

// New builds an Analyzer. A nil logger disables logging.
func New(cfg Config, logger *slog.Logger) *Analyzer {
	if cfg.CharacterMatchThreshold <= 0 {
		cfg.CharacterMatchThreshold = 0.55
	}
	if cfg.SceneMatchThreshold <= 0 {
		cfg.SceneMatchThreshold = 0.60
	}
	if cfg.SignificantChangeThreshold <= 0 {
		cfg.SignificantChangeThreshold = 0.35
	}
	return &Analyzer{cfg: cfg, logger: logger}
}

// ResolvedCharacter pairs an observation with its tracked identity.
type ResolvedCharacter struct {
	Character   *story.Character
	Observation story.ObservedCharacter
	// Introduced is set when this panel is the character's first
	// appearance.
	Introduced bool
	// Changed is set when a returning character looks different enough
	// that narration should describe them again.
	Changed bool
}

// ResolvedLine is a dialogue line with its speaker resolved.
type ResolvedLine struct {
	CharacterID string
	Speaker     string
	Text        string
	Emotion     string
}

// Resolution is the context-aware reading of one panel.
type Resolution struct {
	PanelIndex int
	Summary    string
	Characters []ResolvedCharacter
	Scene      *story.Scene
	// SceneIntroduced is set for a never-seen location; SceneChanged for
	// any move away from the previous panel's location, including a
	// return to an earlier one.
	SceneIntroduced bool
	SceneChanged    bool
	Dialogue        []ResolvedLine
	Actions         []string
	SpatialLayout   string
	Degraded        bool
}

// DegradedAnalysis stands in for a panel whose visual analysis failed
// for good. It carries no observations, so the context is untouched.
func DegradedAnalysis(panelIndex int) *story.VisualAnalysis {
	return &story.VisualAnalysis{
		PanelIndex: panelIndex,
		Summary:    "The scene continues.",
		Degraded:   true,
	}
}

// Fold resolves one panel's analysis against the context and updates it.
// Panels must be folded in story order.
func (a *Analyzer) Fold(ctx *story.Context, analysis *story.VisualAnalysis) *Resolution {
	res := &Resolution{
		PanelIndex:    analysis.PanelIndex,
		Summary:       analysis.Summary,
		Actions:       analysis.Actions,
		SpatialLayout: analysis.SpatialLayout,
		Degraded:      analysis.Degraded,
	}
	if analysis.Degraded {
		ctx.AdvancePanel()
		return res
	}

	for _, obs := range analysis.Characters {
		res.Characters = append(res.Characters, a.resolveCharacter(ctx, obs, analysis.PanelIndex))
	}
	a.resolveScene(ctx, analysis, res)
	res.Dialogue = a.resolveDialogue(ctx, analysis.Dialogue)
	ctx.AdvancePanel()
	return res
}

func (a *Analyzer) resolveCharacter(ctx *story.Context, obs story.ObservedCharacter, panelIndex int) ResolvedCharacter {
	match, score := a.bestCharacterMatch(ctx, obs)
	if match == nil {
		character := ctx.AddCharacter(&story.Character{})
		character.Observe(obs, panelIndex)
		if a.logger != nil {
			a.logger.Debug("character introduced",
				"character", character.ID, "panel", panelIndex, "name", obs.Name)
		}
		return ResolvedCharacter{Character: character, Observation: obs, Introduced: true}
	}

	changed := score < a.cfg.SignificantChangeThreshold
	match.Observe(obs, panelIndex)
	if a.logger != nil {
		a.logger.Debug("character matched",
			"character", match.ID, "panel", panelIndex, "score", score, "changed", changed)
	}
	return ResolvedCharacter{Character: match, Observation: obs, Changed: changed}
}

// bestCharacterMatch scores the observation against every tracked
// character. An exact name match wins outright. Otherwise the score
// blends description similarity with attribute overlap, and ties go to
// the character seen most recently.
func (a *Analyzer) bestCharacterMatch(ctx *story.Context, obs story.ObservedCharacter) (*story.Character, float64) {
	obsName := strings.ToLower(strings.TrimSpace(obs.Name))
	obsFingerprint := textutil.NewFingerprint(obs.Description)
	obsAttrs := tokenizeAttributes(obs.Attributes)

	var best *story.Character
	var bestScore float64
	for _, candidate := range ctx.Characters() {
		if obsName != "" && strings.ToLower(candidate.Name) == obsName {
			return candidate, characterScore(candidate, obsFingerprint, obsAttrs)
		}
		score := characterScore(candidate, obsFingerprint, obsAttrs)
		if score < a.cfg.CharacterMatchThreshold {
			continue
		}
		switch {
		case best == nil, score > bestScore:
			best = candidate
			bestScore = score
		case score == bestScore && candidate.LastSeenPanel > best.LastSeenPanel:
			best = candidate
		}
	}
	return best, bestScore
}

func characterScore(candidate *story.Character, fp *textutil.Fingerprint, attrs []string) float64 {
	description := textutil.CosineSimilarity(candidate.Fingerprint(), fp)
	overlap := textutil.JaccardSimilarity(tokenizeAttributes(candidate.Attributes), attrs)
	if overlap == 0 {
		return description
	}
	return 0.7*description + 0.3*overlap
}

func (a *Analyzer) resolveScene(ctx *story.Context, analysis *story.VisualAnalysis, res *Resolution) {
	obs := analysis.Scene
	if strings.TrimSpace(obs.Location) == "" && strings.TrimSpace(obs.Description) == "" {
		res.Scene = ctx.CurrentScene()
		return
	}

	obsFingerprint := textutil.NewFingerprint(obs.Location + " " + obs.Description)
	obsLocation := strings.ToLower(strings.TrimSpace(obs.Location))

	var best *story.Scene
	var bestScore float64
	for _, candidate := range ctx.Scenes() {
		if obsLocation != "" && strings.ToLower(candidate.Location) == obsLocation {
			best = candidate
			bestScore = 1
			break
		}
		score := textutil.CosineSimilarity(candidate.Fingerprint(), obsFingerprint)
		if score < a.cfg.SceneMatchThreshold {
			continue
		}
		switch {
		case best == nil, score > bestScore:
			best = candidate
			bestScore = score
		case score == bestScore && candidate.LastPanel > best.LastPanel:
			best = candidate
		}
	}

	previous := ctx.CurrentScene()
	if best == nil {
		best = ctx.AddScene(&story.Scene{})
		res.SceneIntroduced = true
	}
	best.Observe(obs, analysis.PanelIndex)
	res.Scene = best
	res.SceneChanged = previous == nil || previous.ID != best.ID
	ctx.SetCurrentScene(best.ID)
	if a.logger != nil && res.SceneChanged {
		a.logger.Debug("scene change",
			"scene", best.ID, "panel", analysis.PanelIndex, "introduced", res.SceneIntroduced)
	}
}

// resolveDialogue attributes each line to a tracked character by name.
// Unattributed lines keep their speaker label and fall to the narrator's
// voice downstream.
func (a *Analyzer) resolveDialogue(ctx *story.Context, lines []story.DialogueLine) []ResolvedLine {
	if len(lines) == 0 {
		return nil
	}
	resolved := make([]ResolvedLine, 0, len(lines))
	for _, line := range lines {
		out := ResolvedLine{Speaker: line.Speaker, Text: line.Text, Emotion: line.Emotion}
		speaker := strings.ToLower(strings.TrimSpace(line.Speaker))
		for _, candidate := range ctx.Characters() {
			if speaker != "" && strings.ToLower(candidate.Name) == speaker {
				out.CharacterID = candidate.ID
				break
			}
		}
		resolved = append(resolved, out)
	}
	return resolved
}

func tokenizeAttributes(attrs []string) []string {
	var tokens []string
	for _, attr := range attrs {
		tokens = append(tokens, textutil.Tokenize(attr)...)
	}
	return tokens
}
