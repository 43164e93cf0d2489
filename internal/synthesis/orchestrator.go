package synthesis

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"inkcast/internal/reqcache"
	"inkcast/internal/services/speech"
	"inkcast/internal/story"
	"inkcast/internal/voices"
)

// Synthesizer is the slice of the speech client the orchestrator needs.
type Synthesizer interface {
	Synthesize(ctx context.Context, req speech.Request) (*speech.Result, error)
}

// Config controls dispatch and the fallback chain.
type Config struct {
	Engine         string
	FallbackEngine string
	OutputFormat   string
	Concurrency    int
}

// Orchestrator synthesizes narration units and assembles panel audio.
type Orchestrator struct {
	client Synthesizer
	pool   *voices.Pool
	cache  *reqcache.Cache
	cfg    Config
	logger *slog.Logger
}

// New builds an Orchestrator. The cache may be nil to disable caching.
func New(client Synthesizer, pool *voices.Pool, cache *reqcache.Cache, cfg Config, logger *slog.Logger) *Orchestrator {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.Engine == "" {
		cfg.Engine = "neural"
	}
	return &Orchestrator{client: client, pool: pool, cache: cache, cfg: cfg, logger: logger}
}

// SynthesizeDocument converts the narratives to per-panel audio. Units
// synthesize concurrently up to the configured limit, then reassemble in
// panel and line order regardless of completion order. The only error
// returned is context cancellation; per-unit failures degrade to
// silence instead.
func (o *Orchestrator) SynthesizeDocument(ctx context.Context, narratives []story.PanelNarrative, voiceFor func(characterID string) string) ([]PanelAudio, error) {
	if voiceFor == nil {
		voiceFor = func(string) string { return "" }
	}
	units := SplitUnits(narratives, voiceFor, o.pool.Narrator())
	results := make([]UnitResult, len(units))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.Concurrency)
	for i, unit := range units {
		i, unit := i, unit
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = o.synthesizeUnit(ctx, unit)
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return assemble(narratives, results), nil
}

// synthesizeUnit walks the fallback chain: preferred voice and engine,
// then the fallback engine, then an alternate voice, then silence.
func (o *Orchestrator) synthesizeUnit(ctx context.Context, unit Unit) UnitResult {
	type step struct {
		voiceID string
		engine  string
		status  UnitStatus
	}
	var chain []step
	addStep := func(voiceID, engine string, status UnitStatus) {
		if voice, ok := o.pool.VoiceByID(voiceID); ok && !voice.SupportsEngine(engine) {
			return
		}
		for _, existing := range chain {
			if existing.voiceID == voiceID && existing.engine == engine {
				return
			}
		}
		chain = append(chain, step{voiceID, engine, status})
	}
	addStep(unit.VoiceID, o.cfg.Engine, UnitOK)
	if o.cfg.FallbackEngine != "" {
		addStep(unit.VoiceID, o.cfg.FallbackEngine, UnitFallback)
	}
	alternate := o.pool.AlternateFor(unit.VoiceID)
	addStep(alternate, o.cfg.Engine, UnitFallback)
	if o.cfg.FallbackEngine != "" {
		addStep(alternate, o.cfg.FallbackEngine, UnitFallback)
	}

	for _, attempt := range chain {
		if ctx.Err() != nil {
			break
		}
		result, err := o.synthesizeCached(ctx, unit.Text, attempt.voiceID, attempt.engine)
		if err != nil {
			if o.logger != nil {
				o.logger.Warn("synthesis step failed",
					"panel", unit.PanelIndex, "seq", unit.Seq,
					"voice", attempt.voiceID, "engine", attempt.engine, "error", err)
			}
			continue
		}
		return UnitResult{
			Unit:      unit,
			Audio:     result.Audio,
			Engine:    attempt.engine,
			UsedVoice: attempt.voiceID,
			Duration:  result.Duration,
			Status:    attempt.status,
		}
	}

	duration := speech.EstimateDuration(unit.Text)
	if o.logger != nil {
		o.logger.Error("synthesis exhausted, inserting silence",
			"panel", unit.PanelIndex, "seq", unit.Seq, "duration", duration)
	}
	return UnitResult{
		Unit:     unit,
		Audio:    SilentAudio(duration),
		Duration: duration,
		Status:   UnitSilent,
	}
}

func (o *Orchestrator) synthesizeCached(ctx context.Context, text, voiceID, engine string) (*speech.Result, error) {
	if o.cache == nil {
		return o.client.Synthesize(ctx, speech.Request{Text: text, VoiceID: voiceID, Engine: engine})
	}
	key := reqcache.Key(reqcache.NormalizeText(text), voiceID, engine, o.cfg.OutputFormat)
	value, _, err := o.cache.Do(ctx, key, func(ctx context.Context) (any, error) {
		return o.client.Synthesize(ctx, speech.Request{Text: text, VoiceID: voiceID, Engine: engine})
	})
	if err != nil {
		return nil, err
	}
	return value.(*speech.Result), nil
}

// assemble groups unit results back into panels in narrative order.
func assemble(narratives []story.PanelNarrative, results []UnitResult) []PanelAudio {
	byPanel := make(map[int][]UnitResult, len(narratives))
	for _, result := range results {
		byPanel[result.PanelIndex] = append(byPanel[result.PanelIndex], result)
	}

	out := make([]PanelAudio, 0, len(narratives))
	for _, narrative := range narratives {
		units := byPanel[narrative.PanelIndex]
		panel := PanelAudio{PanelIndex: narrative.PanelIndex, Units: units, Status: PanelOK}
		for _, unit := range units {
			panel.Audio = append(panel.Audio, unit.Audio...)
			panel.Duration += unit.Duration
			if unit.Status == UnitSilent {
				panel.Status = PanelDegraded
			}
		}
		if narrative.Degraded {
			panel.Status = PanelDegraded
		}
		if len(units) == 0 {
			panel.Status = PanelFailed
		}
		out = append(out, panel)
	}
	return out
}
