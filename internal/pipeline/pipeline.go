package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"inkcast/internal/analyzer"
	"inkcast/internal/composer"
	"inkcast/internal/config"
	"inkcast/internal/jobs"
	"inkcast/internal/logging"
	"inkcast/internal/panels"
	"inkcast/internal/reqcache"
	"inkcast/internal/services"
	"inkcast/internal/storage"
	"inkcast/internal/story"
	"inkcast/internal/synthesis"
	"inkcast/internal/voices"
)

// VisionClient is the slice of the vision service the pipeline needs.
type VisionClient interface {
	Analyze(ctx context.Context, panel panels.Panel, contextSummary string) (*story.VisualAnalysis, error)
}

// Pipeline wires the stages together.
type Pipeline struct {
	cfg           *config.Config
	vision        VisionClient
	analyzer      *analyzer.Analyzer
	pool          *voices.Pool
	orchestrator  *synthesis.Orchestrator
	store         storage.ObjectStore
	jobs          *jobs.Store
	analysisCache *reqcache.Cache
	logger        *slog.Logger
}

// Options bundles the pipeline's collaborators. Jobs may be nil to skip
// persistence of run records.
type Options struct {
	Config       *config.Config
	Vision       VisionClient
	Pool         *voices.Pool
	Orchestrator *synthesis.Orchestrator
	Store        storage.ObjectStore
	Jobs         *jobs.Store
	Logger       *slog.Logger
}

// New assembles a pipeline.
func New(opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	narration := opts.Config.Narration
	return &Pipeline{
		cfg:    opts.Config,
		vision: opts.Vision,
		analyzer: analyzer.New(analyzer.Config{
			CharacterMatchThreshold:    narration.CharacterMatchThreshold,
			SceneMatchThreshold:        narration.SceneMatchThreshold,
			SignificantChangeThreshold: narration.SignificantChangeThreshold,
		}, logging.WithComponent(logger, "analyzer")),
		pool:          opts.Pool,
		orchestrator:  opts.Orchestrator,
		store:         opts.Store,
		jobs:          opts.Jobs,
		analysisCache: reqcache.New(time.Duration(narration.CacheTTLSeconds) * time.Second),
		logger:        logging.WithComponent(logger, "pipeline"),
	}
}

// PanelOutcome is the per-panel summary of a run.
type PanelOutcome struct {
	PanelIndex int
	Status     synthesis.PanelStatus
	Detail     string
	Duration   time.Duration
	AudioKey   string
}

// Result is the outcome of one document run.
type Result struct {
	JobID      string
	DocumentID string
	Title      string
	Panels     []PanelOutcome
	Narratives []story.PanelNarrative
	Characters []*story.Character
	Duration   time.Duration
}

// Degraded counts panels that completed with placeholders.
func (r *Result) Degraded() int {
	return r.countStatus(synthesis.PanelDegraded)
}

// Failed counts panels that produced no audio.
func (r *Result) Failed() int {
	return r.countStatus(synthesis.PanelFailed)
}

func (r *Result) countStatus(status synthesis.PanelStatus) int {
	var n int
	for _, panel := range r.Panels {
		if panel.Status == status {
			n++
		}
	}
	return n
}

// ProcessDocument runs the full pipeline over the document at path.
func (p *Pipeline) ProcessDocument(ctx context.Context, path string) (*Result, error) {
	doc, err := panels.LoadDocument(path)
	if err != nil {
		return nil, err
	}
	p.logger.Info("document loaded", "document", doc.ID, "title", doc.Title, "panels", len(doc.Panels))
	if groups := reqcache.GroupPanels(doc.Panels); len(groups) < len(doc.Panels) {
		p.logger.Info("re-used artwork detected",
			"panels", len(doc.Panels), "unique", len(groups))
	}

	var job *jobs.Job
	if p.jobs != nil {
		job, err = p.jobs.Create(ctx, doc.ID, doc.Title, len(doc.Panels))
		if err != nil {
			return nil, err
		}
	}
	result := &Result{DocumentID: doc.ID, Title: doc.Title}
	if job != nil {
		result.JobID = job.ID
	}

	run := func() error {
		narratives, storyCtx, degradedPanels, err := p.analyzeAndCompose(ctx, doc, job)
		if err != nil {
			return err
		}
		result.Narratives = narratives
		result.Characters = storyCtx.Characters()

		p.setJobStatus(ctx, job, jobs.StatusVoicing)
		p.pool.AssignAll(storyCtx)
		voiceFor := func(characterID string) string {
			if ch := storyCtx.CharacterByID(characterID); ch != nil {
				return ch.VoiceID
			}
			return ""
		}
		audio, err := p.orchestrator.SynthesizeDocument(ctx, narratives, voiceFor)
		if err != nil {
			return err
		}
		return p.persist(ctx, doc, job, narratives, audio, degradedPanels, result)
	}

	if err := run(); err != nil {
		if job != nil {
			// Best effort with a fresh context so cancellation still
			// leaves a record.
			recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			_ = p.jobs.SetStatus(recordCtx, job.ID, jobs.StatusFailed, err.Error())
		}
		return nil, err
	}
	p.setJobStatus(ctx, job, jobs.StatusCompleted)
	p.logger.Info("document complete",
		"document", doc.ID,
		"panels", len(result.Panels),
		"degraded", result.Degraded(),
		"duration", result.Duration)
	return result, nil
}

// analyzeAndCompose walks panels in story order. Identical panel images
// share one vision request through the analysis cache, but every panel
// still folds into the context individually so continuity holds.
func (p *Pipeline) analyzeAndCompose(ctx context.Context, doc *panels.Document, job *jobs.Job) ([]story.PanelNarrative, *story.Context, map[int]string, error) {
	p.setJobStatus(ctx, job, jobs.StatusAnalyzing)
	storyCtx := story.NewContext(doc.ID, doc.Title)
	comp := composer.New(logging.WithComponent(p.logger, "composer"))
	narratives := make([]story.PanelNarrative, 0, len(doc.Panels))
	degraded := make(map[int]string)

	for _, panel := range doc.Panels {
		if err := ctx.Err(); err != nil {
			return nil, nil, nil, err
		}
		analysis, err := p.analyzePanel(ctx, panel, storyCtx.Summary())
		if err != nil {
			if ctx.Err() != nil {
				return nil, nil, nil, ctx.Err()
			}
			p.logger.Warn("panel analysis failed, degrading",
				"panel", panel.Index, "error", err)
			analysis = analyzer.DegradedAnalysis(panel.Index)
			degraded[panel.Index] = fmt.Sprintf("analysis failed: %v", err)
		}
		resolution := p.analyzer.Fold(storyCtx, analysis)
		narratives = append(narratives, comp.Compose(resolution))
	}
	return narratives, storyCtx, degraded, nil
}

// analyzePanel consults the cache first so re-used artwork costs one
// request. The cached analysis is copied before the panel index is
// stamped on it.
func (p *Pipeline) analyzePanel(ctx context.Context, panel panels.Panel, contextSummary string) (*story.VisualAnalysis, error) {
	key := reqcache.Key("analysis", panel.Checksum)
	value, hit, err := p.analysisCache.Do(ctx, key, func(ctx context.Context) (any, error) {
		return p.vision.Analyze(ctx, panel, contextSummary)
	})
	if err != nil {
		return nil, err
	}
	if hit {
		p.logger.Debug("analysis cache hit", "panel", panel.Index, "checksum", panel.Checksum)
	}
	cached := value.(*story.VisualAnalysis)
	analysis := *cached
	analysis.PanelIndex = panel.Index
	return &analysis, nil
}

func (p *Pipeline) persist(ctx context.Context, doc *panels.Document, job *jobs.Job, narratives []story.PanelNarrative, audio []synthesis.PanelAudio, degraded map[int]string, result *Result) error {
	for i, panelAudio := range audio {
		if err := ctx.Err(); err != nil {
			return err
		}
		outcome := PanelOutcome{
			PanelIndex: panelAudio.PanelIndex,
			Status:     panelAudio.Status,
			Duration:   panelAudio.Duration,
		}
		if detail, ok := degraded[panelAudio.PanelIndex]; ok {
			outcome.Status = synthesis.PanelDegraded
			outcome.Detail = detail
		}
		for _, unit := range panelAudio.Units {
			if unit.Status == synthesis.UnitSilent && outcome.Detail == "" {
				outcome.Detail = "silent unit substituted"
			}
		}

		if len(panelAudio.Audio) > 0 {
			key := fmt.Sprintf("%s/panel-%03d.%s", doc.ID, panelAudio.PanelIndex, p.cfg.Speech.OutputFormat)
			if err := p.store.Put(ctx, key, panelAudio.Audio); err != nil {
				return err
			}
			outcome.AudioKey = key
		}

		narrativeJSON, err := json.Marshal(narratives[i])
		if err != nil {
			return services.Wrap(services.ErrFatal, "pipeline", "persist", "encode narrative", err)
		}
		transcriptKey := fmt.Sprintf("%s/panel-%03d.json", doc.ID, panelAudio.PanelIndex)
		if err := p.store.Put(ctx, transcriptKey, narrativeJSON); err != nil {
			return err
		}

		if job != nil {
			record := jobs.PanelRecord{
				JobID:      job.ID,
				PanelIndex: panelAudio.PanelIndex,
				Status:     string(outcome.Status),
				Detail:     outcome.Detail,
				Duration:   panelAudio.Duration,
				AudioKey:   outcome.AudioKey,
				Narrative:  string(narrativeJSON),
			}
			if err := p.jobs.RecordPanel(ctx, record); err != nil {
				return err
			}
		}

		result.Panels = append(result.Panels, outcome)
		result.Duration += panelAudio.Duration
	}
	return nil
}

func (p *Pipeline) setJobStatus(ctx context.Context, job *jobs.Job, status jobs.Status) {
	if job == nil {
		return
	}
	if err := p.jobs.SetStatus(ctx, job.ID, status, ""); err != nil {
		p.logger.Warn("job status update failed", "job", job.ID, "status", status, "error", err)
	}
}
