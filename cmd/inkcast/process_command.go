package main

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"inkcast/internal/config"
	"inkcast/internal/jobs"
	"inkcast/internal/logging"
	"inkcast/internal/pipeline"
	"inkcast/internal/reqcache"
	"inkcast/internal/services/speech"
	"inkcast/internal/services/vision"
	"inkcast/internal/storage"
	"inkcast/internal/synthesis"
	"inkcast/internal/voices"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process <document>",
		Short: "Narrate a panel document into the library",
		Long: "Process loads the document manifest, analyzes each panel against " +
			"the running story context, composes narration, and synthesizes " +
			"per-panel audio into the library directory.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return runProcess(cmd, cfg, args[0])
		},
	}
	return cmd
}

func runProcess(cmd *cobra.Command, cfg *config.Config, documentPath string) error {
	// One run at a time; concurrent runs would race on the jobs database
	// and interleave log output.
	lock := flock.New(filepath.Join(cfg.Paths.WorkDir, "inkcast.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another inkcast run is in progress (lock: %s)", lock.Path())
	}
	defer func() { _ = lock.Unlock() }()

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return err
	}

	store, err := storage.NewLocal(cfg.Paths.LibraryDir)
	if err != nil {
		return err
	}
	jobStore, err := jobs.Open(cfg.Paths.WorkDir)
	if err != nil {
		return err
	}
	defer jobStore.Close()

	visionClient := vision.NewClient(vision.Config{
		APIKey:            cfg.Vision.APIKey,
		BaseURL:           cfg.Vision.BaseURL,
		Model:             cfg.Vision.Model,
		FallbackModel:     cfg.Vision.FallbackModel,
		TimeoutSeconds:    cfg.Vision.TimeoutSeconds,
		MaxAttempts:       cfg.Vision.MaxAttempts,
		FallbackAfter:     cfg.Vision.FallbackAfter,
		RequestsPerMinute: cfg.Vision.RequestsPerMinute,
	}, logging.WithComponent(logger, "vision"))
	speechClient := speech.NewClient(speech.Config{
		APIKey:            cfg.Speech.APIKey,
		BaseURL:           cfg.Speech.BaseURL,
		OutputFormat:      cfg.Speech.OutputFormat,
		TimeoutSeconds:    cfg.Speech.TimeoutSeconds,
		MaxAttempts:       cfg.Speech.MaxAttempts,
		RequestsPerMinute: cfg.Speech.RequestsPerMinute,
	}, logging.WithComponent(logger, "speech"))

	pool := voices.NewPool(cfg.Narration.NarratorVoice, logging.WithComponent(logger, "voices"))
	synthCache := reqcache.New(time.Duration(cfg.Narration.CacheTTLSeconds) * time.Second)
	orchestrator := synthesis.New(speechClient, pool, synthCache, synthesis.Config{
		Engine:         cfg.Speech.Engine,
		FallbackEngine: cfg.Speech.FallbackEngine,
		OutputFormat:   cfg.Speech.OutputFormat,
		Concurrency:    cfg.Speech.Concurrency,
	}, logging.WithComponent(logger, "synthesis"))

	p := pipeline.New(pipeline.Options{
		Config:       cfg,
		Vision:       visionClient,
		Pool:         pool,
		Orchestrator: orchestrator,
		Store:        store,
		Jobs:         jobStore,
		Logger:       logger,
	})

	runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := p.ProcessDocument(runCtx, documentPath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	fmt.Fprintln(out, renderProcessResult(result, colorize))
	return nil
}

func renderProcessResult(result *pipeline.Result, colorize bool) string {
	rows := make([][]string, 0, len(result.Panels))
	for _, panel := range result.Panels {
		rows = append(rows, []string{
			fmt.Sprintf("%d", panel.PanelIndex),
			string(panel.Status),
			formatDuration(panel.Duration),
			panel.AudioKey,
			panel.Detail,
		})
	}
	output := renderTable(
		[]tableColumn{
			{Title: "Panel", Right: true}, {Title: "Status"},
			{Title: "Duration", Right: true}, {Title: "Audio"}, {Title: "Detail"},
		},
		rows,
	)

	kind := statusOK
	summary := fmt.Sprintf("%d panels narrated, %s total", len(result.Panels), formatDuration(result.Duration))
	if degraded := result.Degraded(); degraded > 0 {
		kind = statusWarn
		summary += fmt.Sprintf(", %d degraded", degraded)
	}
	if failed := result.Failed(); failed > 0 {
		kind = statusError
		summary += fmt.Sprintf(", %d failed", failed)
	}

	output += "\n" + renderStatusLine(result.Title, kind, summary, colorize)
	if result.JobID != "" {
		output += "\n" + renderStatusLine("Job", statusInfo, result.JobID, colorize)
	}
	return output
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return d.Round(100 * time.Millisecond).String()
}
