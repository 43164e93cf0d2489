package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"inkcast/internal/jobs"
)

func newJobsCommand(ctx *commandContext) *cobra.Command {
	jobsCmd := &cobra.Command{
		Use:   "jobs",
		Short: "Inspect processing runs",
	}

	jobsCmd.AddCommand(newJobsListCommand(ctx))
	jobsCmd.AddCommand(newJobsShowCommand(ctx))

	return jobsCmd
}

func newJobsListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJobStore(ctx, func(store *jobs.Store) error {
				list, err := store.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(list) == 0 {
					fmt.Fprintln(out, "No jobs recorded yet")
					return nil
				}
				rows := make([][]string, 0, len(list))
				for _, job := range list {
					rows = append(rows, []string{
						shortID(job.ID),
						job.Title,
						string(job.Status),
						fmt.Sprintf("%d", job.PanelCount),
						job.UpdatedAt.Local().Format(time.DateTime),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]tableColumn{
						{Title: "ID"}, {Title: "Title"}, {Title: "Status"},
						{Title: "Panels", Right: true}, {Title: "Updated"},
					},
					rows,
				))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of jobs to list")
	return cmd
}

func newJobsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <job-id>",
		Short: "Show one run with its panel outcomes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJobStore(ctx, func(store *jobs.Store) error {
				job, err := resolveJob(cmd, store, args[0])
				if err != nil {
					return err
				}
				panels, err := store.Panels(cmd.Context(), job.ID)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				kind := statusInfo
				switch job.Status {
				case jobs.StatusCompleted:
					kind = statusOK
				case jobs.StatusFailed:
					kind = statusError
				}
				message := string(job.Status)
				if job.Error != "" {
					message += ": " + job.Error
				}
				fmt.Fprintln(out, renderStatusLine(job.Title, kind, message, colorize))
				fmt.Fprintf(out, "  Job %s for document %s, %d panels\n", job.ID, job.DocumentID, job.PanelCount)

				if len(panels) == 0 {
					return nil
				}
				rows := make([][]string, 0, len(panels))
				for _, record := range panels {
					rows = append(rows, []string{
						fmt.Sprintf("%d", record.PanelIndex),
						record.Status,
						formatDuration(record.Duration),
						record.AudioKey,
						record.Detail,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]tableColumn{
						{Title: "Panel", Right: true}, {Title: "Status"},
						{Title: "Duration", Right: true}, {Title: "Audio"}, {Title: "Detail"},
					},
					rows,
				))
				return nil
			})
		},
	}
}

// resolveJob accepts a full job ID or the short prefix printed by list.
func resolveJob(cmd *cobra.Command, store *jobs.Store, id string) (*jobs.Job, error) {
	job, err := store.GetByID(cmd.Context(), id)
	if err == nil {
		return job, nil
	}
	list, listErr := store.List(cmd.Context(), 0)
	if listErr != nil {
		return nil, err
	}
	for _, candidate := range list {
		if shortID(candidate.ID) == id {
			return candidate, nil
		}
	}
	return nil, err
}

func withJobStore(ctx *commandContext, fn func(*jobs.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	store, err := jobs.Open(cfg.Paths.WorkDir)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}
