package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"inkcast/internal/voices"
)

func newVoicesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "voices",
		Short: "List the synthesis voice catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			narrator := cfg.Narration.NarratorVoice

			rows := make([][]string, 0)
			for _, voice := range voices.DefaultCatalog() {
				role := ""
				if voice.ID == narrator {
					role = "narrator"
				}
				rows = append(rows, []string{
					voice.DisplayName(),
					voice.Gender,
					voice.AgeGroup,
					voice.Tone,
					strings.Join(voice.Engines, ", "),
					role,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]tableColumn{
					{Title: "Voice"}, {Title: "Gender"}, {Title: "Age"},
					{Title: "Tone"}, {Title: "Engines"}, {Title: "Role"},
				},
				rows,
			))
			return nil
		},
	}
}
