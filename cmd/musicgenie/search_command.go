package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"musicgenie/internal/services"
	"musicgenie/internal/youtube"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>...",
		Short: "Search for a track and download the chosen result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			out := cmd.OutOrStdout()

			if err := youtube.EnsureInstalled(cmd.Context()); err != nil {
				return err
			}
			workflow, closeCache, err := ctx.newWorkflow(out)
			if err != nil {
				return err
			}
			defer closeCache()

			result, err := workflow.Run(cmd.Context(), query, nil)
			if err != nil {
				if services.Aborted(err) {
					fmt.Fprintln(out, "Nothing downloaded.")
					return nil
				}
				return err
			}
			fmt.Fprintf(out, "Saved %s\n", result.FinalPath)
			return nil
		},
	}
}
