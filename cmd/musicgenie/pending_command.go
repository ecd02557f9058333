package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"musicgenie/internal/snippet"
	"musicgenie/internal/ui"
)

func newPendingCommand(ctx *commandContext) *cobra.Command {
	var showAll bool

	cmd := &cobra.Command{
		Use:   "pending",
		Short: "List queued snippets",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			var records []*snippet.Record
			if showAll {
				records = store.ListAll()
			} else {
				records = store.ListPending()
			}
			if len(records) == 0 {
				if showAll {
					fmt.Fprintln(out, "No snippets.")
				} else {
					fmt.Fprintln(out, "No pending snippets.")
				}
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, record := range records {
				rows = append(rows, []string{
					record.ID,
					record.RecordedAt.Local().Format(time.DateTime),
					string(record.Status),
					record.IdentifiedAs,
				})
			}
			fmt.Fprintln(out, ui.RenderTable(
				[]string{"ID", "Recorded", "Status", "Identified As"},
				rows,
				[]ui.Alignment{ui.AlignLeft, ui.AlignLeft, ui.AlignLeft, ui.AlignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showAll, "all", "a", false, "Include processed snippets")
	return cmd
}
