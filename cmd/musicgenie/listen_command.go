package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"musicgenie/internal/capture"
	"musicgenie/internal/identify"
	"musicgenie/internal/services"
	"musicgenie/internal/snippet"
	"musicgenie/internal/ui"
	"musicgenie/internal/youtube"
)

func newListenCommand(ctx *commandContext) *cobra.Command {
	var saveOnly bool

	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Record a snippet from the microphone and identify it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			recorder := capture.NewRecorder(cfg, true, logger)
			audioPath := filepath.Join(cfg.SnippetsDir(), snippet.NewArtifactName(time.Now(), ".wav"))

			fmt.Fprintf(out, "Listening for %d seconds...\n", cfg.Audio.RecordDuration)
			if err := recorder.Record(cmd.Context(), audioPath); err != nil {
				return err
			}
			record, err := store.Create(audioPath)
			if err != nil {
				return err
			}

			if saveOnly {
				fmt.Fprintf(out, "Snippet %s saved for later. Run `musicgenie process` to identify it.\n", record.ID)
				return nil
			}

			if err := cfg.RequireAcoustIDKey(); err != nil {
				fmt.Fprintf(out, "Snippet %s queued: %v\n", record.ID, err)
				return nil
			}
			prober := identify.NewHTTPProber(logger)
			if !prober.IsOnline(cmd.Context()) {
				fmt.Fprintf(out, "No network connection. Snippet %s queued; run `musicgenie process` when back online.\n", record.ID)
				return nil
			}

			identifier, err := ctx.newIdentifier()
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "Identifying...")
			track, err := identifier.Identify(cmd.Context(), record.AudioPath)
			if err != nil {
				fmt.Fprintf(out, "Identification failed (%v). Snippet %s stays queued.\n", err, record.ID)
				return nil
			}
			if track == nil {
				fmt.Fprintf(out, "Could not identify the snippet. It stays queued as %s.\n", record.ID)
				return nil
			}

			identifiedAs := track.Query()
			if _, err := store.Update(record.ID, snippet.Fields{
				Status:       snippet.StatusIdentified,
				IdentifiedAs: identifiedAs,
			}); err != nil {
				return err
			}
			fmt.Fprintf(out, "Identified: %s\n", identifiedAs)

			prompter := ui.NewSurveyPrompter()
			proceed, err := prompter.Confirm(fmt.Sprintf("Search and download %q?", identifiedAs), true)
			if err != nil {
				return err
			}
			if !proceed {
				_, err := store.Update(record.ID, snippet.Fields{Status: snippet.StatusSkipped})
				return err
			}

			if err := youtube.EnsureInstalled(cmd.Context()); err != nil {
				return err
			}
			workflow, closeCache, err := ctx.newWorkflow(out)
			if err != nil {
				return err
			}
			defer closeCache()

			result, err := workflow.Run(cmd.Context(), identifiedAs, track)
			if err != nil {
				if services.Aborted(err) {
					fmt.Fprintf(out, "Download skipped; snippet %s stays identified.\n", record.ID)
					return nil
				}
				return err
			}
			if _, err := store.Update(record.ID, snippet.Fields{Status: snippet.StatusDownloaded}); err != nil {
				return err
			}
			fmt.Fprintf(out, "Saved %s\n", result.FinalPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&saveOnly, "save", false, "Queue the snippet without identifying it now")
	return cmd
}
