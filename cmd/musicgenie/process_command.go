package main

import (
	"github.com/spf13/cobra"

	"musicgenie/internal/identify"
	"musicgenie/internal/process"
	"musicgenie/internal/ui"
	"musicgenie/internal/youtube"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "process",
		Short: "Identify and download every queued snippet",
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

			// Nothing pending means no network work, so preflights come
			// after the cheap queue check.
			if len(store.ListPending()) > 0 {
				if err := cfg.RequireAcoustIDKey(); err != nil {
					return err
				}
				if err := youtube.EnsureInstalled(cmd.Context()); err != nil {
					return err
				}
			}

			identifier, err := ctx.newIdentifier()
			if err != nil {
				return err
			}
			workflow, closeCache, err := ctx.newWorkflow(out)
			if err != nil {
				return err
			}
			defer closeCache()

			loop := process.NewLoop(process.Options{
				Store:      store,
				Identifier: identifier,
				Prober:     identify.NewHTTPProber(logger),
				Acquirer:   workflow,
				Prompter:   ui.NewSurveyPrompter(),
				Out:        out,
				Logger:     logger,
			})
			_, err = loop.Run(cmd.Context())
			return err
		},
	}
}
