// Package process drains the offline snippet queue: every pending snippet
// is identified and, with the user's consent, searched and downloaded.
package process

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"musicgenie/internal/acquire"
	"musicgenie/internal/identify"
	"musicgenie/internal/logging"
	"musicgenie/internal/metadata"
	"musicgenie/internal/services"
	"musicgenie/internal/snippet"
	"musicgenie/internal/ui"
)

// Acquirer runs one acquisition; it is the process loop's view of the
// acquire workflow.
type Acquirer interface {
	Run(ctx context.Context, query string, seed *metadata.Track) (*acquire.Result, error)
}

// Summary counts what one process run did.
type Summary struct {
	Identified int
	Downloaded int
	Skipped    int
}

// Loop walks pending snippets in creation order.
type Loop struct {
	store      *snippet.Store
	identifier identify.Identifier
	prober     identify.Prober
	acquirer   Acquirer
	prompter   ui.Prompter
	out        io.Writer
	logger     *slog.Logger
}

// Options collects the loop dependencies.
type Options struct {
	Store      *snippet.Store
	Identifier identify.Identifier
	Prober     identify.Prober
	Acquirer   Acquirer
	Prompter   ui.Prompter
	Out        io.Writer
	Logger     *slog.Logger
}

// NewLoop builds a Loop.
func NewLoop(opts Options) *Loop {
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	return &Loop{
		store:      opts.Store,
		identifier: opts.Identifier,
		prober:     opts.Prober,
		acquirer:   opts.Acquirer,
		prompter:   opts.Prompter,
		out:        out,
		logger:     logging.WithComponent(opts.Logger, "process"),
	}
}

// Run processes every pending snippet. An empty queue returns a zero
// summary without touching the network. Offline, it returns an error and
// leaves every record untouched. A snippet whose acquisition is aborted by
// the user stays identified so a later run can retry it.
func (l *Loop) Run(ctx context.Context) (*Summary, error) {
	pending := l.store.ListPending()
	summary := &Summary{}
	if len(pending) == 0 {
		fmt.Fprintln(l.out, "No pending snippets.")
		return summary, nil
	}

	if !l.prober.IsOnline(ctx) {
		return nil, services.Wrap(services.ErrExternalService, "process", "connectivity",
			"no network connection; snippets stay queued", nil)
	}

	l.logger.Info("processing queue", "pending", len(pending))
	for _, record := range pending {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if err := l.processOne(ctx, record, summary); err != nil {
			return summary, err
		}
	}

	fmt.Fprintf(l.out, "Done: %d identified, %d downloaded, %d skipped.\n",
		summary.Identified, summary.Downloaded, summary.Skipped)
	return summary, nil
}

func (l *Loop) processOne(ctx context.Context, record *snippet.Record, summary *Summary) error {
	if _, err := os.Stat(record.AudioPath); err != nil {
		l.logger.Warn("snippet artifact missing, skipping", "id", record.ID, "audio_path", record.AudioPath)
		if _, err := l.store.Update(record.ID, snippet.Fields{Status: snippet.StatusSkipped}); err != nil {
			return err
		}
		summary.Skipped++
		return nil
	}

	fmt.Fprintf(l.out, "Identifying %s...\n", record.ID)
	track, err := l.identifier.Identify(ctx, record.AudioPath)
	if err != nil {
		// Identification failures are per-snippet, not fatal; the snippet
		// gets the same treatment as a clean no-match.
		l.logger.Warn("identification failed", "id", record.ID, "error", err)
		track = nil
	}

	if track == nil {
		return l.handleUnidentified(record, summary)
	}
	return l.handleIdentified(ctx, record, track, summary)
}

func (l *Loop) handleUnidentified(record *snippet.Record, summary *Summary) error {
	fmt.Fprintf(l.out, "Could not identify %s.\n", record.ID)
	remove, err := l.prompter.Confirm("Delete this unidentified snippet?", false)
	if err != nil {
		return err
	}
	if remove {
		if _, err := l.store.Delete(record.ID); err != nil {
			return err
		}
		l.logger.Info("unidentified snippet deleted", "id", record.ID)
	}
	summary.Skipped++
	return nil
}

func (l *Loop) handleIdentified(ctx context.Context, record *snippet.Record, track *metadata.Track, summary *Summary) error {
	identifiedAs := track.Query()
	if _, err := l.store.Update(record.ID, snippet.Fields{
		Status:       snippet.StatusIdentified,
		IdentifiedAs: identifiedAs,
	}); err != nil {
		return err
	}
	summary.Identified++
	fmt.Fprintf(l.out, "Identified: %s\n", identifiedAs)

	proceed, err := l.prompter.Confirm(fmt.Sprintf("Search and download %q?", identifiedAs), true)
	if err != nil {
		return err
	}
	if !proceed {
		if _, err := l.store.Update(record.ID, snippet.Fields{Status: snippet.StatusSkipped}); err != nil {
			return err
		}
		summary.Skipped++
		return nil
	}

	result, err := l.acquirer.Run(ctx, identifiedAs, track)
	if err != nil {
		if services.Aborted(err) {
			// Stays identified for the next run.
			l.logger.Info("acquisition aborted, snippet kept", "id", record.ID, "reason", err)
			fmt.Fprintf(l.out, "Skipped download for %s.\n", identifiedAs)
			return nil
		}
		return err
	}

	if _, err := l.store.Update(record.ID, snippet.Fields{Status: snippet.StatusDownloaded}); err != nil {
		return err
	}
	summary.Downloaded++
	fmt.Fprintf(l.out, "Saved %s\n", result.FinalPath)
	return nil
}
