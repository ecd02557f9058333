// Package acquire runs the interactive acquisition workflow: search for
// candidates, let the user pick one, download and transcode it, reconcile
// metadata, move it into the library, and embed tags.
package acquire

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"musicgenie/internal/config"
	"musicgenie/internal/logging"
	"musicgenie/internal/metadata"
	"musicgenie/internal/services"
	"musicgenie/internal/tag"
	"musicgenie/internal/textutil"
	"musicgenie/internal/ui"
	"musicgenie/internal/youtube"
)

// CoverFetcher is the cover-art dependency of the workflow. Failures are
// represented as nil bytes, never errors.
type CoverFetcher interface {
	Fetch(ctx context.Context, track *metadata.Track) []byte
}

// Result describes a completed acquisition.
type Result struct {
	FinalPath string
	Track     *metadata.Track
}

// Workflow wires the acquisition steps together.
type Workflow struct {
	searcher   youtube.Searcher
	downloader youtube.Downloader
	prompter   ui.Prompter
	reconciler *metadata.Reconciler
	covers     CoverFetcher
	tagger     tag.Embedder
	outputDir  string
	out        io.Writer
	logger     *slog.Logger
}

// Options collects the workflow dependencies.
type Options struct {
	Searcher   youtube.Searcher
	Downloader youtube.Downloader
	Prompter   ui.Prompter
	Reconciler *metadata.Reconciler
	Covers     CoverFetcher
	Tagger     tag.Embedder
	Config     *config.Config
	Out        io.Writer
	Logger     *slog.Logger
}

// NewWorkflow builds a Workflow from its dependencies.
func NewWorkflow(opts Options) *Workflow {
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	return &Workflow{
		searcher:   opts.Searcher,
		downloader: opts.Downloader,
		prompter:   opts.Prompter,
		reconciler: opts.Reconciler,
		covers:     opts.Covers,
		tagger:     opts.Tagger,
		outputDir:  opts.Config.Paths.OutputDir,
		out:        out,
		logger:     logging.WithComponent(opts.Logger, "acquire"),
	}
}

// Run acquires one track for the query. The seed track, when non-nil,
// carries already-identified metadata; otherwise metadata is derived from
// the chosen video. A cancelled pick returns ErrCancelled and an empty
// result set returns ErrNoResults, both recognizable via services.Aborted.
func (w *Workflow) Run(ctx context.Context, query string, seed *metadata.Track) (*Result, error) {
	candidates, err := w.searcher.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, services.Wrap(services.ErrNoResults, "acquire", "search",
			fmt.Sprintf("no results for %q", query), nil)
	}

	fmt.Fprintln(w.out, ui.CandidateTable(candidates))
	selection, err := w.prompter.PickCandidate(candidates)
	if err != nil {
		return nil, err
	}
	if selection.Cancelled {
		return nil, services.Wrap(services.ErrCancelled, "acquire", "select",
			"selection cancelled", nil)
	}
	chosen := candidates[selection.Index]

	stagingDir := filepath.Join(w.outputDir, ".incoming")
	downloadedPath, err := w.downloader.Download(ctx, chosen, stagingDir)
	if err != nil {
		return nil, err
	}

	var track *metadata.Track
	if seed != nil {
		track = w.reconciler.Complete(ctx, seed)
	} else {
		track = w.reconciler.ResolveFromVideo(ctx, chosen.Title, chosen.Uploader)
	}

	finalPath, err := w.placeInLibrary(downloadedPath, track)
	if err != nil {
		return nil, err
	}

	var art []byte
	if w.covers != nil {
		art = w.covers.Fetch(ctx, track)
		if art == nil {
			w.logger.Debug("no cover art available", "artist", track.Artist, "title", track.Title)
		}
	}
	if err := w.tagger.Embed(finalPath, track, art); err != nil {
		return nil, err
	}

	w.logger.Info("track acquired", "path", finalPath, "artist", track.Artist, "title", track.Title)
	return &Result{FinalPath: finalPath, Track: track}, nil
}

// placeInLibrary moves the downloaded file to
// <output>/<artist>/<title><ext>, silently replacing a previous download of
// the same track.
func (w *Workflow) placeInLibrary(downloadedPath string, track *metadata.Track) (string, error) {
	artistDir := textutil.SanitizePathComponent(track.Artist)
	fileName := textutil.SanitizePathComponent(track.Title) + filepath.Ext(downloadedPath)

	destDir := filepath.Join(w.outputDir, artistDir)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", services.Wrap(services.ErrFilesystem, "acquire", "place",
			"create artist directory", err)
	}

	finalPath := filepath.Join(destDir, fileName)
	if err := os.Rename(downloadedPath, finalPath); err != nil {
		return "", services.Wrap(services.ErrFilesystem, "acquire", "place",
			"move track into library", err)
	}
	return finalPath, nil
}
