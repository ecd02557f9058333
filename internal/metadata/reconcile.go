package metadata

import (
	"context"
	"log/slog"
	"strings"

	"musicgenie/internal/logging"
	"musicgenie/internal/registry"
)

// Reconciler enriches partial tracks with registry lookups. Registry
// failures never fail reconciliation; the partial track is kept as-is.
type Reconciler struct {
	registry registry.Client
	logger   *slog.Logger
}

// NewReconciler builds a Reconciler over the given registry client.
func NewReconciler(client registry.Client, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		registry: client,
		logger:   logging.WithComponent(logger, "metadata"),
	}
}

// Complete fills missing fields of track from the registry. Tracks that are
// already complete are returned untouched without a lookup.
func (r *Reconciler) Complete(ctx context.Context, track *Track) *Track {
	if track == nil {
		return nil
	}
	if !track.NeedsLookup() {
		return track
	}

	release, err := r.registry.Lookup(ctx, track.Artist, track.Title)
	if err != nil {
		r.logger.Warn("registry lookup failed, keeping partial metadata",
			"artist", track.Artist, "title", track.Title, "error", err)
		return track
	}
	if release == nil {
		r.logger.Debug("no registry match", "artist", track.Artist, "title", track.Title)
		return track
	}
	Merge(track, release)
	return track
}

// ResolveFromVideo derives a track from a video's title and uploader, then
// completes it from the registry.
func (r *Reconciler) ResolveFromVideo(ctx context.Context, videoTitle, uploader string) *Track {
	artist, title := ParseVideoTitle(videoTitle, uploader)
	return r.Complete(ctx, &Track{Artist: artist, Title: title})
}

// Merge folds a registry release into track. Empty fields are filled, the
// canonical artist name replaces the seed artist, and the release id always
// wins. A track with album and year both set is left untouched.
func Merge(track *Track, release *registry.Release) {
	if track == nil || release == nil {
		return
	}
	if !track.NeedsLookup() {
		return
	}

	if name := strings.TrimSpace(release.Artist); name != "" {
		track.Artist = name
	}
	if track.Title == "" {
		track.Title = release.Title
	}
	if track.Album == "" {
		track.Album = release.Album
	}
	if track.Year == "" {
		track.Year = release.Year
	}
	if release.ReleaseID != "" {
		track.ReleaseID = release.ReleaseID
	}
}
