package metadata

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"musicgenie/internal/logging"
)

// coverArtBase serves front cover images keyed by registry release id.
const coverArtBase = "https://coverartarchive.org"

// maxCoverBytes caps a cover download; anything larger is rejected rather
// than embedded into every tagged file.
const maxCoverBytes = 10 << 20

// CoverFetcher downloads front cover art for a track. Cover art is strictly
// best-effort: every failure path returns nil bytes and no error.
type CoverFetcher struct {
	client  *http.Client
	baseURL string
	logger  *slog.Logger
}

// NewCoverFetcher builds a fetcher with a short timeout so a slow art server
// cannot stall an acquisition.
func NewCoverFetcher(logger *slog.Logger) *CoverFetcher {
	return &CoverFetcher{
		client:  &http.Client{Timeout: 5 * time.Second},
		baseURL: coverArtBase,
		logger:  logging.WithComponent(logger, "coverart"),
	}
}

// Fetch returns the front cover image bytes for track, or nil when no art
// could be retrieved. The release-id URL is preferred; the track's own
// CoverURL is the fallback.
func (f *CoverFetcher) Fetch(ctx context.Context, track *Track) []byte {
	if track == nil {
		return nil
	}

	var urls []string
	if track.ReleaseID != "" {
		urls = append(urls, fmt.Sprintf("%s/release/%s/front", f.baseURL, track.ReleaseID))
	}
	if track.CoverURL != "" {
		urls = append(urls, track.CoverURL)
	}

	for _, url := range urls {
		data, err := f.fetchOne(ctx, url)
		if err != nil {
			f.logger.Debug("cover fetch failed", "url", url, "error", err)
			continue
		}
		return data
	}
	return nil
}

func (f *CoverFetcher) fetchOne(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCoverBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 || len(data) > maxCoverBytes {
		return nil, fmt.Errorf("unusable cover size %d", len(data))
	}
	return data, nil
}
