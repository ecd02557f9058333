package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"musicgenie/internal/config"
	"musicgenie/internal/logging"
	"musicgenie/internal/services"
)

// Release is the registry's best match for an (artist, title) query.
type Release struct {
	Artist    string
	Title     string
	Album     string
	Year      string
	ReleaseID string
}

// Client resolves (artist, title) to a canonical release. A nil Release with
// a nil error means the registry had no match.
type Client interface {
	Lookup(ctx context.Context, artist, title string) (*Release, error)
}

const searchLimit = 5

// HTTPClient queries the MusicBrainz ws/2 recording search.
type HTTPClient struct {
	baseURL   string
	userAgent string
	client    *http.Client
	logger    *slog.Logger
}

// NewHTTPClient builds a MusicBrainz client from configuration.
func NewHTTPClient(cfg *config.Config, logger *slog.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL:   strings.TrimRight(cfg.MusicBrainz.BaseURL, "/"),
		userAgent: cfg.MusicBrainz.UserAgent,
		client:    &http.Client{},
		logger:    logging.WithComponent(logger, "registry"),
	}
}

type searchResponse struct {
	Recordings []struct {
		Title        string `json:"title"`
		ArtistCredit []struct {
			Name   string `json:"name"`
			Artist struct {
				Name string `json:"name"`
			} `json:"artist"`
		} `json:"artist-credit"`
		Releases []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
			Date  string `json:"date"`
		} `json:"releases"`
	} `json:"recordings"`
}

// Lookup implements Client against the live MusicBrainz service.
func (c *HTTPClient) Lookup(ctx context.Context, artist, title string) (*Release, error) {
	query := fmt.Sprintf(`artist:%q AND recording:%q`, artist, title)
	endpoint := fmt.Sprintf("%s/recording?query=%s&fmt=json&limit=%d", c.baseURL, url.QueryEscape(query), searchLimit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalService, "registry", "lookup", "build request", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalService, "registry", "lookup", "musicbrainz unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, services.Wrap(services.ErrExternalService, "registry", "lookup",
			fmt.Sprintf("musicbrainz returned status %d", resp.StatusCode), nil)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, services.Wrap(services.ErrExternalService, "registry", "lookup", "decode response", err)
	}

	if len(parsed.Recordings) == 0 {
		c.logger.Debug("registry had no match", "artist", artist, "title", title)
		return nil, nil
	}

	best := parsed.Recordings[0]
	release := &Release{
		Artist: artist,
		Title:  best.Title,
	}
	if release.Title == "" {
		release.Title = title
	}
	if len(best.ArtistCredit) > 0 {
		if name := best.ArtistCredit[0].Artist.Name; name != "" {
			release.Artist = name
		} else if name := best.ArtistCredit[0].Name; name != "" {
			release.Artist = name
		}
	}
	if len(best.Releases) > 0 {
		first := best.Releases[0]
		release.Album = first.Title
		release.ReleaseID = first.ID
		if len(first.Date) >= 4 {
			release.Year = first.Date[:4]
		}
	}

	c.logger.Debug("registry match",
		"artist", release.Artist, "title", release.Title,
		"album", release.Album, "year", release.Year)
	return release, nil
}
