package identify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os/exec"
	"strconv"
	"time"

	"musicgenie/internal/config"
	"musicgenie/internal/logging"
	"musicgenie/internal/metadata"
	"musicgenie/internal/services"
)

// Identifier resolves an audio file to track metadata. A nil track with a
// nil error means the service returned no confident match.
type Identifier interface {
	Identify(ctx context.Context, audioPath string) (*metadata.Track, error)
}

// AcoustIDClient fingerprints audio with fpcalc and queries the AcoustID
// lookup endpoint.
type AcoustIDClient struct {
	apiKey  string
	baseURL string
	fpcalc  string
	client  *http.Client
	logger  *slog.Logger
}

// NewAcoustIDClient builds an identifier from the AcoustID configuration.
func NewAcoustIDClient(cfg *config.Config, logger *slog.Logger) *AcoustIDClient {
	return &AcoustIDClient{
		apiKey:  cfg.AcoustID.APIKey,
		baseURL: cfg.AcoustID.BaseURL,
		fpcalc:  cfg.AcoustID.FpcalcBinary,
		client:  &http.Client{Timeout: 15 * time.Second},
		logger:  logging.WithComponent(logger, "identify"),
	}
}

type fingerprint struct {
	Duration    float64 `json:"duration"`
	Fingerprint string  `json:"fingerprint"`
}

func (c *AcoustIDClient) computeFingerprint(ctx context.Context, audioPath string) (*fingerprint, error) {
	cmd := exec.CommandContext(ctx, c.fpcalc, "-json", audioPath)
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
			return nil, services.Wrap(services.ErrExternalService, "identify", "fingerprint",
				fmt.Sprintf("fpcalc failed: %s", exitErr.Stderr), err)
		}
		return nil, services.Wrap(services.ErrExternalService, "identify", "fingerprint",
			"fpcalc failed (is chromaprint installed?)", err)
	}

	var fp fingerprint
	if err := json.Unmarshal(output, &fp); err != nil {
		return nil, services.Wrap(services.ErrExternalService, "identify", "fingerprint",
			"unexpected fpcalc output", err)
	}
	if fp.Fingerprint == "" {
		return nil, services.Wrap(services.ErrExternalService, "identify", "fingerprint",
			"fpcalc produced an empty fingerprint", nil)
	}
	return &fp, nil
}

// lookupResponse mirrors the subset of the AcoustID v2 lookup response the
// identifier consumes.
type lookupResponse struct {
	Status string `json:"status"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Results []struct {
		Score      float64 `json:"score"`
		Recordings []struct {
			Title   string `json:"title"`
			Artists []struct {
				Name string `json:"name"`
			} `json:"artists"`
			ReleaseGroups []struct {
				ID    string `json:"id"`
				Title string `json:"title"`
				Type  string `json:"type"`
			} `json:"releasegroups"`
			Releases []struct {
				ID   string `json:"id"`
				Date struct {
					Year int `json:"year"`
				} `json:"date"`
			} `json:"releases"`
		} `json:"recordings"`
	} `json:"results"`
}

// Identify implements Identifier.
func (c *AcoustIDClient) Identify(ctx context.Context, audioPath string) (*metadata.Track, error) {
	fp, err := c.computeFingerprint(ctx, audioPath)
	if err != nil {
		return nil, err
	}

	params := url.Values{
		"client":      {c.apiKey},
		"duration":    {strconv.Itoa(int(fp.Duration))},
		"fingerprint": {fp.Fingerprint},
		"meta":        {"recordings releasegroups releases"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalService, "identify", "lookup", "build request", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalService, "identify", "lookup",
			"fingerprint service unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, services.Wrap(services.ErrExternalService, "identify", "lookup", "read response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, services.Wrap(services.ErrExternalService, "identify", "lookup",
			fmt.Sprintf("fingerprint service returned status %d", resp.StatusCode), nil)
	}

	var parsed lookupResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, services.Wrap(services.ErrExternalService, "identify", "lookup", "decode response", err)
	}
	if parsed.Status != "ok" {
		return nil, services.Wrap(services.ErrExternalService, "identify", "lookup",
			fmt.Sprintf("fingerprint service error: %s", parsed.Error.Message), nil)
	}

	track := c.bestMatch(&parsed)
	if track == nil {
		c.logger.Debug("no confident match", "audio", audioPath)
		return nil, nil
	}
	c.logger.Info("snippet identified", "artist", track.Artist, "title", track.Title)
	return track, nil
}

// bestMatch picks the first scored result carrying a titled recording.
// AcoustID orders results by score, so first-wins is the confident pick.
func (c *AcoustIDClient) bestMatch(resp *lookupResponse) *metadata.Track {
	for _, result := range resp.Results {
		for _, rec := range result.Recordings {
			if rec.Title == "" || len(rec.Artists) == 0 {
				continue
			}
			track := &metadata.Track{
				Artist: rec.Artists[0].Name,
				Title:  rec.Title,
			}
			for _, rg := range rec.ReleaseGroups {
				// Albums over singles and compilations.
				if rg.Type == "Album" || track.Album == "" {
					track.Album = rg.Title
					track.CoverURL = fmt.Sprintf("https://coverartarchive.org/release-group/%s/front", rg.ID)
					if rg.Type == "Album" {
						break
					}
				}
			}
			for _, rel := range rec.Releases {
				if rel.Date.Year > 0 {
					track.Year = strconv.Itoa(rel.Date.Year)
					if track.ReleaseID == "" {
						track.ReleaseID = rel.ID
					}
					break
				}
			}
			return track
		}
	}
	return nil
}
