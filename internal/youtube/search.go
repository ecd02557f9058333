package youtube

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lrstanley/go-ytdlp"

	"musicgenie/internal/config"
	"musicgenie/internal/logging"
	"musicgenie/internal/services"
)

// Searcher finds download candidates for a free-text query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Candidate, error)
}

// YTDLPSearcher runs yt-dlp flat-playlist searches.
type YTDLPSearcher struct {
	limit  int
	logger *slog.Logger
}

// NewSearcher builds a searcher honoring the configured result limit.
func NewSearcher(cfg *config.Config, logger *slog.Logger) *YTDLPSearcher {
	return &YTDLPSearcher{
		limit:  cfg.YouTube.SearchLimit,
		logger: logging.WithComponent(logger, "youtube"),
	}
}

// searchEntry mirrors one line of yt-dlp's flat-playlist dump output.
type searchEntry struct {
	Title      string  `json:"title"`
	Uploader   string  `json:"uploader"`
	Channel    string  `json:"channel"`
	Duration   float64 `json:"duration"`
	URL        string  `json:"url"`
	WebpageURL string  `json:"webpage_url"`
	ViewCount  int64   `json:"view_count"`
}

// Search implements Searcher. An empty result slice with a nil error means
// the query matched nothing.
func (s *YTDLPSearcher) Search(ctx context.Context, query string) ([]Candidate, error) {
	s.logger.Debug("searching", "query", query, "limit", s.limit)

	cmd := ytdlp.New().
		DumpJSON().
		FlatPlaylist().
		SkipDownload().
		NoWarnings()

	result, err := cmd.Run(ctx, fmt.Sprintf("ytsearch%d:%s", s.limit, query))
	if err != nil {
		return nil, services.Wrap(services.ErrExternalService, "youtube", "search",
			"video search failed", err)
	}

	candidates, err := parseSearchOutput(result.Stdout)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalService, "youtube", "search",
			"unexpected search output", err)
	}
	s.logger.Debug("search complete", "query", query, "results", len(candidates))
	return candidates, nil
}

// parseSearchOutput decodes the one-JSON-object-per-line dump format.
// Malformed lines are skipped; a single bad entry must not sink the search.
func parseSearchOutput(stdout string) ([]Candidate, error) {
	var candidates []Candidate
	scanner := bufio.NewScanner(strings.NewReader(stdout))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var entry searchEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		candidates = append(candidates, entry.toCandidate())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return candidates, nil
}

func (e *searchEntry) toCandidate() Candidate {
	uploader := e.Uploader
	if uploader == "" {
		uploader = e.Channel
	}
	url := e.URL
	if url == "" {
		url = e.WebpageURL
	}
	duration := int64(-1)
	if e.Duration > 0 {
		duration = int64(e.Duration)
	}
	views := int64(-1)
	if e.ViewCount > 0 {
		views = e.ViewCount
	}
	return Candidate{
		Title:    textOrUnknown(e.Title),
		Uploader: textOrUnknown(uploader),
		Duration: duration,
		URL:      url,
		Views:    views,
	}
}
