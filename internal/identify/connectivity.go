package identify

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"musicgenie/internal/logging"
)

// probeURL answers quickly from anywhere; only reachability matters, not
// the response body.
const probeURL = "https://1.1.1.1"

// Prober reports whether the network is reachable. Identification and
// downloads are skipped entirely while offline.
type Prober interface {
	IsOnline(ctx context.Context) bool
}

// HTTPProber probes connectivity with a single cheap HEAD request.
type HTTPProber struct {
	client *http.Client
	url    string
	logger *slog.Logger
}

// NewHTTPProber builds a prober with a 2 second timeout so an offline
// machine fails the check fast instead of hanging the CLI.
func NewHTTPProber(logger *slog.Logger) *HTTPProber {
	return &HTTPProber{
		client: &http.Client{Timeout: 2 * time.Second},
		url:    probeURL,
		logger: logging.WithComponent(logger, "connectivity"),
	}
}

// IsOnline implements Prober.
func (p *HTTPProber) IsOnline(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.url, nil)
	if err != nil {
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Debug("connectivity probe failed", "error", err)
		return false
	}
	resp.Body.Close()
	return true
}
