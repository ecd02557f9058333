package youtube

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"github.com/schollz/progressbar/v3"

	"musicgenie/internal/config"
	"musicgenie/internal/logging"
	"musicgenie/internal/services"
)

// Downloader fetches a candidate's audio into a directory and returns the
// path of the transcoded file.
type Downloader interface {
	Download(ctx context.Context, candidate Candidate, destDir string) (string, error)
}

// YTDLPDownloader extracts audio via yt-dlp and ffmpeg.
type YTDLPDownloader struct {
	format   string
	quality  int
	progress bool
	logger   *slog.Logger
}

// NewDownloader builds a downloader for the configured audio format.
// Progress rendering can be disabled for non-interactive runs.
func NewDownloader(cfg *config.Config, progress bool, logger *slog.Logger) *YTDLPDownloader {
	return &YTDLPDownloader{
		format:   cfg.Audio.Format,
		quality:  cfg.Audio.Quality,
		progress: progress,
		logger:   logging.WithComponent(logger, "youtube"),
	}
}

// EnsureInstalled downloads a managed yt-dlp binary when none is on PATH.
func EnsureInstalled(ctx context.Context) error {
	if _, err := ytdlp.Install(ctx, nil); err != nil {
		return services.Wrap(services.ErrExternalService, "youtube", "install",
			"could not provision yt-dlp", err)
	}
	return nil
}

// Download implements Downloader. The final path is reported by yt-dlp
// itself through an after_move print, so post-processing renames cannot
// desync us from the real filename.
func (d *YTDLPDownloader) Download(ctx context.Context, candidate Candidate, destDir string) (string, error) {
	if candidate.URL == "" {
		return "", services.Wrap(services.ErrExternalService, "youtube", "download",
			"candidate has no URL", nil)
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", services.Wrap(services.ErrFilesystem, "youtube", "download",
			"create download directory", err)
	}

	d.logger.Info("downloading", "title", candidate.Title, "url", candidate.URL, "format", d.format)

	cmd := ytdlp.New().
		ExtractAudio().
		AudioFormat(d.format).
		AudioQuality(strconv.Itoa(d.quality) + "K").
		Format("bestaudio/best").
		NoPlaylist().
		NoWarnings().
		Output(filepath.Join(destDir, "%(title)s.%(ext)s")).
		Print("after_move:filepath")

	var bar *progressbar.ProgressBar
	if d.progress {
		bar = progressbar.NewOptions64(-1,
			progressbar.OptionSetDescription("downloading"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowBytes(true),
			progressbar.OptionClearOnFinish(),
		)
		cmd = cmd.ProgressFunc(250*time.Millisecond, func(update ytdlp.ProgressUpdate) {
			if update.TotalBytes > 0 && bar.GetMax64() != int64(update.TotalBytes) {
				bar.ChangeMax64(int64(update.TotalBytes))
			}
			_ = bar.Set64(int64(update.DownloadedBytes))
		})
	}

	result, err := cmd.Run(ctx, candidate.URL)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return "", services.Wrap(services.ErrExternalService, "youtube", "download",
			fmt.Sprintf("download failed for %q", candidate.Title), err)
	}

	path := finalPathFromOutput(result.Stdout)
	if path == "" {
		return "", services.Wrap(services.ErrExternalService, "youtube", "download",
			"yt-dlp did not report a final file path", nil)
	}
	if _, err := os.Stat(path); err != nil {
		return "", services.Wrap(services.ErrFilesystem, "youtube", "download",
			"downloaded file missing on disk", err)
	}
	d.logger.Info("download complete", "path", path)
	return path, nil
}

// finalPathFromOutput returns the last non-empty stdout line, which is the
// after_move filepath print.
func finalPathFromOutput(stdout string) string {
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
