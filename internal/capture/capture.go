// Package capture records short microphone snippets through ffmpeg.
//
// Input device selection is platform-specific and imprecise; the recorder
// tries each known backend for the platform in order and keeps the last
// ffmpeg stderr for the error message when every backend fails.
package capture

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/schollz/progressbar/v3"

	"musicgenie/internal/config"
	"musicgenie/internal/logging"
	"musicgenie/internal/services"
)

// Recorder captures a snippet of microphone audio to a file.
type Recorder interface {
	Record(ctx context.Context, destPath string) error
}

// backend names an ffmpeg input format and the device argument to use
// with it.
type backend struct {
	format string
	device string
}

func platformBackends(goos string) []backend {
	switch goos {
	case "darwin":
		return []backend{{format: "avfoundation", device: ":0"}}
	case "windows":
		return []backend{{format: "dshow", device: "audio=default"}}
	default:
		// ALSA first; PulseAudio systems usually expose an ALSA shim, and
		// pulse covers the rest.
		return []backend{
			{format: "alsa", device: "default"},
			{format: "pulse", device: "default"},
		}
	}
}

// FFmpegRecorder shells out to ffmpeg for capture.
type FFmpegRecorder struct {
	binary     string
	duration   int
	sampleRate int
	backends   []backend
	progress   bool
	logger     *slog.Logger
}

// NewRecorder builds a recorder for the current platform.
func NewRecorder(cfg *config.Config, progress bool, logger *slog.Logger) *FFmpegRecorder {
	return &FFmpegRecorder{
		binary:     cfg.Audio.FFmpegBinary,
		duration:   cfg.Audio.RecordDuration,
		sampleRate: cfg.Audio.SampleRate,
		backends:   platformBackends(runtime.GOOS),
		progress:   progress,
		logger:     logging.WithComponent(logger, "capture"),
	}
}

// Record implements Recorder. The snippet is written mono at the configured
// sample rate, which is what the fingerprinter wants.
func (r *FFmpegRecorder) Record(ctx context.Context, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return services.Wrap(services.ErrFilesystem, "capture", "record",
			"create snippet directory", err)
	}

	var lastStderr string
	for _, b := range r.backends {
		r.logger.Debug("trying capture backend", "format", b.format, "device", b.device)
		stderr, err := r.runFFmpeg(ctx, b, destPath)
		if err == nil {
			r.logger.Info("snippet recorded", "path", destPath, "seconds", r.duration)
			return nil
		}
		if ctx.Err() != nil {
			return services.Wrap(services.ErrCapture, "capture", "record", "recording interrupted", ctx.Err())
		}
		lastStderr = stderr
		r.logger.Debug("capture backend failed", "format", b.format, "error", err)
	}

	msg := "could not record from the microphone (is ffmpeg installed and a capture device available?)"
	if lastStderr != "" {
		msg = fmt.Sprintf("%s: %s", msg, tail(lastStderr, 300))
	}
	return services.Wrap(services.ErrCapture, "capture", "record", msg, nil)
}

func (r *FFmpegRecorder) runFFmpeg(ctx context.Context, b backend, destPath string) (string, error) {
	args := []string{
		"-f", b.format,
		"-i", b.device,
		"-t", strconv.Itoa(r.duration),
		"-ar", strconv.Itoa(r.sampleRate),
		"-ac", "1",
		"-y",
		destPath,
	}

	cmd := exec.CommandContext(ctx, r.binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	done := make(chan error, 1)
	if err := cmd.Start(); err != nil {
		return "", err
	}
	go func() { done <- cmd.Wait() }()

	var bar *progressbar.ProgressBar
	var tick *time.Ticker
	if r.progress {
		bar = progressbar.NewOptions(r.duration*10,
			progressbar.OptionSetDescription("listening"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionClearOnFinish(),
		)
		tick = time.NewTicker(100 * time.Millisecond)
		defer tick.Stop()
	}

	for {
		select {
		case err := <-done:
			if bar != nil {
				_ = bar.Finish()
			}
			return stderr.String(), err
		case <-tickChan(tick):
			_ = bar.Add(1)
		}
	}
}

func tickChan(t *time.Ticker) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.C
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
