package capture

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"musicgenie/internal/config"
	"musicgenie/internal/logging"
	"musicgenie/internal/services"
)

func TestPlatformBackends(t *testing.T) {
	if got := platformBackends("darwin"); len(got) != 1 || got[0].format != "avfoundation" {
		t.Fatalf("darwin backends: %+v", got)
	}
	if got := platformBackends("windows"); len(got) != 1 || got[0].format != "dshow" {
		t.Fatalf("windows backends: %+v", got)
	}
	linux := platformBackends("linux")
	if len(linux) != 2 || linux[0].format != "alsa" || linux[1].format != "pulse" {
		t.Fatalf("linux backends: %+v", linux)
	}
}

// fakeFFmpeg writes a script that copies its last argument into existence,
// or fails when FAKE_FFMPEG_FAIL is set.
func fakeFFmpeg(t *testing.T, fail bool) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake ffmpeg script requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "ffmpeg")
	script := "#!/bin/sh\nfor out; do :; done\necho fake-audio > \"$out\"\n"
	if fail {
		script = "#!/bin/sh\necho 'device busy' >&2\nexit 1\n"
	}
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake ffmpeg: %v", err)
	}
	return path
}

func newTestRecorder(t *testing.T, fail bool) *FFmpegRecorder {
	t.Helper()
	cfg := config.Default()
	cfg.Audio.FFmpegBinary = fakeFFmpeg(t, fail)
	cfg.Audio.RecordDuration = 1
	return NewRecorder(&cfg, false, logging.NewNop())
}

func TestRecordWritesFile(t *testing.T) {
	recorder := newTestRecorder(t, false)
	dest := filepath.Join(t.TempDir(), "snippets", "clip.wav")

	if err := recorder.Record(context.Background(), dest); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Fatalf("snippet not written: %v", err)
	}
}

func TestRecordAllBackendsFail(t *testing.T) {
	recorder := newTestRecorder(t, true)
	dest := filepath.Join(t.TempDir(), "clip.wav")

	err := recorder.Record(context.Background(), dest)
	if !errors.Is(err, services.ErrCapture) {
		t.Fatalf("expected ErrCapture, got %v", err)
	}
	if msg := err.Error(); !strings.Contains(msg, "device busy") {
		t.Fatalf("error should carry ffmpeg stderr, got %q", msg)
	}
}
