// Package testsupport provides shared builders for package tests.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"musicgenie/internal/config"
	"musicgenie/internal/logging"
	"musicgenie/internal/snippet"
	"musicgenie/internal/ui"
	"musicgenie/internal/youtube"
)

// NewConfig returns a validated config whose paths all live under the
// test's temporary directory.
func NewConfig(t *testing.T) *config.Config {
	t.Helper()
	base := t.TempDir()

	cfg := config.Default()
	cfg.Paths.OutputDir = filepath.Join(base, "music")
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.MusicBrainz.CachePath = filepath.Join(base, "data", "lookup_cache.db")
	cfg.AcoustID.APIKey = "test-key"

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// MustOpenStore opens a snippet store over the config's snippets directory.
func MustOpenStore(t *testing.T, cfg *config.Config) *snippet.Store {
	t.Helper()
	store, err := snippet.Open(cfg.SnippetsDir(), logging.NewNop())
	if err != nil {
		t.Fatalf("open snippet store: %v", err)
	}
	return store
}

// QueueSnippet writes a fake artifact into the store's directory and
// registers it as a pending record.
func QueueSnippet(t *testing.T, store *snippet.Store) *snippet.Record {
	t.Helper()
	audioPath := filepath.Join(store.Dir(), snippet.NewArtifactName(time.Now(), ".wav"))
	if err := os.WriteFile(audioPath, []byte("test-audio"), 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	record, err := store.Create(audioPath)
	if err != nil {
		t.Fatalf("create snippet record: %v", err)
	}
	return record
}

// ScriptedPrompter answers prompts from queues. Candidate picks are always
// cancelled unless a pick index is queued; confirms fall back to the prompt
// default once the queue runs dry.
type ScriptedPrompter struct {
	Picks    []ui.Selection
	Confirms []bool
}

// PickCandidate implements ui.Prompter.
func (s *ScriptedPrompter) PickCandidate(candidates []youtube.Candidate) (ui.Selection, error) {
	if len(s.Picks) == 0 {
		return ui.Selection{Cancelled: true}, nil
	}
	pick := s.Picks[0]
	s.Picks = s.Picks[1:]
	return pick, nil
}

// Confirm implements ui.Prompter.
func (s *ScriptedPrompter) Confirm(message string, defaultYes bool) (bool, error) {
	if len(s.Confirms) == 0 {
		return defaultYes, nil
	}
	answer := s.Confirms[0]
	s.Confirms = s.Confirms[1:]
	return answer, nil
}
