package snippet_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"musicgenie/internal/logging"
	"musicgenie/internal/snippet"
)

func writeArtifact(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("RIFF"), 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	return path
}

func openStore(t *testing.T, dir string) *snippet.Store {
	t.Helper()
	store, err := snippet.Open(dir, logging.NewNop())
	if err != nil {
		t.Fatalf("snippet.Open: %v", err)
	}
	return store
}

func TestCreateAppearsInListAll(t *testing.T) {
	dir := t.TempDir()
	store := openStore(t, dir)

	wav := writeArtifact(t, dir, "20240101_120000_abcd1234.wav")
	record, err := store.Create(wav)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if record.ID != "20240101_120000_abcd1234" {
		t.Fatalf("unexpected id: %q", record.ID)
	}
	if record.Status != snippet.StatusRecorded {
		t.Fatalf("unexpected status: %q", record.Status)
	}

	all := store.ListAll()
	if len(all) != 1 || all[0].ID != record.ID {
		t.Fatalf("ListAll = %+v, want exactly the created record", all)
	}
}

func TestListPendingFiltersByStatus(t *testing.T) {
	dir := t.TempDir()
	store := openStore(t, dir)

	for _, name := range []string{"20240101_120000_aaaa0000.wav", "20240101_120001_bbbb0000.wav"} {
		if _, err := store.Create(writeArtifact(t, dir, name)); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	for _, status := range []snippet.Status{snippet.StatusIdentified, snippet.StatusDownloaded, snippet.StatusSkipped} {
		if _, err := store.Update("20240101_120001_bbbb0000", snippet.Fields{Status: status}); err != nil {
			t.Fatalf("Update: %v", err)
		}
		pending := store.ListPending()
		if len(pending) != 1 || pending[0].ID != "20240101_120000_aaaa0000" {
			t.Fatalf("status %s: pending = %+v", status, pending)
		}
	}

	if _, err := store.Update("20240101_120001_bbbb0000", snippet.Fields{Status: snippet.StatusRecorded}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if pending := store.ListPending(); len(pending) != 2 {
		t.Fatalf("expected both pending after reset, got %+v", pending)
	}
}

func TestListingOrderIsCreationOrder(t *testing.T) {
	dir := t.TempDir()
	store := openStore(t, dir)

	names := []string{
		"20240101_120002_cccc0000.wav",
		"20240101_120000_aaaa0000.wav",
		"20240101_120001_bbbb0000.wav",
	}
	for _, name := range names {
		if _, err := store.Create(writeArtifact(t, dir, name)); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	all := store.ListAll()
	want := []string{"20240101_120000_aaaa0000", "20240101_120001_bbbb0000", "20240101_120002_cccc0000"}
	for i, id := range want {
		if all[i].ID != id {
			t.Fatalf("position %d: got %s, want %s", i, all[i].ID, id)
		}
	}
}

func TestUpdateMissingIDIsSilent(t *testing.T) {
	store := openStore(t, t.TempDir())
	record, err := store.Update("nope", snippet.Fields{Status: snippet.StatusSkipped})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if record != nil {
		t.Fatalf("expected nil record for missing id, got %+v", record)
	}
}

func TestUpdateSetsIdentifiedAs(t *testing.T) {
	dir := t.TempDir()
	store := openStore(t, dir)
	wav := writeArtifact(t, dir, "20240101_120000_abcd1234.wav")
	if _, err := store.Create(wav); err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := store.Update("20240101_120000_abcd1234", snippet.Fields{
		Status:       snippet.StatusIdentified,
		IdentifiedAs: "Daft Punk - Harder Better Faster Stronger",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != snippet.StatusIdentified || updated.IdentifiedAs == "" {
		t.Fatalf("unexpected record: %+v", updated)
	}

	// Partial update leaves the other field alone.
	updated, err = store.Update("20240101_120000_abcd1234", snippet.Fields{Status: snippet.StatusSkipped})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.IdentifiedAs != "Daft Punk - Harder Better Faster Stronger" {
		t.Fatalf("identified_as lost on partial update: %+v", updated)
	}
}

func TestDeleteRemovesRecordAndArtifact(t *testing.T) {
	dir := t.TempDir()
	store := openStore(t, dir)
	wav := writeArtifact(t, dir, "20240101_120000_abcd1234.wav")
	if _, err := store.Create(wav); err != nil {
		t.Fatalf("Create: %v", err)
	}

	found, err := store.Delete("20240101_120000_abcd1234")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !found {
		t.Fatal("expected record to be found")
	}
	if len(store.ListAll()) != 0 {
		t.Fatal("record still listed after delete")
	}
	if _, err := os.Stat(wav); !os.IsNotExist(err) {
		t.Fatalf("artifact still on disk: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "20240101_120000_abcd1234.json")); !os.IsNotExist(err) {
		t.Fatalf("sidecar still on disk: %v", err)
	}
}

func TestDeleteMissingIDReturnsFalse(t *testing.T) {
	dir := t.TempDir()
	store := openStore(t, dir)
	wav := writeArtifact(t, dir, "20240101_120000_abcd1234.wav")
	if _, err := store.Create(wav); err != nil {
		t.Fatalf("Create: %v", err)
	}

	found, err := store.Delete("missing")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if found {
		t.Fatal("expected false for missing id")
	}
	if len(store.ListAll()) != 1 {
		t.Fatal("existing record mutated by failed delete")
	}
}

func TestDeleteToleratesMissingArtifact(t *testing.T) {
	dir := t.TempDir()
	store := openStore(t, dir)
	wav := writeArtifact(t, dir, "20240101_120000_abcd1234.wav")
	if _, err := store.Create(wav); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := os.Remove(wav); err != nil {
		t.Fatalf("remove artifact: %v", err)
	}

	found, err := store.Delete("20240101_120000_abcd1234")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !found {
		t.Fatal("expected record to be found despite missing artifact")
	}
}

func TestOpenSkipsCorruptSidecars(t *testing.T) {
	dir := t.TempDir()
	store := openStore(t, dir)
	wav := writeArtifact(t, dir, "20240101_120000_abcd1234.wav")
	if _, err := store.Create(wav); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt sidecar: %v", err)
	}

	reopened := openStore(t, dir)
	all := reopened.ListAll()
	if len(all) != 1 || all[0].ID != "20240101_120000_abcd1234" {
		t.Fatalf("expected corrupt sidecar skipped, got %+v", all)
	}
}

func TestOpenIgnoresUnknownFields(t *testing.T) {
	dir := t.TempDir()
	sidecar := map[string]any{
		"id":          "20240101_120000_abcd1234",
		"recorded_at": time.Now().Format(time.RFC3339),
		"audio_path":  filepath.Join(dir, "20240101_120000_abcd1234.wav"),
		"status":      "recorded",
		"youtube_url": "https://example.com/watch?v=x",
	}
	data, err := json.Marshal(sidecar)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "20240101_120000_abcd1234.json"), data, 0o644); err != nil {
		t.Fatalf("write sidecar: %v", err)
	}

	store := openStore(t, dir)
	if len(store.ListPending()) != 1 {
		t.Fatalf("forward-compatible sidecar not loaded: %+v", store.ListAll())
	}
}

func TestNewArtifactNameIsUniqueEnough(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	a := snippet.NewArtifactName(now, ".wav")
	b := snippet.NewArtifactName(now, ".wav")
	if a == b {
		t.Fatalf("expected distinct names, got %q twice", a)
	}
	if filepath.Ext(a) != ".wav" {
		t.Fatalf("unexpected extension: %q", a)
	}
	if snippet.IDFromArtifact(a) == "" {
		t.Fatal("artifact name must yield an id")
	}
}
