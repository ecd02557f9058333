package process

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	"musicgenie/internal/acquire"
	"musicgenie/internal/logging"
	"musicgenie/internal/metadata"
	"musicgenie/internal/services"
	"musicgenie/internal/snippet"
	"musicgenie/internal/testsupport"
	"musicgenie/internal/ui"
)

type fakeIdentifier struct {
	track *metadata.Track
	err   error
}

func (f *fakeIdentifier) Identify(ctx context.Context, audioPath string) (*metadata.Track, error) {
	return f.track, f.err
}

type fakeProber struct {
	online bool
	called bool
}

func (f *fakeProber) IsOnline(ctx context.Context) bool {
	f.called = true
	return f.online
}

type fakeAcquirer struct {
	result *acquire.Result
	err    error
	calls  int
}

func (f *fakeAcquirer) Run(ctx context.Context, query string, seed *metadata.Track) (*acquire.Result, error) {
	f.calls++
	return f.result, f.err
}

func newTestStore(t *testing.T) *snippet.Store {
	t.Helper()
	return testsupport.MustOpenStore(t, testsupport.NewConfig(t))
}

// queueSnippet creates a pending record with a real artifact on disk.
func queueSnippet(t *testing.T, store *snippet.Store) *snippet.Record {
	t.Helper()
	return testsupport.QueueSnippet(t, store)
}

func newTestLoop(store *snippet.Store, identifier *fakeIdentifier, prober *fakeProber, acquirer *fakeAcquirer, prompter ui.Prompter) *Loop {
	return NewLoop(Options{
		Store:      store,
		Identifier: identifier,
		Prober:     prober,
		Acquirer:   acquirer,
		Prompter:   prompter,
		Out:        &bytes.Buffer{},
		Logger:     logging.NewNop(),
	})
}

func TestRunEmptyQueueSkipsConnectivityProbe(t *testing.T) {
	store := newTestStore(t)
	prober := &fakeProber{online: false}
	loop := newTestLoop(store, &fakeIdentifier{}, prober, &fakeAcquirer{}, &testsupport.ScriptedPrompter{})

	summary, err := loop.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if *summary != (Summary{}) {
		t.Fatalf("expected zero summary, got %+v", summary)
	}
	if prober.called {
		t.Fatal("empty queue must not probe connectivity")
	}
}

func TestRunOfflineLeavesQueueUntouched(t *testing.T) {
	store := newTestStore(t)
	record := queueSnippet(t, store)
	loop := newTestLoop(store, &fakeIdentifier{}, &fakeProber{online: false}, &fakeAcquirer{}, &testsupport.ScriptedPrompter{})

	_, err := loop.Run(context.Background())
	if !errors.Is(err, services.ErrExternalService) {
		t.Fatalf("expected offline error, got %v", err)
	}
	if got := store.Get(record.ID); got.Status != snippet.StatusRecorded {
		t.Fatalf("record should stay recorded, got %s", got.Status)
	}
}

func TestRunMissingArtifactIsSkipped(t *testing.T) {
	store := newTestStore(t)
	record := queueSnippet(t, store)
	if err := os.Remove(record.AudioPath); err != nil {
		t.Fatal(err)
	}
	loop := newTestLoop(store, &fakeIdentifier{}, &fakeProber{online: true}, &fakeAcquirer{}, &testsupport.ScriptedPrompter{})

	summary, err := loop.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Skipped != 1 || summary.Identified != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if got := store.Get(record.ID); got.Status != snippet.StatusSkipped {
		t.Fatalf("expected skipped, got %s", got.Status)
	}
}

func TestRunUnidentifiedDeclineDeleteKeepsRecord(t *testing.T) {
	store := newTestStore(t)
	record := queueSnippet(t, store)
	prompter := &testsupport.ScriptedPrompter{Confirms: []bool{false}}
	loop := newTestLoop(store, &fakeIdentifier{track: nil}, &fakeProber{online: true}, &fakeAcquirer{}, prompter)

	summary, err := loop.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Skipped != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	got := store.Get(record.ID)
	if got == nil || got.Status != snippet.StatusRecorded {
		t.Fatalf("declined delete should keep the record pending, got %+v", got)
	}
}

func TestRunUnidentifiedConfirmedDelete(t *testing.T) {
	store := newTestStore(t)
	record := queueSnippet(t, store)
	prompter := &testsupport.ScriptedPrompter{Confirms: []bool{true}}
	loop := newTestLoop(store, &fakeIdentifier{track: nil}, &fakeProber{online: true}, &fakeAcquirer{}, prompter)

	if _, err := loop.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := store.Get(record.ID); got != nil {
		t.Fatalf("record should be deleted, got %+v", got)
	}
	if _, err := os.Stat(record.AudioPath); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("artifact should be deleted: %v", err)
	}
}

func TestRunIdentifyErrorTreatedAsNoMatch(t *testing.T) {
	store := newTestStore(t)
	queueSnippet(t, store)
	identifier := &fakeIdentifier{err: errors.New("service down")}
	prompter := &testsupport.ScriptedPrompter{Confirms: []bool{false}}
	loop := newTestLoop(store, identifier, &fakeProber{online: true}, &fakeAcquirer{}, prompter)

	summary, err := loop.Run(context.Background())
	if err != nil {
		t.Fatalf("identify errors must not be fatal: %v", err)
	}
	if summary.Skipped != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestRunDeclinedDownloadMarksSkipped(t *testing.T) {
	store := newTestStore(t)
	record := queueSnippet(t, store)
	track := &metadata.Track{Artist: "Daft Punk", Title: "One More Time"}
	// First confirm declines the search-and-download offer.
	prompter := &testsupport.ScriptedPrompter{Confirms: []bool{false}}
	acquirer := &fakeAcquirer{}
	loop := newTestLoop(store, &fakeIdentifier{track: track}, &fakeProber{online: true}, acquirer, prompter)

	summary, err := loop.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Identified != 1 || summary.Skipped != 1 || summary.Downloaded != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if acquirer.calls != 0 {
		t.Fatal("declined download must not run acquisition")
	}

	got := store.Get(record.ID)
	if got.Status != snippet.StatusSkipped {
		t.Fatalf("expected skipped, got %s", got.Status)
	}
	if got.IdentifiedAs != "Daft Punk - One More Time" {
		t.Fatalf("identification must be retained, got %q", got.IdentifiedAs)
	}
	if _, err := os.Stat(got.AudioPath); err != nil {
		t.Fatalf("artifact must survive a declined download: %v", err)
	}
}

func TestRunSuccessfulDownload(t *testing.T) {
	store := newTestStore(t)
	record := queueSnippet(t, store)
	track := &metadata.Track{Artist: "Daft Punk", Title: "One More Time"}
	acquirer := &fakeAcquirer{result: &acquire.Result{FinalPath: "/music/Daft Punk/One More Time.mp3", Track: track}}
	loop := newTestLoop(store, &fakeIdentifier{track: track}, &fakeProber{online: true}, acquirer, &testsupport.ScriptedPrompter{Confirms: []bool{true}})

	summary, err := loop.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Identified != 1 || summary.Downloaded != 1 || summary.Skipped != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if got := store.Get(record.ID); got.Status != snippet.StatusDownloaded {
		t.Fatalf("expected downloaded, got %s", got.Status)
	}
}

func TestRunAbortedAcquisitionKeepsIdentified(t *testing.T) {
	store := newTestStore(t)
	record := queueSnippet(t, store)
	track := &metadata.Track{Artist: "A", Title: "B"}
	acquirer := &fakeAcquirer{err: services.Wrap(services.ErrCancelled, "acquire", "select", "selection cancelled", nil)}
	loop := newTestLoop(store, &fakeIdentifier{track: track}, &fakeProber{online: true}, acquirer, &testsupport.ScriptedPrompter{Confirms: []bool{true}})

	summary, err := loop.Run(context.Background())
	if err != nil {
		t.Fatalf("aborted acquisition must not be fatal: %v", err)
	}
	if summary.Identified != 1 || summary.Downloaded != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if got := store.Get(record.ID); got.Status != snippet.StatusIdentified {
		t.Fatalf("expected identified, got %s", got.Status)
	}
}

func TestRunFatalAcquisitionStopsLoop(t *testing.T) {
	store := newTestStore(t)
	queueSnippet(t, store)
	queueSnippet(t, store)
	track := &metadata.Track{Artist: "A", Title: "B"}
	acquirer := &fakeAcquirer{err: errors.New("disk full")}
	loop := newTestLoop(store, &fakeIdentifier{track: track}, &fakeProber{online: true}, acquirer, &testsupport.ScriptedPrompter{Confirms: []bool{true, true}})

	_, err := loop.Run(context.Background())
	if err == nil {
		t.Fatal("expected fatal error to propagate")
	}
	if acquirer.calls != 1 {
		t.Fatalf("loop should stop at the first fatal error, got %d calls", acquirer.calls)
	}
}
