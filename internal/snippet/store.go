package snippet

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"musicgenie/internal/logging"
)

// Store manages snippet persistence backed by JSON sidecar files.
type Store struct {
	dir    string
	logger *slog.Logger

	mu      sync.Mutex
	records map[string]*Record
}

// Fields is a partial update applied by Update. Zero values leave the
// corresponding record field untouched.
type Fields struct {
	Status       Status
	IdentifiedAs string
}

// Open loads the snippet index from dir, creating the directory when absent.
// Corrupt or unreadable sidecars are skipped, never fatal.
func Open(dir string, logger *slog.Logger) (*Store, error) {
	logger = logging.WithComponent(logger, "store")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snippets directory: %w", err)
	}

	s := &Store{dir: dir, logger: logger, records: make(map[string]*Record)}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan snippets directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		record, err := readSidecar(path)
		if err != nil {
			logger.Debug("skipping unreadable snippet record", "path", path, "error", err)
			continue
		}
		s.records[record.ID] = record
	}

	return s, nil
}

// Dir returns the directory backing the store.
func (s *Store) Dir() string {
	return s.dir
}

// Create allocates a record for a captured artifact with status recorded and
// persists it alongside the artifact.
func (s *Store) Create(audioPath string) (*Record, error) {
	id := IDFromArtifact(audioPath)
	if id == "" {
		return nil, errors.New("audio path has no usable stem")
	}

	record := &Record{
		ID:         id,
		RecordedAt: time.Now(),
		AudioPath:  audioPath,
		Status:     StatusRecorded,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.flush(record); err != nil {
		return nil, err
	}
	s.records[id] = record

	s.logger.Debug("snippet queued", "id", id, "audio_path", audioPath)
	cp := *record
	return &cp, nil
}

// ListPending returns records with status recorded, in creation order.
func (s *Store) ListPending() []*Record {
	return s.list(func(r *Record) bool { return r.Pending() })
}

// ListAll returns every record regardless of status, in creation order.
func (s *Store) ListAll() []*Record {
	return s.list(func(*Record) bool { return true })
}

func (s *Store) list(keep func(*Record) bool) []*Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Record, 0, len(s.records))
	for _, record := range s.records {
		if keep(record) {
			cp := *record
			out = append(out, &cp)
		}
	}
	// Ids are timestamp-prefixed, so this is creation order.
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Get returns the record with the given id, or nil when absent.
func (s *Store) Get(id string) *Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[id]
	if !ok {
		return nil
	}
	cp := *record
	return &cp
}

// Update applies a partial update. A missing id returns (nil, nil); callers
// treat that as non-fatal.
func (s *Store) Update(id string, fields Fields) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[id]
	if !ok {
		return nil, nil
	}
	if fields.Status != "" {
		record.Status = fields.Status
	}
	if fields.IdentifiedAs != "" {
		record.IdentifiedAs = fields.IdentifiedAs
	}
	if err := s.flush(record); err != nil {
		return nil, err
	}

	cp := *record
	return &cp, nil
}

// Delete removes the sidecar and the backing artifact. A missing artifact is
// not an error; the returned bool reports whether a record existed.
func (s *Store) Delete(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[id]
	if !ok {
		return false, nil
	}

	if err := os.Remove(record.AudioPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("remove artifact: %w", err)
	}
	if err := os.Remove(s.sidecarPath(record.ID)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("remove record: %w", err)
	}
	delete(s.records, id)

	s.logger.Debug("snippet deleted", "id", id)
	return true, nil
}

func (s *Store) sidecarPath(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// flush writes the sidecar atomically: temp file in the same directory, then
// rename over the final path.
func (s *Store) flush(record *Record) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+record.ID+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp record: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close record: %w", err)
	}
	if err := os.Rename(tmpPath, s.sidecarPath(record.ID)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("persist record: %w", err)
	}
	return nil
}

func readSidecar(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	if record.ID == "" {
		return nil, errors.New("record has no id")
	}
	if _, ok := ParseStatus(string(record.Status)); !ok {
		return nil, fmt.Errorf("record has unknown status %q", record.Status)
	}
	return &record, nil
}
