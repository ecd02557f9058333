package snippet

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle of a queued snippet.
type Status string

const (
	StatusRecorded   Status = "recorded"
	StatusIdentified Status = "identified"
	StatusDownloaded Status = "downloaded"
	StatusSkipped    Status = "skipped"
)

var statusSet = map[Status]struct{}{
	StatusRecorded:   {},
	StatusIdentified: {},
	StatusDownloaded: {},
	StatusSkipped:    {},
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	_, ok := statusSet[normalized]
	return normalized, ok
}

// Record is one queued snippet awaiting or having undergone identification.
type Record struct {
	ID           string    `json:"id"`
	RecordedAt   time.Time `json:"recorded_at"`
	AudioPath    string    `json:"audio_path"`
	Status       Status    `json:"status"`
	IdentifiedAs string    `json:"identified_as,omitempty"`
}

// Pending reports whether the record still awaits identification.
func (r *Record) Pending() bool {
	return r.Status == StatusRecorded
}

// NewArtifactName builds a unique snippet file name from the capture time
// and a random suffix. The stem doubles as the record id.
func NewArtifactName(now time.Time, ext string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s_%s%s", now.Format("20060102_150405"), suffix, ext)
}

// IDFromArtifact derives the record id from an artifact path (its stem).
func IDFromArtifact(audioPath string) string {
	base := filepath.Base(audioPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
