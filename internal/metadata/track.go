package metadata

import "strings"

// Track is the canonical metadata record for one acquired song. Fields left
// empty simply have no known value; callers must tolerate partial tracks.
type Track struct {
	Artist    string
	Title     string
	Album     string
	Year      string
	ReleaseID string
	CoverURL  string
}

// Query returns the "Artist - Title" search string used for video search
// and registry lookups.
func (t *Track) Query() string {
	return t.Artist + " - " + t.Title
}

// NeedsLookup reports whether a registry lookup could still add anything.
// A track with both album and year populated is considered complete.
func (t *Track) NeedsLookup() bool {
	return strings.TrimSpace(t.Album) == "" || strings.TrimSpace(t.Year) == ""
}

// Display returns a human-readable one-line summary.
func (t *Track) Display() string {
	var b strings.Builder
	b.WriteString(t.Artist)
	b.WriteString(" - ")
	b.WriteString(t.Title)
	if t.Album != "" {
		b.WriteString(" [")
		b.WriteString(t.Album)
		if t.Year != "" {
			b.WriteString(", ")
			b.WriteString(t.Year)
		}
		b.WriteString("]")
	}
	return b.String()
}
