// Package youtube searches for and downloads audio through yt-dlp.
package youtube

// Candidate is one search result offered to the user for selection.
// Missing fields carry explicit placeholders so the selection table never
// renders blanks: "Unknown" for text, -1 for numbers.
type Candidate struct {
	Title    string
	Uploader string
	Duration int64
	URL      string
	Views    int64
}

func textOrUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
