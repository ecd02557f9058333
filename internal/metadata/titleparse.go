package metadata

import (
	"regexp"
	"strings"
)

// bracketed matches parenthesized or square-bracketed suffixes such as
// "(Official Video)" or "[HD]" that video titles accumulate.
var bracketed = regexp.MustCompile(`\s*[(\[][^)\]]*[)\]]`)

// ParseVideoTitle splits a video title into (artist, title). Titles of the
// form "Artist - Song" split on the first separator; anything else keeps the
// whole cleaned title and falls back to the uploader as artist.
func ParseVideoTitle(videoTitle, uploader string) (artist, title string) {
	cleaned := strings.TrimSpace(bracketed.ReplaceAllString(videoTitle, ""))

	if before, after, found := strings.Cut(cleaned, " - "); found {
		artist = strings.TrimSpace(before)
		title = strings.TrimSpace(after)
		if artist != "" && title != "" {
			return artist, title
		}
	}
	return strings.TrimSpace(uploader), cleaned
}
