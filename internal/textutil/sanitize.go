package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

func unsafeRune(r rune) bool {
	switch r {
	case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
		return true
	}
	return r < 0x20 || r == 0x7f
}

// SanitizePathComponent strips characters that are illegal in path components
// on common filesystems and trims trailing dots and spaces. The input is
// NFC-normalized first so visually identical names map to one path. Returns
// "unknown" when nothing printable survives.
func SanitizePathComponent(name string) string {
	name = norm.NFC.String(strings.TrimSpace(name))
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if unsafeRune(r) {
			continue
		}
		b.WriteRune(r)
	}
	out := strings.Trim(b.String(), ". ")
	if out == "" {
		return "unknown"
	}
	return out
}
