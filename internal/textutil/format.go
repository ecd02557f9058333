package textutil

import "fmt"

// FormatDuration renders seconds as m:ss or h:mm:ss. Negative values mean
// the duration is unknown and render as "?".
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		return "?"
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatCount abbreviates large counts (views) as 1.2K / 3.4M. Negative
// values mean unknown and render as "?".
func FormatCount(count int64) string {
	switch {
	case count < 0:
		return "?"
	case count >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(count)/1_000_000)
	case count >= 1_000:
		return fmt.Sprintf("%.1fK", float64(count)/1_000)
	default:
		return fmt.Sprintf("%d", count)
	}
}
