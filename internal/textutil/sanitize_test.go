package textutil

import "testing"

func TestSanitizePathComponent(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"AC/DC", "ACDC"},
		{`What "Is" Love?`, "What Is Love"},
		{"Trailing dots...", "Trailing dots"},
		{"  padded  ", "padded"},
		{"col:on|pipe*star", "colonpipestar"},
		{"control\x01chars\x1f", "controlchars"},
		{"<>:\"/\\|?*", "unknown"},
		{"", "unknown"},
		{"Sigur Rós", "Sigur Rós"},
	}
	for _, tc := range cases {
		if got := SanitizePathComponent(tc.in); got != tc.want {
			t.Errorf("SanitizePathComponent(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{-1, "?"},
		{0, "0:00"},
		{59, "0:59"},
		{61, "1:01"},
		{3600, "1:00:00"},
		{3725, "1:02:05"},
	}
	for _, tc := range cases {
		if got := FormatDuration(tc.in); got != tc.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatCount(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{-1, "?"},
		{999, "999"},
		{1500, "1.5K"},
		{2_300_000, "2.3M"},
	}
	for _, tc := range cases {
		if got := FormatCount(tc.in); got != tc.want {
			t.Errorf("FormatCount(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
