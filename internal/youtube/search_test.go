package youtube

import "testing"

func TestParseSearchOutput(t *testing.T) {
	stdout := `{"title": "Artist - Song (Official Video)", "uploader": "ArtistVEVO", "duration": 245.1, "url": "https://youtube.example/watch?v=abc", "view_count": 1530000}
{"title": "Artist - Song (Live)", "channel": "LiveChannel", "duration": 301, "webpage_url": "https://youtube.example/watch?v=def"}
not-json-noise
{"title": ""}
`

	candidates, err := parseSearchOutput(stdout)
	if err != nil {
		t.Fatalf("parseSearchOutput: %v", err)
	}
	if len(candidates) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(candidates))
	}

	first := candidates[0]
	if first.Title != "Artist - Song (Official Video)" || first.Uploader != "ArtistVEVO" {
		t.Fatalf("unexpected first candidate: %+v", first)
	}
	if first.Duration != 245 || first.Views != 1530000 {
		t.Fatalf("unexpected numbers: %+v", first)
	}

	second := candidates[1]
	if second.Uploader != "LiveChannel" {
		t.Fatalf("channel should back-fill uploader: %+v", second)
	}
	if second.URL != "https://youtube.example/watch?v=def" {
		t.Fatalf("webpage_url should back-fill url: %+v", second)
	}
	if second.Views != -1 {
		t.Fatalf("missing view count should be -1: %+v", second)
	}

	third := candidates[2]
	if third.Title != "Unknown" || third.Uploader != "Unknown" || third.Duration != -1 {
		t.Fatalf("placeholders missing: %+v", third)
	}
}

func TestParseSearchOutputEmpty(t *testing.T) {
	candidates, err := parseSearchOutput("")
	if err != nil {
		t.Fatalf("parseSearchOutput: %v", err)
	}
	if len(candidates) != 0 {
		t.Fatalf("expected no candidates, got %d", len(candidates))
	}
}

func TestFinalPathFromOutput(t *testing.T) {
	stdout := "[download] 100%\n/home/user/Music/tmp/Song Title.mp3\n\n"
	if got := finalPathFromOutput(stdout); got != "/home/user/Music/tmp/Song Title.mp3" {
		t.Fatalf("unexpected path %q", got)
	}
	if got := finalPathFromOutput("\n \n"); got != "" {
		t.Fatalf("expected empty path, got %q", got)
	}
}
