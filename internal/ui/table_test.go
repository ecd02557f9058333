package ui

import (
	"strings"
	"testing"

	"musicgenie/internal/youtube"
)

func TestCandidateTable(t *testing.T) {
	out := CandidateTable([]youtube.Candidate{
		{Title: "Song A", Uploader: "ChannelA", Duration: 245, Views: 1_530_000},
		{Title: "Song B", Uploader: "Unknown", Duration: -1, Views: -1},
	})

	for _, want := range []string{"Song A", "ChannelA", "4:05", "1.5M", "Song B", "?"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestRenderTableEmptyHeaders(t *testing.T) {
	if out := RenderTable(nil, nil, nil); out != "" {
		t.Fatalf("expected empty render, got %q", out)
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := RenderTable([]string{"A", "B"}, [][]string{{"only"}}, []Alignment{AlignLeft, AlignRight})
	if !strings.Contains(out, "only") {
		t.Fatalf("row content missing:\n%s", out)
	}
}

func TestNonInteractivePrompterDegrades(t *testing.T) {
	p := &SurveyPrompter{interactive: false}

	sel, err := p.PickCandidate([]youtube.Candidate{{Title: "Song"}})
	if err != nil || !sel.Cancelled {
		t.Fatalf("expected cancelled pick, got %+v %v", sel, err)
	}

	ok, err := p.Confirm("download?", true)
	if err != nil || !ok {
		t.Fatalf("expected default answer, got %v %v", ok, err)
	}
}
