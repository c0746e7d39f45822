package extract

import (
	"testing"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		label string
		want  float64
	}{
		{"3:12", 192},
		{"0:05", 5},
		{"12 minutes, 3 seconds 12:03", 723},
		{"1:02:30", 3750},
		{"no time here", 0},
		{"", 0},
	}

	for _, tt := range tests {
		if got := parseTimestamp(tt.label); got != tt.want {
			t.Errorf("parseTimestamp(%q) = %v, want %v", tt.label, got, tt.want)
		}
	}
}

func TestBuildSegmentsDropsEmptyText(t *testing.T) {
	scraped := []scrapedSegment{
		{Text: "first", Label: "0:01"},
		{Text: "   ", Label: "0:02"},
		{Text: "second", Label: "0:03"},
	}

	segments := buildSegments(scraped)
	if len(segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(segments))
	}
	if segments[0].Text != "first" || segments[0].Start != 1 {
		t.Errorf("segments[0] = %+v", segments[0])
	}
	if segments[1].Text != "second" || segments[1].Start != 3 {
		t.Errorf("segments[1] = %+v", segments[1])
	}
}

func TestTranscriptPanelSelectorOrder(t *testing.T) {
	// The generic aria-label probe must come first: the preference order is
	// part of the extraction contract.
	if len(transcriptPanelSelectors) < 2 {
		t.Fatal("expected multiple selectors in preference order")
	}
	if transcriptPanelSelectors[0] != `button[aria-label*="transcript"]` {
		t.Fatalf("first selector = %q", transcriptPanelSelectors[0])
	}
}
