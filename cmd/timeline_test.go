package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/Tiliavir/promille/internal/timeline"
)

func TestChartBar(t *testing.T) {
	tests := []struct {
		permille, peak float64
		want           int
	}{
		{0, 1, 0},
		{1, 0, 0},
		{1, 1, 10},
		{0.5, 1, 5},
		{0.04, 1, 0},
		{2, 1, 10},
	}
	for _, tt := range tests {
		got := chartBar(tt.permille, tt.peak, 10)
		if n := strings.Count(got, "█"); n != tt.want {
			t.Errorf("chartBar(%v, %v) has %d cells, want %d", tt.permille, tt.peak, n, tt.want)
		}
	}
}

func samplePoints() []timeline.Point {
	start := time.Date(2026, 2, 27, 20, 0, 0, 0, time.UTC)
	return []timeline.Point{
		{Time: start, Permille: 0.01},
		{Time: start.Add(10 * time.Minute), Permille: 0.2},
		{Time: start.Add(20 * time.Minute), Permille: 0},
	}
}

func TestRenderTimelineCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := renderTimeline(&buf, "csv", samplePoints(), false); err != nil {
		t.Fatalf("renderTimeline: %v", err)
	}
	want := "time,permille\n" +
		"2026-02-27T20:00:00Z,0.010\n" +
		"2026-02-27T20:10:00Z,0.200\n" +
		"2026-02-27T20:20:00Z,0.000\n"
	if buf.String() != want {
		t.Errorf("csv output = %q, want %q", buf.String(), want)
	}
}

func TestRenderTimelineJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := renderTimeline(&buf, "json", samplePoints(), false); err != nil {
		t.Fatalf("renderTimeline: %v", err)
	}
	var out timelineJSON
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if out.Peak == nil || out.Peak.Permille != 0.2 {
		t.Errorf("peak = %+v", out.Peak)
	}
	if out.SoberAt == nil || out.SoberAt.Minute() != 20 {
		t.Errorf("sober_at = %v", out.SoberAt)
	}
	if len(out.Points) != 3 {
		t.Errorf("points = %d, want 3", len(out.Points))
	}
}

func TestRenderTimelineMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := renderTimeline(&buf, "md", samplePoints(), true); err != nil {
		t.Fatalf("renderTimeline: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Peak 0.20 ‰ at 20:10", "Sober at", "00:20 after the first drink", "20:10", "█"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := renderTimeline(&buf, "md", nil, false); err != nil {
		t.Fatalf("renderTimeline: %v", err)
	}
	if !strings.Contains(buf.String(), "No drinks") {
		t.Errorf("empty output = %q", buf.String())
	}
}
