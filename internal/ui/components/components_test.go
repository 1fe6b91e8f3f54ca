package components

import (
	"strings"
	"testing"

	"github.com/yildizm/PalmScan/internal/history"
)

func TestProgressBar_Render(t *testing.T) {
	tests := []struct {
		percent int
		filled  int
		text    string
	}{
		{0, 0, "  0%"},
		{50, 10, " 50%"},
		{100, 20, "100%"},
		{150, 20, "100%"},
		{-5, 0, "  0%"},
	}

	for _, tt := range tests {
		bar := NewProgressBar(20, DefaultPalette())
		bar.SetProgress(tt.percent, "Uploading to AI system...")
		out := bar.Render()

		if !strings.HasPrefix(out, "Uploading to AI system...\n") {
			t.Errorf("percent %d: expected label line, got %q", tt.percent, out)
		}
		if got := strings.Count(out, "█"); got != tt.filled {
			t.Errorf("percent %d: expected %d filled cells, got %d", tt.percent, tt.filled, got)
		}
		if !strings.HasSuffix(out, tt.text) {
			t.Errorf("percent %d: expected suffix %q, got %q", tt.percent, tt.text, out)
		}
	}
}

func TestSpinner_Tick(t *testing.T) {
	s := NewSpinner(DefaultPalette())
	for i := 0; i < len(spinnerFrames)+1; i++ {
		s.Tick()
	}
	if s.Frame != 1 {
		t.Errorf("Expected frame to wrap to 1, got %d", s.Frame)
	}
	s.SetLabel("Analyzing disease patterns...")
	if !strings.Contains(s.Render(), "Analyzing disease patterns...") {
		t.Error("Expected label in spinner output")
	}
}

func TestSparklineChart(t *testing.T) {
	chart := NewSparklineChart([]float64{1, 2, 3, 4, 5, 6, 7, 8}, 8)
	if got := chart.Render(); got != "▁▂▃▄▅▆▇█" {
		t.Errorf("Unexpected sparkline %q", got)
	}

	flat := NewSparklineChart([]float64{3, 3}, 10)
	if got := flat.Render(); got != "██" {
		t.Errorf("Expected flat series at full height, got %q", got)
	}

	trend := DailyTrend([]history.DailyStats{{Count: 1}, {Count: 2}, {Count: 3}}, 2)
	if got := trend.Render(); len([]rune(got)) != 2 {
		t.Errorf("Expected only the latest 2 days, got %q", got)
	}

	if NewSparklineChart(nil, 10).Render() != "" {
		t.Error("Expected empty chart for no values")
	}
}

func TestTopDiseases(t *testing.T) {
	counts := map[string]int{"healthy": 2, "bud_rot": 5, "black_scorch": 2}
	got := TopDiseases(counts, 2)
	want := []string{"Bud Rot (5)", "Black Scorch (2)"}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestCreateSessionStats(t *testing.T) {
	summary := history.Summary{
		TotalAnalyses:  1234,
		UniqueDiseases: 2,
		DiseaseCounts:  map[string]int{"healthy": 1000, "bud_rot": 234},
	}
	dashboard := CreateSessionStats(summary, DefaultPalette())
	if dashboard.Len() != 3 {
		t.Fatalf("Expected 3 cards, got %d", dashboard.Len())
	}
	if !strings.Contains(dashboard.Render(), "1,234") {
		t.Error("Expected formatted total")
	}
	if diseaseStatus(summary) != "warning" {
		t.Error("Expected warning status when a disease was detected")
	}
	if diseaseStatus(history.Summary{DiseaseCounts: map[string]int{"healthy": 3}}) != "success" {
		t.Error("Expected success status for healthy-only sessions")
	}
}

func TestDetailViewer_SkipsEmptySections(t *testing.T) {
	d := NewDetailViewer("Details", 60, DefaultPalette())
	d.AddSection(DetailSection{Title: "Symptoms", Content: []string{"Yellow fronds"}})
	d.AddSection(DetailSection{Title: "Treatment"})

	if len(d.Sections) != 1 {
		t.Fatalf("Expected 1 section, got %d", len(d.Sections))
	}
	out := d.Render()
	if !strings.Contains(out, "• Yellow fronds") {
		t.Errorf("Expected bullet line, got %q", out)
	}
}
