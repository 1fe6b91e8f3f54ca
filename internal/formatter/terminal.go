package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/PalmScan/internal/diagnosis"
	"github.com/yildizm/PalmScan/internal/emoji"
	"github.com/yildizm/go-termfmt"
)

// terminalFormatter renders a result as tree views using go-termfmt
type terminalFormatter struct {
	opts *termfmt.TerminalOptions
}

// NewTerminal creates a new terminal formatter with optional color support
func NewTerminal(color bool) Formatter {
	return NewTerminalWithEmoji(color, true)
}

// NewTerminalWithEmoji creates a terminal formatter with color and emoji switches
func NewTerminalWithEmoji(color, withEmoji bool) Formatter {
	opts := termfmt.DefaultOptions()
	opts.Color = color
	opts.Emoji = withEmoji
	return &terminalFormatter{opts: opts}
}

func (f *terminalFormatter) Format(result *diagnosis.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("no analysis to format")
	}
	view := View(result)

	var b strings.Builder
	f.writeHeader(&b, view)
	f.writeSummary(&b, result, view)

	if view.Description != "" {
		fmt.Fprintf(&b, "%s Description\n", f.symbol("info"))
		b.WriteString(view.Description + "\n\n")
	}

	f.writeList(&b, "symptoms", "Symptoms", view.Symptoms)
	f.writeList(&b, "treatment", "Recommended Treatment", view.Treatment)
	f.writeList(&b, "prevention", "Prevention Measures", view.Prevention)
	f.writeAlternatives(&b, view.Alternatives)

	return []byte(strings.TrimRight(b.String(), "\n") + "\n"), nil
}

// symbol resolves domain keys locally and everything else through go-termfmt
func (f *terminalFormatter) symbol(key string) string {
	switch key {
	case "info", "warning", "error", "statistics", "recommendations", "insights", "help":
		if s := termfmt.GetEmoji(key, f.opts); s != "" {
			return s
		}
	}
	return emoji.Lookup(key, f.opts.Emoji)
}

// writeHeader writes a box around the diagnosed disease name
func (f *terminalFormatter) writeHeader(b *strings.Builder, view ResultView) {
	header := fmt.Sprintf("%s %s", f.symbol("palm"), view.Disease)
	width := len([]rune(header))

	b.WriteString("╔" + strings.Repeat("═", width+2) + "╗\n")
	b.WriteString("║ " + header + " ║\n")
	b.WriteString("╚" + strings.Repeat("═", width+2) + "╝\n\n")
}

// writeSummary writes confidence and severity as a tree
func (f *terminalFormatter) writeSummary(b *strings.Builder, result *diagnosis.Result, view ResultView) {
	b.WriteString(f.symbol("statistics") + " Analysis Results\n")

	items := []termfmt.TreeItem{
		{
			Label: "Confidence",
			Value: fmt.Sprintf("%s %s", termfmt.CreateConfidenceBar(result.Confidence, f.opts), view.ConfidenceText),
		},
		{
			Label: "Severity",
			Value: fmt.Sprintf("%s %s", severityEmoji(view.Severity, f.opts.Emoji), view.SeverityText),
		},
	}
	if result.ProcessingTimeMS > 0 {
		items = append(items, termfmt.TreeItem{Label: "Processing Time", Value: fmt.Sprintf("%d ms", result.ProcessingTimeMS)})
	}
	items[len(items)-1].Last = true

	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n\n")
}

func (f *terminalFormatter) writeList(b *strings.Builder, key, title string, entries []string) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintf(b, "%s %s\n", f.symbol(key), title)

	items := make([]termfmt.TreeItem, 0, len(entries))
	for i, entry := range entries {
		items = append(items, termfmt.TreeItem{Label: entry, Last: i == len(entries)-1})
	}
	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n\n")
}

func (f *terminalFormatter) writeAlternatives(b *strings.Builder, alternatives []AlternativeView) {
	if len(alternatives) == 0 {
		return
	}
	fmt.Fprintf(b, "%s Alternative Possibilities\n", f.symbol("alternatives"))

	items := make([]termfmt.TreeItem, 0, len(alternatives))
	for i, alt := range alternatives {
		items = append(items, termfmt.TreeItem{
			Label: fmt.Sprintf("%s %s", confidenceEmoji(alt.Level, f.opts.Emoji), alt.Name),
			Value: fmt.Sprintf("%d%%", alt.Percent),
			Last:  i == len(alternatives)-1,
		})
	}
	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n\n")
}
