package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/yildizm/PalmScan/internal/diagnosis"
)

// markdownFormatter formats the report as Markdown
type markdownFormatter struct {
	now func() time.Time
}

// NewMarkdown creates a new Markdown formatter; a nil clock means time.Now
func NewMarkdown(now func() time.Time) Formatter {
	return &markdownFormatter{now: clock(now)}
}

func (f *markdownFormatter) Format(result *diagnosis.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("no analysis to format")
	}
	di := info(result)

	var b strings.Builder
	b.WriteString("# Palm Tree Disease Analysis Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", f.now().Format(generatedTime))

	f.writeSummaryTable(&b, result)

	if di.Description != "" {
		b.WriteString("## Description\n\n")
		b.WriteString(di.Description + "\n\n")
	}

	f.writeList(&b, "Symptoms", di.Symptoms)
	f.writeList(&b, "Recommended Treatment", di.Treatment)
	f.writeList(&b, "Prevention Measures", di.Prevention)
	f.writeAlternatives(&b, result.Secondary(diagnosis.MaxSecondary))

	b.WriteString("---\n")
	b.WriteString("*" + strings.ReplaceAll(disclaimer, "\n", " ") + "*\n")
	return []byte(b.String()), nil
}

// writeSummaryTable writes the primary result as a table
func (f *markdownFormatter) writeSummaryTable(b *strings.Builder, result *diagnosis.Result) {
	di := info(result)

	b.WriteString("## Analysis Results\n\n")
	b.WriteString("| Field | Value |\n")
	b.WriteString("|-------|-------|\n")
	fmt.Fprintf(b, "| Disease | %s |\n", escapeCell(di.Name))
	fmt.Fprintf(b, "| Confidence | %s %d%% |\n", confidenceBar(result.Confidence, false), result.Percent())
	fmt.Fprintf(b, "| Severity | %s %s |\n", severityEmoji(result.Severity(), true), escapeCell(di.Severity))
	if result.ProcessingTimeMS > 0 {
		fmt.Fprintf(b, "| Processing Time | %d ms |\n", result.ProcessingTimeMS)
	}
	b.WriteString("\n")
}

func (f *markdownFormatter) writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

func (f *markdownFormatter) writeAlternatives(b *strings.Builder, alternatives []diagnosis.Alternative) {
	if len(alternatives) == 0 {
		return
	}
	b.WriteString("## Alternative Possibilities\n\n")
	for i, alt := range alternatives {
		fmt.Fprintf(b, "%d. %s (%d%%)\n", i+1, diagnosis.FormatDiseaseName(alt.Disease), diagnosis.ConfidencePercent(alt.Confidence))
	}
	b.WriteString("\n")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
