package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/yildizm/PalmScan/internal/diagnosis"
)

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(result *diagnosis.Result) ([]byte, error)
}

// Output formats accepted on the command line
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatReport   = "report"
)

// Options control the terminal formatter and report timestamps
type Options struct {
	Color bool
	Emoji bool
	Now   func() time.Time
}

// New returns the formatter for an output format name
func New(format string, opts Options) (Formatter, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		return NewJSON(), nil
	case FormatMarkdown, "md":
		return NewMarkdown(opts.Now), nil
	case FormatReport:
		return NewText(opts.Now), nil
	case FormatText, "terminal", "":
		return NewTerminalWithEmoji(opts.Color, opts.Emoji), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

func clock(now func() time.Time) func() time.Time {
	if now == nil {
		return time.Now
	}
	return now
}

// bullets prefixes every item with "• ", one per line
func bullets(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "• " + item
	}
	return strings.Join(lines, "\n")
}

// info returns the disease info or an empty value
func info(result *diagnosis.Result) diagnosis.DiseaseInfo {
	if result == nil || result.DiseaseInfo == nil {
		return diagnosis.DiseaseInfo{}
	}
	return *result.DiseaseInfo
}
