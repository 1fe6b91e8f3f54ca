package formatter

import (
	"github.com/yildizm/PalmScan/internal/diagnosis"
	"github.com/yildizm/PalmScan/internal/emoji"
	"github.com/yildizm/go-termfmt"
)

// severityEmoji returns the marker for a severity class
func severityEmoji(severity diagnosis.Severity, enabled bool) string {
	opts := termfmt.DefaultOptions()
	opts.Emoji = enabled
	switch severity {
	case diagnosis.SeverityNone:
		return emoji.Lookup("healthy", enabled)
	case diagnosis.SeverityModerate:
		return termfmt.GetEmoji("warning", opts)
	case diagnosis.SeveritySevere:
		return termfmt.GetEmoji("error", opts)
	default:
		return termfmt.GetEmoji("info", opts)
	}
}

// confidenceEmoji returns the marker for a confidence level
func confidenceEmoji(level diagnosis.ConfidenceLevel, enabled bool) string {
	switch level {
	case diagnosis.ConfidenceHigh:
		return emoji.Lookup("success", enabled)
	case diagnosis.ConfidenceMedium:
		return emoji.Lookup("medium", enabled)
	default:
		return emoji.Lookup("low", enabled)
	}
}

// confidenceBar creates ASCII confidence bar using go-termfmt
func confidenceBar(confidence float64, color bool) string {
	opts := termfmt.DefaultOptions()
	opts.Color = color
	return termfmt.CreateConfidenceBar(confidence, opts)
}
