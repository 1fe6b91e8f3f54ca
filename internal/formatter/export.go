package formatter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yildizm/PalmScan/internal/diagnosis"
)

// Report file formats
const (
	ReportText     = "text"
	ReportJSON     = "json"
	ReportMarkdown = "markdown"
)

const reportPrefix = "palm-disease-analysis-"

// Exporter writes report files for download
type Exporter struct {
	Dir    string
	Format string
	Now    func() time.Time
}

// ReportFormatter returns the formatter and file extension for a report format
func ReportFormatter(format string, now func() time.Time) (Formatter, string, error) {
	switch strings.ToLower(format) {
	case ReportText, "txt", "":
		return NewText(now), ".txt", nil
	case ReportJSON:
		return NewJSON(), ".json", nil
	case ReportMarkdown, "md":
		return NewMarkdown(now), ".md", nil
	default:
		return nil, "", fmt.Errorf("unsupported report format: %s", format)
	}
}

// FileName returns palm-disease-analysis-YYYY-MM-DD with ext, dated in UTC
func FileName(t time.Time, ext string) string {
	return reportPrefix + t.UTC().Format("2006-01-02") + ext
}

// Export renders result and writes it into Dir. An existing report of the
// same day is kept and the new file gets a numeric suffix.
func (e *Exporter) Export(result *diagnosis.Result) (string, error) {
	if result == nil {
		return "", fmt.Errorf("no analysis to export")
	}

	now := clock(e.Now)
	f, ext, err := ReportFormatter(e.Format, now)
	if err != nil {
		return "", err
	}

	data, err := f.Format(result)
	if err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}

	dir := e.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	path, err := uniquePath(dir, FileName(now(), ext))
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}

func uniquePath(dir, name string) (string, error) {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	candidate := filepath.Join(dir, name)
	for i := 1; i < 1000; i++ {
		_, err := os.Stat(candidate)
		if errors.Is(err, os.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check %s: %w", candidate, err)
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s-%d%s", base, i, ext))
	}
	return "", fmt.Errorf("too many reports named %s in %s", name, dir)
}
