package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/yildizm/PalmScan/internal/diagnosis"
)

const (
	reportTitle   = "PALM TREE DISEASE ANALYSIS REPORT"
	reportFooter  = "Report generated by Palm Tree Disease Detector AI System"
	disclaimer    = "This analysis is provided for guidance only. For serious plant health concerns,\nplease consult with a professional arborist or plant pathologist."
	generatedTime = "2006-01-02 15:04:05"
)

// textFormatter renders the downloadable plain-text report
type textFormatter struct {
	now func() time.Time
}

// NewText creates the plain-text report formatter; a nil clock means time.Now
func NewText(now func() time.Time) Formatter {
	return &textFormatter{now: clock(now)}
}

func (f *textFormatter) Format(result *diagnosis.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("no analysis to report")
	}
	di := info(result)

	var b strings.Builder
	b.WriteString(reportTitle + "\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", f.now().Format(generatedTime))

	writeSection(&b, "ANALYSIS RESULTS", fmt.Sprintf("Disease: %s\nConfidence: %d%%\nSeverity: %s",
		di.Name, result.Percent(), di.Severity))
	writeSection(&b, "DESCRIPTION", di.Description)
	writeSection(&b, "SYMPTOMS", bullets(di.Symptoms))
	writeSection(&b, "RECOMMENDED TREATMENT", bullets(di.Treatment))
	writeSection(&b, "PREVENTION MEASURES", bullets(di.Prevention))

	alternatives := result.Secondary(diagnosis.MaxSecondary)
	lines := make([]string, len(alternatives))
	for i, alt := range alternatives {
		lines[i] = fmt.Sprintf("• %s: %d%%", diagnosis.FormatDiseaseName(alt.Disease), diagnosis.ConfidencePercent(alt.Confidence))
	}
	writeSection(&b, "ALTERNATIVE POSSIBILITIES", strings.Join(lines, "\n"))

	b.WriteString("DISCLAIMER\n==========\n")
	b.WriteString(disclaimer + "\n\n")
	b.WriteString(reportFooter)

	return []byte(b.String()), nil
}

// writeSection writes an underlined heading, the body and a blank line
func writeSection(b *strings.Builder, heading, body string) {
	b.WriteString(heading + "\n")
	b.WriteString(strings.Repeat("=", len(heading)) + "\n")
	b.WriteString(body + "\n\n")
}
