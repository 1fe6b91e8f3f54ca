package formatter

import (
	"fmt"

	"github.com/yildizm/PalmScan/internal/diagnosis"
)

// ResultView is the display model for a diagnosis
type ResultView struct {
	Disease        string
	Percent        int
	ConfidenceText string
	Level          diagnosis.ConfidenceLevel
	Severity       diagnosis.Severity
	SeverityText   string
	Description    string
	Symptoms       []string
	Treatment      []string
	Prevention     []string
	Alternatives   []AlternativeView
}

// AlternativeView is one secondary candidate
type AlternativeView struct {
	Name    string
	Percent int
	Level   diagnosis.ConfidenceLevel
}

// View builds the display model; lists keep their order and at most
// diagnosis.MaxSecondary alternatives are shown after the primary one
func View(result *diagnosis.Result) ResultView {
	di := info(result)
	percent := result.Percent()

	severityText := di.Severity
	if severityText == "" {
		severityText = string(diagnosis.SeverityUnknown)
	}

	view := ResultView{
		Disease:        di.Name,
		Percent:        percent,
		ConfidenceText: fmt.Sprintf("%d%% Confidence", percent),
		Level:          diagnosis.ClassifyConfidence(percent),
		Severity:       result.Severity(),
		SeverityText:   severityText,
		Description:    di.Description,
		Symptoms:       di.Symptoms,
		Treatment:      di.Treatment,
		Prevention:     di.Prevention,
	}

	for _, alt := range result.Secondary(diagnosis.MaxSecondary) {
		p := diagnosis.ConfidencePercent(alt.Confidence)
		view.Alternatives = append(view.Alternatives, AlternativeView{
			Name:    diagnosis.FormatDiseaseName(alt.Disease),
			Percent: p,
			Level:   diagnosis.ClassifyConfidence(p),
		})
	}
	return view
}
