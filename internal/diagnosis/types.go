package diagnosis

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxSecondary is the number of alternatives shown after the primary result
const MaxSecondary = 3

// Result is the diagnosis payload returned by the inference service
type Result struct {
	Success          bool          `json:"success,omitempty" yaml:"success,omitempty"`
	Prediction       string        `json:"prediction,omitempty" yaml:"prediction,omitempty"`
	Confidence       float64       `json:"confidence" yaml:"confidence"`
	DiseaseInfo      *DiseaseInfo  `json:"disease_info" yaml:"disease_info"`
	Alternatives     []Alternative `json:"alternatives" yaml:"alternatives"`
	ProcessingTimeMS int           `json:"processing_time_ms,omitempty" yaml:"processing_time_ms,omitempty"`
}

// DiseaseInfo describes the primary disease
type DiseaseInfo struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Severity    string   `json:"severity" yaml:"severity"`
	Symptoms    []string `json:"symptoms" yaml:"symptoms"`
	Treatment   []string `json:"treatment" yaml:"treatment"`
	Prevention  []string `json:"prevention" yaml:"prevention"`
}

// Alternative is one ranked candidate; index 0 is the primary result
type Alternative struct {
	Disease    string  `json:"disease" yaml:"disease"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// Severity is the display class of a disease severity
type Severity string

const (
	SeverityNone     Severity = "none"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
	SeverityUnknown  Severity = "unknown"
)

// ConfidenceLevel is the display class of a confidence percentage
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// ConfidencePercent converts a [0,1] confidence into a rounded percentage
func ConfidencePercent(confidence float64) int {
	return int(math.Round(confidence * 100))
}

// ClassifyConfidence returns the display level for a percentage
func ClassifyConfidence(percent int) ConfidenceLevel {
	switch {
	case percent >= 80:
		return ConfidenceHigh
	case percent >= 60:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// ClassifySeverity maps a free-form severity onto a known class
func ClassifySeverity(severity string) Severity {
	switch strings.ToLower(strings.TrimSpace(severity)) {
	case "none":
		return SeverityNone
	case "moderate":
		return SeverityModerate
	case "severe":
		return SeveritySevere
	default:
		return SeverityUnknown
	}
}

// FormatDiseaseName turns a label like "bud_rot" into "Bud Rot"
func FormatDiseaseName(disease string) string {
	words := strings.Split(disease, "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(word)
		words[i] = string(unicode.ToUpper(r)) + word[size:]
	}
	return strings.Join(words, " ")
}

// Percent returns the rounded confidence percentage of the result
func (r *Result) Percent() int {
	return ConfidencePercent(r.Confidence)
}

// Level returns the confidence display level of the result
func (r *Result) Level() ConfidenceLevel {
	return ClassifyConfidence(r.Percent())
}

// Severity returns the severity class of the primary disease
func (r *Result) Severity() Severity {
	if r.DiseaseInfo == nil {
		return SeverityUnknown
	}
	return ClassifySeverity(r.DiseaseInfo.Severity)
}

// Secondary returns up to limit alternatives, skipping the primary one.
// A non-positive limit means MaxSecondary.
func (r *Result) Secondary(limit int) []Alternative {
	if limit <= 0 {
		limit = MaxSecondary
	}
	if len(r.Alternatives) <= 1 {
		return nil
	}
	end := 1 + limit
	if end > len(r.Alternatives) {
		end = len(r.Alternatives)
	}
	out := make([]Alternative, end-1)
	copy(out, r.Alternatives[1:end])
	return out
}

// Validate reports whether the result carries the fields rendering relies on
func (r *Result) Validate() error {
	if r.DiseaseInfo == nil {
		return fmt.Errorf("missing disease_info")
	}
	if strings.TrimSpace(r.DiseaseInfo.Name) == "" {
		return fmt.Errorf("missing disease_info.name")
	}
	if math.IsNaN(r.Confidence) || r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("confidence %v out of range [0,1]", r.Confidence)
	}
	for i, alt := range r.Alternatives {
		if math.IsNaN(alt.Confidence) || alt.Confidence < 0 || alt.Confidence > 1 {
			return fmt.Errorf("alternative %d confidence %v out of range [0,1]", i, alt.Confidence)
		}
	}
	return nil
}

// Decode parses and validates a result from JSON
func Decode(r io.Reader) (*Result, error) {
	var result Result
	if err := json.NewDecoder(r).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode analysis result: %w", err)
	}
	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("malformed analysis result: %w", err)
	}
	return &result, nil
}
