package components

import (
	"math"
	"strings"

	"github.com/yildizm/PalmScan/internal/history"
)

var sparkChars = []string{"▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}

// SparklineChart represents a compact sparkline chart
type SparklineChart struct {
	Values []float64
	Width  int
	Min    float64
	Max    float64
}

// NewSparklineChart creates a new sparkline chart
func NewSparklineChart(values []float64, width int) *SparklineChart {
	minVal := math.Inf(1)
	maxVal := math.Inf(-1)
	for _, v := range values {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}

	return &SparklineChart{
		Values: values,
		Width:  width,
		Min:    minVal,
		Max:    maxVal,
	}
}

// DailyTrend charts analyses per day, oldest first
func DailyTrend(daily []history.DailyStats, width int) *SparklineChart {
	values := make([]float64, len(daily))
	for i, day := range daily {
		values[i] = float64(day.Count)
	}
	return NewSparklineChart(values, width)
}

// Render renders the sparkline chart. Only the most recent Width values are shown.
func (s *SparklineChart) Render() string {
	if len(s.Values) == 0 || s.Width <= 0 {
		return ""
	}

	values := s.Values
	if len(values) > s.Width {
		values = values[len(values)-s.Width:]
	}

	var result strings.Builder
	for _, value := range values {
		normalized := 1.0
		if s.Max > s.Min {
			normalized = (value - s.Min) / (s.Max - s.Min)
		}
		charIndex := int(math.Round(normalized * float64(len(sparkChars)-1)))
		charIndex = max(0, min(charIndex, len(sparkChars)-1))
		result.WriteString(sparkChars[charIndex])
	}

	return result.String()
}
