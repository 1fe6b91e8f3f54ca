package formatter

import (
	"encoding/json"
	"fmt"

	"github.com/yildizm/PalmScan/internal/diagnosis"
)

// jsonFormatter dumps the stored result as indented JSON
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

func (f *jsonFormatter) Format(result *diagnosis.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("no analysis to format")
	}
	return json.MarshalIndent(result, "", "  ")
}
