package controller

import (
	"github.com/yildizm/PalmScan/internal/diagnosis"
	"github.com/yildizm/PalmScan/internal/intake"
	"github.com/yildizm/PalmScan/internal/theme"
)

// Panel is the visible section of the upload form; exactly one is shown
type Panel int

const (
	PanelIdle Panel = iota
	PanelLoading
	PanelResults
	PanelError
)

func (p Panel) String() string {
	switch p {
	case PanelIdle:
		return "idle"
	case PanelLoading:
		return "loading"
	case PanelResults:
		return "results"
	case PanelError:
		return "error"
	default:
		return "unknown"
	}
}

// Progress is the loading bar position
type Progress struct {
	Percent int
	Label   string
}

// State is the controller's domain state. Snapshots are values; File and
// Result are never mutated after they are stored.
type State struct {
	Panel          Panel
	Progress       Progress
	Result         *diagnosis.Result
	AnalysisID     string
	ErrorMessage   string
	File           *intake.SelectedFile
	Preview        intake.Preview
	AnalyzeEnabled bool
}

// HasFile reports whether a validated file is selected
func (s State) HasFile() bool {
	return s.File != nil
}

// HasAnalysis reports whether a current analysis is stored
func (s State) HasAnalysis() bool {
	return s.Result != nil
}

// Action is a user intent dispatched to the controller
type Action int

const (
	SelectFile Action = iota
	Drop
	Analyze
	Clear
	Retry
	NewAnalysis
	ExportReport
	ToggleTheme
	Help
)

var actionNames = map[Action]string{
	SelectFile:   "select_file",
	Drop:         "drop",
	Analyze:      "analyze",
	Clear:        "clear",
	Retry:        "retry",
	NewAnalysis:  "new_analysis",
	ExportReport: "export_report",
	ToggleTheme:  "toggle_theme",
	Help:         "help",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// Command is one dispatched action with its payload.
// SelectFile uses Path; Drop uses Content (with Name and MediaType) or Path.
type Command struct {
	Action    Action
	Path      string
	Name      string
	MediaType string
	Content   []byte
}

// Response is what a dispatch produced
type Response struct {
	State      State
	ReportPath string
	HelpText   string
	Theme      theme.Mode
}

// HelpText is the static usage help
const HelpText = `Palm Tree Disease Detector Help

How to use:
1. Upload a clear, well-lit photo of your palm tree
2. Click 'Analyze Image' to run AI analysis
3. Review the results and recommendations

Tips for best results:
• Take photos in natural daylight
• Include both healthy and diseased areas
• Ensure the image is in focus
• Use JPG or PNG format, max 10MB

Note: This tool provides guidance only. For serious plant health concerns, consult a professional arborist or plant pathologist.`
