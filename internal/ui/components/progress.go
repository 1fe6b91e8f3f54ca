package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ProgressBar renders a percentage with its stage label
type ProgressBar struct {
	Width   int
	Percent int
	Label   string
	Palette Palette
}

// NewProgressBar creates a new progress bar
func NewProgressBar(width int, palette Palette) *ProgressBar {
	return &ProgressBar{
		Width:   width,
		Palette: palette,
	}
}

// SetProgress updates the percentage and label
func (p *ProgressBar) SetProgress(percent int, label string) {
	p.Percent = percent
	p.Label = label
}

// Render renders the progress bar
func (p *ProgressBar) Render() string {
	progressStyle := lipgloss.NewStyle().Foreground(p.Palette.Progress).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(p.Palette.Muted)

	percent := p.Percent
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filledWidth := p.Width * percent / 100
	filled := strings.Repeat("█", filledWidth)
	empty := strings.Repeat("░", p.Width-filledWidth)

	result := fmt.Sprintf("[%s] %3d%%", progressStyle.Render(filled)+mutedStyle.Render(empty), percent)
	if p.Label != "" {
		result = p.Label + "\n" + result
	}
	return result
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner represents a spinning progress indicator
type Spinner struct {
	Frame   int
	Label   string
	Palette Palette
}

// NewSpinner creates a new spinner
func NewSpinner(palette Palette) *Spinner {
	return &Spinner{Palette: palette}
}

// SetLabel sets the spinner label
func (s *Spinner) SetLabel(label string) {
	s.Label = label
}

// Tick advances the spinner animation
func (s *Spinner) Tick() {
	s.Frame = (s.Frame + 1) % len(spinnerFrames)
}

// Render renders the spinner
func (s *Spinner) Render() string {
	spinner := lipgloss.NewStyle().Foreground(s.Palette.Progress).Bold(true).Render(spinnerFrames[s.Frame%len(spinnerFrames)])
	if s.Label != "" {
		return fmt.Sprintf("%s %s", spinner, s.Label)
	}
	return spinner
}
