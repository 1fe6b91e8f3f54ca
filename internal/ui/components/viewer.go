package components

import (
	"github.com/charmbracelet/lipgloss"
)

// DetailViewer renders titled sections of bullet lines
type DetailViewer struct {
	Title    string
	Sections []DetailSection
	Width    int
	Palette  Palette
}

// DetailSection represents a section in the detail view
type DetailSection struct {
	Title   string
	Content []string
	Style   string // "info", "warning", "error", "success"
}

// NewDetailViewer creates a new detail viewer
func NewDetailViewer(title string, width int, palette Palette) *DetailViewer {
	return &DetailViewer{
		Title:   title,
		Width:   width,
		Palette: palette,
	}
}

// AddSection adds a section; empty sections are skipped
func (d *DetailViewer) AddSection(section DetailSection) {
	if len(section.Content) == 0 {
		return
	}
	d.Sections = append(d.Sections, section)
}

// Render renders the detail viewer
func (d *DetailViewer) Render() string {
	content := make([]string, 0, len(d.Sections)*4+2)
	if d.Title != "" {
		content = append(content, lipgloss.NewStyle().Foreground(d.Palette.Primary).Bold(true).Render(d.Title), "")
	}

	for i, section := range d.Sections {
		content = append(content, d.renderSection(section)...)
		if i < len(d.Sections)-1 {
			content = append(content, "")
		}
	}

	style := lipgloss.NewStyle()
	if d.Width > 0 {
		style = style.Width(d.Width)
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, content...))
}

func (d *DetailViewer) renderSection(section DetailSection) []string {
	lines := make([]string, 0, len(section.Content)+1)

	titleStyle := lipgloss.NewStyle().Foreground(d.Palette.status(section.Style)).Bold(true)
	lines = append(lines, titleStyle.Render(section.Title))

	bodyStyle := lipgloss.NewStyle().Foreground(d.Palette.Secondary)
	for _, line := range section.Content {
		lines = append(lines, bodyStyle.Render("  • "+line))
	}

	return lines
}
