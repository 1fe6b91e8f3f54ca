package components

import "github.com/charmbracelet/lipgloss"

// Palette is the set of colors components render with
type Palette struct {
	Primary   lipgloss.TerminalColor
	Secondary lipgloss.TerminalColor
	Success   lipgloss.TerminalColor
	Warning   lipgloss.TerminalColor
	Error     lipgloss.TerminalColor
	Info      lipgloss.TerminalColor
	Muted     lipgloss.TerminalColor
	Border    lipgloss.TerminalColor
	Progress  lipgloss.TerminalColor
}

// DefaultPalette adapts to the terminal background
func DefaultPalette() Palette {
	return Palette{
		Primary:   lipgloss.AdaptiveColor{Light: "#166534", Dark: "#4ADE80"},
		Secondary: lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"},
		Success:   lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"},
		Warning:   lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"},
		Error:     lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#F87171"},
		Info:      lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"},
		Muted:     lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6B7280"},
		Border:    lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#374151"},
		Progress:  lipgloss.AdaptiveColor{Light: "#16A34A", Dark: "#22C55E"},
	}
}

// status maps a status name to its color
func (p Palette) status(status string) lipgloss.TerminalColor {
	switch status {
	case "success":
		return p.Success
	case "warning":
		return p.Warning
	case "error":
		return p.Error
	case "info":
		return p.Info
	default:
		return p.Secondary
	}
}
