package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/PalmScan/internal/theme"
	"github.com/yildizm/PalmScan/internal/ui/components"
)

// Theme represents a color theme for the TUI
type Theme struct {
	Name string

	// Primary colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	// Semantic colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	// UI colors
	Border   lipgloss.Color
	Muted    lipgloss.Color
	Progress lipgloss.Color
}

// buildTheme creates a theme from primary, secondary, accent, success, warning,
// error, info, border, muted and progress colors
func buildTheme(name string, colors [10]string) Theme {
	return Theme{
		Name:      name,
		Primary:   lipgloss.Color(colors[0]),
		Secondary: lipgloss.Color(colors[1]),
		Accent:    lipgloss.Color(colors[2]),
		Success:   lipgloss.Color(colors[3]),
		Warning:   lipgloss.Color(colors[4]),
		Error:     lipgloss.Color(colors[5]),
		Info:      lipgloss.Color(colors[6]),
		Border:    lipgloss.Color(colors[7]),
		Muted:     lipgloss.Color(colors[8]),
		Progress:  lipgloss.Color(colors[9]),
	}
}

// Available themes
var (
	LightTheme = buildTheme(string(theme.Light), [10]string{
		"#166534", "#4B5563", "#92400E",
		"#059669", "#D97706", "#DC2626", "#0891B2",
		"#D1D5DB", "#9CA3AF", "#16A34A",
	})

	DarkTheme = buildTheme(string(theme.Dark), [10]string{
		"#4ADE80", "#9CA3AF", "#FBBF24",
		"#34D399", "#FBBF24", "#F87171", "#22D3EE",
		"#374151", "#6B7280", "#22C55E",
	})
)

// ThemeFor returns the theme for a mode
func ThemeFor(mode theme.Mode) Theme {
	if mode == theme.Dark {
		return DarkTheme
	}
	return LightTheme
}

// Palette returns the component colors of the theme
func (t Theme) Palette() components.Palette {
	return components.Palette{
		Primary:   t.Primary,
		Secondary: t.Secondary,
		Success:   t.Success,
		Warning:   t.Warning,
		Error:     t.Error,
		Info:      t.Info,
		Muted:     t.Muted,
		Border:    t.Border,
		Progress:  t.Progress,
	}
}

// IsColorDisabled checks if colors should be disabled
func IsColorDisabled() bool {
	return os.Getenv("NO_COLOR") != ""
}

// NewStyles builds the styles of a theme
func NewStyles(t Theme) *Styles {
	return &Styles{
		Theme: t,

		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			Padding(0, 1),

		Header: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		Subheader: lipgloss.NewStyle().
			Foreground(t.Secondary).
			Bold(true),

		Body: lipgloss.NewStyle().
			Foreground(t.Secondary),

		Muted: lipgloss.NewStyle().
			Foreground(t.Muted),

		Success: lipgloss.NewStyle().
			Foreground(t.Success).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(t.Warning).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(t.Error).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(t.Info),

		Key: lipgloss.NewStyle().
			Foreground(t.Accent).
			Bold(true),

		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(1, 2),

		Focused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Primary).
			Padding(0, 1),

		Badge: lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1),
	}
}

// Styles contains all the styled components
type Styles struct {
	Theme Theme

	// Base styles
	Title     lipgloss.Style
	Header    lipgloss.Style
	Subheader lipgloss.Style
	Body      lipgloss.Style
	Muted     lipgloss.Style

	// Status styles
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
	Key     lipgloss.Style

	// Layout styles
	Box     lipgloss.Style
	Focused lipgloss.Style
	Badge   lipgloss.Style
}
