package components

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/PalmScan/internal/diagnosis"
	"github.com/yildizm/PalmScan/internal/history"
)

// StatsCard represents a statistics card component
type StatsCard struct {
	Title       string
	Value       string
	Description string
	Status      string // "success", "warning", "error", "info"
	Icon        string
	Width       int
	Height      int
	Palette     Palette
}

// NewStatsCard creates a new stats card
func NewStatsCard(title, value, description string) *StatsCard {
	return &StatsCard{
		Title:       title,
		Value:       value,
		Description: description,
		Status:      "info",
		Width:       20,
		Height:      4,
		Palette:     DefaultPalette(),
	}
}

// SetStatus sets the status color of the card
func (s *StatsCard) SetStatus(status string) *StatsCard {
	s.Status = status
	return s
}

// SetIcon sets the icon for the card
func (s *StatsCard) SetIcon(icon string) *StatsCard {
	s.Icon = icon
	return s
}

// SetSize sets the size of the card
func (s *StatsCard) SetSize(width, height int) *StatsCard {
	s.Width = width
	s.Height = height
	return s
}

// Render renders the stats card
func (s *StatsCard) Render() string {
	titleStyle := lipgloss.NewStyle().Foreground(s.Palette.Info).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(s.Palette.status(s.Status)).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(s.Palette.Secondary)
	boxStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(s.Palette.Border).Padding(0, 1)

	title := titleStyle.Render(s.Title)
	if s.Icon != "" {
		title = s.Icon + " " + title
	}

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		valueStyle.Render(s.Value),
		mutedStyle.Render(s.Description),
	)

	return boxStyle.Width(s.Width).Height(s.Height).Render(content)
}

// StatsDashboard lays cards out in rows
type StatsDashboard struct {
	cards      []*StatsCard
	columns    int
	cardWidth  int
	cardHeight int
	palette    Palette
}

// NewStatsDashboard creates a new stats dashboard
func NewStatsDashboard(columns int, palette Palette) *StatsDashboard {
	if columns < 1 {
		columns = 1
	}
	return &StatsDashboard{
		columns:    columns,
		cardWidth:  20,
		cardHeight: 4,
		palette:    palette,
	}
}

// AddCard adds a stats card to the dashboard
func (d *StatsDashboard) AddCard(card *StatsCard) {
	card.SetSize(d.cardWidth, d.cardHeight)
	card.Palette = d.palette
	d.cards = append(d.cards, card)
}

// Len returns the number of cards
func (d *StatsDashboard) Len() int {
	return len(d.cards)
}

// Render renders the stats dashboard
func (d *StatsDashboard) Render() string {
	if len(d.cards) == 0 {
		return ""
	}

	var rows []string
	for i := 0; i < len(d.cards); i += d.columns {
		end := min(i+d.columns, len(d.cards))

		rowCards := make([]string, 0, end-i)
		for j := i; j < end; j++ {
			rowCards = append(rowCards, d.cards[j].Render())
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rowCards...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// CreateSessionStats builds cards from the analyses of this session
func CreateSessionStats(summary history.Summary, palette Palette) *StatsDashboard {
	dashboard := NewStatsDashboard(3, palette)

	dashboard.AddCard(NewStatsCard(
		"Analyses",
		formatNumber(summary.TotalAnalyses),
		"Images analyzed",
	).SetStatus("info"))

	dashboard.AddCard(NewStatsCard(
		"Diseases",
		formatNumber(summary.UniqueDiseases),
		"Distinct diagnoses",
	).SetStatus(diseaseStatus(summary)))

	avg := "-"
	if summary.ProcessingTime.Count > 0 {
		avg = fmt.Sprintf("%.0f ms", summary.ProcessingTime.Avg)
	}
	dashboard.AddCard(NewStatsCard(
		"Avg Time",
		avg,
		fmt.Sprintf("p95 %.0f ms", summary.ProcessingTime.P95),
	).SetStatus("info"))

	return dashboard
}

// diseaseStatus is success while every diagnosis was healthy
func diseaseStatus(summary history.Summary) string {
	for disease, count := range summary.DiseaseCounts {
		if count > 0 && !strings.EqualFold(disease, "healthy") {
			return "warning"
		}
	}
	return "success"
}

// TopDiseases returns "Name (n)" entries sorted by count, then name
func TopDiseases(counts map[string]int, limit int) []string {
	type entry struct {
		name  string
		count int
	}
	entries := make([]entry, 0, len(counts))
	for name, count := range counts {
		entries = append(entries, entry{name, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].name < entries[j].name
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, fmt.Sprintf("%s (%d)", diagnosis.FormatDiseaseName(e.name), e.count))
	}
	return out
}

// formatNumber formats large numbers with commas
func formatNumber(n int) string {
	str := strconv.Itoa(n)
	if len(str) <= 3 {
		return str
	}

	var result strings.Builder
	for i, digit := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result.WriteString(",")
		}
		result.WriteRune(digit)
	}

	return result.String()
}

// SummaryBox creates a summary information box
type SummaryBox struct {
	Title   string
	Content []string
	Width   int
	Palette Palette
}

// NewSummaryBox creates a new summary box
func NewSummaryBox(title string, width int, palette Palette) *SummaryBox {
	return &SummaryBox{
		Title:   title,
		Width:   width,
		Palette: palette,
	}
}

// AddLine adds a line to the summary
func (s *SummaryBox) AddLine(line string) {
	s.Content = append(s.Content, line)
}

// AddKeyValue adds a key-value pair to the summary
func (s *SummaryBox) AddKeyValue(key, value string) {
	s.Content = append(s.Content, fmt.Sprintf("%-15s: %s", key, value))
}

// Render renders the summary box
func (s *SummaryBox) Render() string {
	headerStyle := lipgloss.NewStyle().Foreground(s.Palette.Primary).Bold(true)
	bodyStyle := lipgloss.NewStyle().Foreground(s.Palette.Secondary)
	boxStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(s.Palette.Border).Padding(0, 1)

	content := make([]string, 0, len(s.Content)+2)
	content = append(content, headerStyle.Render(s.Title), "")
	for _, line := range s.Content {
		content = append(content, bodyStyle.Render(line))
	}

	box := boxStyle
	if s.Width > 0 {
		box = box.Width(s.Width)
	}
	return box.Render(lipgloss.JoinVertical(lipgloss.Left, content...))
}
