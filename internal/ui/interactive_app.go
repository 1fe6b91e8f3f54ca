package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/PalmScan/internal/controller"
	"github.com/yildizm/PalmScan/internal/diagnosis"
	"github.com/yildizm/PalmScan/internal/emoji"
	"github.com/yildizm/PalmScan/internal/formatter"
	"github.com/yildizm/PalmScan/internal/history"
	"github.com/yildizm/PalmScan/internal/intake"
	"github.com/yildizm/PalmScan/internal/theme"
	"github.com/yildizm/PalmScan/internal/ui/components"
)

const defaultWidth = 80

// InteractiveModel is the upload form rendered in the terminal
type InteractiveModel struct {
	ctx     context.Context
	ctrl    *controller.Controller
	history *history.Store
	state   controller.State

	width    int
	height   int
	quitting bool

	mode    theme.Mode
	styles  *Styles
	palette components.Palette
	spinner *components.Spinner

	overlay  Overlay
	helpText string

	// path prompt
	prompting bool
	input     []rune

	notice      string
	noticeError bool
}

// NewInteractiveModel creates the model for a controller
func NewInteractiveModel(ctx context.Context, opts Options) *InteractiveModel {
	m := &InteractiveModel{
		ctx:     ctx,
		ctrl:    opts.Controller,
		history: opts.History,
		state:   opts.Controller.State(),
	}
	m.setTheme(opts.Theme)
	return m
}

func (m *InteractiveModel) setTheme(mode theme.Mode) {
	if mode != theme.Dark {
		mode = theme.Light
	}
	t := ThemeFor(mode)
	m.mode = mode
	m.styles = NewStyles(t)
	m.palette = t.Palette()
	if m.spinner == nil {
		m.spinner = components.NewSpinner(m.palette)
	}
	m.spinner.Palette = m.palette
}

// Init initializes the interactive model
func (m *InteractiveModel) Init() tea.Cmd {
	return tick()
}

// Update handles messages and navigation
func (m *InteractiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tickMsg:
		m.spinner.Tick()
		return m, tick()
	case stateChangedMsg:
		m.state = m.ctrl.State()
		return m, nil
	case dispatchMsg:
		return m.handleDispatch(msg)
	}

	return m, nil
}

// handleKeyPress routes keyboard input
func (m *InteractiveModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.handleQuit()
	}
	if m.prompting {
		return m.handlePromptKey(msg)
	}
	if msg.Paste {
		return m, m.drop(string(msg.Runes))
	}
	if m.overlay != OverlayNone {
		return m.handleOverlayKey(msg)
	}

	loading := m.state.Panel == controller.PanelLoading

	switch msg.String() {
	case "q":
		return m.handleQuit()
	case "o":
		if !loading {
			m.openPrompt()
		}
	case "enter":
		if m.canAnalyze() {
			return m, m.dispatch(controller.Command{Action: controller.Analyze})
		}
		if !loading {
			m.openPrompt()
		}
	case "a":
		if m.canAnalyze() {
			return m, m.dispatch(controller.Command{Action: controller.Analyze})
		}
	case "c":
		if !loading {
			return m, m.dispatch(controller.Command{Action: controller.Clear})
		}
	case "r":
		if m.state.Panel == controller.PanelError {
			return m, m.dispatch(controller.Command{Action: controller.Retry})
		}
	case "n":
		if m.state.Panel == controller.PanelResults {
			return m, m.dispatch(controller.Command{Action: controller.NewAnalysis})
		}
	case "d":
		if m.state.Panel == controller.PanelResults {
			return m, m.dispatch(controller.Command{Action: controller.ExportReport})
		}
	case "t":
		return m, m.dispatch(controller.Command{Action: controller.ToggleTheme})
	case "h", "?":
		return m, m.dispatch(controller.Command{Action: controller.Help})
	case "s":
		if m.history != nil {
			m.overlay = OverlayStats
		}
	case "esc":
		m.notice = ""
	}
	return m, nil
}

func (m *InteractiveModel) handleOverlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m.handleQuit()
	case "esc", "enter", "h", "?", "s":
		m.overlay = OverlayNone
	}
	return m, nil
}

func (m *InteractiveModel) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.prompting = false
		m.input = nil
	case tea.KeyEnter:
		path := string(m.input)
		m.prompting = false
		m.input = nil
		if strings.TrimSpace(path) == "" {
			return m, nil
		}
		return m, m.dispatch(controller.Command{Action: controller.SelectFile, Path: cleanPastedPath(path)})
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case tea.KeySpace:
		m.input = append(m.input, ' ')
	case tea.KeyRunes:
		m.input = append(m.input, msg.Runes...)
	}
	return m, nil
}

func (m *InteractiveModel) openPrompt() {
	m.prompting = true
	m.input = nil
	m.notice = ""
}

// drop handles a path pasted into the terminal, which is how most
// terminals deliver a file dragged onto the window
func (m *InteractiveModel) drop(pasted string) tea.Cmd {
	if m.state.Panel == controller.PanelLoading {
		return nil
	}
	path := cleanPastedPath(pasted)
	if path == "" {
		return nil
	}
	return m.dispatch(controller.Command{Action: controller.Drop, Path: path})
}

func (m *InteractiveModel) canAnalyze() bool {
	return m.state.AnalyzeEnabled && m.state.Panel != controller.PanelLoading
}

// dispatch runs an action off the event loop
func (m *InteractiveModel) dispatch(cmd controller.Command) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		resp, err := ctrl.Dispatch(ctx, cmd)
		return dispatchMsg{action: cmd.Action, resp: resp, err: err}
	}
}

// handleDispatch applies the outcome of an action
func (m *InteractiveModel) handleDispatch(msg dispatchMsg) (tea.Model, tea.Cmd) {
	m.state = m.ctrl.State()
	m.notice = ""
	m.noticeError = false

	if errors.Is(msg.err, controller.ErrBusy) {
		m.setNotice("An analysis is already running", true)
		return m, nil
	}

	switch msg.action {
	case controller.ExportReport:
		if msg.err != nil {
			m.setNotice(msg.err.Error(), true)
		} else if msg.resp.ReportPath != "" {
			m.setNotice("Report saved to "+msg.resp.ReportPath, false)
		}
	case controller.ToggleTheme:
		if msg.err != nil {
			m.setNotice(msg.err.Error(), true)
		}
		mode := msg.resp.Theme
		if mode == "" {
			mode = m.mode.Opposite()
		}
		m.setTheme(mode)
	case controller.Help:
		m.helpText = msg.resp.HelpText
		m.overlay = OverlayHelp
	}
	return m, nil
}

func (m *InteractiveModel) setNotice(text string, isError bool) {
	m.notice = text
	m.noticeError = isError
}

// handleQuit handles quit commands
func (m *InteractiveModel) handleQuit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

// View renders the interactive model
func (m *InteractiveModel) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch m.overlay {
	case OverlayHelp:
		body = m.renderHelp()
	case OverlayStats:
		body = m.renderStats()
	default:
		body = m.renderPanel()
	}

	sections := []string{m.renderHeader(), "", body}
	if m.prompting {
		sections = append(sections, "", m.renderPrompt())
	}
	if m.notice != "" {
		style := m.styles.Success
		if m.noticeError {
			style = m.styles.Error
		}
		sections = append(sections, "", style.Render(m.notice))
	}
	sections = append(sections, "", m.renderKeys())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	return content
}

func (m *InteractiveModel) contentWidth() int {
	if m.width <= 0 {
		return defaultWidth - 4
	}
	return max(40, min(m.width-4, defaultWidth))
}

func (m *InteractiveModel) renderHeader() string {
	title := m.styles.Title.Render(emoji.GetEmoji("palm") + " Palm Tree Disease Detector")
	mode := m.styles.Muted.Render(emoji.GetEmoji("theme") + " " + string(m.mode))
	return lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", mode)
}

func (m *InteractiveModel) renderPanel() string {
	var content string
	switch m.state.Panel {
	case controller.PanelLoading:
		content = m.renderLoading()
	case controller.PanelResults:
		content = m.renderResults()
	case controller.PanelError:
		content = m.renderError()
	default:
		content = m.renderIdle()
	}
	return m.styles.Box.Width(m.contentWidth()).Render(content)
}

func (m *InteractiveModel) renderIdle() string {
	if !m.state.HasFile() {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.styles.Header.Render(emoji.GetEmoji("upload")+" Upload a palm photo"),
			"",
			m.styles.Body.Render("Drop an image onto this window or press o to type its path."),
			m.styles.Muted.Render("JPG or PNG, up to 10MB"),
		)
	}

	file := m.state.File
	lines := []string{
		m.styles.Header.Render(emoji.GetEmoji("image") + " " + file.Name),
		"",
		m.styles.Body.Render(fmt.Sprintf("Size: %s", intake.HumanSize(file.Size))),
		m.styles.Body.Render(fmt.Sprintf("Type: %s", file.MediaType)),
	}
	if dims := m.state.Preview.Dimensions(); dims != "" {
		lines = append(lines, m.styles.Body.Render(fmt.Sprintf("Dimensions: %s", dims)))
	}
	if m.state.AnalyzeEnabled {
		lines = append(lines, "", m.styles.Info.Render("Press a or Enter to analyze"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *InteractiveModel) renderLoading() string {
	m.spinner.SetLabel(m.state.Progress.Label)
	bar := components.NewProgressBar(m.contentWidth()-16, m.palette)
	bar.SetProgress(m.state.Progress.Percent, "")

	return lipgloss.JoinVertical(lipgloss.Left,
		m.spinner.Render(),
		"",
		bar.Render(),
	)
}

func (m *InteractiveModel) renderResults() string {
	result := m.state.Result
	if result == nil {
		return m.renderIdle()
	}
	view := formatter.View(result)

	disease := m.styles.Header.Render(view.Disease)
	confidence := m.confidenceStyle(view.Level).Render(view.ConfidenceText)
	severity := m.severityBadge(view.Severity, view.SeverityText)

	lines := []string{
		disease,
		lipgloss.JoinHorizontal(lipgloss.Center, confidence, "  ", severity),
	}
	if view.Description != "" {
		lines = append(lines, "", m.styles.Body.Width(m.contentWidth()-6).Render(view.Description))
	}

	details := components.NewDetailViewer("", m.contentWidth()-6, m.palette)
	details.AddSection(components.DetailSection{Title: emoji.GetEmoji("symptoms") + " Symptoms", Content: view.Symptoms, Style: "warning"})
	details.AddSection(components.DetailSection{Title: emoji.GetEmoji("treatment") + " Treatment", Content: view.Treatment, Style: "info"})
	details.AddSection(components.DetailSection{Title: emoji.GetEmoji("prevention") + " Prevention", Content: view.Prevention, Style: "success"})
	if len(details.Sections) > 0 {
		lines = append(lines, "", details.Render())
	}

	if len(view.Alternatives) > 0 {
		lines = append(lines, "", m.styles.Subheader.Render(emoji.GetEmoji("alternatives")+" Other possibilities"))
		for _, alt := range view.Alternatives {
			lines = append(lines, fmt.Sprintf("  %s  %s",
				m.styles.Body.Render(alt.Name),
				m.confidenceStyle(alt.Level).Render(fmt.Sprintf("%d%%", alt.Percent))))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *InteractiveModel) renderError() string {
	lines := []string{
		m.styles.Error.Render(emoji.GetEmoji("error") + " " + m.state.ErrorMessage),
	}
	if m.state.HasFile() {
		lines = append(lines, "", m.styles.Muted.Render("Selected: "+m.state.File.Name))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *InteractiveModel) renderPrompt() string {
	cursor := m.styles.Key.Render("█")
	return m.styles.Focused.Width(m.contentWidth()).Render("Image path: " + string(m.input) + cursor)
}

func (m *InteractiveModel) renderHelp() string {
	text := m.helpText
	if text == "" {
		text = controller.HelpText
	}
	body := m.styles.Body.Width(m.contentWidth() - 6).Render(text)
	return m.styles.Box.Width(m.contentWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.styles.Header.Render(emoji.GetEmoji("help")+" Help"),
			"",
			body,
		))
}

func (m *InteractiveModel) renderStats() string {
	summary := m.history.Snapshot()
	lines := []string{
		m.styles.Header.Render(emoji.GetEmoji("statistics") + " Session statistics"),
		"",
		components.CreateSessionStats(summary, m.palette).Render(),
	}

	if top := components.TopDiseases(summary.DiseaseCounts, 5); len(top) > 0 {
		box := components.NewSummaryBox("Most detected", 0, m.palette)
		for _, line := range top {
			box.AddLine(line)
		}
		lines = append(lines, "", box.Render())
	}
	if trend := components.DailyTrend(summary.Daily, 30).Render(); trend != "" {
		lines = append(lines, "", m.styles.Muted.Render("Daily analyses ")+m.styles.Info.Render(trend))
	}
	return m.styles.Box.Width(m.contentWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *InteractiveModel) renderKeys() string {
	var keys [][2]string
	switch {
	case m.prompting:
		keys = [][2]string{{"enter", "select"}, {"esc", "cancel"}}
	case m.overlay != OverlayNone:
		keys = [][2]string{{"esc", "close"}, {"q", "quit"}}
	default:
		keys = m.panelKeys()
	}

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, m.styles.Key.Render(k[0])+" "+m.styles.Muted.Render(k[1]))
	}
	return strings.Join(parts, m.styles.Muted.Render(" • "))
}

func (m *InteractiveModel) panelKeys() [][2]string {
	switch m.state.Panel {
	case controller.PanelLoading:
		return [][2]string{{"q", "quit"}}
	case controller.PanelResults:
		return [][2]string{{"n", "new analysis"}, {"d", "download report"}, {"t", "theme"}, {"?", "help"}, {"q", "quit"}}
	case controller.PanelError:
		return [][2]string{{"r", "retry"}, {"o", "choose file"}, {"c", "clear"}, {"q", "quit"}}
	}

	keys := [][2]string{{"o", "choose file"}}
	if m.state.AnalyzeEnabled {
		keys = append(keys, [2]string{"a", "analyze"}, [2]string{"c", "clear"})
	}
	keys = append(keys, [2]string{"t", "theme"}, [2]string{"?", "help"})
	if m.history != nil {
		keys = append(keys, [2]string{"s", "stats"})
	}
	return append(keys, [2]string{"q", "quit"})
}

func (m *InteractiveModel) confidenceStyle(level diagnosis.ConfidenceLevel) lipgloss.Style {
	switch level {
	case diagnosis.ConfidenceHigh:
		return m.styles.Success
	case diagnosis.ConfidenceMedium:
		return m.styles.Warning
	default:
		return m.styles.Error
	}
}

func (m *InteractiveModel) severityBadge(severity diagnosis.Severity, text string) string {
	color := m.styles.Theme.Info
	switch severity {
	case diagnosis.SeverityNone:
		color = m.styles.Theme.Success
	case diagnosis.SeverityModerate:
		color = m.styles.Theme.Warning
	case diagnosis.SeveritySevere:
		color = m.styles.Theme.Error
	}
	return m.styles.Badge.Foreground(color).Render("Severity: " + text)
}

// cleanPastedPath strips the quoting terminals add around dropped paths
func cleanPastedPath(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		s = s[1 : len(s)-1]
	}
	s = strings.TrimPrefix(s, "file://")
	return strings.ReplaceAll(s, `\ `, " ")
}

// InteractiveRun runs the upload form until the user quits
func InteractiveRun(ctx context.Context, opts Options, binding *Binding) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := NewInteractiveModel(ctx, opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if binding != nil {
		binding.attach(p)
	}
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
