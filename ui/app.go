package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/probekit/devcheck/engine"
	"github.com/probekit/devcheck/model"
)

// reportMsg carries a finished probe run.
type reportMsg struct {
	rep *model.Report
}

// revealMsg fires when the minimum reveal delay has elapsed.
type revealMsg time.Time

// Model is the bubbletea model. It shows a holding screen until the
// reveal gate opens, then the capability cards. A refresh reuses the
// same engine but never rearms the gate.
type Model struct {
	engine  *engine.Engine
	gate    *engine.Gate
	delay   time.Duration
	keys    KeyMap
	spinner spinner.Model

	width  int
	height int

	report   *model.Report
	running  bool
	runs     int
	scroll   int
	showHelp bool
}

// NewModel creates the TUI model. delay is how long the holding screen
// stays up at minimum, independent of how fast probing finishes.
func NewModel(eng *engine.Engine, delay time.Duration) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinStyle

	return Model{
		engine:  eng,
		gate:    engine.NewGate(),
		delay:   delay,
		keys:    DefaultKeyMap(),
		spinner: sp,
		running: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, runProbes(m.engine), revealAfter(m.delay))
}

func runProbes(eng *engine.Engine) tea.Cmd {
	return func() tea.Msg {
		return reportMsg{rep: eng.Run(context.Background())}
	}
}

func revealAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return revealMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case reportMsg:
		m.report = msg.rep
		m.running = false
		m.runs++
		m.gate.RunCompleted()
		return m, nil

	case revealMsg:
		m.gate.DelayElapsed()
		return m, nil

	case spinner.TickMsg:
		if m.running || !m.gate.Ready() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp

	case key.Matches(msg, m.keys.Refresh):
		// One run at a time; a second run would interleave reads.
		if m.running {
			return m, nil
		}
		m.running = true
		return m, tea.Batch(m.spinner.Tick, runProbes(m.engine))

	case key.Matches(msg, m.keys.Up):
		if m.scroll > 0 {
			m.scroll--
		}

	case key.Matches(msg, m.keys.Down):
		if m.scroll < m.maxScroll() {
			m.scroll++
		}

	case key.Matches(msg, m.keys.Top):
		m.scroll = 0

	case key.Matches(msg, m.keys.Bottom):
		m.scroll = m.maxScroll()
	}
	return m, nil
}

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if !m.gate.Ready() {
		return m.renderWaiting()
	}
	if m.showHelp {
		return m.renderHelp()
	}

	content := m.renderHeader() + RenderReport(m.report, m.width)
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")

	scroll := m.scroll
	if max := len(lines) - m.viewLines(); scroll > max {
		scroll = max
	}
	if scroll < 0 {
		scroll = 0
	}
	lines = lines[scroll:]
	if n := m.viewLines(); n > 0 && len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n") + "\n" + m.renderStatusBar()
}

// viewLines is the number of content lines the viewport fits, leaving
// room for the status bar.
func (m Model) viewLines() int {
	n := m.height - 2
	if n < 1 {
		n = 1
	}
	return n
}

// maxScroll recounts the rendered content so scrolling stops at the
// last full viewport rather than running past the content.
func (m Model) maxScroll() int {
	if m.report == nil {
		return 0
	}
	content := m.renderHeader() + RenderReport(m.report, m.width)
	n := len(strings.Split(strings.TrimRight(content, "\n"), "\n")) - m.viewLines()
	if n < 0 {
		n = 0
	}
	return n
}

// renderWaiting is the holding screen shown until the gate opens. No
// partial results appear here even when probing has already finished.
func (m Model) renderWaiting() string {
	status := "probing host capabilities..."
	if m.report != nil {
		status = "finishing up..."
	}

	var sb strings.Builder
	sb.WriteString("\n\n")
	sb.WriteString("   " + m.spinner.View() + titleStyle.Render("devcheck") + "\n\n")
	sb.WriteString("   " + dimStyle.Render(status) + "\n\n")
	sb.WriteString("   " + helpStyle.Render("q quit") + "\n")
	return sb.String()
}

func (m Model) renderHeader() string {
	line := titleStyle.Render(" devcheck ") + dimStyle.Render("host capability report")
	if m.report != nil {
		info := fmt.Sprintf("run %d at %s in %dms",
			m.runs, m.report.Taken.Format("15:04:05"), m.report.ElapsedMs)
		line += "  " + helpStyle.Render(info)
	}
	return line + "\n"
}

func (m Model) renderStatusBar() string {
	if m.running {
		return " " + m.spinner.View() + helpStyle.Render("refreshing...")
	}
	hints := []key.Binding{m.keys.Refresh, m.keys.Up, m.keys.Down, m.keys.Help, m.keys.Quit}
	parts := make([]string, len(hints))
	for i, b := range hints {
		parts[i] = b.Help().Key + " " + b.Help().Desc
	}
	return " " + helpStyle.Render(strings.Join(parts, "   "))
}

func (m Model) renderHelp() string {
	bindings := []key.Binding{
		m.keys.Refresh, m.keys.Up, m.keys.Down,
		m.keys.Top, m.keys.Bottom, m.keys.Help, m.keys.Quit,
	}

	var sb strings.Builder
	sb.WriteString("\n " + titleStyle.Render("KEYS") + "\n\n")
	for _, b := range bindings {
		h := b.Help()
		sb.WriteString(fmt.Sprintf("   %s  %s\n",
			styledPad(valueStyle.Render(h.Key), 8), dimStyle.Render(h.Desc)))
	}
	sb.WriteString("\n " + helpStyle.Render("? closes help") + "\n")
	return sb.String()
}
