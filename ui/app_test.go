package ui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/probekit/devcheck/engine"
	"github.com/probekit/devcheck/model"
	"github.com/probekit/devcheck/probe"
)

type stubProbe struct {
	name string
}

func (s stubProbe) Name() string  { return s.name }
func (s stubProbe) Title() string { return strings.ToUpper(s.name[:1]) + s.name[1:] }

func (s stubProbe) Probe(ctx context.Context) model.Group {
	g := model.Group{Name: s.name, Title: s.Title()}
	g.Add("state", model.Text("ok"))
	return g
}

func newTestModel() Model {
	reg := &probe.Registry{}
	reg.Add(stubProbe{name: "widgets"})
	eng := engine.New(reg, time.Second, zerolog.Nop())
	return NewModel(eng, 7*time.Second)
}

func press(m Model, r rune) (Model, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	return next.(Model), cmd
}

func testReport() *model.Report {
	g := model.Group{Name: "widgets", Title: "Widgets"}
	g.Add("state", model.Text("ok"))
	return &model.Report{Taken: time.Now(), Groups: []model.Group{g}}
}

func TestViewBeforeSize(t *testing.T) {
	m := newTestModel()
	if got := m.View(); got != "Loading..." {
		t.Errorf("View() = %q before first WindowSizeMsg", got)
	}
}

func TestHoldingScreenUntilGateOpens(t *testing.T) {
	m := newTestModel()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = next.(Model)

	if out := m.View(); !strings.Contains(out, "probing host capabilities") {
		t.Errorf("waiting view = %q, want probing status", out)
	}

	// Fast run: results arrive while the delay is still pending. The
	// holding screen stays, but must not leak any card content.
	next, _ = m.Update(reportMsg{rep: testReport()})
	m = next.(Model)

	out := m.View()
	if !strings.Contains(out, "finishing up") {
		t.Errorf("waiting view after run = %q, want finishing status", out)
	}
	if strings.Contains(out, "WIDGETS") || strings.Contains(out, "state") {
		t.Errorf("holding screen leaked results:\n%s", out)
	}

	// Delay elapses second and opens the gate.
	next, _ = m.Update(revealMsg(time.Now()))
	m = next.(Model)

	out = m.View()
	if !strings.Contains(out, "WIDGETS") {
		t.Errorf("ready view missing cards:\n%s", out)
	}
}

func TestSlowRunOpensGateOnArrival(t *testing.T) {
	m := newTestModel()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = next.(Model)

	// Slow run: the delay fires first, results are still outstanding.
	next, _ = m.Update(revealMsg(time.Now()))
	m = next.(Model)

	if out := m.View(); !strings.Contains(out, "probing host capabilities") {
		t.Errorf("waiting view = %q, results not in yet", out)
	}

	next, _ = m.Update(reportMsg{rep: testReport()})
	m = next.(Model)

	if out := m.View(); !strings.Contains(out, "WIDGETS") {
		t.Errorf("ready view missing cards:\n%s", out)
	}
}

func openGate(t *testing.T, m Model) Model {
	t.Helper()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = next.(Model)
	next, _ = m.Update(reportMsg{rep: testReport()})
	m = next.(Model)
	next, _ = m.Update(revealMsg(time.Now()))
	return next.(Model)
}

func TestRefreshDisabledWhileRunning(t *testing.T) {
	m := openGate(t, newTestModel())

	m, cmd := press(m, 'r')
	if cmd == nil {
		t.Fatal("refresh on idle model returned no command")
	}
	if !m.running {
		t.Fatal("refresh did not mark the model running")
	}

	// Second press while the run is in flight is ignored.
	m, cmd = press(m, 'r')
	if cmd != nil {
		t.Error("refresh while running returned a command")
	}

	// The finished run re-enables refresh and keeps the gate open.
	next, _ := m.Update(reportMsg{rep: testReport()})
	m = next.(Model)
	if m.running {
		t.Error("model still running after report arrived")
	}
	if !strings.Contains(m.View(), "WIDGETS") {
		t.Error("refreshed results not visible immediately")
	}
}

func TestQuitKey(t *testing.T) {
	m := openGate(t, newTestModel())
	_, cmd := press(m, 'q')
	if cmd == nil {
		t.Fatal("quit returned no command")
	}
	if msg := cmd(); msg != (tea.QuitMsg{}) {
		t.Errorf("quit command produced %#v, want tea.QuitMsg", msg)
	}
}

func TestHelpToggle(t *testing.T) {
	m := openGate(t, newTestModel())

	m, _ = press(m, '?')
	if out := m.View(); !strings.Contains(out, "KEYS") {
		t.Errorf("help view = %q", out)
	}
	m, _ = press(m, '?')
	if out := m.View(); strings.Contains(out, "KEYS") {
		t.Error("help still open after second toggle")
	}
}

func TestScrollClamps(t *testing.T) {
	m := openGate(t, newTestModel())

	m, _ = press(m, 'k')
	if m.scroll != 0 {
		t.Errorf("scroll above top = %d, want 0", m.scroll)
	}

	m, _ = press(m, 'G')
	bottom := m.scroll
	m, _ = press(m, 'j')
	if m.scroll != bottom {
		t.Errorf("scroll past bottom: %d > %d", m.scroll, bottom)
	}

	m, _ = press(m, 'g')
	if m.scroll != 0 {
		t.Errorf("scroll after g = %d, want 0", m.scroll)
	}
}
